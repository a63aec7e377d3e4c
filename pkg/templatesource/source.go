// Package templatesource loads entry templates from backing stores. A
// Source hides where templates come from, an HTTP service, a directory of
// fixture files, or an embedded test set, so the dispatcher can stay
// agnostic about persistence.
package templatesource

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/internal/normalize"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// ErrNotFound is returned when a template id has no backing record.
var ErrNotFound = errors.New("templatesource: template not found")

// Source yields entry templates ready to mount. Implementations must
// return templates whose Fields and GridConfig are already normalized to
// the canonical shape.
type Source interface {
	// Active lists templates available for selection.
	Active(ctx context.Context) ([]template.Template, error)

	// Template fetches a single template by id. Returns ErrNotFound when
	// the id has no record.
	Template(ctx context.Context, id string) (template.Template, error)
}

// record is the wire shape shared by the HTTP and filesystem sources.
// FieldsConfig stays raw so the normalizer can absorb whatever legacy
// layout the store produced.
type record struct {
	ID           string          `json:"id" yaml:"id"`
	Name         string          `json:"name" yaml:"name"`
	Type         string          `json:"type" yaml:"type"`
	FieldsConfig json.RawMessage `json:"fieldsConfig" yaml:"-"`
	IsActive     *bool           `json:"isActive" yaml:"isActive"`
}

func (r record) toTemplate(log logging.Logger) template.Template {
	t := template.Template{
		ID:       r.ID,
		Name:     r.Name,
		Type:     template.Type(r.Type),
		IsActive: r.IsActive == nil || *r.IsActive,
	}

	def := normalize.Definition(r.FieldsConfig, t.Type, normalize.WithLogger(log))
	switch def.Kind() {
	case template.TypeGrid:
		grid := def.Grid()
		t.GridConfig = &grid
	default:
		t.Fields = def.Fields()
	}
	return t
}
