// Package surface resolves a template to its entry surface and manages the
// mount lifecycle. Surfaces are created through a registry of factories so
// hosts can swap implementations; the dispatcher guarantees that switching
// templates discards the previous surface's working state entirely.
package surface

import (
	"strings"

	"github.com/goliatone/go-orderentry/pkg/lineitem"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// Kind names an entry-surface implementation.
type Kind string

const (
	KindGeneral Kind = "general"
	KindGrid    Kind = "grid"
)

// Legacy type codes still present in stored templates. The numeric codes and
// the "form"/"sheet" aliases predate the canonical general/grid
// discriminator.
const (
	legacyGeneralNumeric = "1"
	legacyGeneralForm    = "form"
	legacyGridNumeric    = "2"
	legacyGridSheet      = "sheet"
)

// Resolve maps a template's type discriminator to a surface kind. It is a
// pure function: legacy aliases resolve to their modern kinds, and unknown
// codes degrade to general rather than failing, so a template with a mangled
// type still mounts something usable.
func Resolve(t template.Template) Kind {
	switch strings.ToLower(strings.TrimSpace(string(t.Type))) {
	case string(template.TypeGrid), legacyGridNumeric, legacyGridSheet:
		return KindGrid
	case string(template.TypeGeneral), legacyGeneralNumeric, legacyGeneralForm:
		return KindGeneral
	default:
		return KindGeneral
	}
}

// Surface is one mounted entry surface. Its working state lives for a single
// order-editing session: created fresh on mount, discarded on Close, never
// persisted as-is.
type Surface interface {
	// Kind reports which implementation is mounted.
	Kind() Kind

	// LineItems normalizes the working state into canonical line items.
	// An empty result is reported as lineitem.ErrNoLineItems.
	LineItems() ([]lineitem.OrderLineItem, error)

	// CustomFields returns the order-metadata bag. Empty for grid surfaces.
	CustomFields() map[string]any

	// Close discards the working state, cancelling any pending derived
	// recomputation rather than flushing it.
	Close() error
}

// Factory creates a surface for a resolved template.
type Factory func(t template.Template) (Surface, error)
