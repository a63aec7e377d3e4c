// Package orderentry re-exports the schema-driven order entry engine:
// template normalization, surface dispatch, the structured grid engine,
// and line-item extraction. Host applications that only need the common
// flow can depend on this package alone.
package orderentry

import (
	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/internal/normalize"
	"github.com/goliatone/go-orderentry/pkg/grid"
	"github.com/goliatone/go-orderentry/pkg/lineitem"
	"github.com/goliatone/go-orderentry/pkg/surface"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// Template is the canonical entry template.
type Template = template.Template

// TemplateField describes one input on a general surface.
type TemplateField = template.TemplateField

// GridConfig is the canonical grid template payload.
type GridConfig = template.GridConfig

// GridColumn describes one grid column.
type GridColumn = template.GridColumn

// OrderLineItem is the normalized wire shape for order submission.
type OrderLineItem = lineitem.OrderLineItem

// Surface is a mounted entry surface, either a grid or a general form.
type Surface = surface.Surface

// Dispatcher mounts the right surface for a template's type.
type Dispatcher = surface.Dispatcher

// Logger is the minimal logging contract used across the module.
type Logger = logging.Logger

// DefaultGridConfig returns the standard procurement line-item grid.
func DefaultGridConfig() GridConfig {
	return template.DefaultGridConfig()
}

// NewDispatcher builds a dispatcher over the built-in surface registry.
// Grid options are applied to every grid surface the dispatcher mounts.
func NewDispatcher(gridOptions ...grid.Option) *Dispatcher {
	return surface.NewDispatcher(surface.WithRegistry(surface.DefaultRegistry(gridOptions...)))
}

// NewGridEngine builds a standalone grid engine from a grid config.
func NewGridEngine(cfg GridConfig, options ...grid.Option) (*grid.Engine, error) {
	return grid.New(cfg, options...)
}

// NormalizeFields coerces any historical fields payload, raw JSON or
// decoded, into the canonical flat field list.
func NormalizeFields(raw any) []TemplateField {
	return normalize.Fields(raw)
}

// NormalizeGrid coerces any historical grid payload into a valid canonical
// GridConfig, falling back to DefaultGridConfig on unusable input.
func NormalizeGrid(raw any) GridConfig {
	return normalize.Grid(raw)
}

// NormalizeDefinition normalizes a fields payload according to the
// template type, yielding either a field list or a grid config.
func NormalizeDefinition(raw any, typ template.Type) template.Definition {
	return normalize.Definition(raw, typ)
}

// LineItems extracts validated line items from any mounted surface.
func LineItems(s Surface) ([]OrderLineItem, error) {
	return s.LineItems()
}
