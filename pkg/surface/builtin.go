package surface

import (
	"github.com/goliatone/go-orderentry/pkg/generalform"
	"github.com/goliatone/go-orderentry/pkg/grid"
	"github.com/goliatone/go-orderentry/pkg/lineitem"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// GridSurface adapts a grid engine to the Surface contract.
type GridSurface struct {
	engine *grid.Engine
	keys   lineitem.Keys
}

// NewGridSurface wraps an existing engine.
func NewGridSurface(engine *grid.Engine) *GridSurface {
	return &GridSurface{engine: engine, keys: lineitem.DefaultKeys()}
}

// Engine exposes the underlying grid engine for cell-level interaction.
func (s *GridSurface) Engine() *grid.Engine { return s.engine }

func (s *GridSurface) Kind() Kind { return KindGrid }

func (s *GridSurface) LineItems() ([]lineitem.OrderLineItem, error) {
	return lineitem.FromGrid(s.engine, s.keys)
}

func (s *GridSurface) CustomFields() map[string]any { return nil }

func (s *GridSurface) Close() error { return s.engine.Close() }

// GeneralSurface adapts a general form to the Surface contract.
type GeneralSurface struct {
	form *generalform.Form
}

// NewGeneralSurface wraps an existing form.
func NewGeneralSurface(form *generalform.Form) *GeneralSurface {
	return &GeneralSurface{form: form}
}

// Form exposes the underlying form for field-level interaction.
func (s *GeneralSurface) Form() *generalform.Form { return s.form }

func (s *GeneralSurface) Kind() Kind { return KindGeneral }

func (s *GeneralSurface) LineItems() ([]lineitem.OrderLineItem, error) {
	return lineitem.FromItemRows(s.form.Items())
}

func (s *GeneralSurface) CustomFields() map[string]any { return s.form.Values() }

func (s *GeneralSurface) Close() error {
	s.form.Reset()
	return nil
}

// DefaultRegistry returns a registry with the built-in grid and general
// factories. Grid engine options apply to every grid surface it creates.
func DefaultRegistry(gridOptions ...grid.Option) *Registry {
	registry := NewRegistry()
	registry.MustRegister(KindGeneral, func(t template.Template) (Surface, error) {
		return NewGeneralSurface(generalform.New(t.Definition().Fields())), nil
	})
	registry.MustRegister(KindGrid, func(t template.Template) (Surface, error) {
		engine, err := grid.New(t.Definition().Grid(), gridOptions...)
		if err != nil {
			return nil, err
		}
		return NewGridSurface(engine), nil
	})
	return registry
}
