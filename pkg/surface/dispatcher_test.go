package surface

import (
	"errors"
	"testing"

	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/pkg/grid"
	"github.com/goliatone/go-orderentry/pkg/lineitem"
	"github.com/goliatone/go-orderentry/pkg/template"
)

func gridTemplate() template.Template {
	cfg := template.DefaultGridConfig()
	return template.Template{ID: "t-grid", Name: "Items", Type: template.TypeGrid, GridConfig: &cfg, IsActive: true}
}

func generalTemplate() template.Template {
	return template.Template{
		ID:   "t-general",
		Name: "Header",
		Type: template.TypeGeneral,
		Fields: []template.TemplateField{
			{FieldName: "projectName", Label: "Project", FieldType: template.FieldTypeText},
		},
		IsActive: true,
	}
}

func testDispatcher() *Dispatcher {
	return NewDispatcher(WithRegistry(DefaultRegistry(
		grid.WithLogger(logging.Nop()), grid.WithRecomputeDelay(0))))
}

func TestResolveLegacyAliases(t *testing.T) {
	cases := map[template.Type]Kind{
		template.TypeGeneral: KindGeneral,
		template.TypeGrid:    KindGrid,
		"1":                  KindGeneral,
		"form":               KindGeneral,
		"2":                  KindGrid,
		"sheet":              KindGrid,
		"GRID":               KindGrid,
		"":                   KindGeneral,
		"mystery":            KindGeneral,
	}
	for code, want := range cases {
		if got := Resolve(template.Template{Type: code}); got != want {
			t.Fatalf("Resolve(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestMountSelectsSurfaceByType(t *testing.T) {
	d := testDispatcher()

	s, err := d.Mount(gridTemplate())
	if err != nil {
		t.Fatalf("Mount grid: %v", err)
	}
	if s.Kind() != KindGrid {
		t.Fatalf("kind = %q, want grid", s.Kind())
	}

	s, err = d.Mount(generalTemplate())
	if err != nil {
		t.Fatalf("Mount general: %v", err)
	}
	if s.Kind() != KindGeneral {
		t.Fatalf("kind = %q, want general", s.Kind())
	}
}

func TestTemplateSwitchDiscardsState(t *testing.T) {
	d := testDispatcher()

	s, err := d.Mount(gridTemplate())
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	gs := s.(*GridSurface)
	if err := gs.Engine().SetCell(0, template.KeyItemName, "Cement"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	// Switching templates closes the old engine and mounts fresh state.
	s2, err := d.Mount(gridTemplate())
	if err != nil {
		t.Fatalf("re-Mount: %v", err)
	}
	if err := gs.Engine().SetCell(1, template.KeyItemName, "stale"); !errors.Is(err, grid.ErrEngineClosed) {
		t.Fatalf("old engine still writable: %v", err)
	}
	if value, _ := s2.(*GridSurface).Engine().CellValue(0, template.KeyItemName); value != nil {
		t.Fatalf("state leaked across mounts: %v", value)
	}
}

func TestGridSurfaceLineItems(t *testing.T) {
	d := testDispatcher()
	s, err := d.Mount(gridTemplate())
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	engine := s.(*GridSurface).Engine()
	_ = engine.SetCell(0, template.KeyItemName, "Cement")
	_ = engine.SetCell(0, template.KeyQuantity, 5)
	_ = engine.SetCell(0, template.KeyUnitPrice, 1000)

	items, err := s.LineItems()
	if err != nil {
		t.Fatalf("LineItems: %v", err)
	}
	if len(items) != 1 || items[0].TotalAmount != 5000 {
		t.Fatalf("unexpected items: %+v", items)
	}
	if s.CustomFields() != nil {
		t.Fatalf("grid surface should have no custom fields")
	}
}

func TestGeneralSurfaceCustomFieldsAndItems(t *testing.T) {
	d := testDispatcher()
	s, err := d.Mount(generalTemplate())
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	gs := s.(*GeneralSurface)
	if err := gs.Form().SetValue("projectName", "Bridge"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	if _, err := s.LineItems(); !errors.Is(err, lineitem.ErrNoLineItems) {
		t.Fatalf("expected ErrNoLineItems with no item rows, got %v", err)
	}

	if got := s.CustomFields()["projectName"]; got != "Bridge" {
		t.Fatalf("custom fields = %v", s.CustomFields())
	}
}

func TestUnmountClearsCurrent(t *testing.T) {
	d := testDispatcher()
	if _, err := d.Mount(gridTemplate()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	d.Unmount()
	if _, mounted := d.Current(); mounted {
		t.Fatalf("surface still mounted after Unmount")
	}
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	factory := func(template.Template) (Surface, error) { return nil, nil }
	if err := r.Register(KindGrid, factory); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(KindGrid, factory); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if kinds := r.List(); len(kinds) != 1 || kinds[0] != KindGrid {
		t.Fatalf("List = %v", kinds)
	}
}
