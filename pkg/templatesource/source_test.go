package templatesource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/pkg/template"
)

const templateListPayload = `[
  {
    "id": "tmpl-1",
    "name": "Purchase Order",
    "type": "grid",
    "isActive": true,
    "fieldsConfig": {"handsontableConfig": {"colHeaders": ["Name", "Qty"], "columns": [{"data": "itemName", "type": "text"}, {"data": "quantity", "type": "numeric"}], "rowsCount": 3}}
  },
  {
    "id": "tmpl-2",
    "name": "Retired",
    "type": "general",
    "isActive": false,
    "fieldsConfig": []
  }
]`

const templateOnePayload = `{
  "id": "tmpl-3",
  "name": "Header Form",
  "type": "1",
  "fieldsConfig": [{"fieldName": "projectName", "label": "Project", "required": true}]
}`

func TestHTTPSourceActive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/templates" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(templateListPayload))
	}))
	defer srv.Close()

	source, err := NewHTTPSource(srv.URL, WithHTTPLogger(logging.Nop()))
	if err != nil {
		t.Fatalf("NewHTTPSource: %v", err)
	}

	templates, err := source.Active(context.Background())
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("expected inactive template filtered, got %d templates", len(templates))
	}

	got := templates[0]
	if got.ID != "tmpl-1" || got.GridConfig == nil {
		t.Fatalf("unexpected template: %+v", got)
	}
	if got.GridConfig.RowsCount != 3 || len(got.GridConfig.Columns) != 2 {
		t.Fatalf("grid config not normalized: %+v", got.GridConfig)
	}
}

func TestHTTPSourceTemplateLegacyAlias(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/templates/tmpl-3" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(templateOnePayload))
	}))
	defer srv.Close()

	source, err := NewHTTPSource(srv.URL, WithHTTPLogger(logging.Nop()))
	if err != nil {
		t.Fatalf("NewHTTPSource: %v", err)
	}

	got, err := source.Template(context.Background(), "tmpl-3")
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	if got.Type != template.Type("1") {
		t.Fatalf("type rewritten unexpectedly: %q", got.Type)
	}
	if len(got.Fields) != 1 || got.Fields[0].FieldName != "projectName" || !got.Fields[0].Required {
		t.Fatalf("fields not normalized: %+v", got.Fields)
	}
	if !got.IsActive {
		t.Fatalf("missing isActive should default to active")
	}
}

func TestHTTPSourceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	source, err := NewHTTPSource(srv.URL, WithHTTPLogger(logging.Nop()))
	if err != nil {
		t.Fatalf("NewHTTPSource: %v", err)
	}

	if _, err := source.Template(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHTTPSourceRequiresBase(t *testing.T) {
	if _, err := NewHTTPSource("  "); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}

func TestFSSourceJSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/order.json": {Data: []byte(`{
			"name": "Order Grid",
			"type": "grid",
			"fieldsConfig": {"colHeaders": ["Name"], "columns": [{"data": "itemName", "type": "text"}], "rowsCount": 2}
		}`)},
		"templates/header.yaml": {Data: []byte(
			"name: Header\n" +
				"type: form\n" +
				"fieldsConfig:\n" +
				"  - fieldName: deliveryDate\n" +
				"    label: Delivery Date\n" +
				"    fieldType: date\n")},
		"templates/notes.txt": {Data: []byte("ignored")},
	}

	source := NewFSSource(fsys, WithFSRoot("templates"), WithFSLogger(logging.Nop()))

	templates, err := source.Active(context.Background())
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(templates))
	}

	header, err := source.Template(context.Background(), "header")
	if err != nil {
		t.Fatalf("Template header: %v", err)
	}
	if header.ID != "header" || len(header.Fields) != 1 {
		t.Fatalf("yaml template not loaded: %+v", header)
	}
	if header.Fields[0].FieldType != template.FieldTypeDate {
		t.Fatalf("field type not inferred: %q", header.Fields[0].FieldType)
	}

	order, err := source.Template(context.Background(), "order")
	if err != nil {
		t.Fatalf("Template order: %v", err)
	}
	if order.GridConfig == nil || order.GridConfig.RowsCount != 2 {
		t.Fatalf("json grid template not normalized: %+v", order.GridConfig)
	}
}

func TestFSSourceNotFound(t *testing.T) {
	source := NewFSSource(fstest.MapFS{}, WithFSLogger(logging.Nop()))
	if _, err := source.Template(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
