// Package testsupport provides fixtures shared by package tests and by
// host applications writing integration tests against the entry engine.
package testsupport

import (
	"fmt"
	"testing"

	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/pkg/grid"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// CanonicalFieldsJSON is a flat field list in the canonical shape.
const CanonicalFieldsJSON = `[
  {"fieldName": "projectName", "label": "Project", "fieldType": "text", "required": true, "sortOrder": 0},
  {"fieldName": "orderDate", "label": "Order Date", "fieldType": "date", "sortOrder": 1},
  {"fieldName": "totalBudget", "label": "Budget", "fieldType": "number", "sortOrder": 2}
]`

// LegacySectionsJSON is a field payload in the legacy keyed-section
// layout that the normalizer flattens.
const LegacySectionsJSON = `{
  "basicInfo": {"projectName": "Project", "contractNo": "Contract No."},
  "schedule": {"orderDate": "Order Date"},
  "other": {"remark": "Remark"}
}`

// LegacyGridJSON wraps a grid config the way older clients persisted it.
const LegacyGridJSON = `{
  "handsontableConfig": {
    "colHeaders": ["Name", "Qty", "Price", "Amount"],
    "columns": [
      {"data": "itemName", "type": "text"},
      {"data": "quantity", "type": "numeric"},
      {"data": "unitPrice", "type": "numeric"},
      {"data": "amount", "type": "numeric", "readOnly": true, "formula": "quantity * unitPrice"}
    ],
    "rowsCount": 5
  }
}`

// GridTemplate returns a grid template backed by the default config.
func GridTemplate(id string) template.Template {
	cfg := template.DefaultGridConfig()
	return template.Template{
		ID:         id,
		Name:       "Purchase Order Items",
		Type:       template.TypeGrid,
		GridConfig: &cfg,
		IsActive:   true,
	}
}

// GeneralTemplate returns a general template with a small header field set.
func GeneralTemplate(id string) template.Template {
	return template.Template{
		ID:   id,
		Name: "Purchase Order Header",
		Type: template.TypeGeneral,
		Fields: []template.TemplateField{
			{FieldName: "projectName", Label: "Project", FieldType: template.FieldTypeText, Required: true, SortOrder: 0},
			{FieldName: "orderDate", Label: "Order Date", FieldType: template.FieldTypeDate, SortOrder: 1},
		},
		IsActive: true,
	}
}

// NewEngine builds a quiet, synchronous engine over the default grid
// config and closes it when the test finishes.
func NewEngine(t *testing.T) *grid.Engine {
	t.Helper()

	engine, err := grid.New(template.DefaultGridConfig(),
		grid.WithLogger(logging.Nop()), grid.WithRecomputeDelay(0))
	if err != nil {
		t.Fatalf("testsupport: new engine: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

// PopulatedEngine returns an engine seeded with n line items. Row i
// holds quantity i+1 at unit price 100, so the grand total is
// 100 * n * (n + 1) / 2.
func PopulatedEngine(t *testing.T, n int) *grid.Engine {
	t.Helper()

	engine := NewEngine(t)
	for i := 0; i < n; i++ {
		for key, value := range map[string]any{
			template.KeyItemName:  fmt.Sprintf("Item %d", i+1),
			template.KeyQuantity:  i + 1,
			template.KeyUnitPrice: 100,
		} {
			if err := engine.SetCell(i, key, value); err != nil {
				t.Fatalf("testsupport: seed row %d: %v", i, err)
			}
		}
	}
	return engine
}
