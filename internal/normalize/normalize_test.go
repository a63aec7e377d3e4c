package normalize

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/pkg/template"
)

func TestFieldsCanonicalPayload(t *testing.T) {
	payload := []byte(`{
		"fields": [
			{"fieldName": "projectName", "label": "Project", "fieldType": "text", "required": true, "sortOrder": 0},
			{"fieldName": "orderDate", "label": "Order Date", "fieldType": "date", "sortOrder": 1}
		]
	}`)

	fields := Fields(payload, WithLogger(logging.Nop()))
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].FieldName != "projectName" || !fields[0].Required {
		t.Fatalf("first field not preserved: %+v", fields[0])
	}
	if fields[1].FieldType != template.FieldTypeDate {
		t.Fatalf("expected date field, got %q", fields[1].FieldType)
	}
}

func TestFieldsBareArrayIsCanonical(t *testing.T) {
	payload := []byte(`[
		{"fieldName": "vendor", "label": "Vendor", "fieldType": "select", "options": ["A", "B"]},
		{"fieldName": "totalAmount", "label": "Total", "fieldType": "number"}
	]`)

	fields := Fields(payload, WithLogger(logging.Nop()))
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if diff := cmp.Diff([]string{"A", "B"}, fields[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if fields[1].SortOrder != 1 {
		t.Fatalf("expected traversal-order sort order 1, got %d", fields[1].SortOrder)
	}
}

func TestFieldsLegacySectionsFlattened(t *testing.T) {
	payload := []byte(`{
		"basicInfo": {"projectName": "Project", "contractAmount": "Contract Amount"},
		"schedule": {"deliveryDate": "Delivery Date"}
	}`)

	fields := Fields(payload, WithLogger(logging.Nop()))
	if len(fields) != 3 {
		t.Fatalf("expected 3 flattened fields, got %d", len(fields))
	}

	byName := make(map[string]template.TemplateField, len(fields))
	for _, field := range fields {
		byName[field.FieldName] = field
	}

	if got := byName["contractAmount"]; got.FieldType != template.FieldTypeNumber || got.SectionName != "Basic Info" {
		t.Fatalf("contractAmount inferred wrong: %+v", got)
	}
	if got := byName["deliveryDate"]; got.FieldType != template.FieldTypeDate || got.SectionName != "Schedule" {
		t.Fatalf("deliveryDate inferred wrong: %+v", got)
	}
	if got := byName["projectName"]; got.FieldType != template.FieldTypeText {
		t.Fatalf("projectName inferred wrong: %+v", got)
	}
}

// Normalizing a legacy nested payload and a pre-flattened payload describing
// the same fields must agree up to ordering.
func TestLegacyRoundTripMatchesFlat(t *testing.T) {
	legacy := []byte(`{
		"basicInfo": {"projectName": "Project", "orderDate": "Order Date"},
		"other": {"remark": "Remark"}
	}`)
	flat := []byte(`{"fields": [
		{"fieldName": "orderDate", "label": "Order Date", "fieldType": "date", "sectionName": "Basic Info"},
		{"fieldName": "projectName", "label": "Project", "fieldType": "text", "sectionName": "Basic Info"},
		{"fieldName": "remark", "label": "Remark", "fieldType": "text", "sectionName": "Other"}
	]}`)

	normalize := func(payload []byte) []template.TemplateField {
		fields := Fields(payload, WithLogger(logging.Nop()))
		for i := range fields {
			fields[i].SortOrder = 0
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].FieldName < fields[j].FieldName })
		return fields
	}

	if diff := cmp.Diff(normalize(flat), normalize(legacy)); diff != "" {
		t.Fatalf("legacy and flat payloads disagree (-flat +legacy):\n%s", diff)
	}
}

func TestFieldsMalformedPayloadDegrades(t *testing.T) {
	for _, payload := range [][]byte{
		[]byte(`{"fields": `),
		[]byte(``),
		[]byte(`42`),
		[]byte(`{"unknownSection": {"a": "b"}}`),
	} {
		if fields := Fields(payload, WithLogger(logging.Nop())); len(fields) != 0 {
			t.Fatalf("payload %q: expected empty field list, got %d fields", payload, len(fields))
		}
	}
}

func TestGridUnwrapsHandsontableConfig(t *testing.T) {
	payload := []byte(`{
		"handsontableConfig": {
			"colHeaders": ["Item", "Qty", "Amount"],
			"columns": [
				{"data": "itemName", "title": "Item", "type": "text"},
				{"data": "quantity", "title": "Qty", "type": "numeric"},
				{"data": "amount", "title": "Amount", "type": "numeric", "readOnly": true, "formula": "quantity * unitPrice"}
			],
			"rowsCount": 5
		}
	}`)

	cfg := Grid(payload, WithLogger(logging.Nop()))
	if len(cfg.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cfg.Columns))
	}
	if cfg.RowsCount != 5 {
		t.Fatalf("expected 5 rows, got %d", cfg.RowsCount)
	}
	if cfg.AmountColumn() != 2 {
		t.Fatalf("expected amount column 2, got %d", cfg.AmountColumn())
	}
	if got := cfg.Columns[0].DataKey; got != "itemName" {
		t.Fatalf("data alias not honoured, got %q", got)
	}
}

func TestGridDirectColumnsAndHeaderRebuild(t *testing.T) {
	payload := []byte(`{
		"columns": [
			{"dataKey": "itemName", "title": "Item"},
			{"dataKey": "quantity", "title": "Qty", "type": "numeric"}
		],
		"colHeaders": ["Only One"]
	}`)

	cfg := Grid(payload, WithLogger(logging.Nop()))
	if len(cfg.ColHeaders) != len(cfg.Columns) {
		t.Fatalf("headers not parallel to columns: %d vs %d", len(cfg.ColHeaders), len(cfg.Columns))
	}
	if diff := cmp.Diff([]string{"Item", "Qty"}, cfg.ColHeaders); diff != "" {
		t.Fatalf("rebuilt headers mismatch (-want +got):\n%s", diff)
	}
}

func TestGridMalformedPayloadFallsBack(t *testing.T) {
	for _, payload := range [][]byte{
		[]byte(`not json`),
		[]byte(`[]`),
		[]byte(`{"rowsCount": 3}`),
	} {
		cfg := Grid(payload, WithLogger(logging.Nop()))
		if err := cfg.Validate(); err != nil {
			t.Fatalf("payload %q: fallback config invalid: %v", payload, err)
		}
		if len(cfg.Columns) == 0 {
			t.Fatalf("payload %q: fallback config has no columns", payload)
		}
	}
}

func TestGridFormulaMapCoercesStringKeys(t *testing.T) {
	payload := []byte(`{
		"columns": [
			{"dataKey": "quantity", "title": "Qty", "type": "numeric"},
			{"dataKey": "amount", "title": "Amount", "type": "numeric", "readOnly": true, "formula": "quantity * unitPrice"}
		],
		"formulas": {"1": "quantity * unitPrice"}
	}`)

	cfg := Grid(payload, WithLogger(logging.Nop()))
	if got := cfg.Formulas[1]; got != "quantity * unitPrice" {
		t.Fatalf("formula key not coerced: %#v", cfg.Formulas)
	}
}

func TestInferFieldType(t *testing.T) {
	cases := map[string]template.FieldType{
		"deliveryDate":   template.FieldTypeDate,
		"contractAmount": template.FieldTypeNumber,
		"unitPrice":      template.FieldTypeNumber,
		"itemCount":      template.FieldTypeNumber,
		"grossWeight":    template.FieldTypeNumber,
		"floorArea":      template.FieldTypeNumber,
		"projectName":    template.FieldTypeText,
	}
	for name, want := range cases {
		if got := InferFieldType(name); got != want {
			t.Fatalf("InferFieldType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDefinitionPicksShapeFromType(t *testing.T) {
	grid := Definition([]byte(`{"columns": [{"dataKey": "itemName", "title": "Item"}]}`), template.TypeGrid, WithLogger(logging.Nop()))
	if grid.Kind() != template.TypeGrid {
		t.Fatalf("expected grid definition, got %q", grid.Kind())
	}

	general := Definition([]byte(`[{"fieldName": "vendor", "label": "Vendor"}]`), template.TypeGeneral, WithLogger(logging.Nop()))
	if general.Kind() != template.TypeGeneral {
		t.Fatalf("expected general definition, got %q", general.Kind())
	}
	if len(general.Fields()) != 1 {
		t.Fatalf("expected 1 field, got %d", len(general.Fields()))
	}
}
