// Package normalize converts template configuration payloads, current or
// legacy, into the canonical shapes in pkg/template. Normalization is total:
// malformed or unrecognized payloads degrade to an empty field list or a
// minimal grid config with a logged warning, never an error, so a
// misconfigured template cannot block order entry.
package normalize

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// Option customises normalization behaviour.
type Option func(*config)

type config struct {
	logger logging.Logger
}

// WithLogger replaces the default klog-backed warning sink.
func WithLogger(logger logging.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func newConfig(options ...Option) config {
	cfg := config{logger: logging.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// legacySections is the fixed, enumerable set of section keys older template
// payloads grouped their fields under, in traversal order.
var legacySections = []struct {
	key   string
	label string
}{
	{"basicInfo", "Basic Info"},
	{"itemList", "Item List"},
	{"schedule", "Schedule"},
	{"delivery", "Delivery"},
	{"other", "Other"},
}

// numberHints are the field-name substrings that mark a legacy field as
// numeric.
var numberHints = []string{"amount", "price", "quantity", "count", "weight", "area"}

// Definition normalizes a raw template payload into the closed definition
// union, using the declared template type to pick the target shape.
func Definition(raw any, typ template.Type, options ...Option) template.Definition {
	if typ == template.TypeGrid {
		return template.GridDefinition(Grid(raw, options...))
	}
	return template.GeneralDefinition(Fields(raw, options...))
}

// Fields normalizes a raw payload into the canonical field list. Accepted
// shapes, in order of precedence:
//
//   - a map with a "fields" array: already canonical
//   - a bare array: treated as the field list
//   - a map with known legacy section keys: flattened into fields with
//     inferred types
//
// Anything else yields an empty list with a warning.
func Fields(raw any, options ...Option) []template.TemplateField {
	cfg := newConfig(options...)

	value, ok := decode(raw, cfg)
	if !ok {
		return nil
	}

	if items := toAnySlice(value); items != nil {
		return fieldList(items)
	}

	m := toAnyMap(value)
	if m == nil {
		cfg.logger.Warningf("normalize: unrecognized fields payload %T, using empty field list", value)
		return nil
	}

	if items := toAnySlice(m["fields"]); items != nil {
		return fieldList(items)
	}

	if fields := flattenLegacySections(m); fields != nil {
		return fields
	}

	cfg.logger.Warningf("normalize: fields payload has no recognizable shape, using empty field list")
	return nil
}

// Grid normalizes a raw payload into a canonical GridConfig. A nested
// handsontableConfig (or gridConfig) wrapper is unwrapped first; a map with a
// "columns" array is used directly. Unrecognized payloads fall back to the
// default procurement grid so the entry surface still mounts.
func Grid(raw any, options ...Option) template.GridConfig {
	cfg := newConfig(options...)

	value, ok := decode(raw, cfg)
	if !ok {
		return template.DefaultGridConfig()
	}

	m := toAnyMap(value)
	if m == nil {
		cfg.logger.Warningf("normalize: unrecognized grid payload %T, using default grid config", value)
		return template.DefaultGridConfig()
	}

	for _, wrapper := range []string{"handsontableConfig", "gridConfig", "config"} {
		if nested := toAnyMap(m[wrapper]); nested != nil {
			m = nested
			break
		}
	}

	columns := toAnySlice(m["columns"])
	if columns == nil {
		cfg.logger.Warningf("normalize: grid payload has no columns, using default grid config")
		return template.DefaultGridConfig()
	}

	out := template.GridConfig{}
	for _, rawCol := range columns {
		colMap := toAnyMap(rawCol)
		if colMap == nil {
			continue
		}
		col := gridColumn(colMap)
		out.Columns = append(out.Columns, col)
	}

	out.ColHeaders = toStringSlice(m["colHeaders"])
	if len(out.ColHeaders) != len(out.Columns) {
		// Headers drifted or were omitted; rebuild them from column titles so
		// the parallel-slices invariant holds.
		out.ColHeaders = make([]string, len(out.Columns))
		for i, col := range out.Columns {
			out.ColHeaders[i] = col.Title
		}
	}

	if rows, ok := readInt(m, "rowsCount", "rows"); ok && rows >= 0 {
		out.RowsCount = rows
	}
	out.Formulas = formulaMap(m["formulas"])
	out.ValidationRules = stringMap(m["validationRules"])
	out.CustomStyles = stringMap(m["customStyles"])
	if settings := toAnyMap(m["settings"]); settings != nil {
		out.Settings = settings
	}

	if err := out.Validate(); err != nil {
		cfg.logger.Warningf("normalize: grid payload invalid (%v), using default grid config", err)
		return template.DefaultGridConfig()
	}
	return out
}

// decode turns the raw input into map/slice form. Byte and string inputs are
// parsed as JSON; already-decoded values pass through.
func decode(raw any, cfg config) (any, bool) {
	switch typed := raw.(type) {
	case nil:
		cfg.logger.Warningf("normalize: nil template payload")
		return nil, false
	case []byte:
		return decodeJSON(typed, cfg)
	case json.RawMessage:
		return decodeJSON(typed, cfg)
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			cfg.logger.Warningf("normalize: empty template payload")
			return nil, false
		}
		return decodeJSON([]byte(trimmed), cfg)
	default:
		return raw, true
	}
}

func decodeJSON(data []byte, cfg config) (any, bool) {
	if len(data) == 0 {
		cfg.logger.Warningf("normalize: empty template payload")
		return nil, false
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		cfg.logger.Warningf("normalize: malformed template payload: %v", err)
		return nil, false
	}
	return value, true
}

func fieldList(items []any) []template.TemplateField {
	fields := make([]template.TemplateField, 0, len(items))
	for i, item := range items {
		m := toAnyMap(item)
		if m == nil {
			continue
		}
		field := template.TemplateField{
			ID:          readString(m, "id"),
			FieldName:   readString(m, "fieldName", "name", "key"),
			Label:       readString(m, "label", "title"),
			FieldType:   fieldType(readString(m, "fieldType", "type")),
			Placeholder: readString(m, "placeholder"),
			Required:    readBool(m, "required"),
			Options:     toStringSlice(m["options"]),
			SectionName: readString(m, "sectionName", "section"),
		}
		if field.FieldName == "" {
			continue
		}
		if order, ok := readInt(m, "sortOrder", "order"); ok {
			field.SortOrder = order
		} else {
			field.SortOrder = i
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// flattenLegacySections walks the known legacy section keys and lifts each
// key/value pair into a TemplateField. Keys inside a section are sorted so
// traversal order, and therefore SortOrder, is deterministic.
func flattenLegacySections(m map[string]any) []template.TemplateField {
	var fields []template.TemplateField
	order := 0
	for _, section := range legacySections {
		entries := toAnyMap(m[section.key])
		if entries == nil {
			continue
		}
		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			label, _ := toStringValue(entries[key])
			if label == "" {
				label = key
			}
			fields = append(fields, template.TemplateField{
				FieldName:   key,
				Label:       label,
				FieldType:   InferFieldType(key),
				SectionName: section.label,
				SortOrder:   order,
			})
			order++
		}
	}
	return fields
}

// InferFieldType guesses a field type from a legacy field name: names
// containing "date" become date fields, names containing a quantity-like hint
// become number fields, everything else is text.
func InferFieldType(fieldName string) template.FieldType {
	lower := strings.ToLower(fieldName)
	if strings.Contains(lower, "date") {
		return template.FieldTypeDate
	}
	for _, hint := range numberHints {
		if strings.Contains(lower, hint) {
			return template.FieldTypeNumber
		}
	}
	return template.FieldTypeText
}

func fieldType(raw string) template.FieldType {
	switch template.FieldType(strings.ToLower(strings.TrimSpace(raw))) {
	case template.FieldTypeNumber:
		return template.FieldTypeNumber
	case template.FieldTypeSelect:
		return template.FieldTypeSelect
	case template.FieldTypeDate:
		return template.FieldTypeDate
	case template.FieldTypeTextarea:
		return template.FieldTypeTextarea
	default:
		return template.FieldTypeText
	}
}

func columnType(raw string) template.ColumnType {
	switch template.ColumnType(strings.ToLower(strings.TrimSpace(raw))) {
	case template.ColumnTypeNumeric:
		return template.ColumnTypeNumeric
	case template.ColumnTypeDropdown:
		return template.ColumnTypeDropdown
	case template.ColumnTypeDate:
		return template.ColumnTypeDate
	case template.ColumnTypeCheckbox:
		return template.ColumnTypeCheckbox
	case template.ColumnTypeImage:
		return template.ColumnTypeImage
	default:
		return template.ColumnTypeText
	}
}

func gridColumn(m map[string]any) template.GridColumn {
	col := template.GridColumn{
		DataKey:  readString(m, "dataKey", "data", "key"),
		Title:    readString(m, "title", "label"),
		Type:     columnType(readString(m, "type")),
		ReadOnly: readBool(m, "readOnly"),
		Source:   toStringSlice(m["source"]),
		Formula:  readString(m, "formula"),
	}
	if width, ok := readInt(m, "width"); ok {
		col.Width = width
	}
	return col
}

func formulaMap(raw any) map[int]string {
	entries := toAnyMap(raw)
	if entries == nil {
		return nil
	}
	out := make(map[int]string, len(entries))
	for key, value := range entries {
		index, ok := toIntValue(key)
		if !ok {
			continue
		}
		formula, ok := toStringValue(value)
		if !ok || formula == "" {
			continue
		}
		out[index] = formula
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func stringMap(raw any) map[string]string {
	entries := toAnyMap(raw)
	if entries == nil {
		return nil
	}
	out := make(map[string]string, len(entries))
	for key, value := range entries {
		if str, ok := toStringValue(value); ok {
			out[key] = str
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
