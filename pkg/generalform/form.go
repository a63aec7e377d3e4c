// Package generalform implements the free-form entry surface: a field-value
// map driven by a template's field list, plus the explicit item-row editor
// general-form orders use for their line items. General-form templates model
// order metadata, not tabular items, so the field map becomes a single
// custom-fields bag on the order rather than discrete line items.
package generalform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-orderentry/pkg/template"
)

// ItemRow is one explicit line-item entry on a general-form order.
type ItemRow struct {
	ItemName      string  `json:"itemName"`
	Specification string  `json:"specification,omitempty"`
	Unit          string  `json:"unit,omitempty"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	Notes         string  `json:"notes,omitempty"`
}

// Validate enforces the item-row entry rules: a name, a non-zero quantity,
// and a unit price greater than zero.
func (r ItemRow) Validate() error {
	if strings.TrimSpace(r.ItemName) == "" {
		return fmt.Errorf("generalform: item name is required")
	}
	if r.Quantity == 0 {
		return fmt.Errorf("generalform: item %q quantity must be non-zero", r.ItemName)
	}
	if r.UnitPrice <= 0 {
		return fmt.Errorf("generalform: item %q unit price must be greater than zero", r.ItemName)
	}
	return nil
}

// Section groups a template's fields for rendering, ordered by SortOrder.
type Section struct {
	Name   string
	Fields []template.TemplateField
}

// Form is the working state of one general-form entry session. It is created
// fresh per order-editing session and discarded after normalization.
type Form struct {
	fields []template.TemplateField
	byName map[string]template.TemplateField
	values map[string]any
	items  []ItemRow
}

// New creates a form for the given field list.
func New(fields []template.TemplateField) *Form {
	f := &Form{
		fields: append([]template.TemplateField(nil), fields...),
		byName: make(map[string]template.TemplateField, len(fields)),
		values: make(map[string]any),
	}
	for _, field := range f.fields {
		f.byName[field.FieldName] = field
	}
	return f
}

// SetValue records a field value. Unknown field names are rejected so typos
// cannot silently vanish into the custom-fields bag.
func (f *Form) SetValue(fieldName string, value any) error {
	if _, ok := f.byName[fieldName]; !ok {
		return fmt.Errorf("generalform: field %q is not declared by the template", fieldName)
	}
	f.values[fieldName] = value
	return nil
}

// Value returns the recorded value for a field.
func (f *Form) Value(fieldName string) (any, bool) {
	value, ok := f.values[fieldName]
	return value, ok
}

// Values returns a copy of the field-value map, the order's custom-fields
// bag.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// AddItem validates and appends an explicit item row.
func (f *Form) AddItem(item ItemRow) error {
	if err := item.Validate(); err != nil {
		return err
	}
	f.items = append(f.items, item)
	return nil
}

// RemoveItem drops the item row at index. Out-of-range indexes are ignored.
func (f *Form) RemoveItem(index int) {
	if index < 0 || index >= len(f.items) {
		return
	}
	f.items = append(f.items[:index], f.items[index+1:]...)
}

// Items returns a copy of the entered item rows.
func (f *Form) Items() []ItemRow {
	return append([]ItemRow(nil), f.items...)
}

// MissingRequired lists required fields that have no value or a blank one.
func (f *Form) MissingRequired() []string {
	var missing []string
	for _, field := range f.fields {
		if !field.Required {
			continue
		}
		value, ok := f.values[field.FieldName]
		if !ok || isBlank(value) {
			missing = append(missing, field.FieldName)
		}
	}
	return missing
}

// Sections groups the template's fields by section name, fields sorted by
// SortOrder within each section, sections ordered by first appearance.
func (f *Form) Sections() []Section {
	index := make(map[string]int)
	var sections []Section
	for _, field := range f.fields {
		i, ok := index[field.SectionName]
		if !ok {
			i = len(sections)
			index[field.SectionName] = i
			sections = append(sections, Section{Name: field.SectionName})
		}
		sections[i].Fields = append(sections[i].Fields, field)
	}
	for i := range sections {
		fields := sections[i].Fields
		sort.SliceStable(fields, func(a, b int) bool { return fields[a].SortOrder < fields[b].SortOrder })
	}
	return sections
}

// Reset discards all entered values and item rows.
func (f *Form) Reset() {
	f.values = make(map[string]any)
	f.items = nil
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}
	if str, ok := value.(string); ok {
		return strings.TrimSpace(str) == ""
	}
	return false
}
