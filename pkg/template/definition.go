package template

// Definition is the closed union over the two template payload shapes:
// General carries a flat field list, Grid carries a GridConfig. Surfaces are
// resolved from the definition once per template load instead of branching on
// type strings throughout the entry code.
type Definition struct {
	kind   Type
	fields []TemplateField
	grid   GridConfig
}

// GeneralDefinition wraps a field list in a general-form definition.
func GeneralDefinition(fields []TemplateField) Definition {
	return Definition{kind: TypeGeneral, fields: append([]TemplateField(nil), fields...)}
}

// GridDefinition wraps a grid config in a grid definition.
func GridDefinition(cfg GridConfig) Definition {
	return Definition{kind: TypeGrid, grid: cfg.Clone()}
}

// Kind reports which shape the definition carries.
func (d Definition) Kind() Type {
	if d.kind == "" {
		return TypeGeneral
	}
	return d.kind
}

// Fields returns a copy of the field list. Empty for grid definitions.
func (d Definition) Fields() []TemplateField {
	return append([]TemplateField(nil), d.fields...)
}

// Grid returns a copy of the grid config. Zero for general definitions.
func (d Definition) Grid() GridConfig {
	return d.grid.Clone()
}

// Definition resolves the template's payload into the closed union, using the
// template's declared type to pick the shape.
func (t Template) Definition() Definition {
	if t.Type == TypeGrid && t.GridConfig != nil {
		return GridDefinition(*t.GridConfig)
	}
	return GeneralDefinition(t.Fields)
}

// Standard procurement grid column keys. The engine's defaults and the
// normalizer's fallback config both use these.
const (
	KeyRowNumber     = "rowNo"
	KeyItemName      = "itemName"
	KeySpecification = "specification"
	KeyUnit          = "unit"
	KeyQuantity      = "quantity"
	KeyUnitPrice     = "unitPrice"
	KeyAmount        = "amount"
	KeyNotes         = "notes"
)

// DefaultGridConfig returns the standard procurement item grid: row number,
// item name, specification, unit, quantity, unit price, computed amount, and
// notes, with ten blank data rows.
func DefaultGridConfig() GridConfig {
	cfg := GridConfig{RowsCount: 10}
	cfg.AppendColumn("No.", GridColumn{DataKey: KeyRowNumber, Type: ColumnTypeText, Width: 50, ReadOnly: true})
	cfg.AppendColumn("Item", GridColumn{DataKey: KeyItemName, Type: ColumnTypeText, Width: 180})
	cfg.AppendColumn("Specification", GridColumn{DataKey: KeySpecification, Type: ColumnTypeText, Width: 140})
	cfg.AppendColumn("Unit", GridColumn{DataKey: KeyUnit, Type: ColumnTypeText, Width: 60})
	cfg.AppendColumn("Quantity", GridColumn{DataKey: KeyQuantity, Type: ColumnTypeNumeric, Width: 80})
	cfg.AppendColumn("Unit Price", GridColumn{DataKey: KeyUnitPrice, Type: ColumnTypeNumeric, Width: 100})
	cfg.AppendColumn("Amount", GridColumn{
		DataKey:  KeyAmount,
		Type:     ColumnTypeNumeric,
		Width:    110,
		ReadOnly: true,
		Formula:  KeyQuantity + " * " + KeyUnitPrice,
	})
	cfg.AppendColumn("Notes", GridColumn{DataKey: KeyNotes, Type: ColumnTypeText, Width: 160})
	return cfg
}
