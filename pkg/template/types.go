package template

// FieldType is the closed enum of input kinds a general-form template can
// declare for one of its fields.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextarea FieldType = "textarea"
)

// ColumnType is the closed enum of cell kinds a grid template can declare
// for one of its columns.
type ColumnType string

const (
	ColumnTypeText     ColumnType = "text"
	ColumnTypeNumeric  ColumnType = "numeric"
	ColumnTypeDropdown ColumnType = "dropdown"
	ColumnTypeDate     ColumnType = "date"
	ColumnTypeCheckbox ColumnType = "checkbox"
	ColumnTypeImage    ColumnType = "image"
)

// Type discriminates which entry surface a template mounts.
type Type string

const (
	TypeGeneral Type = "general"
	TypeGrid    Type = "grid"
)

// TemplateField describes one input in a general-form template. FieldName is
// the key the field's value is stored under in the resulting value map and
// must be unique within its template. SortOrder defines the stable rendering
// position inside a section.
type TemplateField struct {
	ID          string    `json:"id,omitempty"`
	FieldName   string    `json:"fieldName"`
	Label       string    `json:"label"`
	FieldType   FieldType `json:"fieldType"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	SectionName string    `json:"sectionName,omitempty"`
	SortOrder   int       `json:"sortOrder"`
}

// GridColumn describes one column of a grid template. DataKey names the cell
// slot inside a row record; Formula, when present, marks the column as
// computed from other columns (for example "quantity * unitPrice") and such a
// column must also be ReadOnly.
type GridColumn struct {
	DataKey  string     `json:"dataKey"`
	Title    string     `json:"title"`
	Type     ColumnType `json:"type"`
	Width    int        `json:"width,omitempty"`
	ReadOnly bool       `json:"readOnly,omitempty"`
	Source   []string   `json:"source,omitempty"`
	Formula  string     `json:"formula,omitempty"`
}

// GridConfig is the canonical grid template payload. ColHeaders is kept
// parallel to Columns at all times; use the mutators below instead of
// appending to either slice directly.
type GridConfig struct {
	ColHeaders      []string          `json:"colHeaders"`
	Columns         []GridColumn      `json:"columns"`
	RowsCount       int               `json:"rowsCount"`
	Formulas        map[int]string    `json:"formulas,omitempty"`
	ValidationRules map[string]string `json:"validationRules,omitempty"`
	CustomStyles    map[string]string `json:"customStyles,omitempty"`
	Settings        map[string]any    `json:"settings,omitempty"`
}

// Template is a saved, reusable schema describing what fields or columns an
// order-entry session should present. Exactly one of Fields or GridConfig is
// populated depending on Type. Templates referenced by submitted orders are
// treated as immutable; orders keep a denormalized copy of what was entered.
type Template struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       Type            `json:"type"`
	Fields     []TemplateField `json:"fields,omitempty"`
	GridConfig *GridConfig     `json:"gridConfig,omitempty"`
	IsActive   bool            `json:"isActive"`
}
