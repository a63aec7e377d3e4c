package template

import (
	"fmt"
	"strings"
)

// AppendColumn adds a column and its header in one step so ColHeaders and
// Columns never drift apart.
func (g *GridConfig) AppendColumn(header string, col GridColumn) {
	g.ColHeaders = append(g.ColHeaders, header)
	g.Columns = append(g.Columns, col)
}

// RemoveColumn drops the column and header at index. Out-of-range indexes are
// ignored.
func (g *GridConfig) RemoveColumn(index int) {
	if index < 0 || index >= len(g.Columns) || index >= len(g.ColHeaders) {
		return
	}
	g.Columns = append(g.Columns[:index], g.Columns[index+1:]...)
	g.ColHeaders = append(g.ColHeaders[:index], g.ColHeaders[index+1:]...)
}

// ColumnIndex returns the position of the column with the given data key, or
// -1 when no column declares it.
func (g GridConfig) ColumnIndex(dataKey string) int {
	for i, col := range g.Columns {
		if col.DataKey == dataKey {
			return i
		}
	}
	return -1
}

// AmountColumn returns the index of the computed amount column, or -1 when
// the grid declares none. A grid may declare at most one; Validate enforces
// that.
func (g GridConfig) AmountColumn() int {
	for i, col := range g.Columns {
		if strings.TrimSpace(col.Formula) != "" {
			return i
		}
	}
	return -1
}

// Validate checks the structural invariants of the config: header/column
// parallelism, unique data keys, and at most one computed column which must
// be read only.
func (g GridConfig) Validate() error {
	if len(g.ColHeaders) != len(g.Columns) {
		return fmt.Errorf("template: grid config has %d headers for %d columns", len(g.ColHeaders), len(g.Columns))
	}
	if g.RowsCount < 0 {
		return fmt.Errorf("template: grid config rows count %d is negative", g.RowsCount)
	}

	seen := make(map[string]struct{}, len(g.Columns))
	computed := -1
	for i, col := range g.Columns {
		key := strings.TrimSpace(col.DataKey)
		if key == "" {
			return fmt.Errorf("template: grid column %d is missing a data key", i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("template: grid column data key %q declared twice", key)
		}
		seen[key] = struct{}{}

		if strings.TrimSpace(col.Formula) == "" {
			continue
		}
		if computed >= 0 {
			return fmt.Errorf("template: grid declares computed columns %q and %q, only one is allowed",
				g.Columns[computed].DataKey, col.DataKey)
		}
		if !col.ReadOnly {
			return fmt.Errorf("template: computed column %q must be read only", key)
		}
		computed = i
	}
	return nil
}

// Clone returns a deep copy so callers can mutate the result without
// affecting the loaded template.
func (g GridConfig) Clone() GridConfig {
	out := GridConfig{RowsCount: g.RowsCount}
	if g.ColHeaders != nil {
		out.ColHeaders = append([]string(nil), g.ColHeaders...)
	}
	if g.Columns != nil {
		out.Columns = make([]GridColumn, len(g.Columns))
		for i, col := range g.Columns {
			if col.Source != nil {
				col.Source = append([]string(nil), col.Source...)
			}
			out.Columns[i] = col
		}
	}
	out.Formulas = cloneMap(g.Formulas)
	out.ValidationRules = cloneMap(g.ValidationRules)
	out.CustomStyles = cloneMap(g.CustomStyles)
	if g.Settings != nil {
		out.Settings = make(map[string]any, len(g.Settings))
		for k, v := range g.Settings {
			out.Settings[k] = v
		}
	}
	return out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	if in == nil {
		return nil
	}
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
