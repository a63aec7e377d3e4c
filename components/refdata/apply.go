package refdata

import "github.com/goliatone/go-orderentry/pkg/template"

// ApplyToTemplate fills empty option lists on a template from catalogs.
// Select fields whose FieldName matches a catalog name receive its
// values; dropdown grid columns match on DataKey. Fields and columns
// that already carry options are left alone so templates can pin their
// own choices. The input template is not mutated.
func ApplyToTemplate(t template.Template, catalogs map[string][]Entry) template.Template {
	if len(catalogs) == 0 {
		return t
	}

	if len(t.Fields) > 0 {
		fields := append([]template.TemplateField(nil), t.Fields...)
		for i, field := range fields {
			if field.FieldType != template.FieldTypeSelect || len(field.Options) > 0 {
				continue
			}
			if entries, ok := catalogs[field.FieldName]; ok {
				fields[i].Options = values(entries)
			}
		}
		t.Fields = fields
	}

	if t.GridConfig != nil {
		cfg := t.GridConfig.Clone()
		changed := false
		for i, column := range cfg.Columns {
			if column.Type != template.ColumnTypeDropdown || len(column.Source) > 0 {
				continue
			}
			if entries, ok := catalogs[column.DataKey]; ok {
				cfg.Columns[i].Source = values(entries)
				changed = true
			}
		}
		if changed {
			t.GridConfig = &cfg
		}
	}
	return t
}

func values(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Value)
	}
	return out
}
