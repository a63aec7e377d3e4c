package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-orderentry/pkg/generalform"
	"github.com/goliatone/go-orderentry/pkg/grid"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// FillForm walks a general form section by section, prompting for each
// field. Required fields get a non-blank validator; select fields become
// select prompts; number fields reject non-numeric input at the prompt.
func FillForm(ctx context.Context, driver PromptDriver, form *generalform.Form) error {
	for _, section := range form.Sections() {
		if section.Name != "" {
			if err := driver.Info(ctx, "== "+section.Name+" =="); err != nil {
				return err
			}
		}
		for _, field := range section.Fields {
			value, err := askField(ctx, driver, field)
			if err != nil {
				return err
			}
			if value == nil {
				continue
			}
			if err := form.SetValue(field.FieldName, value); err != nil {
				return err
			}
		}
	}

	if missing := form.MissingRequired(); len(missing) > 0 {
		return fmt.Errorf("prompt: required fields unanswered: %s", strings.Join(missing, ", "))
	}
	return nil
}

func askField(ctx context.Context, driver PromptDriver, field template.TemplateField) (any, error) {
	label := field.Label
	if label == "" {
		label = field.FieldName
	}

	switch field.FieldType {
	case template.FieldTypeSelect:
		if len(field.Options) == 0 {
			break
		}
		idx, err := driver.Select(ctx, SelectConfig{
			Message: label,
			Options: field.Options,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			return nil, nil
		}
		return field.Options[idx], nil

	case template.FieldTypeTextarea:
		text, err := driver.TextArea(ctx, TextAreaConfig{Message: label})
		if err != nil {
			return nil, err
		}
		if text == "" {
			return nil, nil
		}
		return text, nil

	case template.FieldTypeNumber:
		text, err := driver.Input(ctx, InputConfig{
			Message:   label,
			Validator: numberValidator(field.Required),
		})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("prompt: field %q: %w", field.FieldName, err)
		}
		return parsed, nil
	}

	text, err := driver.Input(ctx, InputConfig{
		Message:   label,
		Default:   field.Placeholder,
		Validator: requiredValidator(field.Required),
	})
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	return text, nil
}

// FillGrid prompts for line items one row at a time until the user
// declines to add more. The engine assigns row numbers and computes
// amounts; only user-editable columns are prompted.
func FillGrid(ctx context.Context, driver PromptDriver, engine *grid.Engine) error {
	columns := editableColumns(engine)

	for row := 0; ; row++ {
		more, err := driver.Confirm(ctx, ConfirmConfig{
			Message: "Add a line item?",
			Default: row == 0,
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		if row >= engine.TotalRowIndex() {
			inserted, err := engine.InsertRow()
			if err != nil {
				return err
			}
			row = inserted
		}

		for _, column := range columns {
			value, err := askColumn(ctx, driver, column)
			if err != nil {
				return err
			}
			if value == nil {
				continue
			}
			if err := engine.SetCell(row, column.column.DataKey, value); err != nil {
				if err := driver.Info(ctx, "rejected: "+err.Error()); err != nil {
					return err
				}
			}
		}
	}
}

type gridPrompt struct {
	column template.GridColumn
	label  string
}

func askColumn(ctx context.Context, driver PromptDriver, p gridPrompt) (any, error) {
	column := p.column
	if column.Type == template.ColumnTypeDropdown && len(column.Source) > 0 {
		idx, err := driver.Select(ctx, SelectConfig{Message: p.label, Options: column.Source})
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			return nil, nil
		}
		return column.Source[idx], nil
	}

	text, err := driver.Input(ctx, InputConfig{Message: p.label})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if column.Type == template.ColumnTypeNumeric {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("prompt: column %q: %w", column.DataKey, err)
		}
		return parsed, nil
	}
	return text, nil
}

// editableColumns pairs each writable column with its display header.
// ColHeaders and Columns are parallel slices in the grid config.
func editableColumns(engine *grid.Engine) []gridPrompt {
	headers := engine.Headers()
	var out []gridPrompt
	for i, column := range engine.Columns() {
		if column.ReadOnly || column.DataKey == template.KeyRowNumber {
			continue
		}
		label := column.Title
		if label == "" && i < len(headers) {
			label = headers[i]
		}
		if label == "" {
			label = column.DataKey
		}
		out = append(out, gridPrompt{column: column, label: label})
	}
	return out
}

func requiredValidator(required bool) func(string) error {
	if !required {
		return nil
	}
	return func(text string) error {
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("a value is required")
		}
		return nil
	}
}

func numberValidator(required bool) func(string) error {
	return func(text string) error {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			if required {
				return fmt.Errorf("a value is required")
			}
			return nil
		}
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return fmt.Errorf("enter a number")
		}
		return nil
	}
}
