package prompt

import (
	"context"
	"testing"

	"github.com/goliatone/go-orderentry/pkg/generalform"
	"github.com/goliatone/go-orderentry/pkg/template"
	"github.com/goliatone/go-orderentry/pkg/testsupport"
)

// fakeDriver replays scripted answers keyed by prompt message.
type fakeDriver struct {
	inputs   map[string][]string
	selects  map[string]int
	confirms []bool
	infos    []string
}

func (d *fakeDriver) next(message string) string {
	queue := d.inputs[message]
	if len(queue) == 0 {
		return ""
	}
	d.inputs[message] = queue[1:]
	return queue[0]
}

func (d *fakeDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	return d.next(cfg.Message), nil
}

func (d *fakeDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, nil
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *fakeDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	idx, ok := d.selects[cfg.Message]
	if !ok {
		return -1, nil
	}
	return idx, nil
}

func (d *fakeDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	return d.next(cfg.Message), nil
}

func (d *fakeDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func TestFillFormSetsValuesBySection(t *testing.T) {
	form := generalform.New([]template.TemplateField{
		{FieldName: "projectName", Label: "Project", FieldType: template.FieldTypeText, Required: true, SectionName: "Basic Info"},
		{FieldName: "totalBudget", Label: "Budget", FieldType: template.FieldTypeNumber, SectionName: "Basic Info"},
		{FieldName: "vendor", Label: "Vendor", FieldType: template.FieldTypeSelect, Options: []string{"Acme", "Baltic"}},
	})

	driver := &fakeDriver{
		inputs: map[string][]string{
			"Project": {"Bridge"},
			"Budget":  {"120000"},
		},
		selects: map[string]int{"Vendor": 1},
	}

	if err := FillForm(context.Background(), driver, form); err != nil {
		t.Fatalf("FillForm: %v", err)
	}

	if got, _ := form.Value("projectName"); got != "Bridge" {
		t.Fatalf("projectName = %v", got)
	}
	if got, _ := form.Value("totalBudget"); got != 120000.0 {
		t.Fatalf("totalBudget = %v", got)
	}
	if got, _ := form.Value("vendor"); got != "Baltic" {
		t.Fatalf("vendor = %v", got)
	}
	if len(driver.infos) == 0 {
		t.Fatalf("section banner not announced")
	}
}

func TestFillFormReportsMissingRequired(t *testing.T) {
	form := generalform.New([]template.TemplateField{
		{FieldName: "projectName", Label: "Project", FieldType: template.FieldTypeText, Required: true},
	})

	driver := &fakeDriver{inputs: map[string][]string{}}
	if err := FillForm(context.Background(), driver, form); err == nil {
		t.Fatalf("expected error for unanswered required field")
	}
}

func TestFillGridAddsRowsUntilDeclined(t *testing.T) {
	engine := testsupport.NewEngine(t)

	driver := &fakeDriver{
		inputs: map[string][]string{
			"Item":       {"Cement", "Rebar"},
			"Quantity":   {"5", "2"},
			"Unit Price": {"1000", "250"},
		},
		confirms: []bool{true, true, false},
	}

	if err := FillGrid(context.Background(), driver, engine); err != nil {
		t.Fatalf("FillGrid: %v", err)
	}

	engine.RecomputeTotalRow()
	if got := engine.TotalAmount(); got != 5500 {
		t.Fatalf("total = %v", got)
	}
	if value, _ := engine.CellValue(1, template.KeyItemName); value != "Rebar" {
		t.Fatalf("second row = %v", value)
	}
}
