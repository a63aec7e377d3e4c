package grid

import (
	"fmt"
	"strings"
)

// formula is the parsed form of a declarative column formula such as
// "quantity * unitPrice": a product over the named dependency columns.
// Products are the only operation the procurement grids use; anything else is
// a template authoring error surfaced at engine construction.
type formula struct {
	operands []string
}

func parseFormula(expr string) (formula, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return formula{}, fmt.Errorf("grid: empty formula")
	}
	parts := strings.Split(trimmed, "*")
	operands := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return formula{}, fmt.Errorf("grid: malformed formula %q", expr)
		}
		operands = append(operands, name)
	}
	if len(operands) < 2 {
		return formula{}, fmt.Errorf("grid: formula %q needs at least two operands", expr)
	}
	return formula{operands: operands}, nil
}

func (f formula) dependsOn(key string) bool {
	for _, operand := range f.operands {
		if operand == key {
			return true
		}
	}
	return false
}

// eval computes the product of the operand cells. Missing or non-numeric
// operands evaluate as zero.
func (f formula) eval(lookup func(key string) any) float64 {
	result := 1.0
	for _, operand := range f.operands {
		value, _ := parseNumber(lookup(operand))
		result *= value
	}
	return result
}
