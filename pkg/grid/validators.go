package grid

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Validator checks a candidate cell value before it is committed. Returning
// an error reverts the write.
type Validator func(value any) error

// Named validators form a closed set resolved from a template's
// validationRules map. Templates reference validators by name only; no
// user-supplied code is ever evaluated.
const (
	ValidatorNumeric     = "numeric"
	ValidatorInteger     = "integer"
	ValidatorNonNegative = "nonNegative"
	ValidatorRequired    = "required"
)

var validatorTable = map[string]Validator{
	ValidatorNumeric:     validateNumeric,
	ValidatorInteger:     validateInteger,
	ValidatorNonNegative: validateNonNegative,
	ValidatorRequired:    validateRequired,
}

// LookupValidator resolves a named validator from the closed set.
func LookupValidator(name string) (Validator, bool) {
	v, ok := validatorTable[strings.TrimSpace(name)]
	return v, ok
}

func validateNumeric(value any) error {
	if isBlank(value) {
		return nil
	}
	if _, ok := parseNumber(value); !ok {
		return fmt.Errorf("value %v is not a number", value)
	}
	return nil
}

func validateInteger(value any) error {
	if isBlank(value) {
		return nil
	}
	n, ok := parseNumber(value)
	if !ok || n != math.Trunc(n) {
		return fmt.Errorf("value %v is not an integer", value)
	}
	return nil
}

func validateNonNegative(value any) error {
	if isBlank(value) {
		return nil
	}
	n, ok := parseNumber(value)
	if !ok {
		return fmt.Errorf("value %v is not a number", value)
	}
	if n < 0 {
		return fmt.Errorf("value %v is negative", value)
	}
	return nil
}

func validateRequired(value any) error {
	if isBlank(value) {
		return fmt.Errorf("value is required")
	}
	return nil
}

// parseNumber coerces the value shapes cells hold in practice: native
// numbers, json.Number, and numeric strings.
func parseNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case nil:
		return 0, false
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
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
