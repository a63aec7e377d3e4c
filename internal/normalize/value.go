package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Tolerant coercion helpers for the loosely typed payloads legacy templates
// arrive in. They accept the shapes encoding/json and yaml.v3 produce plus a
// few convenience forms, and report failure instead of panicking.

func toAnyMap(value any) map[string]any {
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			if key, ok := toStringValue(k); ok {
				out[key] = v
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

func toAnySlice(value any) []any {
	if typed, ok := value.([]any); ok {
		return typed
	}
	return nil
}

func toStringValue(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case json.Number:
		return typed.String(), true
	case float64:
		if typed == math.Trunc(typed) {
			return strconv.FormatInt(int64(typed), 10), true
		}
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

func toBoolValue(value any) (bool, bool) {
	switch typed := value.(type) {
	case bool:
		return typed, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err != nil {
			return false, false
		}
		return parsed, true
	case float64:
		return typed != 0, true
	case int:
		return typed != 0, true
	default:
		return false, false
	}
}

func toIntValue(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		return int(typed), true
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return 0, false
		}
		return int(parsed), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func toStringSlice(value any) []string {
	items := toAnySlice(value)
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := toStringValue(item); ok {
			out = append(out, str)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// readString returns the first present key among aliases, coerced to string.
func readString(m map[string]any, aliases ...string) string {
	for _, key := range aliases {
		if raw, ok := m[key]; ok {
			if str, ok := toStringValue(raw); ok {
				return str
			}
		}
	}
	return ""
}

func readBool(m map[string]any, aliases ...string) bool {
	for _, key := range aliases {
		if raw, ok := m[key]; ok {
			if b, ok := toBoolValue(raw); ok {
				return b
			}
		}
	}
	return false
}

func readInt(m map[string]any, aliases ...string) (int, bool) {
	for _, key := range aliases {
		if raw, ok := m[key]; ok {
			if n, ok := toIntValue(raw); ok {
				return n, true
			}
		}
	}
	return 0, false
}
