// Package submit converts raw form state into a clean, typed outbound
// payload and forwards it to an external message sink.
package submit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formview/pkg/schema"
	"github.com/goliatone/go-formview/pkg/visibility"
)

// Normalize produces the outbound payload from current form state,
// restricted to fields that are currently rendered and enabled. Checkbox
// values coerce to booleans; numbers parse or drop out; everything else
// trims to a string or drops out. The result never contains empty-string or
// NaN entries.
func Normalize(fields []schema.Field, values map[string]any, resolutions map[string]visibility.Resolution) map[string]any {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		res, ok := resolutions[field.ID]
		if !ok || !res.ShouldRender || res.Disabled {
			continue
		}
		value := values[field.ID]

		switch field.Type {
		case schema.FieldCheckbox:
			out[field.ID] = coerceBool(value)
		case schema.FieldNumber:
			if parsed, ok := coerceNumber(value); ok {
				out[field.ID] = parsed
			}
		default:
			if trimmed := strings.TrimSpace(stringify(value)); trimmed != "" {
				out[field.ID] = trimmed
			}
		}
	}
	return out
}

func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case nil:
		return false
	default:
		return true
	}
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
