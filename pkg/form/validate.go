package form

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formview/pkg/schema"
)

// Issue is a recoverable, per-field validation failure. Suggestions offer
// one-click corrections: allowed options for selects, the violated bound for
// numbers, a canonical example for emails.
type Issue struct {
	FieldID     string `json:"fieldId"`
	Message     string `json:"message"`
	Suggestions []any  `json:"suggestions,omitempty"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// emailExample is the canonical correction suggestion for malformed emails.
const emailExample = "name@example.com"

// ValidateField applies the type-specific rules to a field's current value.
// Returns nil when the value passes. Callers are responsible for skipping
// hidden and disabled fields; visibility is not consulted here.
func ValidateField(field schema.Field, value any) *Issue {
	if isEmpty(value) {
		if !field.Required {
			return nil
		}
		issue := &Issue{
			FieldID: field.ID,
			Message: fmt.Sprintf("%s is required", label(field)),
		}
		if field.Type == schema.FieldSelect {
			issue.Suggestions = append([]any(nil), field.Options...)
		}
		return issue
	}

	switch field.Type {
	case schema.FieldEmail:
		if issue := validateEmail(field, value); issue != nil {
			return issue
		}
		return validateText(field, value)
	case schema.FieldNumber:
		return validateNumber(field, value)
	case schema.FieldSelect:
		return validateSelect(field, value)
	case schema.FieldText, schema.FieldTextarea:
		return validateText(field, value)
	default:
		return nil
	}
}

func validateEmail(field schema.Field, value any) *Issue {
	if !emailPattern.MatchString(strings.TrimSpace(stringValue(value))) {
		return &Issue{
			FieldID:     field.ID,
			Message:     fmt.Sprintf("%s must be a valid email address", label(field)),
			Suggestions: []any{emailExample},
		}
	}
	return nil
}

func validateNumber(field schema.Field, value any) *Issue {
	parsed, ok := numberValue(value)
	if !ok || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return &Issue{
			FieldID: field.ID,
			Message: fmt.Sprintf("%s must be a number", label(field)),
		}
	}
	if field.Min != nil && parsed < *field.Min {
		return &Issue{
			FieldID:     field.ID,
			Message:     fmt.Sprintf("%s must be at least %v", label(field), *field.Min),
			Suggestions: []any{*field.Min},
		}
	}
	if field.Max != nil && parsed > *field.Max {
		return &Issue{
			FieldID:     field.ID,
			Message:     fmt.Sprintf("%s must be at most %v", label(field), *field.Max),
			Suggestions: []any{*field.Max},
		}
	}
	return nil
}

func validateSelect(field schema.Field, value any) *Issue {
	if len(field.Options) == 0 {
		return &Issue{
			FieldID: field.ID,
			Message: fmt.Sprintf("%s is misconfigured: select fields need options", label(field)),
		}
	}
	for _, option := range field.Options {
		if optionMatches(option, value) {
			return nil
		}
	}
	return &Issue{
		FieldID:     field.ID,
		Message:     fmt.Sprintf("%s must be one of the listed options", label(field)),
		Suggestions: append([]any(nil), field.Options...),
	}
}

func validateText(field schema.Field, value any) *Issue {
	text := stringValue(value)
	length := utf8.RuneCountInString(text)
	if field.MinLength != nil && length < *field.MinLength {
		return &Issue{
			FieldID: field.ID,
			Message: fmt.Sprintf("%s must be at least %d characters", label(field), *field.MinLength),
		}
	}
	if field.MaxLength != nil && length > *field.MaxLength {
		return &Issue{
			FieldID: field.ID,
			Message: fmt.Sprintf("%s must be at most %d characters", label(field), *field.MaxLength),
		}
	}
	if field.Pattern != "" {
		// A malformed pattern is an authoring mistake, not a user error;
		// it is ignored rather than failing the value.
		if re, err := regexp.Compile(field.Pattern); err == nil && !re.MatchString(text) {
			return &Issue{
				FieldID: field.ID,
				Message: fmt.Sprintf("%s does not match the required format", label(field)),
			}
		}
	}
	return nil
}

// isEmpty implements the required-check notion of emptiness: blank or
// whitespace-only strings, NaN numbers, and false booleans.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	default:
		return false
	}
}

func label(field schema.Field) string {
	if strings.TrimSpace(field.Label) != "" {
		return field.Label
	}
	return field.ID
}

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func numberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func optionMatches(option, value any) bool {
	if option == value {
		return true
	}
	return stringValue(option) == stringValue(value)
}
