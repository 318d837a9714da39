// Package engine implements the runtime behind a form: field validation
// against declarative rules, formula evaluation over a flat value set, and
// the derivation loop that keeps computed fields consistent.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/parisxmas/formforge/internal/schema"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// Validate checks a candidate value against a field's rules and returns a
// user-facing message, or "" when the value passes. The first failing rule
// wins. Values are checked on their string form regardless of field type;
// nil coerces to the empty string. Validate never panics and has no side
// effects.
func Validate(field schema.FormField, value any) string {
	str := Stringify(value)
	rules := field.Validations

	if field.Required || rules.NotEmpty {
		if strings.TrimSpace(str) == "" {
			return field.Label + " is required"
		}
	}

	length := utf8.RuneCountInString(str)
	if rules.MinLength != nil && length < *rules.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", field.Label, *rules.MinLength)
	}
	if rules.MaxLength != nil && length > *rules.MaxLength {
		return fmt.Sprintf("%s must be at most %d characters", field.Label, *rules.MaxLength)
	}

	if rules.Email && str != "" && !emailPattern.MatchString(str) {
		return "Invalid email format"
	}

	if rules.Password {
		if length < 8 || !digitPattern.MatchString(str) {
			return "Password must be 8+ chars and include a number"
		}
	}

	return ""
}

// ValidateAll runs Validate over every field and returns the failures
// keyed by field name. An empty map means the value set passes.
func ValidateAll(fields []schema.FormField, values map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, f := range fields {
		if msg := Validate(f, values[f.Name]); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// Stringify renders a scalar the way it would appear in an input widget.
// nil becomes the empty string; numbers drop insignificant zeros.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprintf("%v", x)
	}
}
