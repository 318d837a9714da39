package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parisxmas/formforge/internal/schema"
)

func intPtr(n int) *int { return &n }

func TestValidateRequired(t *testing.T) {
	required := schema.FormField{Name: "email", Label: "Email", Type: schema.FieldText, Required: true}
	notEmpty := schema.FormField{
		Name: "city", Label: "City", Type: schema.FieldText,
		Validations: schema.ValidationRules{NotEmpty: true},
	}

	assert.Equal(t, "Email is required", Validate(required, ""))
	assert.Equal(t, "Email is required", Validate(required, "   "))
	assert.Equal(t, "Email is required", Validate(required, nil))
	assert.Equal(t, "", Validate(required, "x"))

	assert.Equal(t, "City is required", Validate(notEmpty, ""))
	assert.Equal(t, "", Validate(notEmpty, "x"))
}

func TestValidateLengthBounds(t *testing.T) {
	field := schema.FormField{
		Name: "code", Label: "Code", Type: schema.FieldText,
		Validations: schema.ValidationRules{MinLength: intPtr(3), MaxLength: intPtr(5)},
	}

	// Boundaries are inclusive.
	assert.NotEqual(t, "", Validate(field, "ab"))
	assert.Equal(t, "", Validate(field, "abc"))
	assert.Equal(t, "", Validate(field, "abcde"))
	assert.Equal(t, "Code must be at most 5 characters", Validate(field, "abcdef"))
	assert.Equal(t, "Code must be at least 3 characters", Validate(field, "ab"))
}

func TestValidateEmail(t *testing.T) {
	field := schema.FormField{
		Name: "email", Label: "Email", Type: schema.FieldText,
		Validations: schema.ValidationRules{Email: true},
	}

	assert.Equal(t, "", Validate(field, "ada@example.com"))
	assert.Equal(t, "Invalid email format", Validate(field, "ada@example"))
	assert.Equal(t, "Invalid email format", Validate(field, "not an email"))
	assert.Equal(t, "Invalid email format", Validate(field, "a@b@c.com"))
	// Empty is fine unless the field is also required.
	assert.Equal(t, "", Validate(field, ""))
}

func TestValidatePassword(t *testing.T) {
	field := schema.FormField{
		Name: "pw", Label: "Password", Type: schema.FieldText,
		Validations: schema.ValidationRules{Password: true},
	}

	assert.Equal(t, "Password must be 8+ chars and include a number", Validate(field, "short1"))
	assert.Equal(t, "Password must be 8+ chars and include a number", Validate(field, "longenoughbutnodigit"))
	assert.Equal(t, "", Validate(field, "longenough1"))
}

func TestValidateFirstFailureWins(t *testing.T) {
	field := schema.FormField{
		Name: "email", Label: "Email", Type: schema.FieldText, Required: true,
		Validations: schema.ValidationRules{MinLength: intPtr(3), Email: true},
	}

	// Emptiness is reported before length or format.
	assert.Equal(t, "Email is required", Validate(field, ""))
	// Length is reported before format.
	assert.Equal(t, "Email must be at least 3 characters", Validate(field, "a"))
}

func TestValidateCoercesToString(t *testing.T) {
	field := schema.FormField{
		Name: "count", Label: "Count", Type: schema.FieldNumber,
		Validations: schema.ValidationRules{MaxLength: intPtr(2)},
	}

	// Numbers are validated on their rendered form.
	assert.Equal(t, "", Validate(field, float64(42)))
	assert.Equal(t, "Count must be at most 2 characters", Validate(field, float64(123)))
	// 1.5 renders as "1.5", three characters.
	assert.Equal(t, "Count must be at most 2 characters", Validate(field, 1.5))
}

func TestValidateAll(t *testing.T) {
	fields := []schema.FormField{
		{Name: "first", Label: "First name", Type: schema.FieldText, Required: true},
		{Name: "last", Label: "Last name", Type: schema.FieldText},
	}
	errs := ValidateAll(fields, map[string]any{"last": "Lovelace"})
	assert.Equal(t, map[string]string{"first": "First name is required"}, errs)

	errs = ValidateAll(fields, map[string]any{"first": "Ada"})
	assert.Empty(t, errs)
}
