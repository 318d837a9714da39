package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parisxmas/formforge/internal/schema"
)

func derivedField(name, formula string) schema.FormField {
	return schema.FormField{
		ID:      name,
		Name:    name,
		Type:    schema.FieldText,
		Label:   name,
		Derived: &schema.DerivedConfig{Enabled: true, Formula: formula},
	}
}

func plainField(name string) schema.FormField {
	return schema.FormField{ID: name, Name: name, Type: schema.FieldText, Label: name}
}

func TestRecomputeFixedPoint(t *testing.T) {
	fields := []schema.FormField{
		plainField("first"),
		plainField("last"),
		derivedField("full", "first + ' ' + last"),
		derivedField("shout", "full + '!'"),
	}
	values := map[string]any{"first": "Ada", "last": "Lovelace", "full": "", "shout": ""}

	got := Recompute(fields, values)
	assert.Equal(t, "Ada Lovelace", got["full"])
	// Same pass: shout reads the value full was just given.
	assert.Equal(t, "Ada Lovelace!", got["shout"])

	// Input map is never mutated.
	assert.Equal(t, "", values["full"])

	// Idempotent at the fixed point.
	again := Recompute(fields, got)
	assert.Equal(t, got, again)
}

func TestRecomputeSchemaOrder(t *testing.T) {
	// The dependent field comes first, so it settles one pass later than
	// its input. Still converges to the same fixed point.
	fields := []schema.FormField{
		derivedField("c", "b + 1"),
		derivedField("b", "a * 2"),
		plainField("a"),
	}
	got := Recompute(fields, map[string]any{"a": "2", "b": float64(0), "c": float64(0)})
	assert.Equal(t, float64(4), got["b"])
	assert.Equal(t, float64(5), got["c"])
}

func TestRecomputeTermination(t *testing.T) {
	// Mutually dependent, never-settling formulas must stop at the pass
	// budget and hand back whatever the values were at that point.
	fields := []schema.FormField{
		derivedField("a", "b + 1"),
		derivedField("b", "a + 1"),
	}
	got := Recompute(fields, map[string]any{"a": float64(0), "b": float64(0)})

	_, aok := got["a"].(float64)
	_, bok := got["b"].(float64)
	assert.True(t, aok)
	assert.True(t, bok)
}

func TestRecomputeFormulaFailure(t *testing.T) {
	fields := []schema.FormField{
		plainField("x"),
		derivedField("broken", "x +"),
		derivedField("fine", "x * 2"),
	}
	values := map[string]any{"x": "3", "broken": "untouched", "fine": ""}

	got := Recompute(fields, values)
	assert.Equal(t, "untouched", got["broken"])
	assert.Equal(t, float64(6), got["fine"])
}

func TestRecomputeSkipsNonDerived(t *testing.T) {
	disabled := plainField("off")
	disabled.Derived = &schema.DerivedConfig{Enabled: false, Formula: "1 + 1"}
	empty := plainField("blank")
	empty.Derived = &schema.DerivedConfig{Enabled: true, Formula: ""}

	fields := []schema.FormField{plainField("x"), disabled, empty}
	values := map[string]any{"x": "keep", "off": "keep", "blank": "keep"}

	got := Recompute(fields, values)
	assert.Equal(t, values, got)
}

func TestRecomputeAgeBuiltin(t *testing.T) {
	fixedClock(t, "2026-08-29")

	fields := []schema.FormField{
		plainField("dob"),
		derivedField("years", "age(dob)"),
	}
	got := Recompute(fields, map[string]any{"dob": "2000-01-01", "years": ""})
	assert.Equal(t, float64(26), got["years"])
}
