package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *testing.T, iso string) {
	t.Helper()
	fixed, err := time.Parse("2006-01-02", iso)
	require.NoError(t, err)
	old := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = old })
}

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		formula string
		want    float64
	}{
		{"2 + 2", 4},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"7 - 10", -3},
		{"-5 + 2", -3},
		{"--3", 3},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			got, err := Evaluate(tt.formula, map[string]any{})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateConcat(t *testing.T) {
	ns := map[string]any{"first": "Ada", "last": "Lovelace"}

	got, err := Evaluate("first + ' ' + last", ns)
	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got)

	// A string operand turns + into concatenation even when it looks numeric.
	got, err = Evaluate("a + b", map[string]any{"a": "3", "b": float64(2)})
	assert.NoError(t, err)
	assert.Equal(t, "32", got)

	got, err = Evaluate(`"v" + 2`, map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, "v2", got)
}

func TestEvaluateNumericStrings(t *testing.T) {
	// Values off number inputs arrive as strings and still multiply.
	ns := map[string]any{"w": "3", "h": "4"}
	got, err := Evaluate("w * h", ns)
	assert.NoError(t, err)
	assert.Equal(t, float64(12), got)
}

func TestEvaluateComparisons(t *testing.T) {
	ns := map[string]any{"x": "3", "name": "bob"}
	tests := []struct {
		formula string
		want    bool
	}{
		{"2 < 3", true},
		{"2 >= 5", false},
		{"x == 3", true},
		{"x != 3", false},
		{"'a' < 'b'", true},
		{"name == 'bob'", true},
		{"1 < 2 == 1", true}, // (1 < 2) is true, and true coerces to 1
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			got, err := Evaluate(tt.formula, ns)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateFailures(t *testing.T) {
	formulas := []string{
		"1/",
		"1 / 0",
		"missing + 1",
		"foo(1)",
		"age(1, 2)",
		"2 +",
		"(2 + 3",
		"'unterminated",
		"a @ b",
		"x = 1",
		"",
		"2 2",
	}
	for _, formula := range formulas {
		t.Run(formula, func(t *testing.T) {
			_, err := Evaluate(formula, map[string]any{"a": 1.0, "b": 2.0, "x": 1.0})
			assert.Error(t, err)
		})
	}
}

func TestEvaluateAge(t *testing.T) {
	fixedClock(t, "2026-08-29")

	tests := []struct {
		name string
		dob  any
		want float64
	}{
		{"mid year", "2000-01-01", 26},
		{"birthday not yet reached", "2000-12-31", 25},
		{"birthday today", "2000-08-29", 26},
		{"rfc3339", "1990-03-02T10:30:00Z", 36},
		{"unparsable", "not a date", 0},
		{"empty", "", 0},
		{"numeric input", float64(7), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate("age(dob)", map[string]any{"dob": tt.dob})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateAgeTracksWallClock(t *testing.T) {
	// Without a pinned clock the result still has to look like an age.
	got, err := Evaluate("age(dob)", map[string]any{"dob": "2000-01-01"})
	require.NoError(t, err)
	years, ok := got.(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, years, float64(26))
}

func TestEvaluateNamespaceOnly(t *testing.T) {
	// The namespace is the whole world: no member access, no other calls.
	_, err := Evaluate("user.name", map[string]any{"user": "x"})
	assert.Error(t, err)

	_, err = Evaluate("len('abc')", map[string]any{})
	assert.Error(t, err)
}
