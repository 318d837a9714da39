package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/formforge/internal/schema"
	"github.com/parisxmas/formforge/internal/store"
)

func testServices(t *testing.T) (*FormService, *SubmissionService) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	forms := NewFormService(st)
	return forms, NewSubmissionService(st, forms)
}

func signupFields() []schema.FormField {
	return []schema.FormField{
		{Label: "First Name", Type: schema.FieldText, Required: true},
		{Label: "Last Name", Type: schema.FieldText, Required: true},
		{
			Label: "Full Name", Type: schema.FieldText,
			Derived: &schema.DerivedConfig{
				Enabled: true,
				Parents: []string{"first_name", "last_name"},
				Formula: "first_name + ' ' + last_name",
			},
		},
	}
}

func TestFormCreateNormalizes(t *testing.T) {
	forms, _ := testServices(t)

	form, err := forms.Create("Signup Form", "u1", signupFields())
	require.NoError(t, err)

	assert.NotEmpty(t, form.ID)
	assert.Equal(t, "signup-form", form.Slug)
	assert.NotEmpty(t, form.CreatedAt)
	require.Len(t, form.Fields, 3)
	for _, f := range form.Fields {
		assert.NotEmpty(t, f.ID)
	}
	assert.Equal(t, "first_name", form.Fields[0].Name)
	assert.Equal(t, "full_name", form.Fields[2].Name)

	// Same name gets a fresh slug, not a failure.
	second, err := forms.Create("Signup Form", "u1", signupFields())
	require.NoError(t, err)
	assert.NotEqual(t, form.Slug, second.Slug)
}

func TestFormCreateRejectsBadInput(t *testing.T) {
	forms, _ := testServices(t)

	_, err := forms.Create("", "u1", signupFields())
	assert.Error(t, err)

	_, err = forms.Create("No Fields", "u1", nil)
	assert.Error(t, err)

	_, err = forms.Create("Bad Type", "u1", []schema.FormField{
		{Label: "X", Type: schema.FieldType("file")},
	})
	assert.Error(t, err)

	_, err = forms.Create("No Label", "u1", []schema.FormField{
		{Label: "!!!", Type: schema.FieldText},
	})
	assert.Error(t, err)

	_, err = forms.Create("Choice Without Options", "u1", []schema.FormField{
		{Label: "Plan", Type: schema.FieldSelect},
	})
	assert.Error(t, err)
}

func TestFormCreateStripsOptionsFromNonChoice(t *testing.T) {
	forms, _ := testServices(t)

	form, err := forms.Create("Form", "u1", []schema.FormField{
		{Label: "Name", Type: schema.FieldText, Options: []string{"junk"}},
		{Label: "Plan", Type: schema.FieldSelect, Options: []string{"free", "pro"}},
	})
	require.NoError(t, err)
	assert.Nil(t, form.Fields[0].Options)
	assert.Equal(t, []string{"free", "pro"}, form.Fields[1].Options)
}

func TestFormDerive(t *testing.T) {
	forms, _ := testServices(t)
	form, err := forms.Create("Signup", "u1", signupFields())
	require.NoError(t, err)

	values, err := forms.Derive(form.ID, map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", values["full_name"])

	_, err = forms.Derive("missing", nil)
	assert.Error(t, err)
}

func TestFormValidate(t *testing.T) {
	forms, _ := testServices(t)
	form, err := forms.Create("Signup", "u1", signupFields())
	require.NoError(t, err)

	errs, values, err := forms.Validate(form.ID, map[string]any{"first_name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Last Name is required", errs["last_name"])
	// Derivation ran before validation; the absent input defaulted to "".
	assert.Equal(t, "Ada ", values["full_name"])

	errs, values, err = forms.Validate(form.ID, map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "Ada Lovelace", values["full_name"])
}

func TestSubmissionCreateValidates(t *testing.T) {
	forms, subs := testServices(t)
	form, err := forms.Create("Signup", "u1", signupFields())
	require.NoError(t, err)

	_, err = subs.Create(form.ID, map[string]any{"first_name": "Ada"}, "u1")
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "last_name")

	sub, err := subs.Create(form.ID, map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
	}, "u1")
	require.NoError(t, err)
	// The stored value set carries the derived value.
	assert.Equal(t, "Ada Lovelace", sub.Data["full_name"])

	got, err := subs.Get(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.Data, got.Data)

	n, err := subs.CountByForm(form.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFormImmutableSnapshot(t *testing.T) {
	forms, _ := testServices(t)
	form, err := forms.Create("Signup", "u1", signupFields())
	require.NoError(t, err)

	// The only mutation path for a saved snapshot is deletion.
	require.NoError(t, forms.Delete(form.ID))
	_, err = forms.Get(form.ID)
	assert.Error(t, err)

	assert.Error(t, forms.Delete(form.ID))
}
