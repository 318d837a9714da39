// Package schema defines the declarative form model: typed fields,
// validation rules, derived-field configuration, and saved form snapshots.
package schema

// FieldType is the closed set of input kinds a form field can have.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldDate     FieldType = "date"
)

func (t FieldType) String() string { return string(t) }

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldTextarea, FieldSelect, FieldRadio, FieldCheckbox, FieldDate:
		return true
	}
	return false
}

// IsChoice reports whether fields of this type carry an options list.
func (t FieldType) IsChoice() bool {
	return t == FieldSelect || t == FieldRadio || t == FieldCheckbox
}

// ValidationRules holds the optional per-field constraints.
// A nil pointer or false flag means the rule is not enforced.
type ValidationRules struct {
	NotEmpty  bool `json:"notEmpty,omitempty"`
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`
	Email     bool `json:"email,omitempty"`
	Password  bool `json:"password,omitempty"`
}

// DerivedConfig marks a field whose value is computed from a formula
// over other fields. Parents documents the intended inputs but is advisory
// only: the formula can reference any name in the value set.
type DerivedConfig struct {
	Enabled bool     `json:"enabled"`
	Parents []string `json:"parents,omitempty"`
	Formula string   `json:"formula"`
}

// FormField is one named, typed input slot in a form.
// ID is unique within a schema and immutable after creation. Name is the
// key consumers use for the field's value, so it should be unique too;
// duplicates make one field's value overwrite another's.
type FormField struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         FieldType       `json:"type"`
	Label        string          `json:"label"`
	Required     bool            `json:"required"`
	DefaultValue any             `json:"defaultValue,omitempty"`
	Validations  ValidationRules `json:"validations"`
	Derived      *DerivedConfig  `json:"derived,omitempty"`

	// Options is present only for choice types (select, radio, checkbox).
	Options []string `json:"options,omitempty"`
}

// IsDerived reports whether the field's value is computer-owned.
// The renderer must reject direct edits to derived fields.
func (f *FormField) IsDerived() bool {
	return f.Derived != nil && f.Derived.Enabled
}

// FormSchema is a saved snapshot of a field list. Snapshots are immutable
// once persisted: the store supports create and delete, never update.
type FormSchema struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Slug      string      `json:"slug,omitempty"`
	CreatedBy string      `json:"createdBy,omitempty"`
	CreatedAt string      `json:"createdAt"`
	Fields    []FormField `json:"fields"`
}

// FieldByName returns the first field with the given name, or nil.
func (s *FormSchema) FieldByName(name string) *FormField {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// InitialValues builds the starting value set for rendering a field list:
// the field's default when present, otherwise false for checkboxes and the
// empty string for everything else.
func InitialValues(fields []FormField) map[string]any {
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		switch {
		case f.DefaultValue != nil && f.DefaultValue != "":
			values[f.Name] = f.DefaultValue
		case f.Type == FieldCheckbox:
			values[f.Name] = false
		default:
			values[f.Name] = ""
		}
	}
	return values
}
