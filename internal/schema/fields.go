package schema

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeName = regexp.MustCompile(`[^a-z0-9_]+`)

// MakeSafeName derives a machine-safe field name from a display label:
// lower-cased, every run of characters outside [a-z0-9_] collapsed to a
// single underscore, edge underscores trimmed. An empty or all-symbol
// label yields an empty name; callers are expected to avoid that.
func MakeSafeName(label string) string {
	name := unsafeName.ReplaceAllString(strings.ToLower(label), "_")
	return strings.Trim(name, "_")
}

// NewField builds a fresh field of the given type with a generated ID,
// a "<Type> Field" label, and default options for choice types.
func NewField(t FieldType) FormField {
	label := strings.ToUpper(t.String()[:1]) + t.String()[1:] + " Field"
	f := FormField{
		ID:       uuid.NewString(),
		Name:     MakeSafeName(label),
		Type:     t,
		Label:    label,
		Required: false,
	}
	if t.IsChoice() {
		f.Options = []string{"Option 1", "Option 2"}
	}
	return f
}

// FieldPatch is a partial update for a single field. Nil members are left
// untouched. Setting Label without Name re-derives the name from the new
// label, matching how the authoring UI edits labels.
type FieldPatch struct {
	Label        *string          `json:"label,omitempty"`
	Name         *string          `json:"name,omitempty"`
	Type         *FieldType       `json:"type,omitempty"`
	Required     *bool            `json:"required,omitempty"`
	DefaultValue any              `json:"defaultValue,omitempty"`
	Validations  *ValidationRules `json:"validations,omitempty"`
	Derived      *DerivedConfig   `json:"derived,omitempty"`
	Options      []string         `json:"options,omitempty"`
}

// FieldList is the ordered collection of fields the authoring UI edits.
// All mutations preserve order and never change the IDs of other fields.
type FieldList struct {
	fields []FormField
}

// NewFieldList creates a list seeded with the given fields.
func NewFieldList(fields ...FormField) *FieldList {
	return &FieldList{fields: append([]FormField(nil), fields...)}
}

// Fields returns a copy of the current field order.
func (l *FieldList) Fields() []FormField {
	return append([]FormField(nil), l.fields...)
}

// Len returns the number of fields.
func (l *FieldList) Len() int { return len(l.fields) }

// Append adds a field to the end of the list.
func (l *FieldList) Append(f FormField) {
	l.fields = append(l.fields, f)
}

// Update merges a patch onto the field with the given ID.
// An unknown ID is a no-op.
func (l *FieldList) Update(id string, patch FieldPatch) {
	idx := l.indexOf(id)
	if idx < 0 {
		return
	}
	f := &l.fields[idx]
	if patch.Label != nil {
		f.Label = *patch.Label
		if patch.Name == nil {
			f.Name = MakeSafeName(*patch.Label)
		}
	}
	if patch.Name != nil {
		f.Name = *patch.Name
	}
	if patch.Type != nil {
		f.Type = *patch.Type
		if !f.Type.IsChoice() {
			f.Options = nil
		}
	}
	if patch.Required != nil {
		f.Required = *patch.Required
	}
	if patch.DefaultValue != nil {
		f.DefaultValue = patch.DefaultValue
	}
	if patch.Validations != nil {
		f.Validations = *patch.Validations
	}
	if patch.Derived != nil {
		f.Derived = patch.Derived
	}
	if patch.Options != nil && f.Type.IsChoice() {
		f.Options = patch.Options
	}
}

// Remove deletes the field with the given ID. Absent IDs are a no-op.
func (l *FieldList) Remove(id string) {
	idx := l.indexOf(id)
	if idx < 0 {
		return
	}
	l.fields = append(l.fields[:idx], l.fields[idx+1:]...)
}

// MoveUp swaps the field with its predecessor. No-op for the first field.
func (l *FieldList) MoveUp(id string) {
	idx := l.indexOf(id)
	if idx > 0 {
		l.fields[idx-1], l.fields[idx] = l.fields[idx], l.fields[idx-1]
	}
}

// MoveDown swaps the field with its successor. No-op for the last field.
func (l *FieldList) MoveDown(id string) {
	idx := l.indexOf(id)
	if idx >= 0 && idx < len(l.fields)-1 {
		l.fields[idx], l.fields[idx+1] = l.fields[idx+1], l.fields[idx]
	}
}

func (l *FieldList) indexOf(id string) int {
	for i := range l.fields {
		if l.fields[i].ID == id {
			return i
		}
	}
	return -1
}
