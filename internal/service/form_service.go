package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parisxmas/formforge/internal/engine"
	"github.com/parisxmas/formforge/internal/schema"
	"github.com/parisxmas/formforge/internal/store"
)

type FormService struct {
	store *store.Store
}

func NewFormService(st *store.Store) *FormService {
	return &FormService{store: st}
}

// Create normalizes a field list and persists it as an immutable snapshot.
// Missing field IDs are generated, missing names are derived from labels,
// and options are stripped from non-choice types. The snapshot gets a
// unique slug derived from its name.
func (s *FormService) Create(name, createdBy string, fields []schema.FormField) (*schema.FormSchema, error) {
	if name == "" {
		return nil, errors.New("form name is required")
	}
	if len(fields) == 0 {
		return nil, errors.New("at least one field is required")
	}
	normalized, err := normalizeFields(fields)
	if err != nil {
		return nil, err
	}

	slug := generateSlug(name)
	if existing, _ := s.store.GetFormBySlug(slug); existing != nil {
		slug = slug + "-" + time.Now().Format("20060102150405")
	}

	form := &schema.FormSchema{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Fields:    normalized,
	}
	if err := s.store.CreateForm(form); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *FormService) List() ([]schema.FormSchema, error) {
	return s.store.ListForms()
}

func (s *FormService) Get(id string) (*schema.FormSchema, error) {
	form, err := s.store.GetForm(id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, errors.New("form not found")
	}
	return form, nil
}

func (s *FormService) Delete(id string) error {
	form, err := s.store.GetForm(id)
	if err != nil {
		return err
	}
	if form == nil {
		return errors.New("form not found")
	}
	return s.store.DeleteForm(id)
}

// Derive recomputes a form's derived fields over the supplied values.
// Absent entries start from the field defaults before the caller's values
// are overlaid.
func (s *FormService) Derive(formID string, values map[string]any) (map[string]any, error) {
	form, err := s.Get(formID)
	if err != nil {
		return nil, err
	}
	return engine.Recompute(form.Fields, mergeDefaults(form.Fields, values)), nil
}

// Validate recomputes derived fields and then checks every field,
// returning the failures keyed by field name alongside the value set that
// was actually validated.
func (s *FormService) Validate(formID string, values map[string]any) (map[string]string, map[string]any, error) {
	form, err := s.Get(formID)
	if err != nil {
		return nil, nil, err
	}
	derived := engine.Recompute(form.Fields, mergeDefaults(form.Fields, values))
	return engine.ValidateAll(form.Fields, derived), derived, nil
}

func normalizeFields(fields []schema.FormField) ([]schema.FormField, error) {
	out := make([]schema.FormField, len(fields))
	for i, f := range fields {
		if !f.Type.Valid() {
			return nil, fmt.Errorf("field %d: unknown type %q", i, f.Type)
		}
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		if f.Name == "" {
			f.Name = schema.MakeSafeName(f.Label)
		}
		if f.Name == "" {
			return nil, fmt.Errorf("field %d: label or name is required", i)
		}
		if f.Type.IsChoice() {
			if len(f.Options) == 0 {
				return nil, fmt.Errorf("field %q: %s fields need options", f.Name, f.Type)
			}
		} else {
			f.Options = nil
		}
		out[i] = f
	}
	return out, nil
}

func mergeDefaults(fields []schema.FormField, values map[string]any) map[string]any {
	merged := schema.InitialValues(fields)
	for k, v := range values {
		merged[k] = v
	}
	return merged
}

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonAlphaNum.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "form"
	}
	return slug
}
