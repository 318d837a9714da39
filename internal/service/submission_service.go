package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/parisxmas/formforge/internal/engine"
	"github.com/parisxmas/formforge/internal/models"
	"github.com/parisxmas/formforge/internal/store"
)

// FieldErrors carries per-field validation messages for a rejected
// submission. It satisfies error so services can return it directly.
type FieldErrors map[string]string

func (e FieldErrors) Error() string { return "validation failed" }

type SubmissionService struct {
	store *store.Store
	forms *FormService
}

func NewSubmissionService(st *store.Store, forms *FormService) *SubmissionService {
	return &SubmissionService{store: st, forms: forms}
}

// Create captures a value set for a form. Derived fields are recomputed
// first, then every field is validated; a failure rejects the submission
// with a FieldErrors describing each offending field.
func (s *SubmissionService) Create(formID string, data map[string]any, createdBy string) (*models.Submission, error) {
	form, err := s.forms.Get(formID)
	if err != nil {
		return nil, err
	}

	values := engine.Recompute(form.Fields, mergeDefaults(form.Fields, data))
	if errs := engine.ValidateAll(form.Fields, values); len(errs) > 0 {
		return nil, FieldErrors(errs)
	}

	sub := &models.Submission{
		ID:        uuid.NewString(),
		FormID:    formID,
		Data:      values,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.CreateSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubmissionService) List(formID string, skip, limit int) ([]models.Submission, int, error) {
	return s.store.ListSubmissions(formID, skip, limit)
}

func (s *SubmissionService) Get(id string) (*models.Submission, error) {
	sub, err := s.store.GetSubmission(id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.New("submission not found")
	}
	return sub, nil
}

func (s *SubmissionService) Delete(id string) error {
	sub, err := s.store.GetSubmission(id)
	if err != nil {
		return err
	}
	if sub == nil {
		return errors.New("submission not found")
	}
	return s.store.DeleteSubmission(id)
}

func (s *SubmissionService) CountByForm(formID string) (int, error) {
	return s.store.CountSubmissionsByForm(formID)
}
