package models

// Submission is one captured value set for a form, stored after derived
// fields were recomputed and every field passed validation.
type Submission struct {
	ID        string         `json:"id,omitempty"`
	FormID    string         `json:"formId"`
	Data      map[string]any `json:"data"`
	CreatedBy string         `json:"createdBy"`
	CreatedAt string         `json:"createdAt"`
}
