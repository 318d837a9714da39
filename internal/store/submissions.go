package store

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/parisxmas/formforge/internal/models"
)

func (s *Store) CreateSubmission(sub *models.Submission) error {
	data, err := json.Marshal(sub.Data)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO submissions(id, form_id, data, created_by, created_at) VALUES(?,?,?,?,?)`,
		sub.ID, sub.FormID, string(data), sub.CreatedBy, sub.CreatedAt,
	)
	return err
}

// ListSubmissions returns a page of a form's submissions, newest first,
// along with the total count. Rows with unreadable data are skipped.
func (s *Store) ListSubmissions(formID string, skip, limit int) ([]models.Submission, int, error) {
	total, err := s.CountSubmissionsByForm(formID)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.db.Query(
		`SELECT id, form_id, data, created_by, created_at FROM submissions
		 WHERE form_id=? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		formID, limit, skip,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	subs := make([]models.Submission, 0, limit)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			continue
		}
		subs = append(subs, *sub)
	}
	return subs, total, rows.Err()
}

func (s *Store) GetSubmission(id string) (*models.Submission, error) {
	row := s.db.QueryRow(
		`SELECT id, form_id, data, created_by, created_at FROM submissions WHERE id=?`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, nil
	}
	return sub, nil
}

func (s *Store) DeleteSubmission(id string) error {
	_, err := s.db.Exec(`DELETE FROM submissions WHERE id=?`, id)
	return err
}

func (s *Store) CountSubmissionsByForm(formID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM submissions WHERE form_id=?`, formID).Scan(&n)
	return n, err
}

// CountSubmissions returns the total across all forms.
func (s *Store) CountSubmissions() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM submissions`).Scan(&n)
	return n, err
}

// SearchSubmissions returns submissions whose stored data contains the
// query text. formID narrows the search to one form when non-empty.
func (s *Store) SearchSubmissions(formID, query string, limit int) ([]models.Submission, error) {
	like := "%" + query + "%"
	var (
		rows *sql.Rows
		err  error
	)
	if formID != "" {
		rows, err = s.db.Query(
			`SELECT id, form_id, data, created_by, created_at FROM submissions
			 WHERE form_id=? AND data LIKE ? ORDER BY created_at DESC LIMIT ?`,
			formID, like, limit)
	} else {
		rows, err = s.db.Query(
			`SELECT id, form_id, data, created_by, created_at FROM submissions
			 WHERE data LIKE ? ORDER BY created_at DESC LIMIT ?`,
			like, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]models.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			continue
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var sub models.Submission
	var data string
	if err := row.Scan(&sub.ID, &sub.FormID, &data, &sub.CreatedBy, &sub.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &sub.Data); err != nil {
		return nil, err
	}
	return &sub, nil
}
