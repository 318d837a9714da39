package store

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/parisxmas/formforge/internal/schema"
)

// CreateForm persists a schema snapshot. The snapshot's ID, slug, and
// timestamps must already be set by the service layer.
func (s *Store) CreateForm(form *schema.FormSchema) error {
	fields, err := json.Marshal(form.Fields)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO forms(id, name, slug, created_by, created_at, fields) VALUES(?,?,?,?,?,?)`,
		form.ID, form.Name, form.Slug, form.CreatedBy, form.CreatedAt, string(fields),
	)
	return err
}

// ListForms returns all snapshots, newest first. Rows whose stored field
// list no longer parses are skipped: malformed persisted data degrades to
// missing data, never to an error.
func (s *Store) ListForms() ([]schema.FormSchema, error) {
	rows, err := s.db.Query(
		`SELECT id, name, slug, created_by, created_at, fields FROM forms ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := make([]schema.FormSchema, 0)
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			continue
		}
		forms = append(forms, *form)
	}
	return forms, rows.Err()
}

// GetForm returns the snapshot with the given ID, or nil when absent or
// unreadable.
func (s *Store) GetForm(id string) (*schema.FormSchema, error) {
	row := s.db.QueryRow(
		`SELECT id, name, slug, created_by, created_at, fields FROM forms WHERE id=?`, id)
	form, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, nil
	}
	return form, nil
}

// GetFormBySlug returns the snapshot with the given slug, or nil.
func (s *Store) GetFormBySlug(slug string) (*schema.FormSchema, error) {
	row := s.db.QueryRow(
		`SELECT id, name, slug, created_by, created_at, fields FROM forms WHERE slug=?`, slug)
	form, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, nil
	}
	return form, nil
}

// DeleteForm removes a snapshot and its submissions.
func (s *Store) DeleteForm(id string) error {
	if _, err := s.db.Exec(`DELETE FROM submissions WHERE form_id=?`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM forms WHERE id=?`, id)
	return err
}

// CountForms returns the number of stored snapshots.
func (s *Store) CountForms() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM forms`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*schema.FormSchema, error) {
	var form schema.FormSchema
	var fields string
	if err := row.Scan(&form.ID, &form.Name, &form.Slug, &form.CreatedBy, &form.CreatedAt, &fields); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fields), &form.Fields); err != nil {
		return nil, err
	}
	return &form, nil
}
