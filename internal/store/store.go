// Package store persists users, form snapshots, and submissions in a
// local SQLite database. Form snapshots are immutable: there is a create
// and a delete path, never an update.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle shared by the repositories.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the tables
// exist. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// The driver allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	stmts := []string{
		`PRAGMA foreign_keys=ON;`,
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS forms (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			slug       TEXT NOT NULL UNIQUE,
			created_by TEXT NOT NULL,
			created_at TEXT NOT NULL,
			fields     TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id         TEXT PRIMARY KEY,
			form_id    TEXT NOT NULL,
			data       TEXT NOT NULL,
			created_by TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_form ON submissions(form_id, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
