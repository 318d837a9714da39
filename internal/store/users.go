package store

import (
	"database/sql"
	"errors"

	"github.com/parisxmas/formforge/internal/models"
)

func (s *Store) CreateUser(u *models.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users(id, email, password_hash, name, role, created_at) VALUES(?,?,?,?,?,?)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.CreatedAt,
	)
	return err
}

func (s *Store) FindUserByEmail(email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, password_hash, name, role, created_at FROM users WHERE email=?`, email))
}

func (s *Store) FindUserByID(id string) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, password_hash, name, role, created_at FROM users WHERE id=?`, id))
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
