package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/parisxmas/formforge/internal/auth"
	"github.com/parisxmas/formforge/internal/models"
	"github.com/parisxmas/formforge/internal/store"
)

type AuthService struct {
	store     *store.Store
	jwtSecret string
}

func NewAuthService(st *store.Store, jwtSecret string) *AuthService {
	return &AuthService{store: st, jwtSecret: jwtSecret}
}

type AuthResult struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

func (s *AuthService) Register(email, password, name string) (*AuthResult, error) {
	existing, _ := s.store.FindUserByEmail(email)
	if existing != nil {
		return nil, errors.New("email already registered")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         "user",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}
	token, err := auth.GenerateToken(s.jwtSecret, user.ID, email, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.ToResponse()}, nil
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("invalid credentials")
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, errors.New("invalid credentials")
	}
	token, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.ToResponse()}, nil
}

func (s *AuthService) Me(userID string) (*models.UserResponse, error) {
	user, err := s.store.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *AuthService) SeedAdmin(email, password string) error {
	existing, _ := s.store.FindUserByEmail(email)
	if existing != nil {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Admin",
		Role:         "admin",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	return s.store.CreateUser(user)
}
