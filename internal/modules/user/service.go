package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Service defines user management business logic.
type Service interface {
	RegisterUser(ctx context.Context, req RegisterRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateRole(ctx context.Context, id string, role string) (*User, error)
	SetActive(ctx context.Context, id string, active bool) (*User, error)
}

// RegisterRequest is the payload for creating a staff account. It carries no
// role: registration is public, so every new account starts as CASHIER and
// can only be promoted through the protected UpdateRole endpoint.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RegisterUser(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Email == "" {
		return nil, apperr.Validationf("email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validationf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         RoleCashier,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validationf("invalid user id: %s", id)
	}
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *service) UpdateRole(ctx context.Context, id string, role string) (*User, error) {
	next := Role(strings.ToUpper(role))
	if !ValidRole(next) {
		return nil, apperr.Validationf("invalid role: %s", role)
	}
	if _, err := s.repo.GetUserByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRole(ctx, id, next); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) SetActive(ctx context.Context, id string, active bool) (*User, error) {
	if _, err := s.repo.GetUserByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}
