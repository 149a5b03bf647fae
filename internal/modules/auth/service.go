package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
	"github.com/ateliersoft/atelier-backend/internal/modules/user"
)

const tokenTTL = 24 * time.Hour

type service struct {
	users  user.Repository
	secret []byte
}

// NewService creates an authentication service signing tokens with secret.
func NewService(users user.Repository, secret string) Service {
	return &service{users: users, secret: []byte(secret)}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperr.Validationf("email and password are required")
	}

	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		// Do not leak whether the account exists.
		return nil, apperr.Validationf("invalid credentials")
	}
	if !u.IsActive {
		return nil, apperr.Validationf("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Validationf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  u.ID.String(),
		"role": string(u.Role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResponse{
		Token:  signed,
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
	}, nil
}
