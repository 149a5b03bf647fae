package auth

import (
	"context"

	"github.com/google/uuid"
)

// Service defines authentication business logic.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

// LoginRequest is the payload for exchanging credentials for a token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed token and the authenticated identity.
type LoginResponse struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

// Principal is the request-scoped identity extracted from a verified token.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a child context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext extracts the principal placed by the token middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
