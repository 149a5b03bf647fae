package authz

import (
	"context"
	"strings"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Service defines permission management business logic. Writes reload
// the enforcer snapshot so changes take effect immediately.
type Service interface {
	ListPermissions(ctx context.Context) ([]Permission, error)
	SetPermission(ctx context.Context, req SetPermissionRequest) (*Permission, error)
	RemovePermission(ctx context.Context, resource, role string) error
	Reload(ctx context.Context) error
}

// SetPermissionRequest is the payload for granting or revoking access.
type SetPermissionRequest struct {
	Resource string `json:"resource"`
	Role     string `json:"role"`
	Allowed  bool   `json:"allowed"`
}

type service struct {
	repo     Repository
	enforcer *Enforcer
}

// NewService creates a new permission service.
func NewService(repo Repository, enforcer *Enforcer) Service {
	return &service{repo: repo, enforcer: enforcer}
}

func (s *service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

func (s *service) SetPermission(ctx context.Context, req SetPermissionRequest) (*Permission, error) {
	resource := strings.ToLower(strings.TrimSpace(req.Resource))
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if resource == "" || role == "" {
		return nil, apperr.Validationf("resource and role are required")
	}
	p := Permission{Resource: resource, Role: role, Allowed: req.Allowed}
	if err := s.repo.UpsertPermission(ctx, p); err != nil {
		return nil, err
	}
	if err := s.enforcer.Load(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *service) RemovePermission(ctx context.Context, resource, role string) error {
	if err := s.repo.DeletePermission(ctx, strings.ToLower(resource), strings.ToUpper(role)); err != nil {
		return err
	}
	return s.enforcer.Load(ctx)
}

func (s *service) Reload(ctx context.Context) error {
	return s.enforcer.Load(ctx)
}
