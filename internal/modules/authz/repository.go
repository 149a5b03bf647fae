package authz

import "context"

// Repository defines data access for the permission table.
type Repository interface {
	ListPermissions(ctx context.Context) ([]Permission, error)
	UpsertPermission(ctx context.Context, p Permission) error
	DeletePermission(ctx context.Context, resource, role string) error
}
