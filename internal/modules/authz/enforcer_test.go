package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	perms []Permission
}

func (r *fakeRepo) ListPermissions(_ context.Context) ([]Permission, error) {
	return r.perms, nil
}

func (r *fakeRepo) UpsertPermission(_ context.Context, p Permission) error {
	for i := range r.perms {
		if r.perms[i].Resource == p.Resource && r.perms[i].Role == p.Role {
			r.perms[i] = p
			return nil
		}
	}
	r.perms = append(r.perms, p)
	return nil
}

func (r *fakeRepo) DeletePermission(_ context.Context, resource, role string) error {
	for i := range r.perms {
		if r.perms[i].Resource == resource && r.perms[i].Role == role {
			r.perms = append(r.perms[:i], r.perms[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestEnforcerDeniesByDefault(t *testing.T) {
	e := NewEnforcer(&fakeRepo{}, zap.NewNop())
	require.NoError(t, e.Load(context.Background()))

	assert.False(t, e.Allowed("orders", "CASHIER"))
	assert.False(t, e.Allowed("fabrics", "PRODUCTION"))
}

func TestEnforcerAdminBypass(t *testing.T) {
	e := NewEnforcer(&fakeRepo{}, zap.NewNop())
	require.NoError(t, e.Load(context.Background()))

	assert.True(t, e.Allowed("permissions", "ADMIN"))
	assert.True(t, e.Allowed("anything", "ADMIN"))
}

func TestEnforcerHonorsTable(t *testing.T) {
	repo := &fakeRepo{perms: []Permission{
		{Resource: "orders", Role: "CASHIER", Allowed: true},
		{Resource: "fabrics", Role: "CASHIER", Allowed: false},
	}}
	e := NewEnforcer(repo, zap.NewNop())
	require.NoError(t, e.Load(context.Background()))

	assert.True(t, e.Allowed("orders", "CASHIER"))
	assert.False(t, e.Allowed("fabrics", "CASHIER"))
	assert.False(t, e.Allowed("orders", "PRODUCTION"))
}

func TestEnforcerReloadPicksUpChanges(t *testing.T) {
	repo := &fakeRepo{}
	e := NewEnforcer(repo, zap.NewNop())
	svc := NewService(repo, e)
	require.NoError(t, e.Load(context.Background()))

	assert.False(t, e.Allowed("orders", "CASHIER"))

	// SetPermission reloads the snapshot itself.
	_, err := svc.SetPermission(context.Background(), SetPermissionRequest{
		Resource: "Orders", Role: "cashier", Allowed: true,
	})
	require.NoError(t, err)
	assert.True(t, e.Allowed("orders", "CASHIER"))

	require.NoError(t, svc.RemovePermission(context.Background(), "orders", "cashier"))
	assert.False(t, e.Allowed("orders", "CASHIER"))
}

func TestResourceFromPath(t *testing.T) {
	assert.Equal(t, "orders", resourceFromPath("/api/v1/orders"))
	assert.Equal(t, "orders", resourceFromPath("/api/v1/orders/123/payments"))
	assert.Equal(t, "reports", resourceFromPath("/api/v1/reports/sales"))
	assert.Equal(t, "", resourceFromPath("/healthz"))
	assert.Equal(t, "", resourceFromPath("/api/v2/orders"))
}
