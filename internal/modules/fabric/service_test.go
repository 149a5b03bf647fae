package fabric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

type fakeRepo struct {
	fabrics map[string]*Fabric
}

func newFakeRepo() *fakeRepo { return &fakeRepo{fabrics: map[string]*Fabric{}} }

func (r *fakeRepo) Create(_ context.Context, f *Fabric) error {
	r.fabrics[f.ID.String()] = f
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Fabric, error) {
	f, ok := r.fabrics[id]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "fabric", ID: id}
	}
	return f, nil
}

func (r *fakeRepo) List(_ context.Context) ([]*Fabric, error) {
	var out []*Fabric
	for _, f := range r.fabrics {
		out = append(out, f)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, f *Fabric) error {
	r.fabrics[f.ID.String()] = f
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.fabrics, id)
	return nil
}

func (r *fakeRepo) AdjustLength(_ context.Context, id string, deltaM float64) (*Fabric, error) {
	f, ok := r.fabrics[id]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "fabric", ID: id}
	}
	next := f.LengthM + deltaM
	if next < 0 {
		return nil, apperr.Validationf("adjustment of %.2fm would take fabric below zero (%.2fm on hand)", deltaM, f.LengthM)
	}
	f.LengthM = next
	return f, nil
}

func (r *fakeRepo) ListLowStock(_ context.Context) ([]*Fabric, error) {
	var out []*Fabric
	for _, f := range r.fabrics {
		if f.LengthM < f.MinLengthM {
			out = append(out, f)
		}
	}
	return out, nil
}

func TestAdjustLength(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	f, err := svc.CreateFabric(context.Background(), CreateFabricRequest{
		Name: "linen", LengthM: 20, MinLengthM: 5, PricePerMeter: 12,
	})
	require.NoError(t, err)

	f, err = svc.AdjustLength(context.Background(), f.ID.String(), AdjustLengthRequest{DeltaM: -7.5})
	require.NoError(t, err)
	assert.Equal(t, 12.5, f.LengthM)

	f, err = svc.AdjustLength(context.Background(), f.ID.String(), AdjustLengthRequest{DeltaM: 30})
	require.NoError(t, err)
	assert.Equal(t, 42.5, f.LengthM)
}

func TestAdjustLengthRejectsNegativeResult(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	f, err := svc.CreateFabric(context.Background(), CreateFabricRequest{
		Name: "silk", LengthM: 3,
	})
	require.NoError(t, err)

	var verr *apperr.ValidationError
	_, err = svc.AdjustLength(context.Background(), f.ID.String(), AdjustLengthRequest{DeltaM: -3.5})
	require.ErrorAs(t, err, &verr)

	_, err = svc.AdjustLength(context.Background(), f.ID.String(), AdjustLengthRequest{DeltaM: 0})
	require.ErrorAs(t, err, &verr)

	got, err := svc.GetFabric(context.Background(), f.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.LengthM)
}

func TestCreateFabricValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	var verr *apperr.ValidationError

	_, err := svc.CreateFabric(context.Background(), CreateFabricRequest{LengthM: 5})
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateFabric(context.Background(), CreateFabricRequest{Name: "wool", LengthM: -1})
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateFabric(context.Background(), CreateFabricRequest{
		Name: "wool", SupplierID: "not-a-uuid",
	})
	require.ErrorAs(t, err, &verr)
}

func TestListLowStock(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.CreateFabric(context.Background(), CreateFabricRequest{
		Name: "linen", LengthM: 2, MinLengthM: 10,
	})
	require.NoError(t, err)
	_, err = svc.CreateFabric(context.Background(), CreateFabricRequest{
		Name: "denim", LengthM: 50, MinLengthM: 10,
	})
	require.NoError(t, err)

	low, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "linen", low[0].Name)
}
