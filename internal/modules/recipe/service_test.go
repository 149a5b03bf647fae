package recipe

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

type fakeRepo struct {
	recipes map[string][]*Line
}

func newFakeRepo() *fakeRepo { return &fakeRepo{recipes: map[string][]*Line{}} }

func (r *fakeRepo) SetRecipe(_ context.Context, productID string, lines []*Line) error {
	r.recipes[productID] = lines
	return nil
}

func (r *fakeRepo) GetRecipe(_ context.Context, productID string) ([]*Line, error) {
	return r.recipes[productID], nil
}

func (r *fakeRepo) ListByFabric(_ context.Context, fabricID string) ([]*Line, error) {
	var out []*Line
	for _, lines := range r.recipes {
		for _, ln := range lines {
			if ln.FabricID.String() == fabricID {
				out = append(out, ln)
			}
		}
	}
	return out, nil
}

func TestSetRecipeReplacesLines(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	pid := uuid.NewString()
	f1, f2 := uuid.NewString(), uuid.NewString()

	lines, err := svc.SetRecipe(context.Background(), pid, SetRecipeRequest{
		Lines: []LineInput{
			{FabricID: f1, MetersPerUnit: 1.5},
			{FabricID: f2, MetersPerUnit: 0.25},
		},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	lines, err = svc.SetRecipe(context.Background(), pid, SetRecipeRequest{
		Lines: []LineInput{{FabricID: f1, MetersPerUnit: 2}},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2.0, lines[0].MetersPerUnit)

	stored, err := svc.GetRecipe(context.Background(), pid)
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestSetRecipeValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	pid := uuid.NewString()
	fid := uuid.NewString()
	var verr *apperr.ValidationError

	_, err := svc.SetRecipe(context.Background(), "nope", SetRecipeRequest{})
	require.ErrorAs(t, err, &verr)

	_, err = svc.SetRecipe(context.Background(), pid, SetRecipeRequest{
		Lines: []LineInput{{FabricID: fid, MetersPerUnit: 0}},
	})
	require.ErrorAs(t, err, &verr)

	_, err = svc.SetRecipe(context.Background(), pid, SetRecipeRequest{
		Lines: []LineInput{
			{FabricID: fid, MetersPerUnit: 1},
			{FabricID: fid, MetersPerUnit: 2},
		},
	})
	require.ErrorAs(t, err, &verr)
}

func TestSetRecipeEmptyClears(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	pid := uuid.NewString()

	_, err := svc.SetRecipe(context.Background(), pid, SetRecipeRequest{
		Lines: []LineInput{{FabricID: uuid.NewString(), MetersPerUnit: 1}},
	})
	require.NoError(t, err)

	lines, err := svc.SetRecipe(context.Background(), pid, SetRecipeRequest{})
	require.NoError(t, err)
	assert.Empty(t, lines)

	stored, err := svc.GetRecipe(context.Background(), pid)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
