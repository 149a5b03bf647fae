package recipe

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Service defines bill-of-materials business logic.
type Service interface {
	SetRecipe(ctx context.Context, productID string, req SetRecipeRequest) ([]*Line, error)
	GetRecipe(ctx context.Context, productID string) ([]*Line, error)
	ListByFabric(ctx context.Context, fabricID string) ([]*Line, error)
}

type service struct{ repo Repository }

// NewService creates a new recipe service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) SetRecipe(ctx context.Context, productID string, req SetRecipeRequest) ([]*Line, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, apperr.Validationf("invalid product id: %s", productID)
	}

	seen := make(map[uuid.UUID]bool)
	var lines []*Line
	for i, in := range req.Lines {
		fid, err := uuid.Parse(in.FabricID)
		if err != nil {
			return nil, apperr.Validationf("line %d: invalid fabric_id: %s", i, in.FabricID)
		}
		if in.MetersPerUnit <= 0 {
			return nil, apperr.Validationf("line %d: meters_per_unit must be greater than zero", i)
		}
		if seen[fid] {
			return nil, apperr.Validationf("line %d: fabric %s listed twice", i, in.FabricID)
		}
		seen[fid] = true
		lines = append(lines, &Line{
			ID:            uuid.New(),
			ProductID:     pid,
			FabricID:      fid,
			MetersPerUnit: in.MetersPerUnit,
		})
	}

	if err := s.repo.SetRecipe(ctx, productID, lines); err != nil {
		return nil, fmt.Errorf("failed to persist recipe: %w", err)
	}
	return lines, nil
}

func (s *service) GetRecipe(ctx context.Context, productID string) ([]*Line, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, apperr.Validationf("invalid product id: %s", productID)
	}
	return s.repo.GetRecipe(ctx, productID)
}

func (s *service) ListByFabric(ctx context.Context, fabricID string) ([]*Line, error) {
	if _, err := uuid.Parse(fabricID); err != nil {
		return nil, apperr.Validationf("invalid fabric id: %s", fabricID)
	}
	return s.repo.ListByFabric(ctx, fabricID)
}
