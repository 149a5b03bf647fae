package fabric

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Service defines fabric inventory business logic.
type Service interface {
	CreateFabric(ctx context.Context, req CreateFabricRequest) (*Fabric, error)
	GetFabric(ctx context.Context, id string) (*Fabric, error)
	ListFabrics(ctx context.Context) ([]*Fabric, error)
	UpdateFabric(ctx context.Context, id string, req UpdateFabricRequest) (*Fabric, error)
	DeleteFabric(ctx context.Context, id string) error
	AdjustLength(ctx context.Context, id string, req AdjustLengthRequest) (*Fabric, error)
	ListLowStock(ctx context.Context) ([]*Fabric, error)
}

type service struct{ repo Repository }

// NewService creates a new fabric service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateFabric(ctx context.Context, req CreateFabricRequest) (*Fabric, error) {
	if req.Name == "" {
		return nil, apperr.Validationf("name is required")
	}
	if req.LengthM < 0 {
		return nil, apperr.Validationf("length_m cannot be negative")
	}
	if req.MinLengthM < 0 || req.PricePerMeter < 0 {
		return nil, apperr.Validationf("min_length_m and price_per_meter cannot be negative")
	}

	f := &Fabric{
		ID:            uuid.New(),
		Name:          req.Name,
		Color:         req.Color,
		LengthM:       req.LengthM,
		MinLengthM:    req.MinLengthM,
		PricePerMeter: req.PricePerMeter,
	}
	if req.SupplierID != "" {
		sid, err := uuid.Parse(req.SupplierID)
		if err != nil {
			return nil, apperr.Validationf("invalid supplier_id: %s", req.SupplierID)
		}
		f.SupplierID = &sid
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to persist fabric: %w", err)
	}
	return f, nil
}

func (s *service) GetFabric(ctx context.Context, id string) (*Fabric, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validationf("invalid fabric id: %s", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListFabrics(ctx context.Context) ([]*Fabric, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateFabric(ctx context.Context, id string, req UpdateFabricRequest) (*Fabric, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		f.Name = req.Name
	}
	if req.Color != "" {
		f.Color = req.Color
	}
	if req.SupplierID != "" {
		sid, err := uuid.Parse(req.SupplierID)
		if err != nil {
			return nil, apperr.Validationf("invalid supplier_id: %s", req.SupplierID)
		}
		f.SupplierID = &sid
	}
	if req.MinLengthM != nil {
		if *req.MinLengthM < 0 {
			return nil, apperr.Validationf("min_length_m cannot be negative")
		}
		f.MinLengthM = *req.MinLengthM
	}
	if req.PricePerMeter != nil {
		if *req.PricePerMeter < 0 {
			return nil, apperr.Validationf("price_per_meter cannot be negative")
		}
		f.PricePerMeter = *req.PricePerMeter
	}
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) DeleteFabric(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validationf("invalid fabric id: %s", id)
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) AdjustLength(ctx context.Context, id string, req AdjustLengthRequest) (*Fabric, error) {
	if req.DeltaM == 0 {
		return nil, apperr.Validationf("delta_m cannot be zero")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validationf("invalid fabric id: %s", id)
	}
	return s.repo.AdjustLength(ctx, id, req.DeltaM)
}

func (s *service) ListLowStock(ctx context.Context) ([]*Fabric, error) {
	return s.repo.ListLowStock(ctx)
}
