package supplier

import (
	"context"

	"github.com/google/uuid"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Service defines supplier business logic.
type Service interface {
	CreateSupplier(ctx context.Context, req UpsertSupplierRequest) (*Supplier, error)
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	UpdateSupplier(ctx context.Context, id string, req UpsertSupplierRequest) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
}

type service struct{ repo Repository }

// NewService creates a new supplier service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateSupplier(ctx context.Context, req UpsertSupplierRequest) (*Supplier, error) {
	if req.Name == "" {
		return nil, apperr.Validationf("name is required")
	}
	sup := &Supplier{
		ID:            uuid.New(),
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		TaxID:         req.TaxID,
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validationf("invalid supplier id: %s", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateSupplier(ctx context.Context, id string, req UpsertSupplierRequest) (*Supplier, error) {
	sup, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		sup.Name = req.Name
	}
	if req.ContactPerson != "" {
		sup.ContactPerson = req.ContactPerson
	}
	if req.Email != "" {
		sup.Email = req.Email
	}
	if req.Phone != "" {
		sup.Phone = req.Phone
	}
	if req.Address != "" {
		sup.Address = req.Address
	}
	if req.TaxID != "" {
		sup.TaxID = req.TaxID
	}
	if req.Notes != "" {
		sup.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) DeleteSupplier(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validationf("invalid supplier id: %s", id)
	}
	return s.repo.Delete(ctx, id)
}
