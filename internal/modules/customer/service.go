package customer

import (
	"context"

	"github.com/google/uuid"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Service defines customer business logic.
type Service interface {
	CreateCustomer(ctx context.Context, req UpsertCustomerRequest) (*Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	ListCustomers(ctx context.Context, search string) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, id string, req UpsertCustomerRequest) (*Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type service struct{ repo Repository }

// NewService creates a new customer service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateCustomer(ctx context.Context, req UpsertCustomerRequest) (*Customer, error) {
	if req.Name == "" {
		return nil, apperr.Validationf("name is required")
	}
	c := &Customer{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
		Notes:   req.Notes,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validationf("invalid customer id: %s", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListCustomers(ctx context.Context, search string) ([]*Customer, error) {
	return s.repo.List(ctx, search)
}

func (s *service) UpdateCustomer(ctx context.Context, id string, req UpsertCustomerRequest) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		c.Name = req.Name
	}
	if req.Email != "" {
		c.Email = req.Email
	}
	if req.Phone != "" {
		c.Phone = req.Phone
	}
	if req.Address != "" {
		c.Address = req.Address
	}
	if req.City != "" {
		c.City = req.City
	}
	if req.Country != "" {
		c.Country = req.Country
	}
	if req.Notes != "" {
		c.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validationf("invalid customer id: %s", id)
	}
	return s.repo.Delete(ctx, id)
}
