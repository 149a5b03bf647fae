package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, category string) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// ReplaceVariants swaps the entire variant list of a product in one
	// transaction. Partial edits go through this as well: callers send the
	// full desired list.
	ReplaceVariants(ctx context.Context, productID string, req ReplaceVariantsRequest) (*Product, error)

	// ListLowStock returns variants that have fallen below their minimum-stock
	// threshold.
	ListLowStock(ctx context.Context) ([]*Variant, error)
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if req.Name == "" {
		return nil, apperr.Validationf("name is required")
	}
	if req.Category == "" {
		return nil, apperr.Validationf("category is required")
	}

	p := &Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		SKU:         req.SKU,
		IsActive:    true,
	}

	variants, err := buildVariants(p.ID, req.Variants)
	if err != nil {
		return nil, err
	}
	p.Variants = variants

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to persist product: %w", err)
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validationf("invalid product id: %s", id)
	}
	return s.repo.GetProductByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, category string) ([]*Product, error) {
	return s.repo.ListProducts(ctx, category)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.SKU != "" {
		p.SKU = req.SKU
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validationf("invalid product id: %s", id)
	}
	return s.repo.DeleteProduct(ctx, id)
}

func (s *service) ReplaceVariants(ctx context.Context, productID string, req ReplaceVariantsRequest) (*Product, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, apperr.Validationf("invalid product id: %s", productID)
	}
	if _, err := s.repo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	variants, err := buildVariants(pid, req.Variants)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceVariants(ctx, productID, variants); err != nil {
		return nil, fmt.Errorf("failed to replace variants: %w", err)
	}
	return s.repo.GetProductByID(ctx, productID)
}

func (s *service) ListLowStock(ctx context.Context) ([]*Variant, error) {
	return s.repo.ListLowStockVariants(ctx)
}

func buildVariants(productID uuid.UUID, inputs []VariantInput) ([]*Variant, error) {
	var variants []*Variant
	for i, in := range inputs {
		if in.Stock < 0 {
			return nil, apperr.Validationf("variant %d: stock cannot be negative", i)
		}
		if in.Price < 0 || in.Cost < 0 {
			return nil, apperr.Validationf("variant %d: price and cost cannot be negative", i)
		}
		if in.MinStock < 0 {
			return nil, apperr.Validationf("variant %d: min_stock cannot be negative", i)
		}
		variants = append(variants, &Variant{
			ID:        uuid.New(),
			ProductID: productID,
			Size:      in.Size,
			Color:     in.Color,
			Stock:     in.Stock,
			Price:     in.Price,
			Cost:      in.Cost,
			MinStock:  in.MinStock,
		})
	}
	return variants, nil
}
