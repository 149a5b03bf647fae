package reporting

import (
	"context"
	"time"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

// Service defines reporting business logic.
type Service interface {
	SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error)
	OutstandingOrders(ctx context.Context) ([]OutstandingOrder, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
	FabricValuations(ctx context.Context) ([]FabricValuation, error)
}

type service struct {
	repo Repository
}

// NewService creates a new reporting service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return s.repo.SalesByDay(ctx, from, to)
}

func (s *service) OutstandingOrders(ctx context.Context) ([]OutstandingOrder, error) {
	return s.repo.OutstandingOrders(ctx)
}

func (s *service) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	return s.repo.TopProducts(ctx, from, to, limit)
}

func (s *service) FabricValuations(ctx context.Context) ([]FabricValuation, error) {
	return s.repo.FabricValuations(ctx)
}

func checkRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return apperr.Validationf("from and to are required")
	}
	if !to.After(from) {
		return apperr.Validationf("to must be after from")
	}
	return nil
}
