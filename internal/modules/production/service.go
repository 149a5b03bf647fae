package production

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Service defines production order business logic.
type Service interface {
	// CreateOrder manually creates a production order ("for stock" when no
	// sales order is referenced).
	CreateOrder(ctx context.Context, req CreateRequest) (*ProductionOrder, error)

	GetOrder(ctx context.Context, id string) (*ProductionOrder, error)
	ListOrders(ctx context.Context, status string) ([]*ProductionOrder, error)
	ListByOrder(ctx context.Context, orderID string) ([]*ProductionOrder, error)

	// UpdateStatus advances a job through its state machine. The DONE
	// transition runs atomically: recompute the fabric requirement from the
	// recipe and deduct every fabric, failing with InsufficientMaterialError
	// if any fabric no longer holds enough meters.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*ProductionOrder, error)
}

type service struct{ repo Repository }

// NewService creates a new production service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateOrder(ctx context.Context, req CreateRequest) (*ProductionOrder, error) {
	if req.Quantity <= 0 {
		return nil, apperr.Validationf("quantity must be greater than zero")
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperr.Validationf("invalid product_id: %s", req.ProductID)
	}
	vid, err := uuid.Parse(req.VariantID)
	if err != nil {
		return nil, apperr.Validationf("invalid variant_id: %s", req.VariantID)
	}

	job := &ProductionOrder{
		ID:        uuid.New(),
		ProductID: pid,
		VariantID: vid,
		Quantity:  req.Quantity,
		Status:    StatusPending,
		Notes:     req.Notes,
	}
	if req.OrderID != "" {
		oid, err := uuid.Parse(req.OrderID)
		if err != nil {
			return nil, apperr.Validationf("invalid order_id: %s", req.OrderID)
		}
		job.OrderID = &oid
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist production order: %w", err)
	}
	return job, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*ProductionOrder, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validationf("invalid production order id: %s", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListOrders(ctx context.Context, status string) ([]*ProductionOrder, error) {
	return s.repo.List(ctx, strings.ToUpper(status))
}

func (s *service) ListByOrder(ctx context.Context, orderID string) ([]*ProductionOrder, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, apperr.Validationf("invalid order id: %s", orderID)
	}
	return s.repo.ListByOrder(ctx, orderID)
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*ProductionOrder, error) {
	if req.Status == "" {
		return nil, apperr.Validationf("status is required")
	}
	jid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validationf("invalid production order id: %s", id)
	}

	next := Status(strings.ToUpper(req.Status))
	if next == StatusDone {
		if err := s.complete(ctx, jid); err != nil {
			return nil, err
		}
		return s.repo.GetByID(ctx, id)
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(job.Status, next) {
		return nil, apperr.Validationf("cannot transition production order from %s to %s", job.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, id, next, req.Notes); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// complete finishes a job in one transaction: re-resolve the recipe, deduct
// every fabric, and for for-stock jobs add the produced units to the variant.
// Any fabric shortfall aborts with InsufficientMaterialError and no change,
// which guards against fabric consumed by a concurrent completion between
// job creation and now.
func (s *service) complete(ctx context.Context, id uuid.UUID) error {
	return s.repo.InTx(ctx, func(tx Txn) error {
		job, err := tx.JobForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !CanTransition(job.Status, StatusDone) {
			return apperr.Validationf("cannot transition production order from %s to %s", job.Status, StatusDone)
		}

		lines, err := tx.RecipeLines(ctx, job.ProductID)
		if err != nil {
			return err
		}
		for _, ln := range lines {
			f, err := tx.FabricForUpdate(ctx, ln.FabricID)
			if err != nil {
				return err
			}
			need := ln.MetersPerUnit * float64(job.Quantity)
			if f.LengthM < need {
				return &apperr.InsufficientMaterialError{
					FabricID:   f.ID.String(),
					FabricName: f.Name,
					RequiredM:  need,
					AvailableM: f.LengthM,
				}
			}
			if err := tx.SetFabricLength(ctx, f.ID, f.LengthM-need); err != nil {
				return err
			}
		}

		// Jobs without an originating sales order were built for stock: the
		// produced units become sellable inventory. Jobs tied to a sale ship
		// against that order directly.
		if job.OrderID == nil {
			stock, err := tx.VariantStockForUpdate(ctx, job.VariantID)
			if err != nil {
				return err
			}
			if err := tx.SetVariantStock(ctx, job.VariantID, stock+job.Quantity); err != nil {
				return err
			}
		}

		return tx.SetJobDone(ctx, job.ID)
	})
}
