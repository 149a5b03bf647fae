package order

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// Service defines order management business logic.
type Service interface {
	// PlaceOrder runs the fulfillment decision for a cart inside one
	// serializable transaction: per line item it either reserves finished
	// stock or schedules manufacturing from fabric, and computes one overall
	// order status.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	// ApplyPayment atomically increments the amount paid and recomputes the
	// payment status. Amount must be positive and must not exceed the
	// outstanding balance.
	ApplyPayment(ctx context.Context, id string, req ApplyPaymentRequest) (*Order, error)

	GetOrder(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	ListByStatus(ctx context.Context, status string) ([]*Order, error)

	// UpdateStatus performs a manual lifecycle transition. The decider sets
	// the initial status; it is never recomputed here.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error)

	// CancelOrder cancels an order, returns reserved stock to its variants,
	// and cancels any still-pending production orders it spawned.
	CancelOrder(ctx context.Context, id string) (*Order, error)
}

type service struct{ repo Repository }

// NewService creates a new order service.
func NewService(repo Repository) Service { return &service{repo: repo} }

// cartLine is a parsed, validated line item.
type cartLine struct {
	productID uuid.UUID
	variantID uuid.UUID
	quantity  int
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validationf("order must contain at least one item")
	}

	channel := Channel(strings.ToUpper(req.Channel))
	if channel == "" {
		channel = ChannelOnline
	}
	switch channel {
	case ChannelPOS, ChannelOnline, ChannelWholesale:
	default:
		return nil, apperr.Validationf("invalid channel: %s (allowed: POS, ONLINE, WHOLESALE)", req.Channel)
	}

	var customerID *uuid.UUID
	if req.CustomerID != "" {
		cid, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, apperr.Validationf("invalid customer_id: %s", req.CustomerID)
		}
		customerID = &cid
	}

	lines := make([]cartLine, 0, len(req.Items))
	for i, ci := range req.Items {
		if ci.Quantity <= 0 {
			return nil, apperr.Validationf("item %d: quantity must be greater than zero", i)
		}
		pid, err := uuid.Parse(ci.ProductID)
		if err != nil {
			return nil, apperr.Validationf("item %d: invalid product_id: %s", i, ci.ProductID)
		}
		vid, err := uuid.Parse(ci.VariantID)
		if err != nil {
			return nil, apperr.Validationf("item %d: invalid variant_id: %s", i, ci.VariantID)
		}
		lines = append(lines, cartLine{productID: pid, variantID: vid, quantity: ci.Quantity})
	}

	var placed *Order
	err := s.repo.InTx(ctx, func(tx Txn) error {
		o, err := s.decide(ctx, tx, customerID, channel, req.Notes, lines)
		if err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// decide is the order fulfillment decider. It stages stock decrements,
// production drafts, and in-call fabric consumption without writing, then
// commits according to the final status: SOLD_OUT persists the order record
// alone and drops everything staged; PROCESSING or PENDING persists the
// order, applies every staged decrement, and creates every staged
// production order.
func (s *service) decide(ctx context.Context, tx Txn, customerID *uuid.UUID, channel Channel, notes string, lines []cartLine) (*Order, error) {
	// Resolve every distinct product's variant list up front, row-locked.
	variantsByProduct := make(map[uuid.UUID]map[uuid.UUID]*StockedVariant)
	for _, ln := range lines {
		if _, ok := variantsByProduct[ln.productID]; ok {
			continue
		}
		variants, err := tx.VariantsForUpdate(ctx, ln.productID)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]*StockedVariant, len(variants))
		for _, v := range variants {
			byID[v.ID] = v
		}
		variantsByProduct[ln.productID] = byID
	}

	orderID := uuid.New()

	// Build the order items. Every requested line becomes an item on the
	// order record, including lines after a SOLD_OUT break.
	items := make([]*Item, 0, len(lines))
	var total float64
	for _, ln := range lines {
		v := variantsByProduct[ln.productID][ln.variantID]
		if v == nil {
			return nil, &apperr.NotFoundError{Entity: "variant", ID: ln.variantID.String()}
		}
		lineTotal := v.Price * float64(ln.quantity)
		total += lineTotal
		items = append(items, &Item{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: ln.productID,
			VariantID: ln.variantID,
			Quantity:  ln.quantity,
			UnitPrice: v.Price,
			LineTotal: lineTotal,
		})
	}

	status := StatusProcessing
	stockDecrements := make(map[uuid.UUID]int) // variant -> staged units
	fabricUse := make(map[uuid.UUID]float64)   // fabric -> staged meters, in-call accounting only
	fabrics := make(map[uuid.UUID]*FabricLot)
	var drafts []*ProductionDraft

	// Line items are evaluated in caller order: first-listed items get
	// reservation priority when stock or fabric is contended.
	for i, ln := range lines {
		v := variantsByProduct[ln.productID][ln.variantID]
		working := v.Stock - stockDecrements[v.ID]

		if working >= ln.quantity {
			stockDecrements[v.ID] += ln.quantity
			items[i].Reserved = true
			continue
		}

		// Insufficient finished stock: at best this order waits on production.
		if status == StatusProcessing {
			status = StatusPending
		}

		recipeLines, err := tx.RecipeLines(ctx, ln.productID)
		if err != nil {
			return nil, err
		}
		if len(recipeLines) == 0 {
			// No known recipe: the product cannot be manufactured.
			status = StatusSoldOut
			break
		}

		manufacturable := true
		for _, rl := range recipeLines {
			f := fabrics[rl.FabricID]
			if f == nil {
				f, err = tx.FabricForUpdate(ctx, rl.FabricID)
				if err != nil {
					return nil, err
				}
				fabrics[rl.FabricID] = f
			}
			need := rl.MetersPerUnit * float64(ln.quantity)
			if need > f.LengthM-fabricUse[rl.FabricID] {
				manufacturable = false
				break
			}
		}
		if !manufacturable {
			status = StatusSoldOut
			break
		}

		for _, rl := range recipeLines {
			fabricUse[rl.FabricID] += rl.MetersPerUnit * float64(ln.quantity)
		}
		// The full requested quantity is manufactured; the units on hand are
		// not partially applied once stock is insufficient.
		oid := orderID
		drafts = append(drafts, &ProductionDraft{
			ID:        uuid.New(),
			ProductID: ln.productID,
			VariantID: ln.variantID,
			OrderID:   &oid,
			Quantity:  ln.quantity,
		})
	}

	o := &Order{
		ID:            orderID,
		OrderNumber:   generateOrderNumber(),
		CustomerID:    customerID,
		Channel:       channel,
		Status:        status,
		PaymentStatus: PayUnpaid,
		Total:         round2(total),
		Notes:         notes,
		Items:         items,
	}

	if status == StatusSoldOut {
		// Whole-order rollback to sold-out: no stock decrement and no
		// production order from any line item is committed.
		for _, it := range items {
			it.Reserved = false
		}
		if err := tx.InsertOrder(ctx, o); err != nil {
			return nil, err
		}
		return o, nil
	}

	if err := tx.InsertOrder(ctx, o); err != nil {
		return nil, err
	}
	for _, byID := range variantsByProduct {
		for vid, v := range byID {
			if dec := stockDecrements[vid]; dec > 0 {
				if err := tx.SetVariantStock(ctx, vid, v.Stock-dec); err != nil {
					return nil, err
				}
			}
		}
	}
	for _, d := range drafts {
		if err := tx.InsertProductionOrder(ctx, d); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (s *service) ApplyPayment(ctx context.Context, id string, req ApplyPaymentRequest) (*Order, error) {
	if req.Amount <= 0 {
		return nil, apperr.Validationf("amount must be greater than zero")
	}
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validationf("invalid order id: %s", id)
	}

	var updated *Order
	err = s.repo.InTx(ctx, func(tx Txn) error {
		o, err := tx.OrderForUpdate(ctx, oid)
		if err != nil {
			return err
		}
		outstanding := round2(o.Total - o.AmountPaid)
		if req.Amount > outstanding {
			return apperr.Validationf("payment of %.2f exceeds outstanding balance of %.2f", req.Amount, outstanding)
		}
		paid := round2(o.AmountPaid + req.Amount)
		status := PayPartial
		if paid >= o.Total {
			status = PayPaid
		}
		if err := tx.SetOrderPayment(ctx, oid, paid, status); err != nil {
			return err
		}
		o.AmountPaid = paid
		o.PaymentStatus = status
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validationf("invalid order id: %s", id)
	}
	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) ListByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]*Order, error) {
	return s.repo.ListByStatus(ctx, strings.ToUpper(status))
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validationf("invalid order id: %s", id)
	}
	next := Status(strings.ToUpper(req.Status))
	if next == StatusCancelled {
		return s.CancelOrder(ctx, id)
	}

	var updated *Order
	err = s.repo.InTx(ctx, func(tx Txn) error {
		o, err := tx.OrderForUpdate(ctx, oid)
		if err != nil {
			return err
		}
		if !CanTransition(o.Status, next) {
			return apperr.Validationf("cannot transition order from %s to %s", o.Status, next)
		}
		if err := tx.SetOrderStatus(ctx, oid, next); err != nil {
			return err
		}
		o.Status = next
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) CancelOrder(ctx context.Context, id string) (*Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validationf("invalid order id: %s", id)
	}

	var cancelled *Order
	err = s.repo.InTx(ctx, func(tx Txn) error {
		o, err := tx.OrderForUpdate(ctx, oid)
		if err != nil {
			return err
		}
		if !CanTransition(o.Status, StatusCancelled) {
			return apperr.Validationf("cannot cancel order in status %s", o.Status)
		}

		// Return every reserved unit to its variant.
		for _, it := range o.Items {
			if !it.Reserved {
				continue
			}
			stock, err := tx.VariantStockForUpdate(ctx, it.VariantID)
			if err != nil {
				return err
			}
			if err := tx.SetVariantStock(ctx, it.VariantID, stock+it.Quantity); err != nil {
				return err
			}
		}
		if err := tx.CancelOpenProduction(ctx, oid); err != nil {
			return err
		}
		if err := tx.SetOrderStatus(ctx, oid, StatusCancelled); err != nil {
			return err
		}
		o.Status = StatusCancelled
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXX
func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
