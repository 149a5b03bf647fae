package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliersoft/atelier-backend/internal/apperr"
)

// fakeStore is an in-memory Repository and Txn. InTx snapshots the state and
// restores it when fn fails, matching the all-or-nothing contract.
type fakeStore struct {
	products map[uuid.UUID][]StockedVariant
	recipes  map[uuid.UUID][]RecipeLine
	fabrics  map[uuid.UUID]FabricLot
	orders   map[uuid.UUID]*Order
	drafts   []*ProductionDraft

	cancelledProduction []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[uuid.UUID][]StockedVariant{},
		recipes:  map[uuid.UUID][]RecipeLine{},
		fabrics:  map[uuid.UUID]FabricLot{},
		orders:   map[uuid.UUID]*Order{},
	}
}

func (s *fakeStore) InTx(_ context.Context, fn func(tx Txn) error) error {
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *fakeStore) snapshot() *fakeStore {
	snap := newFakeStore()
	for pid, vs := range s.products {
		snap.products[pid] = append([]StockedVariant(nil), vs...)
	}
	for pid, rls := range s.recipes {
		snap.recipes[pid] = append([]RecipeLine(nil), rls...)
	}
	for fid, f := range s.fabrics {
		snap.fabrics[fid] = f
	}
	for oid, o := range s.orders {
		cp := *o
		cp.Items = make([]*Item, len(o.Items))
		for i, it := range o.Items {
			itc := *it
			cp.Items[i] = &itc
		}
		snap.orders[oid] = &cp
	}
	snap.drafts = append([]*ProductionDraft(nil), s.drafts...)
	snap.cancelledProduction = append([]uuid.UUID(nil), s.cancelledProduction...)
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.products = snap.products
	s.recipes = snap.recipes
	s.fabrics = snap.fabrics
	s.orders = snap.orders
	s.drafts = snap.drafts
	s.cancelledProduction = snap.cancelledProduction
}

func (s *fakeStore) VariantsForUpdate(_ context.Context, productID uuid.UUID) ([]*StockedVariant, error) {
	vs, ok := s.products[productID]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "product", ID: productID.String()}
	}
	out := make([]*StockedVariant, len(vs))
	for i := range vs {
		v := vs[i]
		out[i] = &v
	}
	return out, nil
}

func (s *fakeStore) RecipeLines(_ context.Context, productID uuid.UUID) ([]RecipeLine, error) {
	return s.recipes[productID], nil
}

func (s *fakeStore) FabricForUpdate(_ context.Context, fabricID uuid.UUID) (*FabricLot, error) {
	f, ok := s.fabrics[fabricID]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "fabric", ID: fabricID.String()}
	}
	return &f, nil
}

func (s *fakeStore) InsertOrder(_ context.Context, o *Order) error {
	s.orders[o.ID] = o
	return nil
}

func (s *fakeStore) SetVariantStock(_ context.Context, variantID uuid.UUID, stock int) error {
	for pid, vs := range s.products {
		for i := range vs {
			if vs[i].ID == variantID {
				s.products[pid][i].Stock = stock
				return nil
			}
		}
	}
	return &apperr.NotFoundError{Entity: "variant", ID: variantID.String()}
}

func (s *fakeStore) VariantStockForUpdate(_ context.Context, variantID uuid.UUID) (int, error) {
	for _, vs := range s.products {
		for i := range vs {
			if vs[i].ID == variantID {
				return vs[i].Stock, nil
			}
		}
	}
	return 0, &apperr.NotFoundError{Entity: "variant", ID: variantID.String()}
}

func (s *fakeStore) InsertProductionOrder(_ context.Context, d *ProductionDraft) error {
	s.drafts = append(s.drafts, d)
	return nil
}

func (s *fakeStore) OrderForUpdate(_ context.Context, id uuid.UUID) (*Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "order", ID: id.String()}
	}
	return o, nil
}

func (s *fakeStore) SetOrderPayment(_ context.Context, id uuid.UUID, amountPaid float64, status PaymentStatus) error {
	o := s.orders[id]
	o.AmountPaid = amountPaid
	o.PaymentStatus = status
	return nil
}

func (s *fakeStore) SetOrderStatus(_ context.Context, id uuid.UUID, status Status) error {
	s.orders[id].Status = status
	return nil
}

func (s *fakeStore) CancelOpenProduction(_ context.Context, orderID uuid.UUID) error {
	s.cancelledProduction = append(s.cancelledProduction, orderID)
	return nil
}

func (s *fakeStore) GetOrderByID(_ context.Context, id string) (*Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	o, ok := s.orders[oid]
	if !ok {
		return nil, &apperr.NotFoundError{Entity: "order", ID: id}
	}
	return o, nil
}

func (s *fakeStore) ListByCustomer(_ context.Context, customerID string) ([]*Order, error) {
	var out []*Order
	for _, o := range s.orders {
		if o.CustomerID != nil && o.CustomerID.String() == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeStore) ListByStatus(_ context.Context, status string) ([]*Order, error) {
	var out []*Order
	for _, o := range s.orders {
		if string(o.Status) == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeStore) stockOf(variantID uuid.UUID) int {
	n, _ := s.VariantStockForUpdate(context.Background(), variantID)
	return n
}

// addProduct registers a product with one variant and returns both ids.
func (s *fakeStore) addProduct(stock int, price float64) (uuid.UUID, uuid.UUID) {
	pid, vid := uuid.New(), uuid.New()
	s.products[pid] = []StockedVariant{{ID: vid, Stock: stock, Price: price}}
	return pid, vid
}

func (s *fakeStore) addFabric(lengthM float64) uuid.UUID {
	fid := uuid.New()
	s.fabrics[fid] = FabricLot{ID: fid, Name: "linen", LengthM: lengthM}
	return fid
}

func cart(pid, vid uuid.UUID, qty int) CartItem {
	return CartItem{ProductID: pid.String(), VariantID: vid.String(), Quantity: qty}
}

func TestPlaceOrderReservesStock(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(10, 40)
	svc := NewService(store)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Channel: "pos",
		Items:   []CartItem{cart(pid, vid, 3)},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusProcessing, o.Status)
	assert.Equal(t, PayUnpaid, o.PaymentStatus)
	assert.Equal(t, ChannelPOS, o.Channel)
	assert.Equal(t, 120.0, o.Total)
	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].Reserved)
	assert.Equal(t, 7, store.stockOf(vid))
	assert.Empty(t, store.drafts)
}

func TestPlaceOrderSchedulesProduction(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(2, 90)
	fid := store.addFabric(20)
	store.recipes[pid] = []RecipeLine{{FabricID: fid, MetersPerUnit: 2}}
	svc := NewService(store)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid, vid, 5)},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.False(t, o.Items[0].Reserved)

	// The full requested quantity is manufactured; the two units on hand
	// stay untouched.
	assert.Equal(t, 2, store.stockOf(vid))
	require.Len(t, store.drafts, 1)
	assert.Equal(t, 5, store.drafts[0].Quantity)
	require.NotNil(t, store.drafts[0].OrderID)
	assert.Equal(t, o.ID, *store.drafts[0].OrderID)

	// Fabric is only deducted when production completes.
	assert.Equal(t, 20.0, store.fabrics[fid].LengthM)
}

func TestPlaceOrderSoldOutWithoutRecipe(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(1, 50)
	svc := NewService(store)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid, vid, 4)},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSoldOut, o.Status)
	assert.Equal(t, 1, store.stockOf(vid))
	assert.Empty(t, store.drafts)

	// The order record is still persisted with every requested item.
	stored, err := store.GetOrderByID(context.Background(), o.ID.String())
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 200.0, stored.Total)
}

func TestPlaceOrderSoldOutRollsBackEarlierReservations(t *testing.T) {
	store := newFakeStore()
	pid1, vid1 := store.addProduct(10, 30)
	pid2, vid2 := store.addProduct(0, 60) // no stock, no recipe
	svc := NewService(store)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid1, vid1, 2), cart(pid2, vid2, 1)},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSoldOut, o.Status)
	for _, it := range o.Items {
		assert.False(t, it.Reserved)
	}
	assert.Equal(t, 10, store.stockOf(vid1))
	assert.Empty(t, store.drafts)
}

func TestPlaceOrderAccountsFabricAcrossLines(t *testing.T) {
	store := newFakeStore()
	pid1, vid1 := store.addProduct(0, 80)
	pid2, vid2 := store.addProduct(0, 80)
	fid := store.addFabric(20)
	store.recipes[pid1] = []RecipeLine{{FabricID: fid, MetersPerUnit: 3}}
	store.recipes[pid2] = []RecipeLine{{FabricID: fid, MetersPerUnit: 3}}
	svc := NewService(store)

	// First line would stage 12m of the 20m lot; the second line's 12m no
	// longer fits even though the table still reads 20m.
	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid1, vid1, 4), cart(pid2, vid2, 4)},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSoldOut, o.Status)
	assert.Empty(t, store.drafts)
	assert.Equal(t, 20.0, store.fabrics[fid].LengthM)
}

func TestPlaceOrderStagesDecrementsForSameVariant(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(5, 25)
	fid := store.addFabric(100)
	store.recipes[pid] = []RecipeLine{{FabricID: fid, MetersPerUnit: 1}}
	svc := NewService(store)

	// 3 + 3 against 5 on hand: the first line reserves, the second must be
	// manufactured even though the raw stock column would still show 2 left.
	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid, vid, 3), cart(pid, vid, 3)},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, o.Items[0].Reserved)
	assert.False(t, o.Items[1].Reserved)
	assert.Equal(t, 2, store.stockOf(vid))
	require.Len(t, store.drafts, 1)
	assert.Equal(t, 3, store.drafts[0].Quantity)
}

func TestPlaceOrderValidation(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(10, 10)
	svc := NewService(store)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid, vid, 0)},
	})
	require.ErrorAs(t, err, &verr)

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{{ProductID: "not-a-uuid", VariantID: vid.String(), Quantity: 1}},
	})
	require.ErrorAs(t, err, &verr)

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Channel: "CARRIER_PIGEON",
		Items:   []CartItem{cart(pid, vid, 1)},
	})
	require.ErrorAs(t, err, &verr)
}

func TestPlaceOrderUnknownProductAndVariant(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(10, 10)
	svc := NewService(store)

	var nf *apperr.NotFoundError
	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(uuid.New(), vid, 1)},
	})
	require.ErrorAs(t, err, &nf)

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid, uuid.New(), 1)},
	})
	require.ErrorAs(t, err, &nf)
	assert.Empty(t, store.orders)
}

func TestApplyPayment(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(10, 50)
	svc := NewService(store)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid, vid, 2)}, // total 100
	})
	require.NoError(t, err)

	o, err = svc.ApplyPayment(context.Background(), o.ID.String(), ApplyPaymentRequest{Amount: 40})
	require.NoError(t, err)
	assert.Equal(t, 40.0, o.AmountPaid)
	assert.Equal(t, PayPartial, o.PaymentStatus)

	o, err = svc.ApplyPayment(context.Background(), o.ID.String(), ApplyPaymentRequest{Amount: 60})
	require.NoError(t, err)
	assert.Equal(t, 100.0, o.AmountPaid)
	assert.Equal(t, PayPaid, o.PaymentStatus)
}

func TestApplyPaymentRejectsOverpayment(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(10, 50)
	svc := NewService(store)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid, vid, 1)}, // total 50
	})
	require.NoError(t, err)

	_, err = svc.ApplyPayment(context.Background(), o.ID.String(), ApplyPaymentRequest{Amount: 50.01})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.ApplyPayment(context.Background(), o.ID.String(), ApplyPaymentRequest{Amount: -5})
	require.ErrorAs(t, err, &verr)

	stored, err := svc.GetOrder(context.Background(), o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0.0, stored.AmountPaid)
	assert.Equal(t, PayUnpaid, stored.PaymentStatus)
}

func TestApplyPaymentRoundsToCents(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(10, 0.10)
	svc := NewService(store)

	// 3 * 0.10 accumulates binary-float error; totals and running payments
	// must land on exact cents.
	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid, vid, 3)},
	})
	require.NoError(t, err)
	require.Equal(t, 0.30, o.Total)

	for i := 0; i < 3; i++ {
		o, err = svc.ApplyPayment(context.Background(), o.ID.String(), ApplyPaymentRequest{Amount: 0.10})
		require.NoError(t, err)
	}
	assert.Equal(t, 0.30, o.AmountPaid)
	assert.Equal(t, PayPaid, o.PaymentStatus)
}

func TestUpdateStatusEnforcesTransitions(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(10, 10)
	fid := store.addFabric(100)
	store.recipes[pid] = []RecipeLine{{FabricID: fid, MetersPerUnit: 1}}
	svc := NewService(store)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid, vid, 20)}, // forces PENDING
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, o.Status)

	o, err = svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, o.Status)

	o, err = svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: "COMPLETED"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, o.Status)

	_, err = svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: "PENDING"})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCancelOrderRestoresReservedStock(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(10, 10)
	svc := NewService(store)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid, vid, 4)},
	})
	require.NoError(t, err)
	require.Equal(t, 6, store.stockOf(vid))

	o, err = svc.CancelOrder(context.Background(), o.ID.String())
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, 10, store.stockOf(vid))
	require.Len(t, store.cancelledProduction, 1)
	assert.Equal(t, o.ID, store.cancelledProduction[0])
}

func TestCancelCompletedOrderFails(t *testing.T) {
	store := newFakeStore()
	pid, vid := store.addProduct(10, 10)
	svc := NewService(store)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items: []CartItem{cart(pid, vid, 1)},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: "COMPLETED"})
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), o.ID.String())
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
}
