package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for orders.
type Repository interface {
	// InTx runs fn inside one serializable transaction. Either every write
	// staged through the Txn commits, or none do. Serialization conflicts are
	// retried internally; a transaction that cannot commit surfaces as a
	// StoreError with no partial effect.
	InTx(ctx context.Context, fn func(tx Txn) error) error

	GetOrderByID(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	ListByStatus(ctx context.Context, status string) ([]*Order, error)
}

// Txn is the transaction-scoped store view the fulfillment decider works
// against. ForUpdate reads take row locks so two concurrent placements
// cannot both reserve the same stock.
type Txn interface {
	// VariantsForUpdate resolves and row-locks a product's variant list.
	// Returns NotFoundError if the product does not exist.
	VariantsForUpdate(ctx context.Context, productID uuid.UUID) ([]*StockedVariant, error)

	// RecipeLines returns the product's bill of materials. An empty slice
	// means the product cannot be manufactured.
	RecipeLines(ctx context.Context, productID uuid.UUID) ([]RecipeLine, error)

	// FabricForUpdate resolves and row-locks one fabric lot.
	FabricForUpdate(ctx context.Context, fabricID uuid.UUID) (*FabricLot, error)

	InsertOrder(ctx context.Context, o *Order) error
	SetVariantStock(ctx context.Context, variantID uuid.UUID, stock int) error
	VariantStockForUpdate(ctx context.Context, variantID uuid.UUID) (int, error)
	InsertProductionOrder(ctx context.Context, d *ProductionDraft) error

	OrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	SetOrderPayment(ctx context.Context, id uuid.UUID, amountPaid float64, status PaymentStatus) error
	SetOrderStatus(ctx context.Context, id uuid.UUID, status Status) error

	// CancelOpenProduction cancels every still-pending production order that
	// was spawned by the given sales order.
	CancelOpenProduction(ctx context.Context, orderID uuid.UUID) error
}

// StockedVariant is the slice of a variant the decider needs: identity,
// finished stock on hand, and the current selling price.
type StockedVariant struct {
	ID    uuid.UUID
	Stock int
	Price float64
}

// RecipeLine is one bill-of-materials entry as seen by the decider.
type RecipeLine struct {
	FabricID      uuid.UUID
	MetersPerUnit float64
}

// FabricLot is the slice of a fabric the decider needs.
type FabricLot struct {
	ID      uuid.UUID
	Name    string
	LengthM float64
}

// ProductionDraft is a staged production order. It is persisted only when the
// whole placement commits with a non-SOLD_OUT status.
type ProductionDraft struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	VariantID uuid.UUID
	OrderID   *uuid.UUID
	Quantity  int
}
