package production

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for production orders.
type Repository interface {
	Create(ctx context.Context, job *ProductionOrder) error
	GetByID(ctx context.Context, id string) (*ProductionOrder, error)
	List(ctx context.Context, status string) ([]*ProductionOrder, error)
	ListByOrder(ctx context.Context, orderID string) ([]*ProductionOrder, error)
	UpdateStatus(ctx context.Context, id string, status Status, notes string) error

	// InTx runs fn inside one serializable transaction; used for the DONE
	// transition, which must deduct fabric and finish the job atomically.
	InTx(ctx context.Context, fn func(tx Txn) error) error
}

// Txn is the transaction-scoped view for completing a production order.
type Txn interface {
	// JobForUpdate resolves and row-locks a production order.
	JobForUpdate(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)

	// RecipeLines returns the product's bill of materials.
	RecipeLines(ctx context.Context, productID uuid.UUID) ([]RecipeLine, error)

	// FabricForUpdate resolves and row-locks one fabric lot.
	FabricForUpdate(ctx context.Context, fabricID uuid.UUID) (*FabricLot, error)

	SetFabricLength(ctx context.Context, fabricID uuid.UUID, lengthM float64) error
	VariantStockForUpdate(ctx context.Context, variantID uuid.UUID) (int, error)
	SetVariantStock(ctx context.Context, variantID uuid.UUID, stock int) error
	SetJobDone(ctx context.Context, id uuid.UUID) error
}

// RecipeLine is one bill-of-materials entry as seen at completion time.
type RecipeLine struct {
	FabricID      uuid.UUID
	MetersPerUnit float64
}

// FabricLot is the slice of a fabric needed to complete a job.
type FabricLot struct {
	ID      uuid.UUID
	Name    string
	LengthM float64
}
