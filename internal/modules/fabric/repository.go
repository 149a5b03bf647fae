package fabric

import "context"

// Repository defines data access for fabric lots.
type Repository interface {
	Create(ctx context.Context, f *Fabric) error
	GetByID(ctx context.Context, id string) (*Fabric, error)
	List(ctx context.Context) ([]*Fabric, error)
	Update(ctx context.Context, f *Fabric) error
	Delete(ctx context.Context, id string) error

	// AdjustLength applies a signed delta to the length on hand inside one
	// transaction with a row lock, rejecting any adjustment that would take
	// the length below zero.
	AdjustLength(ctx context.Context, id string, deltaM float64) (*Fabric, error)

	// ListLowStock returns fabrics whose length has fallen below their minimum.
	ListLowStock(ctx context.Context) ([]*Fabric, error)
}
