package insights

import (
	"context"

	"github.com/google/uuid"
)

// StockSnapshot is the inventory state fed into stock-alert prompts.
type StockSnapshot struct {
	LowVariants []VariantLevel
	LowFabrics  []FabricLevel
}

// VariantLevel is a product variant below its restock threshold.
type VariantLevel struct {
	ProductName string
	Size        string
	Color       string
	Stock       int
	MinStock    int
}

// FabricLevel is a fabric lot below its restock threshold.
type FabricLevel struct {
	Name     string
	LengthM  float64
	MinM     float64
	Supplier string
}

// ProductProfile is the catalog data fed into description prompts.
type ProductProfile struct {
	ID       uuid.UUID
	Name     string
	Category string
	Variants []VariantLevel
	Fabrics  []string
}

// Repository defines the read queries behind the insight prompts.
type Repository interface {
	StockSnapshot(ctx context.Context) (*StockSnapshot, error)
	ProductProfile(ctx context.Context, productID string) (*ProductProfile, error)
}
