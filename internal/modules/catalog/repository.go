package catalog

import "context"

// Repository defines data access for products and their variants.
type Repository interface {
	// CreateProduct persists a product and its initial variants atomically.
	CreateProduct(ctx context.Context, p *Product) error

	// GetProductByID retrieves a product with its full variant list.
	GetProductByID(ctx context.Context, id string) (*Product, error)

	// ListProducts returns all products, optionally filtered by category.
	ListProducts(ctx context.Context, category string) ([]*Product, error)

	// UpdateProduct edits product master data (not variants).
	UpdateProduct(ctx context.Context, p *Product) error

	// DeleteProduct removes a product and its variants.
	DeleteProduct(ctx context.Context, id string) error

	// ReplaceVariants atomically replaces the full variant list of a product.
	ReplaceVariants(ctx context.Context, productID string, variants []*Variant) error

	// ListLowStockVariants returns variants whose stock is below their minimum.
	ListLowStockVariants(ctx context.Context) ([]*Variant, error)
}
