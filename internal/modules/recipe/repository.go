package recipe

import "context"

// Repository defines data access for bill-of-materials lines.
type Repository interface {
	// SetRecipe atomically replaces the full recipe of a product.
	SetRecipe(ctx context.Context, productID string, lines []*Line) error

	// GetRecipe returns the recipe of a product. An empty slice is a valid,
	// meaningful answer: no known recipe.
	GetRecipe(ctx context.Context, productID string) ([]*Line, error)

	// ListByFabric returns every recipe line that consumes a fabric.
	ListByFabric(ctx context.Context, fabricID string) ([]*Line, error)
}
