package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Line maps one product to one fabric with a required meters-per-unit
// quantity. A product may require zero, one, or many fabrics; an empty
// recipe means the product cannot be manufactured.
type Line struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	FabricID      uuid.UUID `json:"fabric_id"`
	MetersPerUnit float64   `json:"meters_per_unit"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LineInput describes one recipe line in a set request.
type LineInput struct {
	FabricID      string  `json:"fabric_id"`
	MetersPerUnit float64 `json:"meters_per_unit"`
}

// SetRecipeRequest atomically replaces the full recipe of a product.
// An empty line list clears the recipe.
type SetRecipeRequest struct {
	Lines []LineInput `json:"lines"`
}
