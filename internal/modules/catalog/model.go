package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable garment in the master catalog.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Description string     `json:"description,omitempty"`
	SKU         string     `json:"sku,omitempty"`
	IsActive    bool       `json:"is_active"`
	Variants    []*Variant `json:"variants,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Variant is one sellable unit of a product (a size/color combination).
// Stock counts finished units ready to sell; it is decremented only by a
// successful order reservation and incremented by a cancellation or a
// completed for-stock production order.
type Variant struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Stock     int       `json:"stock"`
	Price     float64   `json:"price"`
	Cost      float64   `json:"cost"`
	MinStock  int       `json:"min_stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VariantInput describes one variant in a create or replace request.
type VariantInput struct {
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
	Stock    int     `json:"stock"`
	Price    float64 `json:"price"`
	Cost     float64 `json:"cost"`
	MinStock int     `json:"min_stock"`
}

// CreateProductRequest is the payload for adding a product to the catalog.
type CreateProductRequest struct {
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Description string         `json:"description,omitempty"`
	SKU         string         `json:"sku,omitempty"`
	Variants    []VariantInput `json:"variants,omitempty"`
}

// UpdateProductRequest is the payload for editing product master data.
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	SKU         string `json:"sku,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// ReplaceVariantsRequest atomically replaces the full variant list of a product.
type ReplaceVariantsRequest struct {
	Variants []VariantInput `json:"variants"`
}
