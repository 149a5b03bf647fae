package fabric

import (
	"time"

	"github.com/google/uuid"
)

// Fabric is a raw-material lot measured in meters.
// LengthM is never negative at rest; it is consumed only when a production
// order completes and replenished by supplier receipts.
type Fabric struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Color         string     `json:"color,omitempty"`
	SupplierID    *uuid.UUID `json:"supplier_id,omitempty"`
	LengthM       float64    `json:"length_m"`
	MinLengthM    float64    `json:"min_length_m"`
	PricePerMeter float64    `json:"price_per_meter"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateFabricRequest is the payload for registering a fabric lot.
type CreateFabricRequest struct {
	Name          string  `json:"name"`
	Color         string  `json:"color,omitempty"`
	SupplierID    string  `json:"supplier_id,omitempty"`
	LengthM       float64 `json:"length_m"`
	MinLengthM    float64 `json:"min_length_m"`
	PricePerMeter float64 `json:"price_per_meter"`
}

// UpdateFabricRequest edits fabric master data (not the length on hand).
type UpdateFabricRequest struct {
	Name          string   `json:"name,omitempty"`
	Color         string   `json:"color,omitempty"`
	SupplierID    string   `json:"supplier_id,omitempty"`
	MinLengthM    *float64 `json:"min_length_m,omitempty"`
	PricePerMeter *float64 `json:"price_per_meter,omitempty"`
}

// AdjustLengthRequest changes the length on hand by a signed delta
// (positive for a receipt, negative for a correction or write-off).
type AdjustLengthRequest struct {
	DeltaM float64 `json:"delta_m"`
	Reason string  `json:"reason,omitempty"`
}
