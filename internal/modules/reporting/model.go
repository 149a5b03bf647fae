package reporting

import (
	"time"

	"github.com/google/uuid"
)

// DailySales aggregates orders placed on a single calendar day.
// Cancelled and sold-out orders are excluded.
type DailySales struct {
	Day        time.Time `json:"day"`
	OrderCount int       `json:"order_count"`
	Revenue    float64   `json:"revenue"`
	Collected  float64   `json:"collected"`
}

// OutstandingOrder is an order whose collected payments do not yet
// cover its total.
type OutstandingOrder struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	Total       float64   `json:"total"`
	AmountPaid  float64   `json:"amount_paid"`
	Outstanding float64   `json:"outstanding"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductSales ranks a product by quantity sold in a period.
type ProductSales struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	QuantitySold int       `json:"quantity_sold"`
	Revenue      float64   `json:"revenue"`
}

// FabricValuation prices a fabric lot at current stock level.
type FabricValuation struct {
	FabricID      uuid.UUID `json:"fabric_id"`
	FabricName    string    `json:"fabric_name"`
	LengthM       float64   `json:"length_m"`
	PricePerMeter float64   `json:"price_per_meter"`
	Value         float64   `json:"value"`
}
