package order

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an order. SOLD_OUT is set by the
// fulfillment decider when a requested quantity can neither be covered by
// finished stock nor manufactured from fabric on hand.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusSoldOut    Status = "SOLD_OUT"
)

// validTransitions defines the manual status state machine. The decider sets
// the initial status exactly once; it is never recomputed automatically.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusSoldOut:    {StatusCancelled},
}

// CanTransition returns true if the manual transition from current to next is valid.
func CanTransition(current, next Status) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// PaymentStatus tracks how much of the order total has been paid.
type PaymentStatus string

const (
	PayUnpaid  PaymentStatus = "UNPAID"
	PayPartial PaymentStatus = "PARTIALLY_PAID"
	PayPaid    PaymentStatus = "PAID"
)

// Channel indicates where the order originated.
type Channel string

const (
	ChannelPOS       Channel = "POS"
	ChannelOnline    Channel = "ONLINE"
	ChannelWholesale Channel = "WHOLESALE"
)

// Order is a customer purchase request.
type Order struct {
	ID            uuid.UUID     `json:"id"`
	OrderNumber   string        `json:"order_number"`
	CustomerID    *uuid.UUID    `json:"customer_id,omitempty"` // nil for walk-in POS sales
	Channel       Channel       `json:"channel"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Total         float64       `json:"total"`
	AmountPaid    float64       `json:"amount_paid"`
	Notes         string        `json:"notes,omitempty"`
	Items         []*Item       `json:"items,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Item is a single line item within an order. Reserved records whether the
// decider decremented finished stock for this line at placement, which is
// what cancellation restores.
type Item struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	LineTotal float64   `json:"line_total"`
	Reserved  bool      `json:"reserved"`
	CreatedAt time.Time `json:"created_at"`
}

// CartItem is one requested line in a place-order call. List order matters:
// first-listed items get reservation priority when stock is contended.
type CartItem struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	CustomerID string     `json:"customer_id,omitempty"`
	Channel    string     `json:"channel,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Items      []CartItem `json:"items"`
}

// ApplyPaymentRequest records a payment against an order.
type ApplyPaymentRequest struct {
	Amount float64 `json:"amount"`
}

// UpdateStatusRequest is the payload for a manual status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
