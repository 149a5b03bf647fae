package production

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a production order. Fabric is
// deducted only at the moment a job transitions to DONE.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusCancelled  Status = "CANCELLED"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDone, StatusCancelled},
	StatusDone:       {},
	StatusCancelled:  {},
}

// CanTransition returns true if the transition from current to next is valid.
func CanTransition(current, next Status) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// ProductionOrder is a manufacturing task. OrderID is nil for jobs built for
// stock and set when the fulfillment decider spawned the job for a sale.
type ProductionOrder struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	VariantID   uuid.UUID  `json:"variant_id"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	Quantity    int        `json:"quantity"`
	Status      Status     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateRequest is the payload for manually creating a production order.
type CreateRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	OrderID   string `json:"order_id,omitempty"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
}

// UpdateStatusRequest is the payload for advancing a job's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}
