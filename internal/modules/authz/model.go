package authz

import "time"

// Permission grants or denies a role access to a resource. Resources are
// the first path segment under /api/v1/ (e.g. "orders", "fabrics").
type Permission struct {
	Resource  string    `json:"resource"`
	Role      string    `json:"role"`
	Allowed   bool      `json:"allowed"`
	UpdatedAt time.Time `json:"updated_at"`
}
