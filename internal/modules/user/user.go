package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the staff role a user holds. Permissions are resolved per
// (resource, role) by the authz module.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleCashier    Role = "CASHIER"
	RoleProduction Role = "PRODUCTION"
)

// ValidRole reports whether r is a known staff role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier, RoleProduction:
		return true
	}
	return false
}

// User represents a staff member of the atelier.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
