package model

import "github.com/google/uuid"

// Role identifies the kind of party performing an operation.
type Role string

const (
	RoleClient     Role = "CLIENT"
	RoleRestaurant Role = "RESTAURANT"
	RoleCourier    Role = "COURIER"
	RoleAdmin      Role = "ADMIN"
)

// Actor is the party performing an operation, passed explicitly through
// every service call. Admins bypass ownership checks; everyone else must be
// the exact bound client, restaurant or courier.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
