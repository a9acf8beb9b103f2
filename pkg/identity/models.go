package identity

import (
	"slices"

	"github.com/google/uuid"
)

// User is an account known to the identity store. Roles keep the order in
// which they were assigned; redirect resolution depends on it.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	Disabled     bool      `json:"disabled"`
}

// HasRole reports whether the user holds role (case-sensitive).
func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
