package identity

import (
	"context"

	"github.com/google/uuid"
)

// IdentityRepository stores users and their roles.
type IdentityRepository interface {
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	// SaveUser creates or replaces the user with the same username
	SaveUser(ctx context.Context, user User) (User, error)
}
