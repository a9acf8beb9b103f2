package identity

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewIdentityRepository picks the user store for a persistence type. File
// persistence keeps users in memory; they come from the seed file.
func NewIdentityRepository(persistenceType string, pool *pgxpool.Pool) (IdentityRepository, error) {
	switch persistenceType {
	case "postgres":
		return NewPostgresIdentityRepository(pool)
	case "file", "inmem":
		return NewInMemoryIdentityRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: inmem, file, postgres)", persistenceType)
	}
}
