package settings

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig contains configuration for creating a settings repository
type RepositoryConfig struct {
	// DataDir is required for file-based repositories
	DataDir string
	// Pool is required for postgres repositories
	Pool *pgxpool.Pool
}

// NewSettingsRepository creates a settings repository based on the persistence type
func NewSettingsRepository(persistenceType string, config RepositoryConfig) (SettingsRepository, error) {
	switch persistenceType {
	case "postgres":
		return NewPostgresSettingsRepository(config.Pool)
	case "file":
		if config.DataDir == "" {
			return nil, fmt.Errorf("dataDir required for file repository")
		}
		return NewFileSettingsRepository(config.DataDir)
	case "inmem":
		return NewInMemorySettingsRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: inmem, file, postgres)", persistenceType)
	}
}
