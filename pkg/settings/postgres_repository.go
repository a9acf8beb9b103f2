package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSettingsRepository implements SettingsRepository on the
// module_settings table (see migrations/loginlogout_db.sql).
type PostgresSettingsRepository struct {
	db *pgxpool.Pool
}

// NewPostgresSettingsRepository creates a new PostgreSQL settings repository
func NewPostgresSettingsRepository(db *pgxpool.Pool) (*PostgresSettingsRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &PostgresSettingsRepository{db: db}, nil
}

func (r *PostgresSettingsRepository) GetValue(ctx context.Context, module, key string) (string, error) {
	query := `
		SELECT value
		FROM module_settings
		WHERE module = $1 AND key = $2
	`

	var value string
	err := r.db.QueryRow(ctx, query, module, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("failed to get setting %s/%s: %w", module, key, err)
	}
	return value, nil
}

func (r *PostgresSettingsRepository) SetValue(ctx context.Context, module, key, value string) error {
	query := `
		INSERT INTO module_settings (module, key, value, updated_at)
		VALUES ($1, $2, $3, NOW() AT TIME ZONE 'utc')
		ON CONFLICT (module, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, module, key, value); err != nil {
		return fmt.Errorf("failed to set setting %s/%s: %w", module, key, err)
	}
	return nil
}

func (r *PostgresSettingsRepository) DeleteValue(ctx context.Context, module, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM module_settings WHERE module = $1 AND key = $2`, module, key); err != nil {
		return fmt.Errorf("failed to delete setting %s/%s: %w", module, key, err)
	}
	return nil
}

func (r *PostgresSettingsRepository) ListModule(ctx context.Context, module string) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM module_settings WHERE module = $1`, module)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings for %s: %w", module, err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}
	return result, nil
}
