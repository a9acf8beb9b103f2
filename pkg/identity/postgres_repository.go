package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresIdentityRepository reads users from the users and user_roles
// tables. user_roles.position keeps the assignment order.
type PostgresIdentityRepository struct {
	db *pgxpool.Pool
}

func NewPostgresIdentityRepository(db *pgxpool.Pool) (*PostgresIdentityRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &PostgresIdentityRepository{db: db}, nil
}

func (r *PostgresIdentityRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return r.getUser(ctx, `
		SELECT id, username, password_hash, disabled
		FROM users
		WHERE username = $1
	`, username)
}

func (r *PostgresIdentityRepository) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	return r.getUser(ctx, `
		SELECT id, username, password_hash, disabled
		FROM users
		WHERE id = $1
	`, id)
}

func (r *PostgresIdentityRepository) getUser(ctx context.Context, query string, arg any) (User, error) {
	var user User
	err := r.db.QueryRow(ctx, query, arg).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Disabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT role_name
		FROM user_roles
		WHERE user_id = $1
		ORDER BY position
	`, user.ID)
	if err != nil {
		return User{}, fmt.Errorf("failed to get roles for user %s: %w", user.ID, err)
	}
	roles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return User{}, fmt.Errorf("failed to scan roles for user %s: %w", user.ID, err)
	}
	user.Roles = roles
	return user, nil
}

func (r *PostgresIdentityRepository) SaveUser(ctx context.Context, user User) (User, error) {
	if user.Username == "" {
		return User{}, ErrUsernameRequired
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, disabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username)
		DO UPDATE SET password_hash = EXCLUDED.password_hash, disabled = EXCLUDED.disabled
		RETURNING id
	`, user.ID, user.Username, user.PasswordHash, user.Disabled).Scan(&user.ID)
	if err != nil {
		return User{}, fmt.Errorf("failed to save user %s: %w", user.Username, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, user.ID); err != nil {
		return User{}, fmt.Errorf("failed to clear roles: %w", err)
	}

	batch := &pgx.Batch{}
	for i, role := range user.Roles {
		batch.Queue(`INSERT INTO user_roles (user_id, role_name, position) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, user.ID, role, i)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return User{}, fmt.Errorf("failed to save roles: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, fmt.Errorf("failed to commit: %w", err)
	}
	return user, nil
}
