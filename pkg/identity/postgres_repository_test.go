package identity

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "loginlogout_db.sql")),
		postgres.WithDatabase("loginlogout_db"),
		postgres.WithUsername("loginlogout"),
		postgres.WithPassword("pwd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
	return pool, cleanup
}

func TestPostgresIdentityRepository(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test")
	}

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	repo, err := NewPostgresIdentityRepository(pool)
	require.NoError(t, err)

	saved, err := repo.SaveUser(ctx, User{Username: "root", PasswordHash: "hash", Roles: []string{"staff", "admin"}})
	require.NoError(t, err)

	got, err := repo.GetUserByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, []string{"staff", "admin"}, got.Roles)

	// saving again by username keeps the id and replaces roles
	again, err := repo.SaveUser(ctx, User{Username: "root", PasswordHash: "hash2", Roles: []string{"admin"}})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)

	got, err = repo.GetUserByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash2", got.PasswordHash)
	assert.Equal(t, []string{"admin"}, got.Roles)

	_, err = repo.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
