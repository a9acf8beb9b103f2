package identity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/tendant/simple-loginlogout/pkg/errors"
)

func newTestService(t *testing.T) (*IdentityService, *InMemoryIdentityRepository) {
	t.Helper()
	repo := NewInMemoryIdentityRepository()
	return NewIdentityService(repo, NewBcryptHasher(bcrypt.MinCost)), repo
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	alice, err := svc.CreateUser(ctx, "alice", "s3cret", []string{"client", "guest"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, alice.ID)

	hash, err := NewBcryptHasher(bcrypt.MinCost).Hash("pw")
	require.NoError(t, err)
	repo.SeedUser(User{Username: "bob", PasswordHash: hash, Roles: []string{"staff"}, Disabled: true})

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid credentials", username: "alice", password: "s3cret"},
		{name: "wrong password", username: "alice", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "carol", password: "s3cret", wantErr: ErrInvalidCredentials},
		{name: "disabled user", username: "bob", password: "pw", wantErr: ErrInvalidCredentials},
		{name: "empty password", username: "alice", password: "", wantErr: ErrInvalidCredentials},
		{name: "empty username", username: "", password: "s3cret", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotErrorIs(t, err, ErrUserNotFound)
				assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidCredentials))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice.ID, user.ID)
			assert.Equal(t, []string{"client", "guest"}, user.Roles)
		})
	}
}

func TestGetUserRoles(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	user := repo.SeedUser(User{Username: "root", PasswordHash: "x", Roles: []string{"staff", "admin"}})

	roles, err := svc.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"staff", "admin"}, roles, "roles keep their stored order")

	// callers cannot mutate the stored roles
	roles[0] = "changed"
	again, err := svc.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "staff", again[0])

	_, err = svc.GetUserRoles(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestInMemoryIdentityRepository_SaveUserReplacesByUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryIdentityRepository()

	first, err := repo.SaveUser(ctx, User{Username: "alice", Roles: []string{"client"}})
	require.NoError(t, err)

	second, err := repo.SaveUser(ctx, User{Username: "alice", Roles: []string{"admin"}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, got.Roles)
	assert.True(t, got.HasRole("admin"))
	assert.False(t, got.HasRole("Admin"))

	_, err = repo.SaveUser(ctx, User{})
	assert.ErrorIs(t, err, ErrUsernameRequired)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("password")
	require.NoError(t, err)

	ok, err := h.Verify("password", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Hash("")
	assert.Error(t, err)

	_, err = h.Verify("password", "")
	assert.Error(t, err)

	_, err = h.Verify("password", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestSeedUsers(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	preHashed, err := NewBcryptHasher(bcrypt.MinCost).Hash("rootpw")
	require.NoError(t, err)

	fixedID := uuid.New()
	path := filepath.Join(t.TempDir(), "users.yaml")
	content := `users:
  - username: alice
    password: s3cret
    roles: [client]
  - id: ` + fixedID.String() + `
    username: root
    password_hash: "` + preHashed + `"
    roles:
      - staff
      - admin
  - username: ghost
    password: boo
    disabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	seeds, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, seeds, 3)
	require.NoError(t, svc.SeedUsers(ctx, seeds))

	alice, err := svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, []string{"client"}, alice.Roles)

	root, err := svc.Authenticate(ctx, "root", "rootpw")
	require.NoError(t, err)
	assert.Equal(t, fixedID, root.ID)
	assert.Equal(t, []string{"staff", "admin"}, root.Roles)

	_, err = svc.Authenticate(ctx, "ghost", "boo")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	ghost, err := repo.GetUserByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.True(t, ghost.Disabled)
}

func TestParseSeed_Invalid(t *testing.T) {
	_, err := ParseSeed([]byte("users:\n  - password: x\n"))
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = ParseSeed([]byte("users:\n  - username: nopw\n"))
	assert.Error(t, err)

	_, err = ParseSeed([]byte("users: [unterminated"))
	assert.Error(t, err)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeedUsers_InvalidID(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.SeedUsers(context.Background(), []SeedUser{{ID: "not-a-uuid", Username: "x", Password: "y"}})
	assert.Error(t, err)
}

func TestNewIdentityRepository(t *testing.T) {
	repo, err := NewIdentityRepository("file", nil)
	require.NoError(t, err)
	assert.IsType(t, &InMemoryIdentityRepository{}, repo)

	_, err = NewIdentityRepository("postgres", nil)
	assert.Error(t, err)

	_, err = NewIdentityRepository("ldap", nil)
	assert.Error(t, err)
}
