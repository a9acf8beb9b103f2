package identity

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// InMemoryIdentityRepository implements IdentityRepository using in-memory storage
type InMemoryIdentityRepository struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]User
	byUsername map[string]uuid.UUID
}

func NewInMemoryIdentityRepository() *InMemoryIdentityRepository {
	return &InMemoryIdentityRepository{
		users:      make(map[uuid.UUID]User),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (r *InMemoryIdentityRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *InMemoryIdentityRepository) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *InMemoryIdentityRepository) SaveUser(ctx context.Context, user User) (User, error) {
	if user.Username == "" {
		return User{}, ErrUsernameRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byUsername[user.Username]; ok {
		user.ID = existing
	} else if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	user = cloneUser(user)
	r.users[user.ID] = user
	r.byUsername[user.Username] = user.ID
	return cloneUser(user), nil
}

// SeedUser stores user, panicking on error. Intended for tests and bootstrap.
func (r *InMemoryIdentityRepository) SeedUser(user User) User {
	saved, err := r.SaveUser(context.Background(), user)
	if err != nil {
		panic(err)
	}
	return saved
}

func cloneUser(u User) User {
	u.Roles = slices.Clone(u.Roles)
	return u
}
