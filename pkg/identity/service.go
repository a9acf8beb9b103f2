package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

type IdentityService struct {
	repo   IdentityRepository
	hasher PasswordHasher
}

func NewIdentityService(repo IdentityRepository, hasher PasswordHasher) *IdentityService {
	return &IdentityService{repo: repo, hasher: hasher}
}

// Authenticate checks a username/password pair. Every rejection is reported
// as ErrInvalidCredentials.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (User, error) {
	if username == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			slog.Info("Login attempt for unknown user", "username", username)
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Disabled {
		slog.Info("Login attempt for disabled user", "username", username)
		return User{}, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return User{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserRoles returns the roles of the user in assignment order.
func (s *IdentityService) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(user.Roles), nil
}

func (s *IdentityService) GetUser(ctx context.Context, userID uuid.UUID) (User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// CreateUser hashes password and stores the user, replacing one with the
// same username.
func (s *IdentityService) CreateUser(ctx context.Context, username, password string, roles []string) (User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.SaveUser(ctx, User{Username: username, PasswordHash: hash, Roles: roles})
}
