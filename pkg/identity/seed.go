package identity

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// SeedUser is one entry of a users seed file. Exactly one of Password and
// PasswordHash should be set.
type SeedUser struct {
	ID           string   `yaml:"id" copier:"-"`
	Username     string   `yaml:"username"`
	Password     string   `yaml:"password"`
	PasswordHash string   `yaml:"password_hash"`
	Roles        []string `yaml:"roles"`
	Disabled     bool     `yaml:"disabled"`
}

type seedFile struct {
	Users []SeedUser `yaml:"users"`
}

// LoadSeedFile reads users from a YAML file.
func LoadSeedFile(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) ([]SeedUser, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}
	for i, u := range f.Users {
		if u.Username == "" {
			return nil, fmt.Errorf("user #%d: %w", i+1, ErrUsernameRequired)
		}
		if u.Password == "" && u.PasswordHash == "" {
			return nil, fmt.Errorf("user %s: password or password_hash is required", u.Username)
		}
	}
	return f.Users, nil
}

// SeedUsers stores every seed user, hashing plaintext passwords.
func (s *IdentityService) SeedUsers(ctx context.Context, seeds []SeedUser) error {
	for _, seed := range seeds {
		var user User
		if err := copier.Copy(&user, &seed); err != nil {
			return fmt.Errorf("failed to copy seed user %s: %w", seed.Username, err)
		}

		if seed.ID != "" {
			id, err := uuid.Parse(seed.ID)
			if err != nil {
				return fmt.Errorf("user %s: invalid id: %w", seed.Username, err)
			}
			user.ID = id
		}

		if seed.Password != "" {
			hash, err := s.hasher.Hash(seed.Password)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", seed.Username, err)
			}
			user.PasswordHash = hash
		}

		saved, err := s.repo.SaveUser(ctx, user)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", seed.Username, err)
		}
		slog.Info("Seeded user", "username", saved.Username, "id", saved.ID, "roles", saved.Roles)
	}
	return nil
}
