package settings

import (
	"context"
	"errors"
)

var ErrSettingNotFound = errors.New("setting not found")

// SettingsRepository stores string values keyed by (module, key).
type SettingsRepository interface {
	// GetValue returns ErrSettingNotFound when the key was never set
	GetValue(ctx context.Context, module, key string) (string, error)
	SetValue(ctx context.Context, module, key, value string) error
	// DeleteValue is a no-op for missing keys
	DeleteValue(ctx context.Context, module, key string) error
	// ListModule returns every key of a module; empty map for unknown modules
	ListModule(ctx context.Context, module string) (map[string]string, error)
}
