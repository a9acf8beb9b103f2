package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tendant/simple-loginlogout/pkg/redirect"
)

const (
	// DefaultModuleKey is the settings module of the login/logout feature.
	DefaultModuleKey = "LoginLogoutModule"

	RoleRedirectsKey = "roleRedirects"
	LoginNoticeKey   = "loginNotice"
)

// SettingsService exposes the typed settings of the login/logout module on
// top of a SettingsRepository.
type SettingsService struct {
	repo SettingsRepository
}

func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Repository returns the underlying store.
func (s *SettingsService) Repository() SettingsRepository {
	return s.repo
}

// GetConfigurationText returns the raw role=url text for moduleKey, or "" when
// it was never saved.
func (s *SettingsService) GetConfigurationText(ctx context.Context, moduleKey string) (string, error) {
	return s.getOptional(ctx, moduleKey, RoleRedirectsKey)
}

// UpdateRoleRedirects stores raw as-is and returns the diagnostics of its
// malformed lines. Malformed lines do not block the save; they are ignored at
// resolution time.
func (s *SettingsService) UpdateRoleRedirects(ctx context.Context, moduleKey, raw string) ([]*redirect.ParseError, error) {
	_, diags := redirect.Parse(raw)
	if err := s.repo.SetValue(ctx, moduleKey, RoleRedirectsKey, raw); err != nil {
		return nil, fmt.Errorf("failed to save role redirects: %w", err)
	}
	if len(diags) > 0 {
		slog.Warn("Saved role redirects with malformed lines", "module", moduleKey, "count", len(diags))
	}
	return diags, nil
}

// GetLoginNotice returns the markdown notice shown above the login form.
func (s *SettingsService) GetLoginNotice(ctx context.Context, moduleKey string) (string, error) {
	return s.getOptional(ctx, moduleKey, LoginNoticeKey)
}

func (s *SettingsService) SetLoginNotice(ctx context.Context, moduleKey, markdown string) error {
	if err := s.repo.SetValue(ctx, moduleKey, LoginNoticeKey, markdown); err != nil {
		return fmt.Errorf("failed to save login notice: %w", err)
	}
	return nil
}

func (s *SettingsService) getOptional(ctx context.Context, module, key string) (string, error) {
	value, err := s.repo.GetValue(ctx, module, key)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s/%s: %w", module, key, err)
	}
	return value, nil
}
