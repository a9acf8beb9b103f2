package loginlogout

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tendant/simple-loginlogout/pkg/identity"
	"github.com/tendant/simple-loginlogout/pkg/redirect"
)

// ConfigSource returns the raw role redirect text of a module.
type ConfigSource interface {
	GetConfigurationText(ctx context.Context, moduleKey string) (string, error)
}

// RoleProvider returns a user's roles in assignment order.
type RoleProvider interface {
	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type RedirectService struct {
	config     ConfigSource
	roles      RoleProvider
	moduleKey  string
	defaultURL string
}

func NewRedirectService(config ConfigSource, roles RoleProvider, moduleKey, defaultURL string) *RedirectService {
	if defaultURL == "" {
		defaultURL = "/"
	}
	return &RedirectService{
		config:     config,
		roles:      roles,
		moduleKey:  moduleKey,
		defaultURL: defaultURL,
	}
}

func (s *RedirectService) DefaultURL() string {
	return s.defaultURL
}

// RedirectAfterLogin decides where user lands after logging in. It never
// fails: store or role lookup errors are logged and yield the default URL.
func (s *RedirectService) RedirectAfterLogin(ctx context.Context, user identity.User) redirect.Decision {
	raw, err := s.config.GetConfigurationText(ctx, s.moduleKey)
	if err != nil {
		slog.Error("Failed to read role redirects, using default", "module", s.moduleKey, "err", err)
		return redirect.Decision{URL: s.defaultURL}
	}

	rules, diags := redirect.Parse(raw)
	for _, d := range diags {
		slog.Warn("Ignoring malformed role redirect", "module", s.moduleKey, "line", d.Line, "text", d.Text, "err", d.Err)
	}

	roles, err := s.roles.GetUserRoles(ctx, user.ID)
	if err != nil {
		slog.Error("Failed to get user roles, using default", "userId", user.ID, "err", err)
		return redirect.Decision{URL: s.defaultURL}
	}

	decision := redirect.Resolve(rules, roles, s.defaultURL)
	if decision.Matched {
		slog.Info("Redirecting to", "url", decision.URL, "role", decision.Role, "username", user.Username)
	} else {
		slog.Debug("No role redirect matched", "username", user.Username, "roles", roles, "url", decision.URL)
	}
	return decision
}

// Preview resolves roles against raw without touching the store.
func (s *RedirectService) Preview(raw string, roles []string) (redirect.Decision, []*redirect.ParseError) {
	rules, diags := redirect.Parse(raw)
	return redirect.Resolve(rules, roles, s.defaultURL), diags
}
