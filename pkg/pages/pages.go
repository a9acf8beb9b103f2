// Package pages records the site pages the login/logout module serves.
//
// Installation is idempotent: a page is created only when no page exists for
// its template, so edits made to an installed page survive reinstalls.
package pages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tendant/simple-loginlogout/pkg/settings"
)

const (
	// SettingsModule is the settings module pages are stored under.
	SettingsModule = "pages"

	LoginTemplate  = "login"
	LogoutTemplate = "logout"
)

var ErrPageNotFound = errors.New("page not found")

// Page is a routable page backed by a template.
type Page struct {
	Template string `json:"template"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Hidden   bool   `json:"hidden"`
}

// Path is the URL path of the page, e.g. "/login/".
func (p Page) Path() string {
	return "/" + strings.Trim(p.Name, "/") + "/"
}

// DefaultPages are the hidden login and logout pages.
var DefaultPages = []Page{
	{Template: LoginTemplate, Name: "login", Title: "Login", Hidden: true},
	{Template: LogoutTemplate, Name: "logout", Title: "Logout", Hidden: true},
}

type Service struct {
	repo settings.SettingsRepository
}

func NewService(repo settings.SettingsRepository) *Service {
	return &Service{repo: repo}
}

// EnsurePage stores page unless a page for its template already exists. It
// returns the stored page and whether it was created.
func (s *Service) EnsurePage(ctx context.Context, page Page) (Page, bool, error) {
	if page.Template == "" || page.Name == "" {
		return Page{}, false, fmt.Errorf("page template and name are required")
	}

	existing, err := s.GetPage(ctx, page.Template)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrPageNotFound) {
		return Page{}, false, err
	}

	data, err := json.Marshal(page)
	if err != nil {
		return Page{}, false, fmt.Errorf("failed to marshal page: %w", err)
	}
	if err := s.repo.SetValue(ctx, SettingsModule, page.Template, string(data)); err != nil {
		return Page{}, false, fmt.Errorf("failed to save page %s: %w", page.Name, err)
	}

	slog.Info("Created page", "template", page.Template, "path", page.Path(), "hidden", page.Hidden)
	return page, true, nil
}

// Install ensures the default pages exist.
func (s *Service) Install(ctx context.Context) error {
	for _, page := range DefaultPages {
		if _, _, err := s.EnsurePage(ctx, page); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) GetPage(ctx context.Context, template string) (Page, error) {
	value, err := s.repo.GetValue(ctx, SettingsModule, template)
	if err != nil {
		if errors.Is(err, settings.ErrSettingNotFound) {
			return Page{}, ErrPageNotFound
		}
		return Page{}, fmt.Errorf("failed to read page %s: %w", template, err)
	}

	var page Page
	if err := json.Unmarshal([]byte(value), &page); err != nil {
		return Page{}, fmt.Errorf("failed to decode page %s: %w", template, err)
	}
	return page, nil
}

// URL returns the path of the page using template.
func (s *Service) URL(ctx context.Context, template string) (string, error) {
	page, err := s.GetPage(ctx, template)
	if err != nil {
		return "", err
	}
	return page.Path(), nil
}

// List returns every installed page ordered by template.
func (s *Service) List(ctx context.Context) ([]Page, error) {
	values, err := s.repo.ListModule(ctx, SettingsModule)
	if err != nil {
		return nil, err
	}

	result := make([]Page, 0, len(values))
	for template, value := range values {
		var page Page
		if err := json.Unmarshal([]byte(value), &page); err != nil {
			return nil, fmt.Errorf("failed to decode page %s: %w", template, err)
		}
		result = append(result, page)
	}
	slices.SortFunc(result, func(a, b Page) int {
		return strings.Compare(a.Template, b.Template)
	})
	return result, nil
}
