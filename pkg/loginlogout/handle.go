package loginlogout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "github.com/tendant/simple-loginlogout/pkg/errors"
	"github.com/tendant/simple-loginlogout/pkg/identity"
	"github.com/tendant/simple-loginlogout/pkg/pages"
	"github.com/tendant/simple-loginlogout/pkg/ratelimit"
	"github.com/tendant/simple-loginlogout/pkg/redirect"
	"github.com/tendant/simple-loginlogout/pkg/session"
	"github.com/tendant/simple-loginlogout/pkg/settings"
)

const siteRoot = "/"

// SessionManager is the part of the session service the handlers use.
type SessionManager interface {
	Middleware() func(http.Handler) http.Handler
	Login(ctx context.Context, w http.ResponseWriter, username, password string) (identity.User, error)
	Logout(w http.ResponseWriter)
	IsAuthenticated(r *http.Request) bool
	CurrentUser(r *http.Request) (*session.AuthUser, bool)
}

type Deps struct {
	Sessions  SessionManager
	Users     session.UserLookup
	Redirects *RedirectService
	Settings  *settings.SettingsService
	Pages     *pages.Service
	// Limiter guards POST login; nil disables rate limiting
	Limiter *ratelimit.Middleware
}

type Config struct {
	ModuleKey  string
	AdminRoles []string
	LoginPath  string
	LogoutPath string
}

type Handle struct {
	deps Deps
	cfg  Config
}

func NewHandle(deps Deps, cfg Config) *Handle {
	if cfg.ModuleKey == "" {
		cfg.ModuleKey = settings.DefaultModuleKey
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login/"
	}
	if cfg.LogoutPath == "" {
		cfg.LogoutPath = "/logout/"
	}
	return &Handle{deps: deps, cfg: cfg}
}

func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.deps.Sessions.Middleware())

		r.Get(h.cfg.LoginPath, h.LoginPage)
		if h.deps.Limiter != nil {
			r.With(h.deps.Limiter.Handler).Post(h.cfg.LoginPath, h.Login)
		} else {
			r.Post(h.cfg.LoginPath, h.Login)
		}
		r.Get(h.cfg.LogoutPath, h.Logout)
		r.Post(h.cfg.LogoutPath, h.Logout)
		r.Get("/login-logout-link", h.LoginLogoutLink)

		r.Route("/admin", func(r chi.Router) {
			r.Use(session.RequireAdmin(h.deps.Users, h.cfg.AdminRoles))
			r.Get("/role-redirects", h.GetRoleRedirects)
			r.Put("/role-redirects", h.PutRoleRedirects)
			r.Post("/role-redirects/preview", h.PreviewRoleRedirects)
			r.Get("/login-notice", h.GetLoginNotice)
			r.Put("/login-notice", h.PutLoginNotice)
			if h.deps.Pages != nil {
				r.Get("/pages", h.ListPages)
			}
		})
	})
}

// LoginPage handles GET {login}
func (h *Handle) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.deps.Sessions.IsAuthenticated(r) {
		http.Redirect(w, r, siteRoot, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, "", "")
}

// Login handles POST {login}
func (h *Handle) Login(w http.ResponseWriter, r *http.Request) {
	if h.deps.Sessions.IsAuthenticated(r) {
		http.Redirect(w, r, siteRoot, http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, "", "Invalid form submission")
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")

	if username == "" || password == "" {
		h.renderLogin(w, r, http.StatusBadRequest, username, "Username and password are required")
		return
	}

	user, err := h.deps.Sessions.Login(r.Context(), w, username, password)
	if err != nil {
		switch code := apperrors.GetCode(err); code {
		case apperrors.ErrCodeInvalidCredentials:
			h.renderLogin(w, r, apperrors.MapErrorCodeToHTTPStatus(code), username, "Invalid username or password")
		default:
			slog.Error("Login failed", "username", username, "err", err)
			h.renderLogin(w, r, http.StatusInternalServerError, username, "Login is unavailable, please try again later")
		}
		return
	}

	if h.deps.Limiter != nil {
		h.deps.Limiter.Reset(r)
	}

	decision := h.deps.Redirects.RedirectAfterLogin(r.Context(), user)
	http.Redirect(w, r, decision.URL, http.StatusSeeOther)
}

// Logout handles GET and POST {logout}
func (h *Handle) Logout(w http.ResponseWriter, r *http.Request) {
	h.deps.Sessions.Logout(w)
	http.Redirect(w, r, siteRoot, http.StatusSeeOther)
}

// LoginLogoutLink returns an anchor to the logout page for logged-in users
// and to the login page otherwise.
func (h *Handle) LoginLogoutLink(w http.ResponseWriter, r *http.Request) {
	link := linkView{Href: h.cfg.LoginPath, Text: "Login"}
	if h.deps.Sessions.IsAuthenticated(r) {
		link = linkView{Href: h.cfg.LogoutPath, Text: "Logout"}
	}
	renderHTML(w, http.StatusOK, "link", link)
}

func (h *Handle) renderLogin(w http.ResponseWriter, r *http.Request, status int, username, message string) {
	view := loginView{
		Title:    "Login",
		Action:   h.cfg.LoginPath,
		Username: username,
		Error:    message,
	}

	notice, err := h.deps.Settings.GetLoginNotice(r.Context(), h.cfg.ModuleKey)
	if err != nil {
		slog.Warn("Failed to load login notice", "err", err)
	} else if view.Notice, err = renderNotice(notice); err != nil {
		slog.Warn("Failed to render login notice", "err", err)
	}

	renderHTML(w, status, "login.html", view)
}

// RoleRedirectsField describes the admin field holding the rules.
type RoleRedirectsField struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

var roleRedirectsField = RoleRedirectsField{
	Name:        settings.RoleRedirectsKey,
	Label:       "Role-based Redirection URLs",
	Description: "Enter each role and its redirection URL on a new line in the format: role=url",
	Notes:       "Example: admin=/clients/",
}

type Diagnostic struct {
	Line  int    `json:"line"`
	Text  string `json:"text"`
	Error string `json:"error"`
}

type RoleRedirectsResponse struct {
	RoleRedirects string             `json:"role_redirects"`
	Rules         redirect.Rules     `json:"rules"`
	Diagnostics   []Diagnostic       `json:"diagnostics"`
	Field         RoleRedirectsField `json:"field"`
}

type RoleRedirectsRequest struct {
	RoleRedirects *string `json:"role_redirects"`
}

type PreviewRequest struct {
	// RoleRedirects previews unsaved text; the stored text is used when nil
	RoleRedirects *string  `json:"role_redirects"`
	Roles         []string `json:"roles"`
}

type PreviewResponse struct {
	redirect.Decision
	Diagnostics []Diagnostic `json:"diagnostics"`
}

type LoginNoticeRequest struct {
	LoginNotice *string `json:"login_notice"`
}

type LoginNoticeResponse struct {
	LoginNotice string `json:"login_notice"`
	HTML        string `json:"html"`
}

func toDiagnostics(diags []*redirect.ParseError) []Diagnostic {
	result := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		result = append(result, Diagnostic{Line: d.Line, Text: d.Text, Error: d.Err.Error()})
	}
	return result
}

func roleRedirectsResponse(raw string) RoleRedirectsResponse {
	rules, diags := redirect.Parse(raw)
	if rules == nil {
		rules = redirect.Rules{}
	}
	return RoleRedirectsResponse{
		RoleRedirects: raw,
		Rules:         rules,
		Diagnostics:   toDiagnostics(diags),
		Field:         roleRedirectsField,
	}
}

// GetRoleRedirects handles GET /admin/role-redirects
func (h *Handle) GetRoleRedirects(w http.ResponseWriter, r *http.Request) {
	raw, err := h.deps.Settings.GetConfigurationText(r.Context(), h.cfg.ModuleKey)
	if err != nil {
		writeError(w, r, apperrors.InternalWrap(err, "failed to load role redirects"))
		return
	}
	render.JSON(w, r, roleRedirectsResponse(raw))
}

// PutRoleRedirects handles PUT /admin/role-redirects. Malformed lines are
// saved and reported, not rejected.
func (h *Handle) PutRoleRedirects(w http.ResponseWriter, r *http.Request) {
	var req RoleRedirectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.InvalidInput("body", "must be a JSON object"))
		return
	}
	if req.RoleRedirects == nil {
		writeError(w, r, apperrors.InvalidInput("role_redirects", "is required"))
		return
	}

	if _, err := h.deps.Settings.UpdateRoleRedirects(r.Context(), h.cfg.ModuleKey, *req.RoleRedirects); err != nil {
		writeError(w, r, apperrors.InternalWrap(err, "failed to save role redirects"))
		return
	}
	slog.Info("Role redirects updated", "module", h.cfg.ModuleKey, "by", h.actor(r))
	render.JSON(w, r, roleRedirectsResponse(*req.RoleRedirects))
}

// PreviewRoleRedirects handles POST /admin/role-redirects/preview
func (h *Handle) PreviewRoleRedirects(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.InvalidInput("body", "must be a JSON object"))
		return
	}

	var raw string
	if req.RoleRedirects != nil {
		raw = *req.RoleRedirects
	} else {
		stored, err := h.deps.Settings.GetConfigurationText(r.Context(), h.cfg.ModuleKey)
		if err != nil {
			writeError(w, r, apperrors.InternalWrap(err, "failed to load role redirects"))
			return
		}
		raw = stored
	}

	decision, diags := h.deps.Redirects.Preview(raw, req.Roles)
	render.JSON(w, r, PreviewResponse{Decision: decision, Diagnostics: toDiagnostics(diags)})
}

// GetLoginNotice handles GET /admin/login-notice
func (h *Handle) GetLoginNotice(w http.ResponseWriter, r *http.Request) {
	notice, err := h.deps.Settings.GetLoginNotice(r.Context(), h.cfg.ModuleKey)
	if err != nil {
		writeError(w, r, apperrors.InternalWrap(err, "failed to load login notice"))
		return
	}
	h.writeNotice(w, r, notice)
}

// PutLoginNotice handles PUT /admin/login-notice
func (h *Handle) PutLoginNotice(w http.ResponseWriter, r *http.Request) {
	var req LoginNoticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.InvalidInput("body", "must be a JSON object"))
		return
	}
	if req.LoginNotice == nil {
		writeError(w, r, apperrors.InvalidInput("login_notice", "is required"))
		return
	}

	if err := h.deps.Settings.SetLoginNotice(r.Context(), h.cfg.ModuleKey, *req.LoginNotice); err != nil {
		writeError(w, r, apperrors.InternalWrap(err, "failed to save login notice"))
		return
	}
	slog.Info("Login notice updated", "module", h.cfg.ModuleKey, "by", h.actor(r))
	h.writeNotice(w, r, *req.LoginNotice)
}

type PageResponse struct {
	pages.Page
	Path string `json:"path"`
}

// ListPages handles GET /admin/pages
func (h *Handle) ListPages(w http.ResponseWriter, r *http.Request) {
	installed, err := h.deps.Pages.List(r.Context())
	if err != nil {
		writeError(w, r, apperrors.InternalWrap(err, "failed to list pages"))
		return
	}

	result := make([]PageResponse, 0, len(installed))
	for _, p := range installed {
		result = append(result, PageResponse{Page: p, Path: p.Path()})
	}
	render.JSON(w, r, result)
}

// actor names the logged-in user for audit log lines.
func (h *Handle) actor(r *http.Request) string {
	if u, ok := h.deps.Sessions.CurrentUser(r); ok {
		return u.Username
	}
	return ""
}

func (h *Handle) writeNotice(w http.ResponseWriter, r *http.Request, notice string) {
	html, err := renderNotice(notice)
	if err != nil {
		writeError(w, r, apperrors.InternalWrap(err, "failed to render login notice"))
		return
	}
	render.JSON(w, r, LoginNoticeResponse{LoginNotice: notice, HTML: string(html)})
}

func writeError(w http.ResponseWriter, r *http.Request, err *apperrors.Error) {
	if err.Code == apperrors.ErrCodeInternal {
		slog.Error(err.Message, "err", err.Err)
	}
	render.Status(r, err.HTTPStatusCode())
	render.JSON(w, r, map[string]string{
		"code":    string(err.Code),
		"message": err.Message,
	})
}
