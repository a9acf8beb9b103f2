package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/tendant/simple-loginlogout/pkg/identity"
)

// Authenticator checks credentials. *identity.IdentityService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (identity.User, error)
}

// Options configures a SessionService
type Options struct {
	Secret         string
	Issuer         string
	TTL            time.Duration
	CookieName     string
	CookiePath     string
	CookieHttpOnly bool
	CookieSecure   bool
	CookieSameSite http.SameSite
}

type SessionService struct {
	auth       Authenticator
	issuer     *TokenIssuer
	jwtAuth    *jwtauth.JWTAuth
	cookies    CookieSetter
	cookieName string
	issuerName string
}

func NewSessionService(auth Authenticator, opts Options) *SessionService {
	if opts.CookieName == "" {
		opts.CookieName = "session_token"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &SessionService{
		auth:       auth,
		issuer:     NewTokenIssuer(opts.Secret, opts.Issuer, opts.TTL),
		jwtAuth:    jwtauth.New("HS256", []byte(opts.Secret), nil),
		cookies:    NewCookieSetter(opts.CookiePath, opts.CookieHttpOnly, opts.CookieSecure, opts.CookieSameSite),
		cookieName: opts.CookieName,
		issuerName: opts.Issuer,
	}
}

// Middleware verifies the session token and loads the AuthUser.
func (s *SessionService) Middleware() func(http.Handler) http.Handler {
	verify := Verifier(s.jwtAuth, s.cookieName)
	load := AuthUserMiddleware(s.issuerName)
	return func(next http.Handler) http.Handler {
		return verify(load(next))
	}
}

// Login authenticates the user and sets the session cookie.
func (s *SessionService) Login(ctx context.Context, w http.ResponseWriter, username, password string) (identity.User, error) {
	user, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return identity.User{}, err
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return identity.User{}, fmt.Errorf("failed to create session: %w", err)
	}

	s.cookies.SetCookie(w, s.cookieName, token, expiresAt)
	slog.Info("User logged in", "username", user.Username, "userId", user.ID)
	return user, nil
}

// Logout clears the session cookie. Tokens are stateless, so an already
// issued token stays valid until it expires.
func (s *SessionService) Logout(w http.ResponseWriter) {
	s.cookies.ClearCookie(w, s.cookieName)
}

func (s *SessionService) IsAuthenticated(r *http.Request) bool {
	_, ok := FromContext(r.Context())
	return ok
}

func (s *SessionService) CurrentUser(r *http.Request) (*AuthUser, bool) {
	return FromContext(r.Context())
}

func (s *SessionService) CookieName() string {
	return s.cookieName
}
