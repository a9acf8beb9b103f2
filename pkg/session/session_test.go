package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tendant/simple-loginlogout/pkg/identity"
)

const testSecret = "test-session-secret-0123456789"

func newTestSessionService(t *testing.T) (*SessionService, identity.User) {
	t.Helper()
	repo := identity.NewInMemoryIdentityRepository()
	idSvc := identity.NewIdentityService(repo, identity.NewBcryptHasher(bcrypt.MinCost))
	user, err := idSvc.CreateUser(context.Background(), "alice", "s3cret", []string{"client", "admin"})
	require.NoError(t, err)

	svc := NewSessionService(idSvc, Options{
		Secret:         testSecret,
		Issuer:         "simple-loginlogout",
		TTL:            time.Hour,
		CookieName:     "session_token",
		CookiePath:     "/",
		CookieHttpOnly: true,
	})
	return svc, user
}

// whoami reports the AuthUser seen by handlers behind the middleware.
func whoami(svc *SessionService) http.Handler {
	return svc.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authUser, ok := svc.CurrentUser(r)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_ = json.NewEncoder(w).Encode(authUser)
	}))
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestLogin_SetsCookieAndAuthenticates(t *testing.T) {
	svc, user := newTestSessionService(t)

	rec := httptest.NewRecorder()
	got, err := svc.Login(context.Background(), rec, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	cookie := sessionCookie(t, rec, "session_token")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.NotEmpty(t, cookie.Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	res := httptest.NewRecorder()
	whoami(svc).ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var authUser AuthUser
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &authUser))
	assert.Equal(t, user.ID, authUser.UserID)
	assert.Equal(t, "alice", authUser.Username)
	assert.Equal(t, []string{"client", "admin"}, authUser.Roles)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newTestSessionService(t)

	rec := httptest.NewRecorder()
	_, err := svc.Login(context.Background(), rec, "alice", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	assert.Empty(t, rec.Result().Cookies())
}

func TestMiddleware_BearerToken(t *testing.T) {
	svc, user := newTestSessionService(t)

	token, _, err := NewTokenIssuer(testSecret, "simple-loginlogout", time.Hour).Issue(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	whoami(svc).ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestMiddleware_AnonymousPassesThrough(t *testing.T) {
	svc, user := newTestSessionService(t)

	expired := NewTokenIssuer(testSecret, "simple-loginlogout", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue(user)
	require.NoError(t, err)

	foreignToken, _, err := NewTokenIssuer("another-secret-0123456789", "simple-loginlogout", time.Hour).Issue(user)
	require.NoError(t, err)

	otherIssuerToken, _, err := NewTokenIssuer(testSecret, "someone-else", time.Hour).Issue(user)
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie string
	}{
		{name: "no cookie"},
		{name: "garbage", cookie: "not-a-jwt"},
		{name: "expired", cookie: expiredToken},
		{name: "wrong secret", cookie: foreignToken},
		{name: "wrong issuer", cookie: otherIssuerToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session_token", Value: tt.cookie})
			}
			res := httptest.NewRecorder()
			whoami(svc).ServeHTTP(res, req)
			assert.Equal(t, http.StatusNoContent, res.Code)
		})
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	svc, _ := newTestSessionService(t)

	rec := httptest.NewRecorder()
	svc.Logout(rec)

	cookie := sessionCookie(t, rec, "session_token")
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestTokenIssuer_Parse(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "simple-loginlogout", time.Hour)
	user := identity.User{ID: uuid.New(), Username: "bob", Roles: []string{"staff"}}

	token, expiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, []string{"staff"}, claims.Roles)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = NewTokenIssuer("another-secret-0123456789", "simple-loginlogout", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestRequireAdmin(t *testing.T) {
	ctx := context.Background()
	repo := identity.NewInMemoryIdentityRepository()
	users := identity.NewIdentityService(repo, identity.NewBcryptHasher(bcrypt.MinCost))

	client := repo.SeedUser(identity.User{Username: "carol", Roles: []string{"client"}})
	admin := repo.SeedUser(identity.User{Username: "root", Roles: []string{"client", "admin"}})
	mixedCase := repo.SeedUser(identity.User{Username: "sam", Roles: []string{"SuperAdmin"}})
	disabled := repo.SeedUser(identity.User{Username: "old", Roles: []string{"admin"}, Disabled: true})

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(users, []string{"admin", "superadmin"})(ok)

	do := func(authUser *AuthUser) int {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if authUser != nil {
			req = req.WithContext(context.WithValue(req.Context(), AuthUserKey, authUser))
		}
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		return res.Code
	}

	tests := []struct {
		name     string
		user     *AuthUser
		wantCode int
	}{
		{name: "anonymous", user: nil, wantCode: http.StatusUnauthorized},
		{name: "no admin role", user: &AuthUser{UserID: client.ID}, wantCode: http.StatusForbidden},
		{name: "admin", user: &AuthUser{UserID: admin.ID}, wantCode: http.StatusOK},
		{name: "admin role is case insensitive", user: &AuthUser{UserID: mixedCase.ID}, wantCode: http.StatusOK},
		{name: "disabled admin", user: &AuthUser{UserID: disabled.ID, Roles: []string{"admin"}}, wantCode: http.StatusForbidden},
		{name: "unknown user", user: &AuthUser{UserID: uuid.New(), Roles: []string{"admin"}}, wantCode: http.StatusUnauthorized},
		{name: "token roles are not trusted", user: &AuthUser{UserID: client.ID, Roles: []string{"admin"}}, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, do(tt.user))
		})
	}

	// revoking the role takes effect without a new token
	_, err := repo.SaveUser(ctx, identity.User{Username: "root", Roles: []string{"client"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(&AuthUser{UserID: admin.ID, Roles: []string{"client", "admin"}}))
}

type failingLookup struct{}

func (failingLookup) GetUser(ctx context.Context, userID uuid.UUID) (identity.User, error) {
	return identity.User{}, errors.New("connection refused")
}

func TestRequireAdmin_LookupFailure(t *testing.T) {
	handler := RequireAdmin(failingLookup{}, []string{"admin"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(context.WithValue(req.Context(), AuthUserKey, &AuthUser{UserID: uuid.New(), Roles: []string{"admin"}}))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
}
