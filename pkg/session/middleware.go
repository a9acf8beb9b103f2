package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/tendant/simple-loginlogout/pkg/config"
	apperrors "github.com/tendant/simple-loginlogout/pkg/errors"
	"github.com/tendant/simple-loginlogout/pkg/identity"
)

// AuthUser is the identity carried by a verified session token.
type AuthUser struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
}

func (u AuthUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user", u.UserID.String()),
		slog.String("username", u.Username),
		slog.Any("roles", u.Roles),
	)
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "session context value " + k.name
}

var AuthUserKey = &contextKey{"AuthUser"}

// Verifier looks for the token in the Authorization header, then in the
// named cookie, and stores the verification result in the request context.
func Verifier(ja *jwtauth.JWTAuth, cookieName string) func(http.Handler) http.Handler {
	return jwtauth.Verify(ja, jwtauth.TokenFromHeader, func(r *http.Request) string {
		cookie, err := r.Cookie(cookieName)
		if err != nil {
			return ""
		}
		return cookie.Value
	})
}

// AuthUserMiddleware turns verified claims into an *AuthUser in the context.
// Requests without a valid token continue anonymously.
func AuthUserMiddleware(issuer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				if err != nil && !errors.Is(err, jwtauth.ErrNoTokenFound) {
					slog.Debug("Ignoring invalid session token", "err", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			authUser, ok := authUserFromClaims(claims, issuer)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), AuthUserKey, authUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authUserFromClaims(claims map[string]interface{}, issuer string) (*AuthUser, bool) {
	if issuer != "" {
		if iss, _ := claims["iss"].(string); iss != issuer {
			slog.Warn("Session token from unexpected issuer", "iss", claims["iss"])
			return nil, false
		}
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		slog.Warn("Session token with invalid subject", "sub", sub)
		return nil, false
	}

	authUser := &AuthUser{UserID: userID}
	authUser.Username, _ = claims["username"].(string)

	switch roles := claims["roles"].(type) {
	case []interface{}:
		for _, role := range roles {
			if s, ok := role.(string); ok {
				authUser.Roles = append(authUser.Roles, s)
			}
		}
	case []string:
		authUser.Roles = roles
	}
	return authUser, true
}

// FromContext returns the logged-in user, if any.
func FromContext(ctx context.Context) (*AuthUser, bool) {
	authUser, ok := ctx.Value(AuthUserKey).(*AuthUser)
	return authUser, ok && authUser != nil
}

// UserLookup loads the current state of a user. *identity.IdentityService
// implements it.
type UserLookup interface {
	GetUser(ctx context.Context, userID uuid.UUID) (identity.User, error)
}

// RequireAdmin answers 401 for anonymous requests and 403 for users holding
// none of adminRoles. Roles are loaded from users on every request, so a
// revoked or disabled admin loses access before the token expires.
func RequireAdmin(users UserLookup, adminRoles []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authUser, ok := FromContext(r.Context())
			if !ok {
				writeError(w, r, apperrors.New(apperrors.ErrCodeUnauthorized, "login required"))
				return
			}

			user, err := users.GetUser(r.Context(), authUser.UserID)
			if err != nil {
				if apperrors.IsCode(err, apperrors.ErrCodeUserNotFound) {
					slog.Warn("Session user no longer exists", "userId", authUser.UserID)
					writeError(w, r, apperrors.New(apperrors.ErrCodeUnauthorized, "login required"))
					return
				}
				slog.Error("Failed to load user for admin check", "userId", authUser.UserID, "err", err)
				writeError(w, r, apperrors.InternalWrap(err, "failed to load user"))
				return
			}

			if user.Disabled || !config.HasAnyAdminRole(user.Roles, adminRoles) {
				slog.Warn("User lacks required role",
					"userId", user.ID,
					"userRoles", user.Roles,
					"disabled", user.Disabled,
					"requiredRoles", adminRoles)
				writeError(w, r, apperrors.Forbidden("admin role required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err *apperrors.Error) {
	render.Status(r, err.HTTPStatusCode())
	render.JSON(w, r, map[string]string{
		"code":    string(err.Code),
		"message": err.Message,
	})
}
