package config

import (
	"net/http"
	"time"
)

// DefaultJWTSecret is the development signing key; production refuses it.
const DefaultJWTSecret = "very-secure-jwt-secret"

// SessionConfig holds the session token and cookie settings.
type SessionConfig struct {
	Secret         string        `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer         string        `env:"JWT_ISSUER" env-default:"simple-loginlogout"`
	TTL            time.Duration `env:"SESSION_TTL" env-default:"24h"`
	CookieName     string        `env:"SESSION_COOKIE_NAME" env-default:"session_token"`
	CookiePath     string        `env:"SESSION_COOKIE_PATH" env-default:"/"`
	CookieHttpOnly bool          `env:"COOKIE_HTTP_ONLY" env-default:"true"`
	CookieSecure   bool          `env:"COOKIE_SECURE" env-default:"false"`
}

// CookieSameSite returns the appropriate SameSite setting based on CookieSecure
func (c SessionConfig) CookieSameSite() http.SameSite {
	if c.CookieSecure {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

func (c SessionConfig) Validate() error {
	return Validate(func() ValidationErrors {
		errs := CollectErrors(
			RequireMinLength("jwt_secret", c.Secret, 16),
			RequirePositiveDuration("session_ttl", c.TTL),
			RequireNonEmpty("session_cookie_name", c.CookieName),
		)
		if IsProduction() && c.Secret == DefaultJWTSecret {
			errs = append(errs, ValidationError{Field: "jwt_secret", Message: "must be changed from the default in production"})
		}
		return errs
	})
}
