package session

import (
	"net/http"
	"time"
)

// CookieSetter writes and removes the session cookie
type CookieSetter interface {
	SetCookie(w http.ResponseWriter, name, value string, expire time.Time)
	ClearCookie(w http.ResponseWriter, name string)
}

// BaseCookieSetter provides a base implementation of CookieSetter
type BaseCookieSetter struct {
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
}

func (c *BaseCookieSetter) SetCookie(w http.ResponseWriter, name, value string, expire time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Path:     c.Path,
		Value:    value,
		Expires:  expire,
		HttpOnly: c.HttpOnly,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *BaseCookieSetter) ClearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Path:     c.Path,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: c.HttpOnly,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

// NewCookieSetter defaults to path "/" and SameSite=Lax.
func NewCookieSetter(path string, httpOnly, secure bool, sameSite http.SameSite) *BaseCookieSetter {
	if path == "" {
		path = "/"
	}
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	return &BaseCookieSetter{
		Path:     path,
		HttpOnly: httpOnly,
		Secure:   secure,
		SameSite: sameSite,
	}
}
