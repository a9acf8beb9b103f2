// Package session issues and verifies the session token of a logged-in user.
//
// The token is an HS256 JWT carried in a cookie (or an Authorization bearer
// header) with the claims sub, username, roles, iat, exp and iss.
//
//	svc := session.NewSessionService(identitySvc, session.Options{
//		Secret:     "at-least-16-characters",
//		Issuer:     "simple-loginlogout",
//		TTL:        24 * time.Hour,
//		CookieName: "session_token",
//		CookiePath: "/",
//	})
//
//	r.Use(svc.Middleware()) // anonymous requests pass through
//	r.With(session.RequireAdmin(identitySvc, []string{"admin"})).Get("/admin", ...)
//
//	user, err := svc.Login(ctx, w, username, password)
//	svc.Logout(w)
//	if svc.IsAuthenticated(r) { ... }
package session
