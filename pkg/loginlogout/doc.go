// Package loginlogout serves the login and logout pages and sends each user
// to a landing page chosen by role after a successful login.
//
// The role-to-URL rules are plain text stored in the settings store, one
// "role=url" per line:
//
//	admin=/clients/
//	staff=/clients/
//	client=/client/{name}/
//
// The text is read and parsed again on every login, so edits take effect
// immediately. The user's roles are checked in the order the identity store
// returns them; the first role with a rule wins. Users without a matching role
// land on the default URL.
//
// # Wiring
//
//	redirects := loginlogout.NewRedirectService(settingsSvc, identitySvc, "LoginLogoutModule", "/")
//	h := loginlogout.NewHandle(loginlogout.Deps{
//		Sessions:  sessionSvc,
//		Users:     identitySvc,
//		Redirects: redirects,
//		Settings:  settingsSvc,
//		Pages:     pageSvc,
//		Limiter:   limiter,
//	}, loginlogout.Config{
//		ModuleKey:  "LoginLogoutModule",
//		AdminRoles: []string{"admin"},
//		LoginPath:  "/login/",
//		LogoutPath: "/logout/",
//	})
//	h.RegisterRoutes(r)
//
// Routes:
//
//	GET      /login/                      login form
//	POST     /login/                      log in, then redirect by role
//	GET|POST /logout/                     log out, then redirect to /
//	GET      /login-logout-link           anchor to /login/ or /logout/
//	GET|PUT  /admin/role-redirects        role redirect text (admin only)
//	POST     /admin/role-redirects/preview
//	GET|PUT  /admin/login-notice          markdown notice above the form
//	GET      /admin/pages                 installed login/logout pages
package loginlogout
