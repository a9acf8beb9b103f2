// Package config holds the configuration structs shared by the loginlogout
// binaries together with small helpers for validating them.
//
// Structs carry cleanenv tags and are normally filled with
//
//	var cfg struct {
//		Redirect config.RedirectConfig
//		Session  config.SessionConfig
//	}
//	cleanenv.ReadEnv(&cfg)
//
// Module settings that administrators edit at runtime (the role redirect
// block, the login notice) are not here; they live in the settings store.
//
// # Admin Roles
//
//	adminRoles := config.ParseAdminRoleNames("admin,superadmin")
//	if config.HasAnyAdminRole(user.Roles, adminRoles) { ... }
//
// # Validation
//
//	func (c RedirectConfig) Validate() error {
//		return config.Validate(func() config.ValidationErrors {
//			return config.CollectErrors(
//				config.RequireNonEmpty("module_key", c.ModuleKey),
//				config.RequireRedirectURL("default_url", c.DefaultURL),
//			)
//		})
//	}
package config
