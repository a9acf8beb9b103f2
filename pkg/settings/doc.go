// Package settings is the persistent key/value store for module settings.
//
// Values are grouped by module key. The login/logout module keeps its
// role-redirect text under ("LoginLogoutModule", "roleRedirects"), and the
// page provisioner records installed pages under the "pages" module.
//
// # Repositories
//
//	repo := settings.NewInMemorySettingsRepository()
//	repo, err := settings.NewFileSettingsRepository("./data")
//	repo, err := settings.NewPostgresSettingsRepository(pool)
//
//	// or pick one from configuration
//	repo, err := settings.NewSettingsRepository("file", settings.RepositoryConfig{DataDir: "./data"})
//
// # Service
//
//	svc := settings.NewSettingsService(repo)
//	raw, err := svc.GetConfigurationText(ctx, "LoginLogoutModule")
//	diags, err := svc.UpdateRoleRedirects(ctx, "LoginLogoutModule", "admin=/clients/")
//
// An unset value is returned as "" by the service; only the repositories
// report ErrSettingNotFound.
package settings
