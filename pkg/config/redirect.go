package config

// RedirectConfig configures the login/logout redirect module.
type RedirectConfig struct {
	// ModuleKey namespaces the module's entries in the settings store
	ModuleKey string `env:"REDIRECT_MODULE_KEY" env-default:"LoginLogoutModule"`

	// DefaultURL is where users land when none of their roles has a rule
	DefaultURL string `env:"REDIRECT_DEFAULT_URL" env-default:"/"`

	// AdminRoles is a comma separated list of roles allowed to edit the module settings
	AdminRoles string `env:"ADMIN_ROLE_NAMES" env-default:"admin,superadmin"`
}

// AdminRoleNames returns the parsed admin role list
func (c RedirectConfig) AdminRoleNames() []string {
	return ParseAdminRoleNames(c.AdminRoles)
}

func (c RedirectConfig) Validate() error {
	return Validate(func() ValidationErrors {
		return CollectErrors(
			RequireNonEmpty("module_key", c.ModuleKey),
			RequireRedirectURL("default_url", c.DefaultURL),
		)
	})
}
