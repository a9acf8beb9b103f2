package config

// PersistenceConfig selects where settings are stored and where seed users
// are read from.
type PersistenceConfig struct {
	// Type is one of "inmem", "file" or "postgres"
	Type string `env:"PERSISTENCE_TYPE" env-default:"file"`

	// DataDir is used by the file backend
	DataDir string `env:"DATA_DIR" env-default:"./data"`

	// UsersFile is an optional YAML file with users to seed into the identity store
	UsersFile string `env:"USERS_FILE" env-default:""`
}

var persistenceTypes = []string{"inmem", "file", "postgres"}

func (c PersistenceConfig) Validate() error {
	return Validate(func() ValidationErrors {
		errs := CollectErrors(RequireOneOf("persistence_type", c.Type, persistenceTypes))
		if c.Type == "file" {
			errs = append(errs, CollectErrors(RequireNonEmpty("data_dir", c.DataDir))...)
		}
		return errs
	})
}
