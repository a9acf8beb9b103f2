package config

import "fmt"

// DatabaseConfig holds PostgreSQL settings, used when PERSISTENCE_TYPE=postgres.
type DatabaseConfig struct {
	Host     string `env:"LOGINLOGOUT_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"LOGINLOGOUT_PG_PORT" env-default:"5432"`
	Database string `env:"LOGINLOGOUT_PG_DATABASE" env-default:"loginlogout_db"`
	User     string `env:"LOGINLOGOUT_PG_USER" env-default:"loginlogout"`
	Password string `env:"LOGINLOGOUT_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"LOGINLOGOUT_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}
