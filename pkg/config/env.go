package config

import (
	"os"
	"strconv"
)

// GetEnvOrDefault returns the variable or defaultValue when unset or empty.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool returns defaultValue when the variable is unset or unparseable.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
	Test        Environment = "test"
)

// GetEnvironment reads APP_ENV, defaulting to development
func GetEnvironment() Environment {
	switch GetEnvOrDefault("APP_ENV", "development") {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	case "test", "testing":
		return Test
	default:
		return Development
	}
}

func IsProduction() bool {
	return GetEnvironment() == Production
}
