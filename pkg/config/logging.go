package config

import (
	"log/slog"
	"strings"
)

// LogConfig controls the default slog handler.
type LogConfig struct {
	Level     string `env:"LOG_LEVEL" env-default:"info"`
	AddSource bool   `env:"LOG_ADD_SOURCE" env-default:"true"`
}

// SlogLevel maps Level to a slog.Level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
