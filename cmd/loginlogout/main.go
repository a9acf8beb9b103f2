package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jinzhu/copier"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"

	pkgconfig "github.com/tendant/simple-loginlogout/pkg/config"
	"github.com/tendant/simple-loginlogout/pkg/identity"
	"github.com/tendant/simple-loginlogout/pkg/loginlogout"
	"github.com/tendant/simple-loginlogout/pkg/pages"
	"github.com/tendant/simple-loginlogout/pkg/ratelimit"
	"github.com/tendant/simple-loginlogout/pkg/session"
	"github.com/tendant/simple-loginlogout/pkg/settings"
)

type Config struct {
	AppConfig         app.AppConfig
	DbConfig          pkgconfig.DatabaseConfig
	PersistenceConfig pkgconfig.PersistenceConfig
	SessionConfig     pkgconfig.SessionConfig
	RedirectConfig    pkgconfig.RedirectConfig
	RateLimitConfig   pkgconfig.LoginRateLimitConfig
	LogConfig         pkgconfig.LogConfig
}

func (c Config) Validate() error {
	return errors.Join(
		c.PersistenceConfig.Validate(),
		c.SessionConfig.Validate(),
		c.RedirectConfig.Validate(),
		c.RateLimitConfig.Validate(),
	)
}

// loadEnvFile loads .env from the working directory or next to the
// executable. Variables already set in the environment win.
func loadEnvFile() {
	candidates := []string{".env"}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), ".env"))
	}

	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			slog.Error("Failed to load .env file", "error", err, "path", envFile)
			return
		}
		slog.Info("Configuration loaded from .env file", "path", envFile)
		return
	}
}

func main() {
	loadEnvFile()

	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(-1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: config.LogConfig.AddSource,
		Level:     config.LogConfig.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := config.Validate(); err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(-1)
	}
	if pkgconfig.IsProduction() && !config.SessionConfig.CookieSecure {
		slog.Warn("Session cookie is not marked Secure in production", "env", "COOKIE_SECURE")
	}

	ctx := context.Background()

	var pool *pgxpool.Pool
	if config.PersistenceConfig.Type == "postgres" {
		var err error
		pool, err = pgxpool.New(ctx, config.DbConfig.ToDatabaseURL())
		if err != nil {
			slog.Error("Failed creating dbpool", "db", config.DbConfig.Database, "host", config.DbConfig.Host, "port", config.DbConfig.Port, "user", config.DbConfig.User, "err", err)
			os.Exit(-1)
		}
		defer pool.Close()
	}

	settingsRepo, err := settings.NewSettingsRepository(config.PersistenceConfig.Type, settings.RepositoryConfig{
		DataDir: config.PersistenceConfig.DataDir,
		Pool:    pool,
	})
	if err != nil {
		slog.Error("Failed to create settings repository", "err", err)
		os.Exit(-1)
	}
	settingsService := settings.NewSettingsService(settingsRepo)

	identityRepo, err := identity.NewIdentityRepository(config.PersistenceConfig.Type, pool)
	if err != nil {
		slog.Error("Failed to create identity repository", "err", err)
		os.Exit(-1)
	}
	identityService := identity.NewIdentityService(identityRepo, identity.NewBcryptHasher(0))

	if config.PersistenceConfig.UsersFile != "" {
		seeds, err := identity.LoadSeedFile(config.PersistenceConfig.UsersFile)
		if err != nil {
			slog.Error("Failed to load users file", "path", config.PersistenceConfig.UsersFile, "err", err)
			os.Exit(-1)
		}
		if err := identityService.SeedUsers(ctx, seeds); err != nil {
			slog.Error("Failed to seed users", "err", err)
			os.Exit(-1)
		}
	}

	pageService := pages.NewService(settingsRepo)
	if err := pageService.Install(ctx); err != nil {
		slog.Error("Failed to install pages", "err", err)
		os.Exit(-1)
	}
	loginPath, err := pageService.URL(ctx, pages.LoginTemplate)
	if err != nil {
		slog.Error("Failed to resolve login page", "err", err)
		os.Exit(-1)
	}
	logoutPath, err := pageService.URL(ctx, pages.LogoutTemplate)
	if err != nil {
		slog.Error("Failed to resolve logout page", "err", err)
		os.Exit(-1)
	}

	var sessionOpts session.Options
	if err := copier.Copy(&sessionOpts, &config.SessionConfig); err != nil {
		slog.Error("Failed to copy session configuration", "err", err)
		os.Exit(-1)
	}
	sessionService := session.NewSessionService(identityService, sessionOpts)

	var limiter *ratelimit.Middleware
	if config.RateLimitConfig.Enabled {
		var limitCfg ratelimit.Config
		if err := copier.Copy(&limitCfg, &config.RateLimitConfig); err != nil {
			slog.Error("Failed to copy rate limit configuration", "err", err)
			os.Exit(-1)
		}
		limiter = ratelimit.NewMiddleware(limitCfg)
		defer limiter.Close()
	}

	redirectService := loginlogout.NewRedirectService(
		settingsService,
		identityService,
		config.RedirectConfig.ModuleKey,
		config.RedirectConfig.DefaultURL,
	)

	handle := loginlogout.NewHandle(loginlogout.Deps{
		Sessions:  sessionService,
		Users:     identityService,
		Redirects: redirectService,
		Settings:  settingsService,
		Pages:     pageService,
		Limiter:   limiter,
	}, loginlogout.Config{
		ModuleKey:  config.RedirectConfig.ModuleKey,
		AdminRoles: config.RedirectConfig.AdminRoleNames(),
		LoginPath:  loginPath,
		LogoutPath: logoutPath,
	})

	server := app.DefaultApp()
	app.RegisterHealthzRoutes(server.R)
	handle.RegisterRoutes(server.R)

	slog.Info("Login/logout module ready",
		"persistence", config.PersistenceConfig.Type,
		"login", loginPath,
		"logout", logoutPath,
		"module", config.RedirectConfig.ModuleKey,
		"rateLimit", config.RateLimitConfig.Enabled)

	server.Run()
}
