// Command tracklite-server runs the tracklite HTTP API.
//
// Configuration comes from TRACKLITE_-prefixed environment variables,
// optionally loaded from a .env file. Without TRACKLITE_DATABASE_URL it
// falls back to seeded in-memory storage, which is enough to poke at
// the API locally.
package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	fiberlog "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/tracklite/tracklite"
	fiberadapter "github.com/tracklite/tracklite/adapters/fiber"
	"github.com/tracklite/tracklite/adapters/memory"
	pgxadapter "github.com/tracklite/tracklite/adapters/pgx"
	"github.com/tracklite/tracklite/core"
)

const envPrefix = "TRACKLITE_"

type serverConfig struct {
	Port          string `koanf:"port"`
	Secret        string `koanf:"secret" validate:"required,min=32"`
	DatabaseURL   string `koanf:"database_url"`
	LogLevel      string `koanf:"log_level"`
	SessionMaxAge int    `koanf:"session_max_age"` // hours
}

func loadConfig() (*serverConfig, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, err
	}

	cfg := &serverConfig{
		Port:          "3000",
		LogLevel:      "info",
		SessionMaxAge: 24,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	storage, cleanup, err := openStorage(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("storage init failed")
	}
	defer cleanup()

	fiberApp := fiber.New()
	fiberApp.Use(fiberlog.New())

	app, err := tracklite.New(tracklite.Config{
		Secret:  cfg.Secret,
		Storage: storage,
		HTTP:    fiberadapter.New(fiberApp),
		SessionConfig: &tracklite.SessionConfig{
			MaxAge: time.Duration(cfg.SessionMaxAge) * time.Hour,
		},
		Logger: &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("app init failed")
	}

	go func() {
		for range time.Tick(time.Hour) {
			if n, err := app.Sessions.CleanupExpired(); err != nil {
				logger.Warn().Err(err).Msg("expired session cleanup failed")
			} else if n > 0 {
				logger.Debug().Int("removed", n).Msg("expired sessions cleaned up")
			}
		}
	}()

	logger.Info().
		Str("port", cfg.Port).
		Str("base_path", app.BasePath).
		Msg("tracklite listening")
	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func openStorage(cfg *serverConfig, logger zerolog.Logger) (core.Storage, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("no database configured, using seeded in-memory storage")
		store := memory.New()
		store.Seed()
		return store, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	store := pgxadapter.New(pool)
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("connected to postgres")
	return store, pool.Close, nil
}
