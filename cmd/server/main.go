package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	webAdapter "iptv-desk/internal/adapters/web"
	"iptv-desk/internal/app"
	"iptv-desk/internal/config"
	"iptv-desk/internal/core"
	"iptv-desk/internal/db"
	"iptv-desk/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("config")
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	ctx := context.Background()

	var backend core.Backend
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("database")
		}
		defer pool.Close()

		pg := storage.NewPostgres(pool, cfg.Owner)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("schema")
		}
		backend = pg
	case "memory":
		backend = storage.NewMemory()
	default:
		fileBackend, err := storage.NewFile(cfg.DataDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("data dir")
		}
		backend = fileBackend
	}

	store := core.NewStore(backend, logger)
	if err := store.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("load store")
	}

	if cfg.JWTSecret == "" {
		logger.Warn().Msg("JWT_SECRET is not set; login tokens are signed with an empty key")
	}

	svc := app.NewAppService(store, cfg.AdminUser, cfg.AdminPasswordHash)
	handler := webAdapter.NewHandler(svc, cfg.AllowedOrigins, cfg.JWTSecret, logger)

	logger.Info().Str("addr", cfg.Addr).Str("backend", cfg.StorageBackend).Msg("server starting")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal().Err(err).Msg("server")
	}
}
