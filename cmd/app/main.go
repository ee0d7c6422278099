package main

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"iptv-desk/internal/adapters/cli"
	"iptv-desk/internal/adapters/repl"
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
	// The CLI and REPL own stdout; logs stay on stderr.
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

	svc := app.NewAppService(store, cfg.AdminUser, cfg.AdminPasswordHash)

	if len(os.Args) > 1 {
		cli.Run(ctx, svc, os.Args[1:])
		return
	}
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}
