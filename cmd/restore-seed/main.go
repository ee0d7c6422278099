// restore-seed is a one-shot tool that wipes the configured storage backend
// and writes the built-in seed fixtures back. Run it when local data has been
// corrupted beyond what import can fix.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"log"
	"time"

	"iptv-desk/internal/config"
	"iptv-desk/internal/core"
	"iptv-desk/internal/db"
	"iptv-desk/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	var backend core.Backend
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect: %v", err)
		}
		defer pool.Close()

		pg := storage.NewPostgres(pool, cfg.Owner)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		backend = pg
	default:
		fileBackend, err := storage.NewFile(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open data dir: %v", err)
		}
		backend = fileBackend
	}

	seed := core.SeedData(time.Now())

	log.Println("Replacing clients...")
	if err := backend.SaveClients(ctx, seed.Clients); err != nil {
		log.Fatalf("Failed to save clients: %v", err)
	}
	log.Println("Replacing servers...")
	if err := backend.SaveServers(ctx, seed.Servers); err != nil {
		log.Fatalf("Failed to save servers: %v", err)
	}
	log.Println("Replacing cash flow...")
	if err := backend.SaveCashFlow(ctx, seed.CashFlow); err != nil {
		log.Fatalf("Failed to save cash flow: %v", err)
	}
	log.Println("Replacing notes...")
	if err := backend.SaveNotes(ctx, seed.Notes); err != nil {
		log.Fatalf("Failed to save notes: %v", err)
	}

	log.Println("Seed data restored successfully.")
}
