// migrate creates the document tables for the Postgres backend. An advisory
// lock keeps concurrent deployments from racing the DDL.
//
// Usage: DATABASE_URL=... go run ./cmd/migrate
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"iptv-desk/internal/storage"
)

const migrationLockKey = 7462839

func main() {
	_ = godotenv.Load()

	cfgURL := mustDatabaseURL()
	ctx := context.Background()

	pool := connectDB(ctx, cfgURL)
	defer pool.Close()

	conn := acquireLock(ctx, pool)
	defer conn.Release()

	if err := storage.NewPostgres(pool, "").EnsureSchema(ctx); err != nil {
		log.Fatalf("[SCHEMA] failed: %v", err)
	}
	log.Println("[DONE] Schema is up to date.")
}

func mustDatabaseURL() string {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Fatal("[CONFIG] DATABASE_URL is required")
	}
	return url
}

func connectDB(ctx context.Context, url string) *pgxpool.Pool {
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		log.Fatalf("[CONNECT] failed to create pool: %v", err)
	}
	if err := pool.Ping(connCtx); err != nil {
		log.Fatalf("[CONNECT] failed to ping database: %v", err)
	}
	log.Println("[CONNECT] success")
	return pool
}

func acquireLock(ctx context.Context, pool *pgxpool.Pool) *pgxpool.Conn {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		log.Fatalf("[LOCK] failed to acquire connection for lock: %v", err)
	}

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", migrationLockKey).Scan(&locked); err != nil {
		log.Fatalf("[LOCK] failed to query advisory lock: %v", err)
	}
	if !locked {
		log.Fatalf("[LOCK] failed: another migrator is currently running")
	}
	log.Println("[LOCK] success")
	return conn
}
