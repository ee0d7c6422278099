package storage_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"iptv-desk/internal/core"
	"iptv-desk/internal/storage"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return pool
}

func TestPostgres_SaveLoadRoundTrip(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	backend := storage.NewPostgres(pool, "test-owner")
	if err := backend.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	pool.Exec(ctx, "DELETE FROM clients WHERE owner_id = 'test-owner'")
	pool.Exec(ctx, "DELETE FROM servers WHERE owner_id = 'test-owner'")
	pool.Exec(ctx, "DELETE FROM cash_flow_entries WHERE owner_id = 'test-owner'")
	pool.Exec(ctx, "DELETE FROM notes WHERE owner_id = 'test-owner'")

	clients := []core.Client{
		{TempID: "c1", Name: "Ana", Status: core.ClientActive},
		{TempID: "c2", Name: "Bruno", Status: core.ClientInactive},
	}
	if err := backend.SaveClients(ctx, clients); err != nil {
		t.Fatalf("SaveClients: %v", err)
	}
	if err := backend.SaveServers(ctx, []core.Server{
		{ID: "s1", Name: "Star", Status: core.ServerOnline, CreditStock: decimal.NewFromInt(7)},
	}); err != nil {
		t.Fatalf("SaveServers: %v", err)
	}

	snap, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Clients) != 2 {
		t.Errorf("clients = %d, want 2", len(snap.Clients))
	}
	if len(snap.Servers) != 1 || !snap.Servers[0].CreditStock.Equal(decimal.NewFromInt(7)) {
		t.Errorf("servers = %+v", snap.Servers)
	}
}

func TestPostgres_SavePrunesDeletedDocuments(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	backend := storage.NewPostgres(pool, "test-owner-prune")
	if err := backend.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	pool.Exec(ctx, "DELETE FROM notes WHERE owner_id = 'test-owner-prune'")

	if err := backend.SaveNotes(ctx, []core.Note{
		{ID: "n1", Text: "keep"},
		{ID: "n2", Text: "drop"},
	}); err != nil {
		t.Fatalf("SaveNotes: %v", err)
	}
	if err := backend.SaveNotes(ctx, []core.Note{{ID: "n1", Text: "keep"}}); err != nil {
		t.Fatalf("SaveNotes: %v", err)
	}

	snap, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Notes) != 1 || snap.Notes[0].ID != "n1" {
		t.Errorf("notes = %+v, want only n1", snap.Notes)
	}
}

func TestPostgres_OwnersAreIsolated(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	a := storage.NewPostgres(pool, "test-owner-a")
	b := storage.NewPostgres(pool, "test-owner-b")
	if err := a.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	pool.Exec(ctx, "DELETE FROM notes WHERE owner_id IN ('test-owner-a', 'test-owner-b')")

	if err := a.SaveNotes(ctx, []core.Note{{ID: "n1", Text: "mine"}}); err != nil {
		t.Fatalf("SaveNotes: %v", err)
	}

	snapB, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snapB.Notes) != 0 {
		t.Errorf("owner b sees %d notes from owner a", len(snapB.Notes))
	}

	// Owner b saving must not prune owner a's rows.
	if err := b.SaveNotes(ctx, []core.Note{}); err != nil {
		t.Fatalf("SaveNotes: %v", err)
	}
	snapA, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snapA.Notes) != 1 {
		t.Errorf("owner a notes = %d, want 1", len(snapA.Notes))
	}
}
