package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"iptv-desk/internal/core"
)

// Postgres stores one JSONB document per record, one table per collection,
// scoped by an owner id — the per-user container of the hosted variant.
// Saving a collection upserts every document and removes rows absent from
// memory, so the table always mirrors the collection document-for-document.
type Postgres struct {
	pool  *pgxpool.Pool
	owner string
}

// NewPostgres returns a backend scoped to the given owner id.
func NewPostgres(pool *pgxpool.Pool, owner string) *Postgres {
	return &Postgres{pool: pool, owner: owner}
}

const (
	clientsTable  = "clients"
	serversTable  = "servers"
	cashFlowTable = "cash_flow_entries"
	notesTable    = "notes"
)

// EnsureSchema creates the document tables if they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, table := range []string{clientsTable, serversTable, cashFlowTable, notesTable} {
		_, err := p.pool.Exec(ctx, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				owner_id   TEXT        NOT NULL,
				doc_id     TEXT        NOT NULL,
				doc        JSONB       NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (owner_id, doc_id)
			)`, table))
		if err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context) (*core.Snapshot, error) {
	snap := &core.Snapshot{
		Clients:  []core.Client{},
		Servers:  []core.Server{},
		CashFlow: []core.CashFlowEntry{},
		Notes:    []core.Note{},
	}
	if err := loadDocs(ctx, p, clientsTable, &snap.Clients); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, p, serversTable, &snap.Servers); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, p, cashFlowTable, &snap.CashFlow); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, p, notesTable, &snap.Notes); err != nil {
		return nil, err
	}
	return snap, nil
}

func (p *Postgres) SaveClients(ctx context.Context, clients []core.Client) error {
	return saveDocs(ctx, p, clientsTable, clients, func(c core.Client) string { return c.TempID })
}

func (p *Postgres) SaveServers(ctx context.Context, servers []core.Server) error {
	return saveDocs(ctx, p, serversTable, servers, func(s core.Server) string { return s.ID })
}

func (p *Postgres) SaveCashFlow(ctx context.Context, entries []core.CashFlowEntry) error {
	return saveDocs(ctx, p, cashFlowTable, entries, func(e core.CashFlowEntry) string { return e.ID })
}

func (p *Postgres) SaveNotes(ctx context.Context, notes []core.Note) error {
	return saveDocs(ctx, p, notesTable, notes, func(n core.Note) string { return n.ID })
}

func loadDocs[T any](ctx context.Context, p *Postgres, table string, out *[]T) error {
	rows, err := p.pool.Query(ctx,
		fmt.Sprintf("SELECT doc FROM %s WHERE owner_id = $1 ORDER BY updated_at DESC", table),
		p.owner,
	)
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parse %s document: %w", table, err)
		}
		*out = append(*out, doc)
	}
	return rows.Err()
}

func saveDocs[T any](ctx context.Context, p *Postgres, table string, docs []T, idOf func(T) string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", table, err)
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := idOf(doc)
		ids = append(ids, id)
		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal %s document %s: %w", table, id, err)
		}
		_, err = tx.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (owner_id, doc_id, doc, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (owner_id, doc_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
		`, table), p.owner, id, raw)
		if err != nil {
			return fmt.Errorf("upsert %s document %s: %w", table, id, err)
		}
	}

	// Rows not present in memory were deleted there; drop them here too.
	_, err = tx.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE owner_id = $1 AND NOT (doc_id = ANY($2))", table),
		p.owner, ids,
	)
	if err != nil {
		return fmt.Errorf("prune %s: %w", table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save %s: %w", table, err)
	}
	return nil
}
