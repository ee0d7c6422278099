// Package storage holds the persistence backends behind core.Backend: a JSON
// file store for single-machine use, a per-document Postgres store for the
// hosted variant, and an in-memory store for tests and ephemeral runs.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"iptv-desk/internal/core"
)

// Memory keeps the collections in process. Saves deep-copy through JSON so
// later in-memory mutations cannot alias persisted state, mirroring the
// serialization boundary of the real backends.
type Memory struct {
	mu   sync.Mutex
	data core.Snapshot

	// SaveCount per collection, handy in tests asserting persistence fanout.
	saves map[string]int

	// FailSaves, when set, makes every save return an error. Used to test
	// the no-rollback-on-persistence-failure contract.
	FailSaves bool
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		data: core.Snapshot{
			Clients:  []core.Client{},
			Servers:  []core.Server{},
			CashFlow: []core.CashFlowEntry{},
			Notes:    []core.Note{},
		},
		saves: map[string]int{},
	}
}

// NewMemoryWith returns an in-memory backend pre-loaded with a snapshot.
func NewMemoryWith(snap core.Snapshot) *Memory {
	m := NewMemory()
	m.data = snap
	return m
}

func (m *Memory) Load(ctx context.Context) (*core.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := core.Snapshot{}
	if err := clone(m.data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (m *Memory) SaveClients(ctx context.Context, clients []core.Client) error {
	return save(m, "clients", clients, func(v []core.Client) { m.data.Clients = v })
}

func (m *Memory) SaveServers(ctx context.Context, servers []core.Server) error {
	return save(m, "servers", servers, func(v []core.Server) { m.data.Servers = v })
}

func (m *Memory) SaveCashFlow(ctx context.Context, entries []core.CashFlowEntry) error {
	return save(m, "cashFlow", entries, func(v []core.CashFlowEntry) { m.data.CashFlow = v })
}

func (m *Memory) SaveNotes(ctx context.Context, notes []core.Note) error {
	return save(m, "notes", notes, func(v []core.Note) { m.data.Notes = v })
}

// Snapshot returns a deep copy of the persisted state.
func (m *Memory) Snapshot() core.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	var snap core.Snapshot
	_ = clone(m.data, &snap)
	return snap
}

// Saves returns how many times the named collection was persisted.
func (m *Memory) Saves(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[collection]
}

func save[T any](m *Memory, name string, in []T, set func([]T)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return fmt.Errorf("memory backend: simulated save failure for %s", name)
	}
	var copied []T
	if err := clone(in, &copied); err != nil {
		return err
	}
	if copied == nil {
		copied = []T{}
	}
	set(copied)
	m.saves[name]++
	return nil
}

func clone(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("clone marshal: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("clone unmarshal: %w", err)
	}
	return nil
}
