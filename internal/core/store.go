package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when a lookup key matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock rejects any transaction that would drive a
	// server's credit stock below zero.
	ErrInsufficientStock = errors.New("insufficient credit stock")
	// ErrInvalidSnapshot rejects an import file whose top-level shape is wrong.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Backend is the persistence port the Store writes through after every
// mutation. Implementations live in internal/storage: a JSON file store, a
// per-document Postgres store, and an in-memory store for tests.
type Backend interface {
	Load(ctx context.Context) (*Snapshot, error)
	SaveClients(ctx context.Context, clients []Client) error
	SaveServers(ctx context.Context, servers []Server) error
	SaveCashFlow(ctx context.Context, entries []CashFlowEntry) error
	SaveNotes(ctx context.Context, notes []Note) error
}

// Store is the single source of truth for the four collections. Every
// mutation runs to completion under the mutex: validate, mutate in memory,
// fan out side effects, persist the touched collections. A persistence
// failure is logged and surfaced but never rolls back memory — the in-memory
// and persisted states may diverge until the next successful write.
type Store struct {
	mu      sync.Mutex
	backend Backend
	log     zerolog.Logger

	clients  []Client
	servers  []Server
	cashFlow []CashFlowEntry
	notes    []Note

	now func() time.Time
}

// NewStore constructs a Store bound to a persistence backend. Collections
// are empty until Load runs.
func NewStore(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     logger,
		now:     time.Now,
	}
}

// Load reads all four collections from the backend, seeds the built-in
// fixtures when the backend holds nothing, and runs one reconciliation pass
// to heal ledgers written before the ledger concept existed.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load collections: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients = snap.Clients
	s.servers = snap.Servers
	s.cashFlow = snap.CashFlow
	s.notes = snap.Notes

	if len(s.clients) == 0 && len(s.servers) == 0 && len(s.cashFlow) == 0 && len(s.notes) == 0 {
		seed := SeedData(s.now())
		s.clients = seed.Clients
		s.servers = seed.Servers
		s.cashFlow = seed.CashFlow
		s.notes = seed.Notes
		s.persistClients(ctx)
		s.persistServers(ctx)
		s.persistCashFlow(ctx)
		s.persistNotes(ctx)
	}

	if n := s.reconcileLocked(); n > 0 {
		s.log.Info().Int("entries", n).Msg("reconciliation synthesized missing ledger entries")
		s.persistCashFlow(ctx)
	}
	return nil
}

// Clients returns a copy of the client collection.
func (s *Store) Clients() []Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Client(nil), s.clients...)
}

// Servers returns a copy of the server collection.
func (s *Store) Servers() []Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Server(nil), s.servers...)
}

// CashFlow returns a copy of the ledger.
func (s *Store) CashFlow() []CashFlowEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CashFlowEntry(nil), s.cashFlow...)
}

// Notes returns a copy of the notes collection.
func (s *Store) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Note(nil), s.notes...)
}

// GetClient returns the client with the given stable key.
func (s *Store) GetClient(tempID string) (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].TempID == tempID {
			c := s.clients[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("client %s: %w", tempID, ErrNotFound)
}

// GetServer returns the server with the given id.
func (s *Store) GetServer(id string) (*Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	srv := s.findServerLocked(id)
	if srv == nil {
		return nil, fmt.Errorf("server %s: %w", id, ErrNotFound)
	}
	out := *srv
	return &out, nil
}

func (s *Store) findClientLocked(tempID string) *Client {
	for i := range s.clients {
		if s.clients[i].TempID == tempID {
			return &s.clients[i]
		}
	}
	return nil
}

func (s *Store) findServerLocked(id string) *Server {
	for i := range s.servers {
		if s.servers[i].ID == id {
			return &s.servers[i]
		}
	}
	return nil
}

// Persistence fanout. Failures are reported, not returned: the in-memory
// mutation has already been applied and is not rolled back.

func (s *Store) persistClients(ctx context.Context) {
	if err := s.backend.SaveClients(ctx, s.clients); err != nil {
		s.log.Error().Err(err).Msg("failed to persist clients")
	}
}

func (s *Store) persistServers(ctx context.Context) {
	if err := s.backend.SaveServers(ctx, s.servers); err != nil {
		s.log.Error().Err(err).Msg("failed to persist servers")
	}
}

func (s *Store) persistCashFlow(ctx context.Context) {
	if err := s.backend.SaveCashFlow(ctx, s.cashFlow); err != nil {
		s.log.Error().Err(err).Msg("failed to persist cash flow")
	}
}

func (s *Store) persistNotes(ctx context.Context) {
	if err := s.backend.SaveNotes(ctx, s.notes); err != nil {
		s.log.Error().Err(err).Msg("failed to persist notes")
	}
}
