package core

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// stubBackend records save calls without persisting anything. failSaves
// simulates a dead backend to exercise the no-rollback contract.
type stubBackend struct {
	snap      Snapshot
	saves     map[string]int
	failSaves bool
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		snap: Snapshot{
			Clients:  []Client{},
			Servers:  []Server{},
			CashFlow: []CashFlowEntry{},
			Notes:    []Note{},
		},
		saves: map[string]int{},
	}
}

func (b *stubBackend) Load(ctx context.Context) (*Snapshot, error) {
	snap := b.snap
	return &snap, nil
}

func (b *stubBackend) record(name string) error {
	if b.failSaves {
		return fmt.Errorf("stub backend: save %s refused", name)
	}
	b.saves[name]++
	return nil
}

func (b *stubBackend) SaveClients(ctx context.Context, clients []Client) error {
	return b.record("clients")
}

func (b *stubBackend) SaveServers(ctx context.Context, servers []Server) error {
	return b.record("servers")
}

func (b *stubBackend) SaveCashFlow(ctx context.Context, entries []CashFlowEntry) error {
	return b.record("cashFlow")
}

func (b *stubBackend) SaveNotes(ctx context.Context, notes []Note) error {
	return b.record("notes")
}

var testEpoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestStore returns a store on a stub backend with a deterministic clock
// that advances one second per call.
func newTestStore(t *testing.T) (*Store, *stubBackend) {
	t.Helper()
	backend := newStubBackend()
	store := NewStore(backend, zerolog.New(io.Discard))

	tick := 0
	store.now = func() time.Time {
		tick++
		return testEpoch.Add(time.Duration(tick) * time.Second)
	}
	return store, backend
}

func mustAddServer(t *testing.T, s *Store, srv Server) Server {
	t.Helper()
	added, err := s.AddServer(context.Background(), srv)
	if err != nil {
		t.Fatalf("AddServer: %v", err)
	}
	return added
}

func mustAddClient(t *testing.T, s *Store, c Client) Client {
	t.Helper()
	added, err := s.AddClient(context.Background(), c)
	if err != nil {
		t.Fatalf("AddClient: %v", err)
	}
	return added
}

func mustBuyCredits(t *testing.T, s *Store, serverID string, credits, unit int64) Transaction {
	t.Helper()
	qty := decimal.NewFromInt(credits)
	unitValue := decimal.NewFromInt(unit)
	tx, err := s.AddTransactionToServer(context.Background(), serverID, Transaction{
		Type:       TxPurchase,
		Credits:    qty,
		UnitValue:  unitValue,
		TotalValue: qty.Mul(unitValue),
	})
	if err != nil {
		t.Fatalf("AddTransactionToServer: %v", err)
	}
	return tx
}

func entriesByOrigin(s *Store, origin EntryOrigin) []CashFlowEntry {
	var out []CashFlowEntry
	for _, e := range s.CashFlow() {
		if e.Origin == origin {
			out = append(out, e)
		}
	}
	return out
}

func TestLoadSeedsWhenBackendEmpty(t *testing.T) {
	store, backend := newTestStore(t)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(store.Clients()) == 0 {
		t.Error("expected seeded clients")
	}
	if len(store.Servers()) == 0 {
		t.Error("expected seeded servers")
	}
	if len(store.Notes()) == 0 {
		t.Error("expected seeded notes")
	}
	// Seed ships an empty ledger; reconciliation must fill in the purchase
	// expense and postpaid panel payment.
	if got := len(entriesByOrigin(store, OriginPurchase)); got != 1 {
		t.Errorf("purchase entries after seed reconciliation = %d, want 1", got)
	}
	if got := len(entriesByOrigin(store, OriginPanelPayment)); got != 1 {
		t.Errorf("panel payment entries after seed reconciliation = %d, want 1", got)
	}
	if backend.saves["clients"] == 0 || backend.saves["cashFlow"] == 0 {
		t.Error("seed data was not persisted")
	}
}

func TestLoadKeepsExistingData(t *testing.T) {
	store, backend := newTestStore(t)
	backend.snap.Notes = []Note{{ID: "n1", Text: "keep me"}}

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(store.Clients()) != 0 {
		t.Error("seed ran despite non-empty backend")
	}
	notes := store.Notes()
	if len(notes) != 1 || notes[0].Text != "keep me" {
		t.Errorf("notes = %+v, want the loaded note", notes)
	}
}

func TestMutationSurvivesPersistenceFailure(t *testing.T) {
	store, backend := newTestStore(t)
	backend.failSaves = true

	added, err := store.AddClient(context.Background(), Client{Name: "Ana"})
	if err != nil {
		t.Fatalf("AddClient: %v", err)
	}
	// Memory keeps the record even though the save failed.
	if _, err := store.GetClient(added.TempID); err != nil {
		t.Errorf("GetClient after failed save: %v", err)
	}
}
