package app

import (
	"context"
	"time"

	"iptv-desk/internal/core"
)

// ApplicationService is the single interface all adapters (CLI, REPL, Web)
// call. It decouples presentation from the domain store. Implementations
// must contain no fmt.Println, no ANSI codes, and no display logic.
type ApplicationService interface {
	// ListClients returns every client with derived plan and application statuses.
	ListClients(ctx context.Context) (*ClientListResult, error)

	// GetClient returns one client by its stable key.
	GetClient(ctx context.Context, tempID string) (*ClientResult, error)

	// CreateClient adds a client; the store assigns the stable key.
	CreateClient(ctx context.Context, client core.Client) (*ClientResult, error)

	// UpdateClient replaces the client record. Transitioning into active
	// triggers the subscription income and credit consumption fanout unless
	// skipCashFlow is set.
	UpdateClient(ctx context.Context, client core.Client, skipCashFlow bool) (*ClientResult, error)

	// DeleteClient removes a client. Ledger history referencing it stays.
	DeleteClient(ctx context.Context, tempID string) error

	// AddTrial grants a trial to a client; the store stamps the creation time.
	AddTrial(ctx context.Context, tempID string, t core.Test) (*core.Test, error)

	// UpdateTrial replaces the trial identified by its creation timestamp.
	UpdateTrial(ctx context.Context, tempID string, createdAt time.Time, patch core.Test) (*core.Test, error)

	// InterruptTrial cuts a running trial short: zeroes its duration and
	// flips the owning client to inactive.
	InterruptTrial(ctx context.Context, tempID string, createdAt time.Time) error

	// ListTrials returns every trial across clients with the expiration
	// filter applied (interrupted trials count as expired).
	ListTrials(ctx context.Context) (*TrialListResult, error)

	// ListServers returns every panel.
	ListServers(ctx context.Context) (*ServerListResult, error)

	// GetServer returns one panel by id.
	GetServer(ctx context.Context, id string) (*ServerResult, error)

	// CreateServer adds a panel; a postpaid panel books its payment entry.
	CreateServer(ctx context.Context, server core.Server) (*ServerResult, error)

	// UpdateServer replaces a panel's configuration. The transaction log and
	// cached stock are store-owned and survive the replace.
	UpdateServer(ctx context.Context, server core.Server) (*ServerResult, error)

	// DeleteServer removes a panel, returning a non-blocking warning when
	// clients still reference it.
	DeleteServer(ctx context.Context, id string) (string, error)

	// AddTransaction appends a credit movement; movements that would drive
	// the stock negative are rejected.
	AddTransaction(ctx context.Context, serverID string, tx core.Transaction) (*core.Transaction, error)

	// RecomputeStock rebuilds a panel's cached stock from its transaction log.
	RecomputeStock(ctx context.Context, serverID string) (*StockResult, error)

	// ListCashFlow returns the ledger.
	ListCashFlow(ctx context.Context) (*CashFlowListResult, error)

	// AddEntry / UpdateEntry / DeleteEntry are direct ledger CRUD.
	AddEntry(ctx context.Context, e core.CashFlowEntry) (*core.CashFlowEntry, error)
	UpdateEntry(ctx context.Context, e core.CashFlowEntry) (*core.CashFlowEntry, error)
	DeleteEntry(ctx context.Context, id string) error

	// CashFlowSummary totals income and expense over an optional period.
	CashFlowSummary(ctx context.Context, from, to *time.Time) (*core.CashFlowTotals, error)

	// ListNotes / AddNote / UpdateNote / DeleteNote are notes CRUD.
	ListNotes(ctx context.Context) (*NoteListResult, error)
	AddNote(ctx context.Context, n core.Note) (*core.Note, error)
	UpdateNote(ctx context.Context, n core.Note) (*core.Note, error)
	DeleteNote(ctx context.Context, id string) error

	// Export returns the four collections as a snapshot.
	Export(ctx context.Context) (*core.Snapshot, error)

	// Import validates and wholesale-replaces the four collections.
	Import(ctx context.Context, raw []byte) error

	// SnapshotSchema returns the JSON Schema of the export format.
	SnapshotSchema(ctx context.Context) ([]byte, error)

	// Reconcile runs the ledger healing pass, returning synthesized entry count.
	Reconcile(ctx context.Context) (int, error)

	// Dashboard aggregates counts and totals for the overview screen.
	Dashboard(ctx context.Context) (*DashboardResult, error)

	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)
}
