package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"iptv-desk/internal/core"
)

type appService struct {
	store *core.Store

	adminUser         string
	adminPasswordHash string
}

// NewAppService constructs an appService that satisfies ApplicationService.
// Admin credentials come from configuration; the hash is bcrypt.
func NewAppService(store *core.Store, adminUser, adminPasswordHash string) ApplicationService {
	return &appService{
		store:             store,
		adminUser:         adminUser,
		adminPasswordHash: adminPasswordHash,
	}
}

func (s *appService) ListClients(ctx context.Context) (*ClientListResult, error) {
	clients := s.store.Clients()
	now := time.Now()
	views := make([]ClientView, 0, len(clients))
	for _, c := range clients {
		views = append(views, viewOf(c, now))
	}
	return &ClientListResult{Clients: views}, nil
}

func (s *appService) GetClient(ctx context.Context, tempID string) (*ClientResult, error) {
	c, err := s.store.GetClient(tempID)
	if err != nil {
		return nil, err
	}
	return &ClientResult{View: viewOf(*c, time.Now())}, nil
}

func (s *appService) CreateClient(ctx context.Context, client core.Client) (*ClientResult, error) {
	created, err := s.store.AddClient(ctx, client)
	if err != nil {
		return nil, err
	}
	return &ClientResult{View: viewOf(created, time.Now())}, nil
}

func (s *appService) UpdateClient(ctx context.Context, client core.Client, skipCashFlow bool) (*ClientResult, error) {
	updated, warnings, err := s.store.UpdateClient(ctx, client, core.UpdateClientOptions{SkipCashFlow: skipCashFlow})
	if err != nil {
		return nil, err
	}
	return &ClientResult{View: viewOf(updated, time.Now()), Warnings: warnings}, nil
}

func (s *appService) DeleteClient(ctx context.Context, tempID string) error {
	return s.store.DeleteClient(ctx, tempID)
}

func (s *appService) AddTrial(ctx context.Context, tempID string, t core.Test) (*core.Test, error) {
	added, err := s.store.AddTestToClient(ctx, tempID, t)
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (s *appService) UpdateTrial(ctx context.Context, tempID string, createdAt time.Time, patch core.Test) (*core.Test, error) {
	updated, err := s.store.UpdateTestInClient(ctx, tempID, createdAt, patch)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// InterruptTrial zeroes the trial's duration and flips the client to
// inactive — the informal "interrupted" state the trial views understand.
func (s *appService) InterruptTrial(ctx context.Context, tempID string, createdAt time.Time) error {
	client, err := s.store.GetClient(tempID)
	if err != nil {
		return err
	}

	var target *core.Test
	for i := range client.Tests {
		if client.Tests[i].CreatedAt.Equal(createdAt) {
			target = &client.Tests[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("test %s of client %s: %w", createdAt.Format(time.RFC3339), tempID, core.ErrNotFound)
	}

	patch := *target
	patch.DurationValue = 0
	if _, err := s.store.UpdateTestInClient(ctx, tempID, createdAt, patch); err != nil {
		return err
	}

	client.Status = core.ClientInactive
	_, _, err = s.store.UpdateClient(ctx, *client, core.UpdateClientOptions{SkipCashFlow: true})
	return err
}

func (s *appService) ListTrials(ctx context.Context) (*TrialListResult, error) {
	now := time.Now()
	var trials []TrialView
	for _, c := range s.store.Clients() {
		for _, t := range c.Tests {
			trials = append(trials, TrialView{
				ClientID:    c.TempID,
				ClientName:  c.Name,
				Test:        t,
				ExpiresAt:   t.ExpiresAt(),
				Expired:     core.TrialExpiredInView(c, t, now),
				Interrupted: core.TrialInterrupted(c, t, now),
			})
		}
	}
	return &TrialListResult{Trials: trials}, nil
}

func (s *appService) ListServers(ctx context.Context) (*ServerListResult, error) {
	return &ServerListResult{Servers: s.store.Servers()}, nil
}

func (s *appService) GetServer(ctx context.Context, id string) (*ServerResult, error) {
	srv, err := s.store.GetServer(id)
	if err != nil {
		return nil, err
	}
	return &ServerResult{Server: *srv}, nil
}

func (s *appService) CreateServer(ctx context.Context, server core.Server) (*ServerResult, error) {
	created, err := s.store.AddServer(ctx, server)
	if err != nil {
		return nil, err
	}
	return &ServerResult{Server: created}, nil
}

func (s *appService) UpdateServer(ctx context.Context, server core.Server) (*ServerResult, error) {
	updated, err := s.store.UpdateServer(ctx, server)
	if err != nil {
		return nil, err
	}
	return &ServerResult{Server: updated}, nil
}

func (s *appService) DeleteServer(ctx context.Context, id string) (string, error) {
	return s.store.DeleteServer(ctx, id)
}

func (s *appService) AddTransaction(ctx context.Context, serverID string, tx core.Transaction) (*core.Transaction, error) {
	added, err := s.store.AddTransactionToServer(ctx, serverID, tx)
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (s *appService) RecomputeStock(ctx context.Context, serverID string) (*StockResult, error) {
	stock, err := s.store.RecomputeStock(ctx, serverID)
	if err != nil {
		return nil, err
	}
	return &StockResult{ServerID: serverID, CreditStock: stock}, nil
}

func (s *appService) ListCashFlow(ctx context.Context) (*CashFlowListResult, error) {
	return &CashFlowListResult{Entries: s.store.CashFlow()}, nil
}

func (s *appService) AddEntry(ctx context.Context, e core.CashFlowEntry) (*core.CashFlowEntry, error) {
	added, err := s.store.AddCashFlowEntry(ctx, e)
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (s *appService) UpdateEntry(ctx context.Context, e core.CashFlowEntry) (*core.CashFlowEntry, error) {
	updated, err := s.store.UpdateCashFlowEntry(ctx, e)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *appService) DeleteEntry(ctx context.Context, id string) error {
	return s.store.DeleteCashFlowEntry(ctx, id)
}

func (s *appService) CashFlowSummary(ctx context.Context, from, to *time.Time) (*core.CashFlowTotals, error) {
	totals := s.store.CashFlowSummary(from, to)
	return &totals, nil
}

func (s *appService) ListNotes(ctx context.Context) (*NoteListResult, error) {
	return &NoteListResult{Notes: s.store.Notes()}, nil
}

func (s *appService) AddNote(ctx context.Context, n core.Note) (*core.Note, error) {
	added, err := s.store.AddNote(ctx, n)
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (s *appService) UpdateNote(ctx context.Context, n core.Note) (*core.Note, error) {
	updated, err := s.store.UpdateNote(ctx, n)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *appService) DeleteNote(ctx context.Context, id string) error {
	return s.store.DeleteNote(ctx, id)
}

func (s *appService) Export(ctx context.Context) (*core.Snapshot, error) {
	snap := s.store.Export()
	return &snap, nil
}

func (s *appService) Import(ctx context.Context, raw []byte) error {
	return s.store.Import(ctx, raw)
}

func (s *appService) SnapshotSchema(ctx context.Context) ([]byte, error) {
	return core.SnapshotSchema()
}

func (s *appService) Reconcile(ctx context.Context) (int, error) {
	return s.store.Reconcile(ctx), nil
}

func (s *appService) Dashboard(ctx context.Context) (*DashboardResult, error) {
	now := time.Now()
	result := &DashboardResult{TotalCreditStock: decimal.Zero}

	for _, c := range s.store.Clients() {
		result.Clients++
		switch c.Status {
		case core.ClientActive:
			result.ActiveClients++
		case core.ClientTest:
			result.TestClients++
		}
		for _, t := range c.Tests {
			if core.TrialExpiredInView(c, t, now) {
				result.ExpiredTrials++
			} else {
				result.RunningTrials++
			}
		}
	}

	for _, srv := range s.store.Servers() {
		result.Servers++
		if srv.Status == core.ServerOnline {
			result.OnlineServers++
		}
		result.TotalCreditStock = result.TotalCreditStock.Add(srv.CreditStock)
	}

	result.CashFlow = s.store.CashFlowSummary(nil, nil)
	return result, nil
}

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	if s.adminPasswordHash == "" {
		return nil, fmt.Errorf("no admin credentials configured")
	}
	if username != s.adminUser {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return &UserSession{Username: username, Role: "admin"}, nil
}

// viewOf derives plan and application statuses for one client.
func viewOf(c core.Client, now time.Time) ClientView {
	view := ClientView{
		Client:       c,
		PlanStatuses: make([]core.PlanStatus, 0, len(c.Plans)),
		AppStatuses:  make([]core.AppStatus, 0, len(c.Applications)),
	}
	for _, p := range c.Plans {
		view.PlanStatuses = append(view.PlanStatuses, core.PlanStatusOf(c, p))
	}
	for _, a := range c.Applications {
		view.AppStatuses = append(view.AppStatuses, core.ApplicationStatusOf(a, now))
	}
	return view
}
