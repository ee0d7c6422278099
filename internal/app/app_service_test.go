package app_test

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"iptv-desk/internal/app"
	"iptv-desk/internal/core"
	"iptv-desk/internal/storage"
)

// Hash of "allmine", cost 10.
const testPasswordHash = "$2a$10$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga"

func newTestService(t *testing.T) app.ApplicationService {
	t.Helper()
	// A lone note keeps Load from planting the first-run seed fixtures.
	backend := storage.NewMemoryWith(core.Snapshot{
		Clients:  []core.Client{},
		Servers:  []core.Server{},
		CashFlow: []core.CashFlowEntry{},
		Notes:    []core.Note{{ID: "n0", Text: "test fixture"}},
	})
	store := core.NewStore(backend, zerolog.New(io.Discard))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return app.NewAppService(store, "admin", testPasswordHash)
}

func TestAuthenticateUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.AuthenticateUser(ctx, "admin", "allmine")
	if err != nil {
		t.Fatalf("AuthenticateUser: %v", err)
	}
	if session.Username != "admin" || session.Role != "admin" {
		t.Errorf("session = %+v", session)
	}

	if _, err := svc.AuthenticateUser(ctx, "admin", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, err := svc.AuthenticateUser(ctx, "intruder", "allmine"); err == nil {
		t.Error("wrong username accepted")
	}

	noHash := app.NewAppService(nil, "admin", "")
	if _, err := noHash.AuthenticateUser(ctx, "admin", "allmine"); err == nil {
		t.Error("login succeeded with no credentials configured")
	}
}

func TestInterruptTrial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateClient(ctx, core.Client{Name: "Ana", Status: core.ClientTest})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	clientID := created.View.Client.TempID

	trial, err := svc.AddTrial(ctx, clientID, core.Test{
		PanelID:       "p1",
		Package:       "Full HD",
		DurationValue: 24,
		DurationUnit:  core.Hours,
	})
	if err != nil {
		t.Fatalf("AddTrial: %v", err)
	}

	if err := svc.InterruptTrial(ctx, clientID, trial.CreatedAt); err != nil {
		t.Fatalf("InterruptTrial: %v", err)
	}

	after, err := svc.GetClient(ctx, clientID)
	if err != nil {
		t.Fatalf("GetClient: %v", err)
	}
	if after.View.Client.Status != core.ClientInactive {
		t.Errorf("client status = %s, want inactive", after.View.Client.Status)
	}
	if got := after.View.Client.Tests[0].DurationValue; got != 0 {
		t.Errorf("trial duration = %d, want 0", got)
	}

	// No ledger fallout from the interruption.
	ledger, err := svc.ListCashFlow(ctx)
	if err != nil {
		t.Fatalf("ListCashFlow: %v", err)
	}
	if len(ledger.Entries) != 0 {
		t.Errorf("ledger entries = %d, want 0", len(ledger.Entries))
	}

	trials, err := svc.ListTrials(ctx)
	if err != nil {
		t.Fatalf("ListTrials: %v", err)
	}
	if len(trials.Trials) != 1 {
		t.Fatalf("trials = %d, want 1", len(trials.Trials))
	}
	if !trials.Trials[0].Interrupted || !trials.Trials[0].Expired {
		t.Errorf("trial view = %+v, want interrupted and counted as expired", trials.Trials[0])
	}
}

func TestDashboardAggregation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	star, err := svc.CreateServer(ctx, core.Server{Name: "Star", Status: core.ServerOnline})
	if err != nil {
		t.Fatalf("CreateServer: %v", err)
	}
	if _, err := svc.CreateServer(ctx, core.Server{Name: "Down", Status: core.ServerOffline}); err != nil {
		t.Fatalf("CreateServer: %v", err)
	}
	qty := decimal.NewFromInt(10)
	unit := decimal.NewFromInt(8)
	if _, err := svc.AddTransaction(ctx, star.Server.ID, core.Transaction{
		Type: core.TxPurchase, Credits: qty, UnitValue: unit, TotalValue: qty.Mul(unit),
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	created, err := svc.CreateClient(ctx, core.Client{
		Name:  "Ana",
		Plans: []core.SelectedPlan{{PanelID: star.Server.ID, PlanName: "Full HD", Screens: 1, Value: decimal.NewFromInt(30)}},
	})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	active := created.View.Client
	active.Status = core.ClientActive
	if _, err := svc.UpdateClient(ctx, active, false); err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	if _, err := svc.CreateClient(ctx, core.Client{Name: "Bruno", Status: core.ClientTest}); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	dash, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dash.Clients != 2 || dash.ActiveClients != 1 || dash.TestClients != 1 {
		t.Errorf("client counters = %+v", dash)
	}
	if dash.Servers != 2 || dash.OnlineServers != 1 {
		t.Errorf("server counters = %+v", dash)
	}
	if !dash.TotalCreditStock.Equal(decimal.NewFromInt(9)) {
		t.Errorf("total credit stock = %s, want 9 (10 bought, 1 consumed)", dash.TotalCreditStock)
	}
	// Income 30 (subscription), expense 80 (purchase) + 8 (consumption).
	if !dash.CashFlow.Income.Equal(decimal.NewFromInt(30)) {
		t.Errorf("income = %s, want 30", dash.CashFlow.Income)
	}
	if !dash.CashFlow.Expense.Equal(decimal.NewFromInt(88)) {
		t.Errorf("expense = %s, want 88", dash.CashFlow.Expense)
	}
}
