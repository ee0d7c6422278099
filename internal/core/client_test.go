package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAddClientDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	added := mustAddClient(t, store, Client{Name: "Ana"})
	if added.TempID == "" {
		t.Error("stable key not assigned")
	}
	if added.Status != ClientInactive {
		t.Errorf("status = %s, want inactive", added.Status)
	}
	if added.RegisteredAt.IsZero() {
		t.Error("registration timestamp not stamped")
	}
	if added.Plans == nil || added.Applications == nil || added.Tests == nil {
		t.Error("embedded collections not initialized")
	}
}

func TestActivationFanout(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	panel := mustAddServer(t, store, Server{Name: "Star", PaymentType: Prepaid})
	mustBuyCredits(t, store, panel.ID, 10, 8)

	client := mustAddClient(t, store, Client{
		Name: "Ana",
		Plans: []SelectedPlan{
			{PanelID: panel.ID, PlanName: "Full HD", Screens: 1, Value: decimal.NewFromInt(30)},
			{PanelID: panel.ID, PlanName: "Sports", Screens: 1, Value: decimal.NewFromInt(40), Courtesy: true},
		},
	})

	client.Status = ClientActive
	updated, warnings, err := store.UpdateClient(ctx, client, UpdateClientOptions{})
	if err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if updated.ActivatedAt == nil {
		t.Error("activation timestamp not stamped")
	}

	// One income entry for the non-courtesy total only.
	incomes := entriesByOrigin(store, OriginSubscription)
	if len(incomes) != 1 {
		t.Fatalf("subscription entries = %d, want 1", len(incomes))
	}
	if !incomes[0].Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("subscription amount = %s, want 30 (courtesy plan excluded)", incomes[0].Amount)
	}
	if incomes[0].ClientID != client.TempID {
		t.Error("subscription entry missing client backref")
	}

	// One credit consumed per plan, costed at the oldest purchase batch.
	srv, err := store.GetServer(panel.ID)
	if err != nil {
		t.Fatalf("GetServer: %v", err)
	}
	if !srv.CreditStock.Equal(decimal.NewFromInt(8)) {
		t.Errorf("credit stock = %s, want 8 after two consumptions", srv.CreditStock)
	}
	consumptions := 0
	for _, tx := range srv.Transactions {
		if tx.Type == TxConsumption {
			consumptions++
			if !tx.Credits.Equal(decimal.NewFromInt(-1)) {
				t.Errorf("consumption delta = %s, want -1", tx.Credits)
			}
			if !tx.UnitValue.Equal(decimal.NewFromInt(8)) {
				t.Errorf("consumption unit = %s, want oldest batch cost 8", tx.UnitValue)
			}
		}
	}
	if consumptions != 2 {
		t.Errorf("consumption transactions = %d, want 2", consumptions)
	}
	if got := len(entriesByOrigin(store, OriginConsumption)); got != 2 {
		t.Errorf("consumption expense entries = %d, want 2", got)
	}
}

func TestActivationUsesOldestBatchCost(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	panel := mustAddServer(t, store, Server{Name: "Star"})
	mustBuyCredits(t, store, panel.ID, 5, 8)  // older, cheaper batch
	mustBuyCredits(t, store, panel.ID, 5, 12) // newer batch

	client := mustAddClient(t, store, Client{
		Name:  "Ana",
		Plans: []SelectedPlan{{PanelID: panel.ID, PlanName: "Full HD", Screens: 1, Value: decimal.NewFromInt(30)}},
	})
	client.Status = ClientActive
	if _, _, err := store.UpdateClient(ctx, client, UpdateClientOptions{}); err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}

	expenses := entriesByOrigin(store, OriginConsumption)
	if len(expenses) != 1 {
		t.Fatalf("consumption entries = %d, want 1", len(expenses))
	}
	if !expenses[0].Amount.Equal(decimal.NewFromInt(8)) {
		t.Errorf("consumption cost = %s, want oldest batch unit 8", expenses[0].Amount)
	}
}

func TestReactivationDoesNotDoubleBookIncome(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	panel := mustAddServer(t, store, Server{Name: "Star"})
	mustBuyCredits(t, store, panel.ID, 10, 8)

	client := mustAddClient(t, store, Client{
		Name:  "Ana",
		Plans: []SelectedPlan{{PanelID: panel.ID, PlanName: "Full HD", Screens: 1, Value: decimal.NewFromInt(30)}},
	})

	client.Status = ClientActive
	if _, _, err := store.UpdateClient(ctx, client, UpdateClientOptions{}); err != nil {
		t.Fatalf("first activation: %v", err)
	}
	client.Status = ClientInactive
	if _, _, err := store.UpdateClient(ctx, client, UpdateClientOptions{SkipCashFlow: true}); err != nil {
		t.Fatalf("deactivation: %v", err)
	}
	client.Status = ClientActive
	if _, _, err := store.UpdateClient(ctx, client, UpdateClientOptions{}); err != nil {
		t.Fatalf("second activation: %v", err)
	}

	if got := len(entriesByOrigin(store, OriginSubscription)); got != 1 {
		t.Errorf("subscription entries after re-activation = %d, want 1", got)
	}
}

func TestActivationSkipCashFlow(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	panel := mustAddServer(t, store, Server{Name: "Star"})
	mustBuyCredits(t, store, panel.ID, 10, 8)

	client := mustAddClient(t, store, Client{
		Name:  "Ana",
		Plans: []SelectedPlan{{PanelID: panel.ID, PlanName: "Full HD", Screens: 1, Value: decimal.NewFromInt(30)}},
	})
	client.Status = ClientActive
	if _, _, err := store.UpdateClient(ctx, client, UpdateClientOptions{SkipCashFlow: true}); err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}

	if got := len(store.CashFlow()) - 1; got != 0 { // minus the purchase expense
		t.Errorf("fanout entries with SkipCashFlow = %d, want 0", got)
	}
	srv, _ := store.GetServer(panel.ID)
	if !srv.CreditStock.Equal(decimal.NewFromInt(10)) {
		t.Errorf("credit stock = %s, want untouched 10", srv.CreditStock)
	}
}

func TestActivationWarnings(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Panel with zero stock plus a plan pointing nowhere.
	empty := mustAddServer(t, store, Server{Name: "Empty"})
	client := mustAddClient(t, store, Client{
		Name: "Ana",
		Plans: []SelectedPlan{
			{PanelID: empty.ID, PlanName: "Full HD", Screens: 1, Value: decimal.NewFromInt(30)},
			{PanelID: "missing-panel", PlanName: "Sports", Screens: 1, Value: decimal.NewFromInt(40)},
		},
	})

	client.Status = ClientActive
	_, warnings, err := store.UpdateClient(ctx, client, UpdateClientOptions{})
	if err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want one per uncostable plan", warnings)
	}

	// The invariant holds: nothing was consumed, stock stays at zero.
	srv, _ := store.GetServer(empty.ID)
	if !srv.CreditStock.Equal(decimal.Zero) {
		t.Errorf("credit stock = %s, want 0", srv.CreditStock)
	}
	// The income entry still books; only the costing is skipped.
	if got := len(entriesByOrigin(store, OriginSubscription)); got != 1 {
		t.Errorf("subscription entries = %d, want 1", got)
	}
}

func TestDeleteClientKeepsLedgerHistory(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	panel := mustAddServer(t, store, Server{Name: "Star"})
	mustBuyCredits(t, store, panel.ID, 10, 8)
	client := mustAddClient(t, store, Client{
		Name:  "Ana",
		Plans: []SelectedPlan{{PanelID: panel.ID, PlanName: "Full HD", Screens: 1, Value: decimal.NewFromInt(30)}},
	})
	client.Status = ClientActive
	if _, _, err := store.UpdateClient(ctx, client, UpdateClientOptions{}); err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}

	before := len(store.CashFlow())
	if err := store.DeleteClient(ctx, client.TempID); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	if _, err := store.GetClient(client.TempID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetClient after delete = %v, want ErrNotFound", err)
	}
	if got := len(store.CashFlow()); got != before {
		t.Errorf("ledger entries after delete = %d, want %d (history kept)", got, before)
	}
}

func TestTrialLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	client := mustAddClient(t, store, Client{Name: "Ana"})

	added, err := store.AddTestToClient(ctx, client.TempID, Test{
		PanelID:       "p1",
		Package:       "Full HD",
		DurationValue: 2,
		DurationUnit:  Hours,
		// Caller-supplied timestamps are ignored; the store stamps its own.
		CreatedAt: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddTestToClient: %v", err)
	}
	if added.CreatedAt.Year() == 1999 {
		t.Error("store did not stamp the trial creation time")
	}

	patch := added
	patch.DurationValue = 0
	patch.CreatedAt = time.Time{} // must not matter
	updated, err := store.UpdateTestInClient(ctx, client.TempID, added.CreatedAt, patch)
	if err != nil {
		t.Fatalf("UpdateTestInClient: %v", err)
	}
	if !updated.CreatedAt.Equal(added.CreatedAt) {
		t.Error("update changed the trial's lookup key")
	}
	if updated.DurationValue != 0 {
		t.Errorf("duration = %d, want 0", updated.DurationValue)
	}

	if _, err := store.UpdateTestInClient(ctx, client.TempID, added.CreatedAt.Add(time.Minute), patch); !errors.Is(err, ErrNotFound) {
		t.Errorf("update with wrong key = %v, want ErrNotFound", err)
	}
}

func TestUpdateClientNotFound(t *testing.T) {
	store, _ := newTestStore(t)
	_, _, err := store.UpdateClient(context.Background(), Client{TempID: "nope"}, UpdateClientOptions{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
