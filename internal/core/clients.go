package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpdateClientOptions tweaks UpdateClient's side effects. SkipCashFlow
// suppresses the activation fanout (used by import-style flows that carry
// their own ledger history).
type UpdateClientOptions struct {
	SkipCashFlow bool
}

// AddClient assigns a fresh stable key, defaults the status to inactive and
// prepends the client to the collection.
func (s *Store) AddClient(ctx context.Context, c Client) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.TempID = uuid.NewString()
	if c.Status == "" {
		c.Status = ClientInactive
	}
	if c.RegisteredAt.IsZero() {
		c.RegisteredAt = s.now()
	}
	if c.Plans == nil {
		c.Plans = []SelectedPlan{}
	}
	if c.Applications == nil {
		c.Applications = []Application{}
	}
	if c.Tests == nil {
		c.Tests = []Test{}
	}

	s.clients = append([]Client{c}, s.clients...)
	s.persistClients(ctx)
	return c, nil
}

// UpdateClient replaces the stored record matching the stable key with the
// given one. When the client transitions into active and SkipCashFlow is
// unset, the activation fanout runs: one income entry for the non-courtesy
// plan total, plus one credit consumption per plan against its panel.
// Returned warnings are non-blocking (panel missing, stock exhausted).
func (s *Store) UpdateClient(ctx context.Context, c Client, opts UpdateClientOptions) (Client, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.findClientLocked(c.TempID)
	if existing == nil {
		return Client{}, nil, fmt.Errorf("client %s: %w", c.TempID, ErrNotFound)
	}

	prev := existing.Status
	activating := prev != ClientActive && c.Status == ClientActive

	if activating && c.ActivatedAt == nil {
		ts := s.now()
		c.ActivatedAt = &ts
	}
	*existing = c

	var warnings []string
	serversTouched := false
	ledgerTouched := false

	if activating && !opts.SkipCashFlow {
		if s.appendSubscriptionIncomeLocked(existing) {
			ledgerTouched = true
		}
		for _, p := range existing.Plans {
			touchedSrv, touchedLedger, warn := s.consumeCreditLocked(existing, p)
			serversTouched = serversTouched || touchedSrv
			ledgerTouched = ledgerTouched || touchedLedger
			if warn != "" {
				warnings = append(warnings, warn)
			}
		}
	}

	s.persistClients(ctx)
	if serversTouched {
		s.persistServers(ctx)
	}
	if ledgerTouched {
		s.persistCashFlow(ctx)
	}
	return *existing, warnings, nil
}

// appendSubscriptionIncomeLocked books the initial subscription income for a
// newly activated client. The backref check keeps re-activations and the
// startup reconciliation from double-booking.
func (s *Store) appendSubscriptionIncomeLocked(c *Client) bool {
	total := decimal.Zero
	for _, p := range c.Plans {
		if !p.Courtesy {
			total = total.Add(p.Value)
		}
	}
	if !total.IsPositive() || s.hasSubscriptionEntryLocked(c.TempID) {
		return false
	}
	s.cashFlow = append(s.cashFlow, CashFlowEntry{
		ID:          uuid.NewString(),
		Type:        Income,
		Amount:      total,
		Description: fmt.Sprintf("Initial subscription — %s", c.Name),
		CreatedAt:   s.now(),
		Origin:      OriginSubscription,
		ClientID:    c.TempID,
	})
	return true
}

// consumeCreditLocked deducts one credit from the plan's panel at the unit
// cost of the panel's earliest purchase transaction (oldest-batch costing,
// reproduced as observed in the original bookkeeping). The non-negative
// stock invariant wins over the side effect: an exhausted or missing panel
// is skipped with a warning instead of failing the activation.
func (s *Store) consumeCreditLocked(c *Client, p SelectedPlan) (serversTouched, ledgerTouched bool, warning string) {
	srv := s.findServerLocked(p.PanelID)
	if srv == nil {
		return false, false, fmt.Sprintf("panel %s not found for plan %s — no credit consumed", p.PanelID, p.PlanName)
	}

	one := decimal.NewFromInt(1)
	if srv.CreditStock.LessThan(one) {
		return false, false, fmt.Sprintf("panel %s has no credit stock — activation of plan %s not costed", srv.Name, p.PlanName)
	}

	unit := oldestPurchaseUnitValue(srv.Transactions)
	tx := Transaction{
		ID:          uuid.NewString(),
		Type:        TxConsumption,
		Credits:     one.Neg(),
		UnitValue:   unit,
		TotalValue:  unit,
		Description: fmt.Sprintf("Credit consumed — activation of %s (%s)", c.Name, p.PlanName),
		CreatedAt:   s.now(),
	}
	srv.Transactions = append(srv.Transactions, tx)
	srv.CreditStock = srv.CreditStock.Sub(one)

	if unit.IsPositive() {
		s.cashFlow = append(s.cashFlow, CashFlowEntry{
			ID:            uuid.NewString(),
			Type:          Expense,
			Amount:        unit,
			Description:   fmt.Sprintf("Credit cost — %s on %s", c.Name, srv.Name),
			CreatedAt:     s.now(),
			Origin:        OriginConsumption,
			ClientID:      c.TempID,
			ServerID:      srv.ID,
			TransactionID: tx.ID,
		})
		return true, true, ""
	}
	return true, false, ""
}

// oldestPurchaseUnitValue returns the unit cost of the earliest purchase
// transaction, or zero when the panel has never been topped up.
func oldestPurchaseUnitValue(txs []Transaction) decimal.Decimal {
	var oldest *Transaction
	for i := range txs {
		if txs[i].Type != TxPurchase {
			continue
		}
		if oldest == nil || txs[i].CreatedAt.Before(oldest.CreatedAt) {
			oldest = &txs[i]
		}
	}
	if oldest == nil {
		return decimal.Zero
	}
	return oldest.UnitValue
}

func (s *Store) hasSubscriptionEntryLocked(tempID string) bool {
	for _, e := range s.cashFlow {
		if e.Origin == OriginSubscription && e.ClientID == tempID {
			return true
		}
	}
	return false
}

// DeleteClient removes the client by stable key. Embedded plans, applications
// and tests go with the record; ledger entries referencing the client stay
// behind as financial history.
func (s *Store) DeleteClient(ctx context.Context, tempID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.clients[:0]
	found := false
	for _, c := range s.clients {
		if c.TempID == tempID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("client %s: %w", tempID, ErrNotFound)
	}
	s.clients = kept
	s.persistClients(ctx)
	return nil
}

// AddTestToClient appends a trial with a store-assigned creation timestamp,
// which doubles as the trial's lookup key.
func (s *Store) AddTestToClient(ctx context.Context, tempID string, t Test) (Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findClientLocked(tempID)
	if c == nil {
		return Test{}, fmt.Errorf("client %s: %w", tempID, ErrNotFound)
	}
	t.CreatedAt = s.now()
	c.Tests = append(c.Tests, t)
	s.persistClients(ctx)
	return t, nil
}

// UpdateTestInClient replaces the trial identified by its creation timestamp,
// keeping the timestamp itself. Zeroing the duration is how a trial gets
// interrupted.
func (s *Store) UpdateTestInClient(ctx context.Context, tempID string, createdAt time.Time, patch Test) (Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findClientLocked(tempID)
	if c == nil {
		return Test{}, fmt.Errorf("client %s: %w", tempID, ErrNotFound)
	}
	for i := range c.Tests {
		if c.Tests[i].CreatedAt.Equal(createdAt) {
			patch.CreatedAt = c.Tests[i].CreatedAt
			c.Tests[i] = patch
			s.persistClients(ctx)
			return c.Tests[i], nil
		}
	}
	return Test{}, fmt.Errorf("test %s of client %s: %w", createdAt.Format(time.RFC3339), tempID, ErrNotFound)
}
