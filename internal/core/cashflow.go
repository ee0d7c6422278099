package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddCashFlowEntry appends a manual ledger entry.
func (s *Store) AddCashFlowEntry(ctx context.Context, e CashFlowEntry) (CashFlowEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	if e.Origin == "" {
		e.Origin = OriginManual
	}
	s.cashFlow = append(s.cashFlow, e)
	s.persistCashFlow(ctx)
	return e, nil
}

// UpdateCashFlowEntry replaces the entry matching the id.
func (s *Store) UpdateCashFlowEntry(ctx context.Context, e CashFlowEntry) (CashFlowEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cashFlow {
		if s.cashFlow[i].ID == e.ID {
			s.cashFlow[i] = e
			s.persistCashFlow(ctx)
			return e, nil
		}
	}
	return CashFlowEntry{}, fmt.Errorf("cash flow entry %s: %w", e.ID, ErrNotFound)
}

// DeleteCashFlowEntry removes the entry by id.
func (s *Store) DeleteCashFlowEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.cashFlow[:0]
	found := false
	for _, e := range s.cashFlow {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("cash flow entry %s: %w", id, ErrNotFound)
	}
	s.cashFlow = kept
	s.persistCashFlow(ctx)
	return nil
}

// CashFlowTotals aggregates the ledger for the report views.
type CashFlowTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Entries int             `json:"entries"`
}

// CashFlowSummary totals income and expense over an optional period.
// A nil bound leaves that side open.
func (s *Store) CashFlowSummary(from, to *time.Time) CashFlowTotals {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := CashFlowTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range s.cashFlow {
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && e.CreatedAt.After(*to) {
			continue
		}
		t.Entries++
		switch e.Type {
		case Income:
			t.Income = t.Income.Add(e.Amount)
		case Expense:
			t.Expense = t.Expense.Add(e.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}
