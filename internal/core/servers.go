package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddServer assigns a new id, defaults the status to online and prepends the
// server. A postpaid panel with a positive monthly value books its expense
// entry immediately.
func (s *Store) AddServer(ctx context.Context, srv Server) (Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	srv.ID = uuid.NewString()
	if srv.Status == "" {
		srv.Status = ServerOnline
	}
	if srv.CreatedAt.IsZero() {
		srv.CreatedAt = s.now()
	}
	if srv.SubServers == nil {
		srv.SubServers = []SubServer{}
	}
	srv.Transactions = []Transaction{}
	srv.CreditStock = decimal.Zero

	s.servers = append([]Server{srv}, s.servers...)

	ledgerTouched := false
	if srv.PaymentType == Postpaid && srv.MonthlyValue.IsPositive() {
		s.appendPanelPaymentLocked(&s.servers[0])
		ledgerTouched = true
	}

	s.persistServers(ctx)
	if ledgerTouched {
		s.persistCashFlow(ctx)
	}
	return s.servers[0], nil
}

// UpdateServer replaces the server's identity and configuration fields by id.
// The transaction log and cached credit stock stay owned by the store; they
// only change through AddTransactionToServer and RecomputeStock. A change to
// the postpaid monthly value re-synthesizes the panel payment entry, and
// leaving postpaid removes it.
func (s *Store) UpdateServer(ctx context.Context, srv Server) (Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.findServerLocked(srv.ID)
	if existing == nil {
		return Server{}, fmt.Errorf("server %s: %w", srv.ID, ErrNotFound)
	}

	prevType := existing.PaymentType
	prevMonthly := existing.MonthlyValue

	srv.Transactions = existing.Transactions
	srv.CreditStock = existing.CreditStock
	if srv.CreatedAt.IsZero() {
		srv.CreatedAt = existing.CreatedAt
	}
	*existing = srv

	ledgerTouched := false
	switch {
	case existing.PaymentType == Postpaid && (prevType != Postpaid || !prevMonthly.Equal(existing.MonthlyValue)):
		s.removePanelPaymentEntriesLocked(existing.ID)
		if existing.MonthlyValue.IsPositive() {
			s.appendPanelPaymentLocked(existing)
		}
		ledgerTouched = true
	case existing.PaymentType != Postpaid && prevType == Postpaid:
		s.removePanelPaymentEntriesLocked(existing.ID)
		ledgerTouched = true
	}

	s.persistServers(ctx)
	if ledgerTouched {
		s.persistCashFlow(ctx)
	}
	return *existing, nil
}

// DeleteServer removes the server by id. Deletion proceeds even when clients
// still reference the panel through a plan — the returned warning is
// informational and the dangling references are tolerated by the views.
func (s *Store) DeleteServer(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.servers[:0]
	found := false
	for _, srv := range s.servers {
		if srv.ID == id {
			found = true
			continue
		}
		kept = append(kept, srv)
	}
	if !found {
		return "", fmt.Errorf("server %s: %w", id, ErrNotFound)
	}
	s.servers = kept

	warning := ""
	if n := s.clientsReferencingLocked(id); n > 0 {
		warning = fmt.Sprintf("%d client(s) still reference this panel through a plan", n)
		s.log.Warn().Str("server_id", id).Int("clients", n).Msg("deleting referenced panel")
	}

	s.persistServers(ctx)
	return warning, nil
}

func (s *Store) clientsReferencingLocked(serverID string) int {
	n := 0
	for _, c := range s.clients {
		for _, p := range c.Plans {
			if p.PanelID == serverID {
				n++
				break
			}
		}
	}
	return n
}

// AddTransactionToServer appends a credit movement and updates the cached
// stock by the delta. Any transaction that would leave the stock negative is
// rejected before mutating state. Purchases with a positive value book an
// expense entry; reversals with a non-zero value book an income entry for
// the absolute value.
func (s *Store) AddTransactionToServer(ctx context.Context, serverID string, tx Transaction) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	srv := s.findServerLocked(serverID)
	if srv == nil {
		return Transaction{}, fmt.Errorf("server %s: %w", serverID, ErrNotFound)
	}

	newStock := srv.CreditStock.Add(tx.Credits)
	if newStock.IsNegative() {
		return Transaction{}, fmt.Errorf("transaction of %s credits on %s (stock %s): %w",
			tx.Credits.String(), srv.Name, srv.CreditStock.String(), ErrInsufficientStock)
	}

	tx.ID = uuid.NewString()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.now()
	}
	srv.Transactions = append(srv.Transactions, tx)
	srv.CreditStock = newStock

	ledgerTouched := false
	switch {
	case tx.Type == TxPurchase && tx.TotalValue.IsPositive():
		s.cashFlow = append(s.cashFlow, CashFlowEntry{
			ID:            uuid.NewString(),
			Type:          Expense,
			Amount:        tx.TotalValue,
			Description:   fmt.Sprintf("Credit purchase — %s", srv.Name),
			CreatedAt:     s.now(),
			Origin:        OriginPurchase,
			ServerID:      srv.ID,
			TransactionID: tx.ID,
		})
		ledgerTouched = true
	case tx.Type == TxReversal && !tx.TotalValue.IsZero():
		s.cashFlow = append(s.cashFlow, CashFlowEntry{
			ID:            uuid.NewString(),
			Type:          Income,
			Amount:        tx.TotalValue.Abs(),
			Description:   fmt.Sprintf("Credit reversal — %s", srv.Name),
			CreatedAt:     s.now(),
			Origin:        OriginReversal,
			ServerID:      srv.ID,
			TransactionID: tx.ID,
		})
		ledgerTouched = true
	}

	s.persistServers(ctx)
	if ledgerTouched {
		s.persistCashFlow(ctx)
	}
	return tx, nil
}

// RecomputeStock rebuilds the cached credit stock from the transaction log.
// Repair path for the drift the cache invariant cannot rule out.
func (s *Store) RecomputeStock(ctx context.Context, serverID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	srv := s.findServerLocked(serverID)
	if srv == nil {
		return decimal.Zero, fmt.Errorf("server %s: %w", serverID, ErrNotFound)
	}

	total := decimal.Zero
	for _, tx := range srv.Transactions {
		total = total.Add(tx.Credits)
	}
	if !total.Equal(srv.CreditStock) {
		s.log.Warn().Str("server_id", serverID).
			Str("cached", srv.CreditStock.String()).
			Str("recomputed", total.String()).
			Msg("credit stock cache drifted from transaction log")
	}
	srv.CreditStock = total
	s.persistServers(ctx)
	return total, nil
}

func (s *Store) appendPanelPaymentLocked(srv *Server) {
	s.cashFlow = append(s.cashFlow, CashFlowEntry{
		ID:          uuid.NewString(),
		Type:        Expense,
		Amount:      srv.MonthlyValue,
		Description: fmt.Sprintf("Panel payment — %s", srv.Name),
		CreatedAt:   s.now(),
		Origin:      OriginPanelPayment,
		ServerID:    srv.ID,
	})
}

func (s *Store) removePanelPaymentEntriesLocked(serverID string) {
	kept := s.cashFlow[:0]
	for _, e := range s.cashFlow {
		if e.Origin == OriginPanelPayment && e.ServerID == serverID {
			continue
		}
		kept = append(kept, e)
	}
	s.cashFlow = kept
}
