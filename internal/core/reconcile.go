package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reconcile runs the ledger healing pass on demand and persists any
// synthesized entries. Returns how many entries were added.
func (s *Store) Reconcile(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.reconcileLocked()
	if n > 0 {
		s.persistCashFlow(ctx)
	}
	return n
}

// reconcileLocked heals ledgers created before the ledger concept existed or
// after a partial write. Each rule checks backref presence before inserting,
// so running the pass twice adds nothing.
func (s *Store) reconcileLocked() int {
	added := 0

	byTransaction := map[string]bool{}
	panelPayment := map[string]bool{}
	subscription := map[string]bool{}
	for _, e := range s.cashFlow {
		if e.TransactionID != "" {
			byTransaction[e.TransactionID] = true
		}
		if e.Origin == OriginPanelPayment && e.ServerID != "" {
			panelPayment[e.ServerID] = true
		}
		if e.Origin == OriginSubscription && e.ClientID != "" {
			subscription[e.ClientID] = true
		}
	}

	for i := range s.servers {
		srv := &s.servers[i]

		for _, tx := range srv.Transactions {
			if tx.Type != TxPurchase || !tx.TotalValue.IsPositive() || byTransaction[tx.ID] {
				continue
			}
			s.cashFlow = append(s.cashFlow, CashFlowEntry{
				ID:            uuid.NewString(),
				Type:          Expense,
				Amount:        tx.TotalValue,
				Description:   fmt.Sprintf("Credit purchase — %s", srv.Name),
				CreatedAt:     tx.CreatedAt,
				Origin:        OriginPurchase,
				ServerID:      srv.ID,
				TransactionID: tx.ID,
			})
			byTransaction[tx.ID] = true
			added++
		}

		if srv.PaymentType == Postpaid && srv.MonthlyValue.IsPositive() && !panelPayment[srv.ID] {
			s.cashFlow = append(s.cashFlow, CashFlowEntry{
				ID:          uuid.NewString(),
				Type:        Expense,
				Amount:      srv.MonthlyValue,
				Description: fmt.Sprintf("Panel payment — %s", srv.Name),
				CreatedAt:   srv.CreatedAt,
				Origin:      OriginPanelPayment,
				ServerID:    srv.ID,
			})
			panelPayment[srv.ID] = true
			added++
		}
	}

	for i := range s.clients {
		c := &s.clients[i]
		if c.Status != ClientActive || subscription[c.TempID] {
			continue
		}
		total := decimal.Zero
		for _, p := range c.Plans {
			if !p.Courtesy {
				total = total.Add(p.Value)
			}
		}
		if !total.IsPositive() {
			continue
		}
		createdAt := c.RegisteredAt
		if c.ActivatedAt != nil {
			createdAt = *c.ActivatedAt
		}
		s.cashFlow = append(s.cashFlow, CashFlowEntry{
			ID:          uuid.NewString(),
			Type:        Income,
			Amount:      total,
			Description: fmt.Sprintf("Initial subscription — %s", c.Name),
			CreatedAt:   createdAt,
			Origin:      OriginSubscription,
			ClientID:    c.TempID,
		})
		subscription[c.TempID] = true
		added++
	}

	return added
}
