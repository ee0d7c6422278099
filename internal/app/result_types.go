package app

import (
	"time"

	"github.com/shopspring/decimal"

	"iptv-desk/internal/core"
)

// ClientView pairs a client with its derived statuses. PlanStatuses and
// AppStatuses run parallel to Client.Plans and Client.Applications.
type ClientView struct {
	Client       core.Client       `json:"client"`
	PlanStatuses []core.PlanStatus `json:"plan_statuses"`
	AppStatuses  []core.AppStatus  `json:"app_statuses"`
}

// ClientResult is returned by single-client operations. Warnings carry the
// non-blocking activation notices (missing panel, exhausted stock).
type ClientResult struct {
	View     ClientView `json:"view"`
	Warnings []string   `json:"warnings,omitempty"`
}

// ClientListResult is returned by ListClients.
type ClientListResult struct {
	Clients []ClientView `json:"clients"`
}

// TrialView is one row of the trial list with the expiration filter applied.
type TrialView struct {
	ClientID    string    `json:"client_id"`
	ClientName  string    `json:"client_name"`
	Test        core.Test `json:"test"`
	ExpiresAt   time.Time `json:"expires_at"`
	Expired     bool      `json:"expired"`
	Interrupted bool      `json:"interrupted"`
}

// TrialListResult is returned by ListTrials.
type TrialListResult struct {
	Trials []TrialView `json:"trials"`
}

// ServerResult is returned by single-server operations.
type ServerResult struct {
	Server core.Server `json:"server"`
}

// ServerListResult is returned by ListServers.
type ServerListResult struct {
	Servers []core.Server `json:"servers"`
}

// StockResult is returned by RecomputeStock.
type StockResult struct {
	ServerID    string          `json:"server_id"`
	CreditStock decimal.Decimal `json:"credit_stock"`
}

// CashFlowListResult is returned by ListCashFlow.
type CashFlowListResult struct {
	Entries []core.CashFlowEntry `json:"entries"`
}

// NoteListResult is returned by ListNotes.
type NoteListResult struct {
	Notes []core.Note `json:"notes"`
}

// DashboardResult aggregates the overview screen's numbers.
type DashboardResult struct {
	Clients          int                 `json:"clients"`
	ActiveClients    int                 `json:"active_clients"`
	TestClients      int                 `json:"test_clients"`
	Servers          int                 `json:"servers"`
	OnlineServers    int                 `json:"online_servers"`
	TotalCreditStock decimal.Decimal     `json:"total_credit_stock"`
	RunningTrials    int                 `json:"running_trials"`
	ExpiredTrials    int                 `json:"expired_trials"`
	CashFlow         core.CashFlowTotals `json:"cash_flow"`
}

// UserSession is returned by AuthenticateUser.
type UserSession struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
