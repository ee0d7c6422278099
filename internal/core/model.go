package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientExpired  ClientStatus = "expired"
	ClientTest     ClientStatus = "test"
)

// PlanStatus is derived on read from the owning client's status and the
// number of matching applications. It is never stored.
type PlanStatus string

const (
	PlanActive  PlanStatus = "active"
	PlanPending PlanStatus = "pending"
	PlanExpired PlanStatus = "expired"
	PlanBlocked PlanStatus = "blocked"
)

type AppStatus string

const (
	AppActive  AppStatus = "active"
	AppExpired AppStatus = "expired"
)

type ServerStatus string

const (
	ServerOnline      ServerStatus = "online"
	ServerOffline     ServerStatus = "offline"
	ServerSuspended   ServerStatus = "suspended"
	ServerMaintenance ServerStatus = "maintenance"
)

type PaymentType string

const (
	Prepaid  PaymentType = "prepaid"
	Postpaid PaymentType = "postpaid"
)

type TransactionType string

const (
	TxPurchase    TransactionType = "purchase"
	TxConsumption TransactionType = "consumption"
	TxReversal    TransactionType = "reversal"
	TxAdjustment  TransactionType = "adjustment"
)

type EntryType string

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// EntryOrigin records which mutation synthesized a cash-flow entry. Manual
// entries carry OriginManual; everything else is a side effect and its
// backrefs are what keep the startup reconciliation idempotent.
type EntryOrigin string

const (
	OriginManual       EntryOrigin = "manual"
	OriginSubscription EntryOrigin = "subscription"
	OriginPurchase     EntryOrigin = "purchase"
	OriginReversal     EntryOrigin = "reversal"
	OriginConsumption  EntryOrigin = "consumption"
	OriginPanelPayment EntryOrigin = "panel_payment"
)

type BillingPeriod string

const (
	Monthly    BillingPeriod = "monthly"
	Quarterly  BillingPeriod = "quarterly"
	Semiannual BillingPeriod = "semiannual"
	Annual     BillingPeriod = "annual"
)

type DurationUnit string

const (
	Hours DurationUnit = "hours"
	Days  DurationUnit = "days"
)

type LicenseType string

const (
	LicenseFree   LicenseType = "free"
	LicenseAnnual LicenseType = "annual"
)

// Client is a reseller customer. TempID is the locally generated stable key
// used for every lookup; ID is the externally issued business identifier and
// may stay blank until assigned later.
type Client struct {
	TempID       string         `json:"temp_id"`
	ID           string         `json:"id,omitempty"`
	Name         string         `json:"name"`
	Nickname     string         `json:"nickname,omitempty"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Phone2       string         `json:"phone2,omitempty"`
	Status       ClientStatus   `json:"status"`
	RegisteredAt time.Time      `json:"registered_at"`
	ActivatedAt  *time.Time     `json:"activated_at,omitempty"`
	Plans        []SelectedPlan `json:"plans"`
	Applications []Application  `json:"applications"`
	Tests        []Test         `json:"tests"`
	Observations string         `json:"observations,omitempty"`
}

// SelectedPlan is one subscription a client holds on a panel. Courtesy marks
// a free plan excluded from income totals.
type SelectedPlan struct {
	PanelID       string          `json:"panel_id"`
	SubServer     string          `json:"sub_server"`
	PlanName      string          `json:"plan_name"`
	Screens       int             `json:"screens"`
	Value         decimal.Decimal `json:"value"`
	Courtesy      bool            `json:"courtesy,omitempty"`
	BillingPeriod BillingPeriod   `json:"billing_period"`
	DueDay        int             `json:"due_day"`
}

// Application is one screen/device activation. PanelID, SubServer and
// PlanName form the composite key tying it back to a SelectedPlan.
type Application struct {
	PanelID          string      `json:"panel_id"`
	SubServer        string      `json:"sub_server"`
	PlanName         string      `json:"plan_name"`
	Screen           int         `json:"screen"`
	LicenseType      LicenseType `json:"license_type"`
	LicenseDue       *time.Time  `json:"license_due,omitempty"`
	Device           string      `json:"device,omitempty"`
	Location         string      `json:"location,omitempty"`
	ResponsibleName  string      `json:"responsible_name,omitempty"`
	ResponsiblePhone string      `json:"responsible_phone,omitempty"`
}

// Test is a trial grant. CreatedAt doubles as its lookup key within the
// client. Expiry is CreatedAt + duration; there is no stored "interrupted"
// state — interrupting a trial flips the owning client to inactive instead.
type Test struct {
	PanelID       string       `json:"panel_id"`
	SubServer     string       `json:"sub_server"`
	Package       string       `json:"package"`
	DurationValue int          `json:"duration_value"`
	DurationUnit  DurationUnit `json:"duration_unit"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Server is an upstream IPTV panel. CreditStock is the cached running sum of
// all transaction deltas; every mutator keeps it in sync and RecomputeStock
// rebuilds it from the log.
type Server struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	URL          string          `json:"url,omitempty"`
	Username     string          `json:"username,omitempty"`
	Password     string          `json:"password,omitempty"`
	Status       ServerStatus    `json:"status"`
	PaymentType  PaymentType     `json:"payment_type"`
	CreditStock  decimal.Decimal `json:"credit_stock"`
	DueDay       int             `json:"due_day,omitempty"`
	MonthlyValue decimal.Decimal `json:"monthly_value"`
	SubServers   []SubServer     `json:"sub_servers"`
	Transactions []Transaction   `json:"transactions"`
	Rating       int             `json:"rating,omitempty"`
	Observations string          `json:"observations,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SubServer is a named capacity pool within a panel with its own plan catalog.
type SubServer struct {
	Name        string    `json:"name"`
	ScreenLimit int       `json:"screen_limit,omitempty"`
	Plans       []PlanDef `json:"plans,omitempty"`
}

type PlanDef struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Transaction is an append-only credit movement against a server. Credits is
// the signed stock delta (purchases positive, consumptions negative).
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Credits     decimal.Decimal `json:"credits"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	TotalValue  decimal.Decimal `json:"total_value"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CashFlowEntry is an append-only ledger record. ClientID, ServerID and
// TransactionID point back at whatever generated the entry; deleting the
// referenced record intentionally leaves the entry behind as history.
type CashFlowEntry struct {
	ID            string          `json:"id"`
	Type          EntryType       `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Origin        EntryOrigin     `json:"origin"`
	ClientID      string          `json:"client_id,omitempty"`
	ServerID      string          `json:"server_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
}

// Note is free-form text with a color tag, independent of the business domain.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Color     string    `json:"color,omitempty"`
	Favorite  bool      `json:"favorite,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
