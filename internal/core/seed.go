package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedData builds the built-in fixture collections used on first run, when
// the backing store holds nothing. The ledger starts empty on purpose: the
// reconciliation pass that follows Load synthesizes the missing entries,
// exercising the same healing path real data goes through.
func SeedData(now time.Time) Snapshot {
	panelID := uuid.NewString()
	postpaidID := uuid.NewString()

	prepaid := Server{
		ID:          panelID,
		Name:        "Star Panel",
		URL:         "http://starpanel.example/admin",
		Username:    "reseller",
		Status:      ServerOnline,
		PaymentType: Prepaid,
		CreditStock: decimal.NewFromInt(10),
		SubServers: []SubServer{
			{
				Name:        "Main",
				ScreenLimit: 3,
				Plans: []PlanDef{
					{Name: "Full HD", Value: decimal.NewFromInt(30)},
					{Name: "Sports", Value: decimal.NewFromInt(40)},
				},
			},
		},
		Transactions: []Transaction{
			{
				ID:          uuid.NewString(),
				Type:        TxPurchase,
				Credits:     decimal.NewFromInt(10),
				UnitValue:   decimal.NewFromInt(8),
				TotalValue:  decimal.NewFromInt(80),
				Description: "Initial credit batch",
				CreatedAt:   now.AddDate(0, 0, -7),
			},
		},
		Rating:    4,
		CreatedAt: now.AddDate(0, 0, -7),
	}

	postpaid := Server{
		ID:           postpaidID,
		Name:         "Nova Panel",
		Status:       ServerOnline,
		PaymentType:  Postpaid,
		CreditStock:  decimal.Zero,
		DueDay:       10,
		MonthlyValue: decimal.NewFromInt(120),
		SubServers:   []SubServer{{Name: "Default"}},
		Transactions: []Transaction{},
		CreatedAt:    now.AddDate(0, 0, -7),
	}

	client := Client{
		TempID:       uuid.NewString(),
		Name:         "Sample Client",
		Nickname:     "sample",
		Status:       ClientInactive,
		RegisteredAt: now.AddDate(0, 0, -3),
		Plans: []SelectedPlan{
			{
				PanelID:       panelID,
				SubServer:     "Main",
				PlanName:      "Full HD",
				Screens:       2,
				Value:         decimal.NewFromInt(30),
				BillingPeriod: Monthly,
				DueDay:        5,
			},
		},
		Applications: []Application{},
		Tests:        []Test{},
		Observations: "Built-in sample record",
	}

	note := Note{
		ID:        uuid.NewString(),
		Text:      "Welcome! Import your data or start adding clients and panels.",
		Color:     "yellow",
		Favorite:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return Snapshot{
		Clients:  []Client{client},
		Servers:  []Server{prepaid, postpaid},
		CashFlow: []CashFlowEntry{},
		Notes:    []Note{note},
	}
}
