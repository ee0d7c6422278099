package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPlanStatusOf(t *testing.T) {
	plan := SelectedPlan{
		PanelID:  "p1",
		PlanName: "Full HD",
		Screens:  2,
		Value:    decimal.NewFromInt(30),
	}
	app := Application{PanelID: "p1", PlanName: "Full HD"}

	tests := []struct {
		name   string
		status ClientStatus
		apps   []Application
		want   PlanStatus
	}{
		{"expired client expires the plan", ClientExpired, []Application{app, app}, PlanExpired},
		{"inactive client blocks the plan", ClientInactive, []Application{app, app}, PlanBlocked},
		{"active but screens uncovered", ClientActive, []Application{app}, PlanPending},
		{"active and fully covered", ClientActive, []Application{app, app}, PlanActive},
		{"test client stays pending even when covered", ClientTest, []Application{app, app}, PlanPending},
		{"applications of other plans do not count", ClientActive, []Application{
			{PanelID: "p1", PlanName: "Sports"},
			{PanelID: "p2", PlanName: "Full HD"},
		}, PlanPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Client{Status: tt.status, Applications: tt.apps}
			if got := PlanStatusOf(c, plan); got != tt.want {
				t.Errorf("PlanStatusOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestApplicationStatusOf(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		app  Application
		want AppStatus
	}{
		{"free license never expires", Application{LicenseType: LicenseFree, LicenseDue: &past}, AppActive},
		{"no due date never expires", Application{LicenseType: LicenseAnnual}, AppActive},
		{"due date in the future", Application{LicenseType: LicenseAnnual, LicenseDue: &future}, AppActive},
		{"due date passed", Application{LicenseType: LicenseAnnual, LicenseDue: &past}, AppExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplicationStatusOf(tt.app, now); got != tt.want {
				t.Errorf("ApplicationStatusOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTestExpiry(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	hourly := Test{DurationValue: 1, DurationUnit: Hours, CreatedAt: created}
	if got := hourly.ExpiresAt(); !got.Equal(created.Add(time.Hour)) {
		t.Errorf("hourly ExpiresAt = %s", got)
	}
	if hourly.Expired(created.Add(59 * time.Minute)) {
		t.Error("trial expired one minute early")
	}
	if !hourly.Expired(created.Add(61 * time.Minute)) {
		t.Error("trial still running one minute late")
	}

	daily := Test{DurationValue: 3, DurationUnit: Days, CreatedAt: created}
	if got := daily.ExpiresAt(); !got.Equal(created.Add(72 * time.Hour)) {
		t.Errorf("daily ExpiresAt = %s", got)
	}
}

func TestTrialInterruption(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	now := created.Add(30 * time.Minute)
	trial := Test{DurationValue: 1, DurationUnit: Hours, CreatedAt: created}

	active := Client{Status: ClientTest}
	inactive := Client{Status: ClientInactive}

	if TrialInterrupted(active, trial, now) {
		t.Error("running trial of a non-inactive client reported interrupted")
	}
	if !TrialInterrupted(inactive, trial, now) {
		t.Error("running trial of an inactive client not reported interrupted")
	}
	// A trial that already ran out is expired, not interrupted.
	late := created.Add(2 * time.Hour)
	if TrialInterrupted(inactive, trial, late) {
		t.Error("expired trial reported interrupted")
	}
	if !TrialExpiredInView(inactive, trial, now) {
		t.Error("interrupted trial missing from the expired view")
	}
	if TrialExpiredInView(active, trial, now) {
		t.Error("running trial counted as expired in view")
	}
}
