package core

import "time"

// MatchingApplications counts the client's applications that belong to the
// given plan's (panel, sub-server, plan) slot.
func MatchingApplications(c Client, p SelectedPlan) int {
	n := 0
	for _, a := range c.Applications {
		if a.PanelID == p.PanelID && a.SubServer == p.SubServer && a.PlanName == p.PlanName {
			n++
		}
	}
	return n
}

// PlanStatusOf derives a plan's status from the owning client and the number
// of applications covering its screens. An expired client expires the plan,
// an inactive client blocks it; otherwise the plan is pending until every
// screen has an application and the client is active.
func PlanStatusOf(c Client, p SelectedPlan) PlanStatus {
	switch c.Status {
	case ClientExpired:
		return PlanExpired
	case ClientInactive:
		return PlanBlocked
	}
	if MatchingApplications(c, p) < p.Screens {
		return PlanPending
	}
	if c.Status == ClientActive {
		return PlanActive
	}
	return PlanPending
}

// ApplicationStatusOf derives an application's status from its license due
// date. Free licenses and licenses without a due date never expire.
func ApplicationStatusOf(a Application, now time.Time) AppStatus {
	if a.LicenseType == LicenseFree || a.LicenseDue == nil {
		return AppActive
	}
	if now.After(*a.LicenseDue) {
		return AppExpired
	}
	return AppActive
}

// ExpiresAt returns the moment the trial runs out.
func (t Test) ExpiresAt() time.Time {
	switch t.DurationUnit {
	case Days:
		return t.CreatedAt.Add(time.Duration(t.DurationValue) * 24 * time.Hour)
	default:
		return t.CreatedAt.Add(time.Duration(t.DurationValue) * time.Hour)
	}
}

// Expired reports whether the trial has run out at the given instant,
// independent of the owning client's status.
func (t Test) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt())
}

// TrialInterrupted reports whether a still-running trial was cut short by
// flipping its client to inactive. The trial list views group interrupted
// trials with the expired set.
func TrialInterrupted(c Client, t Test, now time.Time) bool {
	return c.Status == ClientInactive && !t.Expired(now)
}

// TrialExpiredInView is the expiration filter used by the trial list views:
// a trial counts as expired once its deadline passes or once its client goes
// inactive, whichever comes first.
func TrialExpiredInView(c Client, t Test, now time.Time) bool {
	return t.Expired(now) || TrialInterrupted(c, t, now)
}
