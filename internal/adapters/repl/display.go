package repl

import (
	"fmt"
	"strings"

	"iptv-desk/internal/app"
	"iptv-desk/internal/core"
)

func printDashboard(result *app.DashboardResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  %-58s\n", "DASHBOARD")
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  %-28s %10d\n", "Clients", result.Clients)
	fmt.Printf("  %-28s %10d\n", "  active", result.ActiveClients)
	fmt.Printf("  %-28s %10d\n", "  on trial", result.TestClients)
	fmt.Printf("  %-28s %10d\n", "Panels", result.Servers)
	fmt.Printf("  %-28s %10d\n", "  online", result.OnlineServers)
	fmt.Printf("  %-28s %10s\n", "Credit stock (total)", result.TotalCreditStock.StringFixed(2))
	fmt.Printf("  %-28s %10d\n", "Trials running", result.RunningTrials)
	fmt.Printf("  %-28s %10d\n", "Trials expired", result.ExpiredTrials)
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("  %-28s %10s\n", "Income", result.CashFlow.Income.StringFixed(2))
	fmt.Printf("  %-28s %10s\n", "Expense", result.CashFlow.Expense.StringFixed(2))
	fmt.Printf("  %-28s %10s\n", "Balance", result.CashFlow.Balance.StringFixed(2))
	fmt.Println(strings.Repeat("=", 62))
}

func printClients(result *app.ClientListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-74s\n", "CLIENTS")
	fmt.Println(strings.Repeat("=", 78))
	if len(result.Clients) == 0 {
		fmt.Println("  No clients found.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-38s %-22s %-10s %s\n", "ID", "NAME", "STATUS", "PLANS")
	fmt.Println(strings.Repeat("-", 78))
	for _, v := range result.Clients {
		fmt.Printf("  %-38s %-22s %-10s %d\n",
			v.Client.TempID, truncate(v.Client.Name, 22), v.Client.Status, len(v.Client.Plans))
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printClientDetail(v *app.ClientView) {
	c := v.Client
	fmt.Println()
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("  Client:   %s\n", c.Name)
	if c.Nickname != "" {
		fmt.Printf("  Nickname: %s\n", c.Nickname)
	}
	fmt.Printf("  ID:       %s\n", c.TempID)
	fmt.Printf("  Status:   %s\n", c.Status)
	if c.Phone != "" {
		fmt.Printf("  Phone:    %s\n", c.Phone)
	}
	fmt.Println(strings.Repeat("-", 70))
	if len(c.Plans) > 0 {
		fmt.Printf("  %-14s %-18s %8s %10s  %s\n", "PANEL", "PLAN", "SCREENS", "VALUE", "STATUS")
		fmt.Println(strings.Repeat("-", 70))
		for i, p := range c.Plans {
			status := ""
			if i < len(v.PlanStatuses) {
				status = string(v.PlanStatuses[i])
			}
			fmt.Printf("  %-14s %-18s %8d %10s  %s\n",
				truncate(p.PanelID, 14), truncate(p.PlanName, 18), p.Screens, p.Value.StringFixed(2), status)
		}
	} else {
		fmt.Println("  No plans.")
	}
	if len(c.Tests) > 0 {
		fmt.Println(strings.Repeat("-", 70))
		fmt.Printf("  %-14s %-14s %10s  %s\n", "PANEL", "PACKAGE", "DURATION", "CREATED")
		fmt.Println(strings.Repeat("-", 70))
		for _, t := range c.Tests {
			fmt.Printf("  %-14s %-14s %7d %-2s  %s\n",
				truncate(t.PanelID, 14), truncate(t.Package, 14), t.DurationValue, t.DurationUnit,
				t.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
	fmt.Println(strings.Repeat("-", 70))
}

func printServers(result *app.ServerListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-74s\n", "PANELS")
	fmt.Println(strings.Repeat("=", 78))
	if len(result.Servers) == 0 {
		fmt.Println("  No panels found.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-38s %-16s %-8s %-9s %s\n", "ID", "NAME", "STATUS", "PAYMENT", "CREDITS")
	fmt.Println(strings.Repeat("-", 78))
	for _, s := range result.Servers {
		fmt.Printf("  %-38s %-16s %-8s %-9s %s\n",
			s.ID, truncate(s.Name, 16), s.Status, s.PaymentType, s.CreditStock.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printServerDetail(s *core.Server) {
	fmt.Println()
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("  Panel:    %s\n", s.Name)
	fmt.Printf("  ID:       %s\n", s.ID)
	fmt.Printf("  Status:   %s\n", s.Status)
	fmt.Printf("  Payment:  %s\n", s.PaymentType)
	fmt.Printf("  Credits:  %s\n", s.CreditStock.StringFixed(2))
	if s.PaymentType == core.Postpaid {
		fmt.Printf("  Monthly:  %s (due day %d)\n", s.MonthlyValue.StringFixed(2), s.DueDay)
	}
	if len(s.Transactions) > 0 {
		fmt.Println(strings.Repeat("-", 70))
		fmt.Printf("  %-12s %10s %10s %10s  %s\n", "TYPE", "CREDITS", "UNIT", "TOTAL", "DATE")
		fmt.Println(strings.Repeat("-", 70))
		for _, tx := range s.Transactions {
			fmt.Printf("  %-12s %10s %10s %10s  %s\n",
				tx.Type, tx.Credits.StringFixed(2), tx.UnitValue.StringFixed(2),
				tx.TotalValue.StringFixed(2), tx.CreatedAt.Format("2006-01-02"))
		}
	}
	fmt.Println(strings.Repeat("-", 70))
}

func printCashFlow(result *app.CashFlowListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("  %-76s\n", "CASH FLOW")
	fmt.Println(strings.Repeat("=", 80))
	if len(result.Entries) == 0 {
		fmt.Println("  No entries found.")
		fmt.Println(strings.Repeat("=", 80))
		return
	}
	fmt.Printf("  %-8s %12s %-14s %-28s %s\n", "TYPE", "AMOUNT", "ORIGIN", "DESCRIPTION", "DATE")
	fmt.Println(strings.Repeat("-", 80))
	for _, e := range result.Entries {
		fmt.Printf("  %-8s %12s %-14s %-28s %s\n",
			e.Type, e.Amount.StringFixed(2), e.Origin, truncate(e.Description, 28),
			e.CreatedAt.Format("2006-01-02"))
	}
	fmt.Println(strings.Repeat("=", 80))
}

func printTotals(totals *core.CashFlowTotals) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 46))
	fmt.Printf("  %-42s\n", "CASH FLOW SUMMARY")
	fmt.Println(strings.Repeat("=", 46))
	fmt.Printf("  %-20s %21s\n", "Income", totals.Income.StringFixed(2))
	fmt.Printf("  %-20s %21s\n", "Expense", totals.Expense.StringFixed(2))
	fmt.Println(strings.Repeat("-", 46))
	fmt.Printf("  %-20s %21s\n", "Balance", totals.Balance.StringFixed(2))
	fmt.Printf("  %-20s %21d\n", "Entries", totals.Entries)
	fmt.Println(strings.Repeat("=", 46))
}

func printTrials(result *app.TrialListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-68s\n", "TRIALS")
	fmt.Println(strings.Repeat("=", 72))
	if len(result.Trials) == 0 {
		fmt.Println("  No trials found.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	fmt.Printf("  %-24s %-18s %-12s %s\n", "CLIENT", "EXPIRES", "STATE", "CREATED")
	fmt.Println(strings.Repeat("-", 72))
	for _, t := range result.Trials {
		state := "running"
		if t.Interrupted {
			state = "interrupted"
		} else if t.Expired {
			state = "expired"
		}
		fmt.Printf("  %-24s %-18s %-12s %s\n",
			truncate(t.ClientName, 24),
			t.ExpiresAt.Format("2006-01-02 15:04"),
			state,
			t.Test.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printNotes(result *app.NoteListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-68s\n", "NOTES")
	fmt.Println(strings.Repeat("=", 72))
	if len(result.Notes) == 0 {
		fmt.Println("  No notes found.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	for _, n := range result.Notes {
		marker := " "
		if n.Favorite {
			marker = "*"
		}
		fmt.Printf("  %s %-50s %s\n", marker, truncate(n.Text, 50), n.UpdatedAt.Format("2006-01-02"))
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printHelp() {
	fmt.Println()
	fmt.Println("IPTV DESK — COMMANDS")
	fmt.Println(strings.Repeat("=", 62))
	fmt.Println()
	fmt.Println("  OVERVIEW")
	fmt.Println("  /dash                            Dashboard counters and totals")
	fmt.Println()
	fmt.Println("  CLIENTS")
	fmt.Println("  /clients                         List clients")
	fmt.Println("  /client <id>                     Client detail with plan statuses")
	fmt.Println("  /new-client                      Create client (interactive)")
	fmt.Println("  /activate <id>                   Activate → books income + consumes credits")
	fmt.Println("  /deactivate <id>                 Flip client to inactive")
	fmt.Println()
	fmt.Println("  PANELS")
	fmt.Println("  /servers                         List panels")
	fmt.Println("  /server <id>                     Panel detail with transaction log")
	fmt.Println("  /new-server                      Create panel (interactive)")
	fmt.Println("  /buy <id> <credits> <unit>       Purchase credits → expense entry")
	fmt.Println("  /recompute <id>                  Rebuild cached stock from the log")
	fmt.Println()
	fmt.Println("  LEDGER")
	fmt.Println("  /cashflow                        List all entries")
	fmt.Println("  /summary [from] [to]             Income/expense totals (RFC 3339 bounds)")
	fmt.Println("  /reconcile                       Heal missing derived entries")
	fmt.Println()
	fmt.Println("  OTHER")
	fmt.Println("  /trials                          Trials with expiry state")
	fmt.Println("  /notes                           List notes")
	fmt.Println("  /help                            Show this help")
	fmt.Println("  /exit                            Exit")
	fmt.Println(strings.Repeat("=", 62))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
