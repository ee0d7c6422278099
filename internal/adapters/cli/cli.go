package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"iptv-desk/internal/app"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "export", "exp", "e":
		snapshot, err := svc.Export(ctx)
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(snapshot)

	case "import", "imp", "i":
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read stdin: %v", err)
		}
		if err := svc.Import(ctx, raw); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Println("Snapshot imported.")

	case "schema":
		schema, err := svc.SnapshotSchema(ctx)
		if err != nil {
			log.Fatalf("Schema generation failed: %v", err)
		}
		os.Stdout.Write(schema)
		fmt.Println()

	case "reconcile", "rec":
		n, err := svc.Reconcile(ctx)
		if err != nil {
			log.Fatalf("Reconcile failed: %v", err)
		}
		fmt.Printf("Reconciled ledger: %d entries synthesized.\n", n)

	case "recompute":
		if len(args) < 2 {
			log.Fatal("Usage: app recompute <server-id>")
		}
		result, err := svc.RecomputeStock(ctx, args[1])
		if err != nil {
			log.Fatalf("Recompute failed: %v", err)
		}
		fmt.Printf("Stock for %s: %s credits\n", result.ServerID, result.CreditStock.StringFixed(2))

	case "summary", "sum", "s":
		from, to, err := parsePeriod(args[1:])
		if err != nil {
			log.Fatalf("Invalid period: %v", err)
		}
		totals, err := svc.CashFlowSummary(ctx, from, to)
		if err != nil {
			log.Fatalf("Failed to get summary: %v", err)
		}
		printSummary(totals.Income.StringFixed(2), totals.Expense.StringFixed(2), totals.Balance.StringFixed(2), totals.Entries)

	case "trials", "tri", "t":
		result, err := svc.ListTrials(ctx)
		if err != nil {
			log.Fatalf("Failed to list trials: %v", err)
		}
		printTrials(result)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: export, import, schema, reconcile, recompute, summary, trials", args[0])
	}
}

// parsePeriod reads optional [from] [to] RFC 3339 arguments.
func parsePeriod(args []string) (from, to *time.Time, err error) {
	if len(args) >= 1 && args[0] != "" {
		t, perr := time.Parse(time.RFC3339, args[0])
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if len(args) >= 2 && args[1] != "" {
		t, perr := time.Parse(time.RFC3339, args[1])
		if perr != nil {
			return nil, nil, perr
		}
		to = &t
	}
	return from, to, nil
}

func printSummary(income, expense, balance string, entries int) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 46))
	fmt.Printf("  %-42s\n", "CASH FLOW SUMMARY")
	fmt.Println(strings.Repeat("=", 46))
	fmt.Printf("  %-20s %21s\n", "Income", income)
	fmt.Printf("  %-20s %21s\n", "Expense", expense)
	fmt.Println(strings.Repeat("-", 46))
	fmt.Printf("  %-20s %21s\n", "Balance", balance)
	fmt.Printf("  %-20s %21d\n", "Entries", entries)
	fmt.Println(strings.Repeat("=", 46))
}

func printTrials(result *app.TrialListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-68s\n", "TRIALS")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-24s %-22s %-12s %s\n", "CLIENT", "EXPIRES", "STATE", "CREATED")
	fmt.Println(strings.Repeat("-", 72))
	for _, t := range result.Trials {
		state := "running"
		if t.Interrupted {
			state = "interrupted"
		} else if t.Expired {
			state = "expired"
		}
		fmt.Printf("  %-24s %-22s %-12s %s\n",
			t.ClientName,
			t.ExpiresAt.Format("2006-01-02 15:04"),
			state,
			t.Test.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println(strings.Repeat("=", 72))
}
