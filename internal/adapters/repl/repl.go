package repl

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"iptv-desk/internal/app"
)

// Run starts the interactive REPL loop.
// It reads slash commands from reader and dispatches them deterministically.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("IPTV Desk")
	fmt.Println("Manage clients, panels, credits and cash flow. Type /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "dash", "dashboard":
			result, err := svc.Dashboard(ctx)
			if err != nil {
				return err
			}
			printDashboard(result)

		case "clients":
			result, err := svc.ListClients(ctx)
			if err != nil {
				return err
			}
			printClients(result)

		case "client":
			if len(args) < 1 {
				fmt.Println("Usage: /client <id>")
				return nil
			}
			result, err := svc.GetClient(ctx, args[0])
			if err != nil {
				return err
			}
			printClientDetail(&result.View)

		case "new-client":
			handleNewClient(ctx, reader, svc)

		case "activate":
			if len(args) < 1 {
				fmt.Println("Usage: /activate <client-id>")
				return nil
			}
			handleActivate(ctx, svc, args[0])

		case "deactivate":
			if len(args) < 1 {
				fmt.Println("Usage: /deactivate <client-id>")
				return nil
			}
			handleDeactivate(ctx, svc, args[0])

		case "servers", "panels":
			result, err := svc.ListServers(ctx)
			if err != nil {
				return err
			}
			printServers(result)

		case "server", "panel":
			if len(args) < 1 {
				fmt.Println("Usage: /server <id>")
				return nil
			}
			result, err := svc.GetServer(ctx, args[0])
			if err != nil {
				return err
			}
			printServerDetail(&result.Server)

		case "new-server", "new-panel":
			handleNewServer(ctx, reader, svc)

		case "buy":
			// Usage: /buy <server-id> <credits> <unit-value>
			if len(args) < 3 {
				fmt.Println("Usage: /buy <server-id> <credits> <unit-value>")
				fmt.Println("  Records a credit purchase and its expense entry.")
				return nil
			}
			handlePurchase(ctx, svc, args[0], args[1], args[2])

		case "recompute":
			if len(args) < 1 {
				fmt.Println("Usage: /recompute <server-id>")
				return nil
			}
			result, err := svc.RecomputeStock(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Stock for %s rebuilt from the transaction log: %s credits\n",
				result.ServerID, result.CreditStock.StringFixed(2))

		case "cashflow", "cf":
			result, err := svc.ListCashFlow(ctx)
			if err != nil {
				return err
			}
			printCashFlow(result)

		case "summary", "sum":
			from, to, err := parsePeriodArgs(args)
			if err != nil {
				fmt.Printf("Invalid period: %v\n", err)
				return nil
			}
			totals, err := svc.CashFlowSummary(ctx, from, to)
			if err != nil {
				return err
			}
			printTotals(totals)

		case "trials", "tests":
			result, err := svc.ListTrials(ctx)
			if err != nil {
				return err
			}
			printTrials(result)

		case "notes":
			result, err := svc.ListNotes(ctx)
			if err != nil {
				return err
			}
			printNotes(result)

		case "reconcile":
			n, err := svc.Reconcile(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Ledger reconciled: %d entries synthesized.\n", n)

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !strings.HasPrefix(input, "/") {
			fmt.Println("Commands start with /  (type /help)")
			continue
		}

		if err := dispatchSlash(input); err != nil {
			if err == errExit {
				fmt.Println("Goodbye!")
				break
			}
			fmt.Printf("Error: %v\n", err)
		}
	}
}

// parsePeriodArgs reads optional [from] [to] RFC 3339 arguments.
func parsePeriodArgs(args []string) (from, to *time.Time, err error) {
	if len(args) >= 1 {
		t, perr := time.Parse(time.RFC3339, args[0])
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if len(args) >= 2 {
		t, perr := time.Parse(time.RFC3339, args[1])
		if perr != nil {
			return nil, nil, perr
		}
		to = &t
	}
	return from, to, nil
}
