package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"iptv-desk/internal/app"
	"iptv-desk/internal/core"
)

// handleNewClient runs an interactive client creation session.
func handleNewClient(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	fmt.Println("Creating client. Leave a field blank to skip, 'cancel' anywhere to abort.")

	name := prompt(reader, "Name: ")
	if name == "" || strings.EqualFold(name, "cancel") {
		fmt.Println("Client creation cancelled.")
		return
	}

	client := core.Client{
		Name:     name,
		Nickname: prompt(reader, "Nickname: "),
		Phone:    prompt(reader, "Phone: "),
		Email:    prompt(reader, "Email: "),
	}

	fmt.Println("Enter plans. Type 'done' when finished.")
	fmt.Println("Format per line: <panel-id> <plan-name> <screens> <value>")
	for {
		raw := prompt(reader, "  Plan: ")
		if strings.EqualFold(raw, "cancel") {
			fmt.Println("Client creation cancelled.")
			return
		}
		if raw == "" || strings.EqualFold(raw, "done") {
			break
		}

		parts := strings.Fields(raw)
		if len(parts) < 4 {
			fmt.Println("  Invalid format. Use: <panel-id> <plan-name> <screens> <value>")
			continue
		}
		screens, err := strconv.Atoi(parts[2])
		if err != nil || screens < 1 {
			fmt.Println("  Invalid screen count.")
			continue
		}
		value, err := decimal.NewFromString(parts[3])
		if err != nil || value.IsNegative() {
			fmt.Println("  Invalid value.")
			continue
		}
		client.Plans = append(client.Plans, core.SelectedPlan{
			PanelID:       parts[0],
			PlanName:      parts[1],
			Screens:       screens,
			Value:         value,
			BillingPeriod: core.Monthly,
		})
	}

	result, err := svc.CreateClient(ctx, client)
	if err != nil {
		fmt.Printf("Error creating client: %v\n", err)
		return
	}
	fmt.Printf("\nClient created (ID: %s, status: %s)\n", result.View.Client.TempID, result.View.Client.Status)
	fmt.Println("Use '/activate <id>' to activate and book the subscription income.")
}

// handleNewServer runs an interactive panel creation session.
func handleNewServer(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	fmt.Println("Creating panel. 'cancel' anywhere to abort.")

	name := prompt(reader, "Name: ")
	if name == "" || strings.EqualFold(name, "cancel") {
		fmt.Println("Panel creation cancelled.")
		return
	}

	server := core.Server{
		Name:     name,
		URL:      prompt(reader, "URL: "),
		Username: prompt(reader, "Username: "),
	}

	payment := strings.ToLower(prompt(reader, "Payment type (prepaid/postpaid) [prepaid]: "))
	switch payment {
	case "", "prepaid":
		server.PaymentType = core.Prepaid
	case "postpaid":
		server.PaymentType = core.Postpaid
		monthly, err := decimal.NewFromString(prompt(reader, "Monthly value: "))
		if err != nil || monthly.IsNegative() {
			fmt.Println("Invalid monthly value. Panel not created.")
			return
		}
		server.MonthlyValue = monthly
		day, err := strconv.Atoi(prompt(reader, "Due day (1-28): "))
		if err != nil || day < 1 || day > 28 {
			fmt.Println("Invalid due day. Panel not created.")
			return
		}
		server.DueDay = day
	default:
		fmt.Println("Unknown payment type. Panel not created.")
		return
	}

	result, err := svc.CreateServer(ctx, server)
	if err != nil {
		fmt.Printf("Error creating panel: %v\n", err)
		return
	}
	fmt.Printf("\nPanel created (ID: %s)\n", result.Server.ID)
	if result.Server.PaymentType == core.Postpaid {
		fmt.Println("Postpaid: the monthly payment entry was booked in the ledger.")
	} else {
		fmt.Println("Use '/buy <id> <credits> <unit>' to stock up credits.")
	}
}

// handleActivate flips a client to active, printing the cash-flow fanout
// warnings verbatim.
func handleActivate(ctx context.Context, svc app.ApplicationService, id string) {
	result, err := svc.GetClient(ctx, id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	client := result.View.Client
	if client.Status == core.ClientActive {
		fmt.Println("Client is already active.")
		return
	}
	client.Status = core.ClientActive

	updated, err := svc.UpdateClient(ctx, client, false)
	if err != nil {
		fmt.Printf("Activation failed: %v\n", err)
		return
	}
	fmt.Printf("Client %s activated.\n", updated.View.Client.Name)
	for _, w := range updated.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}

func handleDeactivate(ctx context.Context, svc app.ApplicationService, id string) {
	result, err := svc.GetClient(ctx, id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	client := result.View.Client
	client.Status = core.ClientInactive

	if _, err := svc.UpdateClient(ctx, client, true); err != nil {
		fmt.Printf("Deactivation failed: %v\n", err)
		return
	}
	fmt.Printf("Client %s deactivated.\n", client.Name)
}

// handlePurchase records a credit purchase on a panel.
func handlePurchase(ctx context.Context, svc app.ApplicationService, serverID, creditsArg, unitArg string) {
	credits, err := decimal.NewFromString(creditsArg)
	if err != nil || credits.IsNegative() || credits.IsZero() {
		fmt.Printf("Invalid credit amount: %s\n", creditsArg)
		return
	}
	unit, err := decimal.NewFromString(unitArg)
	if err != nil || unit.IsNegative() {
		fmt.Printf("Invalid unit value: %s\n", unitArg)
		return
	}

	tx, err := svc.AddTransaction(ctx, serverID, core.Transaction{
		Type:       core.TxPurchase,
		Credits:    credits,
		UnitValue:  unit,
		TotalValue: credits.Mul(unit),
	})
	if err != nil {
		fmt.Printf("Purchase failed: %v\n", err)
		return
	}
	fmt.Printf("Purchased %s credits @ %s (total %s). Expense entry booked.\n",
		tx.Credits.StringFixed(2), tx.UnitValue.StringFixed(2), tx.TotalValue.StringFixed(2))
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	raw, _ := reader.ReadString('\n')
	return strings.TrimSpace(raw)
}
