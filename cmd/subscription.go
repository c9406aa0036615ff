package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/thedev09/fintrack/internal/client"
	"github.com/thedev09/fintrack/internal/ledger"
	"github.com/thedev09/fintrack/internal/store"
)

var subCmd = &cobra.Command{
	Use:   "sub",
	Short: "Manage recurring subscriptions",
}

var (
	subAddName      string
	subAddAmount    string
	subAddCurrency  string
	subAddAccount   string
	subAddMode      string
	subAddCycle     string
	subAddFirstBill string
	subAddNoRenew   bool
)

var subAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a subscription",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(subAddAmount)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}

		sub := &ledger.Subscription{
			Name:         subAddName,
			Amount:       amount,
			Currency:     ledger.Currency(subAddCurrency),
			AccountID:    subAddAccount,
			PaymentMode:  subAddMode,
			BillingCycle: ledger.BillingCycle(subAddCycle),
			AutoRenew:    !subAddNoRenew,
		}
		if subAddFirstBill != "" {
			d, err := time.Parse("2006-01-02", subAddFirstBill)
			if err != nil {
				return fmt.Errorf("invalid first billing date: %w", err)
			}
			sub.NextBillingDate = d
		}

		c := client.New(flagServer)
		created, err := c.CreateSubscription(context.Background(), sub)
		if err != nil {
			return err
		}

		fmt.Printf("Subscription added: %s, %s %s %s\n",
			created.Name, created.Amount, created.Currency, created.BillingCycle)
		fmt.Printf("Next billing: %s\n", created.NextBillingDate.Local().Format("2006-01-02"))
		fmt.Printf("ID: %s\n", created.ID)
		return nil
	},
}

var subListActive bool

var subListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		subs, err := c.ListSubscriptions(context.Background(), subListActive)
		if err != nil {
			return err
		}

		if len(subs) == 0 {
			fmt.Println("No subscriptions found.")
			return nil
		}

		fmt.Printf("%-36s %-20s %10s %-4s %-10s %-12s %s\n",
			"ID", "NAME", "AMOUNT", "CCY", "CYCLE", "NEXT BILL", "STATUS")
		for _, s := range subs {
			status := "active"
			if !s.Active {
				status = "inactive"
			}
			name := ellipsize(s.Name, 18)
			fmt.Printf("%-36s %-20s %10s %-4s %-10s %-12s %s\n",
				s.ID, name, s.Amount, s.Currency, s.BillingCycle,
				s.NextBillingDate.Local().Format("2006-01-02"), status)
		}
		return nil
	},
}

var subProcessAsOf string

var subProcessCmd = &cobra.Command{
	Use:   "process",
	Short: "Post expenses for all due subscriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		res, err := c.ProcessSubscriptions(context.Background(), subProcessAsOf)
		if err != nil {
			return err
		}
		fmt.Printf("Posted %d subscription charge(s).\n", res.Posted)
		return nil
	},
}

var subCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Deactivate a subscription (keeps its history)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		inactive := false
		sub, err := c.UpdateSubscription(context.Background(), args[0], store.SubscriptionPatch{Active: &inactive})
		if err != nil {
			return err
		}
		fmt.Printf("Subscription %s cancelled.\n", sub.Name)
		return nil
	},
}

var subRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a subscription entirely",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)
		if err := c.DeleteSubscription(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Subscription removed.")
		return nil
	},
}

func init() {
	subAddCmd.Flags().StringVar(&subAddName, "name", "", "Subscription name")
	subAddCmd.Flags().StringVar(&subAddAmount, "amount", "", "Charge amount")
	subAddCmd.Flags().StringVar(&subAddCurrency, "currency", "INR", "Currency: INR or USD")
	subAddCmd.Flags().StringVar(&subAddAccount, "account", "", "Account to charge")
	subAddCmd.Flags().StringVar(&subAddMode, "mode", "", "Payment mode")
	subAddCmd.Flags().StringVar(&subAddCycle, "cycle", "monthly", "Billing cycle: monthly, quarterly or yearly")
	subAddCmd.Flags().StringVar(&subAddFirstBill, "first", "", "First billing date (YYYY-MM-DD, default today)")
	subAddCmd.Flags().BoolVar(&subAddNoRenew, "no-renew", false, "Deactivate after the next charge")
	subAddCmd.MarkFlagRequired("name")
	subAddCmd.MarkFlagRequired("amount")
	subAddCmd.MarkFlagRequired("account")

	subListCmd.Flags().BoolVar(&subListActive, "active", false, "Only active subscriptions")

	subProcessCmd.Flags().StringVar(&subProcessAsOf, "as-of", "", "Process charges due through this date (YYYY-MM-DD)")

	subCmd.AddCommand(subAddCmd, subListCmd, subProcessCmd, subCancelCmd, subRmCmd)
	rootCmd.AddCommand(subCmd)
}
