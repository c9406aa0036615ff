package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thedev09/fintrack/internal/client"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the account subtypes, categories and payment modes on offer",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		cat, err := c.Catalog(context.Background())
		if err != nil {
			return err
		}

		fmt.Println("Account subtypes:")
		for _, t := range cat.AccountTypes {
			fmt.Printf("  %-8s %s\n", t, strings.Join(cat.Subtypes[string(t)], ", "))
		}

		fmt.Println("Categories:")
		for _, t := range cat.TxTypes {
			fmt.Printf("  %-12s %s\n", t, strings.Join(cat.Categories[string(t)], ", "))
		}

		fmt.Printf("Payment modes: %s\n", strings.Join(cat.PaymentModes, ", "))
		fmt.Printf("Billing cycles: %s\n", joinAny(cat.BillingCycles))
		return nil
	},
}

func joinAny[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
