package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thedev09/fintrack/internal/client"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Spending and net-worth reports",
}

var (
	reportStart string
	reportEnd   string
	reportTop   int
)

var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Income, expense and net savings for a period (INR)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		s, err := c.Summary(context.Background(), reportStart, reportEnd)
		if err != nil {
			return err
		}

		fmt.Printf("Income:      %12s INR\n", s.TotalIncome.StringFixed(2))
		fmt.Printf("Expenses:    %12s INR\n", s.TotalExpense.StringFixed(2))
		fmt.Printf("Net savings: %12s INR\n", s.NetSavings.StringFixed(2))
		fmt.Printf("(%d transactions)\n", s.Count)
		return nil
	},
}

var reportCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Expense breakdown by category (INR)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		cats, err := c.Categories(context.Background(), reportStart, reportEnd, reportTop)
		if err != nil {
			return err
		}

		if len(cats) == 0 {
			fmt.Println("No expenses in this period.")
			return nil
		}

		for _, ct := range cats {
			fmt.Printf("%-24s %12s INR (%d)\n", ct.Category, ct.Total.StringFixed(2), ct.Count)
		}
		return nil
	},
}

var reportNetWorthCmd = &cobra.Command{
	Use:   "networth",
	Short: "Daily net-worth series from recorded snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		points, err := c.NetWorth(context.Background(), reportStart, reportEnd)
		if err != nil {
			return err
		}

		if len(points) == 0 {
			fmt.Println("No snapshots recorded for this period.")
			return nil
		}

		for _, p := range points {
			fmt.Printf("%s %14s INR\n", p.Day, p.NetWorth.StringFixed(2))
		}
		return nil
	},
}

func init() {
	reportCmd.PersistentFlags().StringVar(&reportStart, "start", "", "Start date (YYYY-MM-DD)")
	reportCmd.PersistentFlags().StringVar(&reportEnd, "end", "", "End date (YYYY-MM-DD)")
	reportCategoriesCmd.Flags().IntVar(&reportTop, "top", 8, "Number of categories before the Other bucket")

	reportCmd.AddCommand(reportSummaryCmd, reportCategoriesCmd, reportNetWorthCmd)
	rootCmd.AddCommand(reportCmd)
}
