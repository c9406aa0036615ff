package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/thedev09/fintrack/internal/client"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record daily net-worth snapshots",
}

var snapshotSetCmd = &cobra.Command{
	Use:   "set <YYYY-MM-DD> <net-worth>",
	Short: "Record (or overwrite) the net worth for a day, in INR",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		netWorth, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid net worth: %w", err)
		}

		c := client.New(flagServer)
		if err := c.SetSnapshot(context.Background(), args[0], netWorth); err != nil {
			return err
		}
		fmt.Printf("Snapshot recorded: %s = %s INR\n", args[0], netWorth)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		snaps, err := c.ListSnapshots(context.Background(), reportStart, reportEnd)
		if err != nil {
			return err
		}

		if len(snaps) == 0 {
			fmt.Println("No snapshots recorded.")
			return nil
		}
		for _, s := range snaps {
			fmt.Printf("%s %14s INR\n", s.Day, s.NetWorth.StringFixed(2))
		}
		return nil
	},
}

func init() {
	snapshotListCmd.Flags().StringVar(&reportStart, "start", "", "Start date (YYYY-MM-DD)")
	snapshotListCmd.Flags().StringVar(&reportEnd, "end", "", "End date (YYYY-MM-DD)")

	snapshotCmd.AddCommand(snapshotSetCmd, snapshotListCmd)
	rootCmd.AddCommand(snapshotCmd)
}
