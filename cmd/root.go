package cmd

import (
	"github.com/spf13/cobra"
)

var (
	flagServer string
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "fintrack",
	Short: "Personal finance tracker with a multi-currency ledger",
	Long:  "A personal finance tracker: bank and crypto accounts, an income/expense/transfer/adjustment ledger with INR/USD conversion, recurring subscriptions, and spending reports.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "http://localhost:8099", "Server address")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default fintrack.yaml)")
}

func Execute() error {
	return rootCmd.Execute()
}

// ellipsize shortens s to at most n runes, marking the cut. Byte slicing
// would split multi-byte characters.
func ellipsize(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + ".."
}
