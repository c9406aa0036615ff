package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/thedev09/fintrack/internal/client"
	"github.com/thedev09/fintrack/internal/ledger"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Record and manage transactions",
}

var (
	txAccount     string
	txToAccount   string
	txAmount      string
	txNewBalance  string
	txCategory    string
	txPaymentMode string
	txNotes       string
	txDate        string
)

func buildIntent(txType ledger.TxType) (ledger.Intent, error) {
	in := ledger.Intent{
		Type:        txType,
		AccountID:   txAccount,
		ToAccountID: txToAccount,
		Category:    txCategory,
		PaymentMode: txPaymentMode,
		Notes:       txNotes,
	}

	if txAmount != "" {
		amount, err := decimal.NewFromString(txAmount)
		if err != nil {
			return in, fmt.Errorf("invalid amount: %w", err)
		}
		in.Amount = amount
	}
	if txNewBalance != "" {
		nb, err := decimal.NewFromString(txNewBalance)
		if err != nil {
			return in, fmt.Errorf("invalid balance: %w", err)
		}
		in.NewBalance = &nb
	}
	if txDate != "" {
		d, err := time.Parse("2006-01-02", txDate)
		if err != nil {
			return in, fmt.Errorf("invalid date (want YYYY-MM-DD): %w", err)
		}
		in.Date = d
	}
	return in, nil
}

func runApply(txType ledger.TxType) error {
	in, err := buildIntent(txType)
	if err != nil {
		return err
	}

	c := client.New(flagServer)
	txn, err := c.Apply(context.Background(), in)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %s of %s %s", txn.Type, txn.Amount, txn.Currency)
	if txn.Type == ledger.TxTransfer && txn.ConvertedAmount != nil {
		fmt.Printf(" (credited %s %s)", txn.ConvertedAmount, txn.ToCurrency)
	}
	fmt.Printf("\nID: %s\n", txn.ID)
	return nil
}

var txIncomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Record income",
	RunE:  func(cmd *cobra.Command, args []string) error { return runApply(ledger.TxIncome) },
}

var txExpenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Record an expense",
	RunE:  func(cmd *cobra.Command, args []string) error { return runApply(ledger.TxExpense) },
}

var txTransferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer between accounts (converts across currencies)",
	RunE:  func(cmd *cobra.Command, args []string) error { return runApply(ledger.TxTransfer) },
}

var txAdjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Reconcile an account to an exact balance",
	RunE:  func(cmd *cobra.Command, args []string) error { return runApply(ledger.TxAdjustment) },
}

var (
	txListType  string
	txListStart string
	txListEnd   string
	txListPage  int
)

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		txns, err := c.ListTransactions(context.Background(), client.TxnQuery{
			AccountID: txAccount,
			Type:      ledger.TxType(txListType),
			Start:     txListStart,
			End:       txListEnd,
			Page:      txListPage,
		})
		if err != nil {
			return err
		}

		if len(txns) == 0 {
			fmt.Println("No transactions found.")
			return nil
		}

		fmt.Printf("%-36s %-10s %12s %-4s %-20s %s\n", "ID", "TYPE", "AMOUNT", "CCY", "CATEGORY", "DATE")
		for _, t := range txns {
			cat := ellipsize(t.Category, 18)
			fmt.Printf("%-36s %-10s %12s %-4s %-20s %s\n",
				t.ID, t.Type, t.Amount, t.Currency, cat, t.Date.Local().Format("2006-01-02"))
		}
		return nil
	},
}

var (
	txEditCategory    string
	txEditPaymentMode string
	txEditNotes       string
)

var txEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a transaction's category, payment mode or notes",
	Long:  "Edit the classification fields of a transaction. Amount, type, accounts and date cannot change; delete and re-record instead.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := ledger.EditPatch{}
		if cmd.Flags().Changed("category") {
			patch.Category = &txEditCategory
		}
		if cmd.Flags().Changed("mode") {
			patch.PaymentMode = &txEditPaymentMode
		}
		if cmd.Flags().Changed("notes") {
			patch.Notes = &txEditNotes
		}
		if patch.Empty() {
			return fmt.Errorf("nothing to edit: pass --category, --mode or --notes")
		}

		c := client.New(flagServer)
		txn, err := c.EditTransaction(context.Background(), args[0], patch)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s: category=%s mode=%s\n", txn.ID, txn.Category, txn.PaymentMode)
		return nil
	},
}

var txRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a transaction and undo its balance effects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)
		if err := c.ReverseTransaction(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Transaction deleted; balances restored.")
		return nil
	},
}

func init() {
	for _, sub := range []*cobra.Command{txIncomeCmd, txExpenseCmd, txTransferCmd, txAdjustCmd} {
		sub.Flags().StringVar(&txAccount, "account", "", "Account ID")
		sub.Flags().StringVar(&txCategory, "category", "", "Category")
		sub.Flags().StringVar(&txPaymentMode, "mode", "", "Payment mode")
		sub.Flags().StringVar(&txNotes, "notes", "", "Notes")
		sub.Flags().StringVar(&txDate, "date", "", "Transaction date (YYYY-MM-DD, default today)")
		sub.MarkFlagRequired("account")
	}
	txIncomeCmd.Flags().StringVar(&txAmount, "amount", "", "Amount in the account's currency")
	txExpenseCmd.Flags().StringVar(&txAmount, "amount", "", "Amount in the account's currency")
	txTransferCmd.Flags().StringVar(&txAmount, "amount", "", "Amount in the source account's currency")
	txTransferCmd.Flags().StringVar(&txToAccount, "to", "", "Destination account ID")
	txTransferCmd.MarkFlagRequired("to")
	txAdjustCmd.Flags().StringVar(&txNewBalance, "balance", "", "The exact balance to reconcile to")
	txAdjustCmd.MarkFlagRequired("balance")

	txListCmd.Flags().StringVar(&txAccount, "account", "", "Filter by account ID")
	txListCmd.Flags().StringVar(&txListType, "type", "", "Filter by type")
	txListCmd.Flags().StringVar(&txListStart, "start", "", "Start date (YYYY-MM-DD)")
	txListCmd.Flags().StringVar(&txListEnd, "end", "", "End date (YYYY-MM-DD)")
	txListCmd.Flags().IntVar(&txListPage, "page", 1, "Page number")

	txEditCmd.Flags().StringVar(&txEditCategory, "category", "", "New category")
	txEditCmd.Flags().StringVar(&txEditPaymentMode, "mode", "", "New payment mode")
	txEditCmd.Flags().StringVar(&txEditNotes, "notes", "", "New notes")

	txCmd.AddCommand(txIncomeCmd, txExpenseCmd, txTransferCmd, txAdjustCmd, txListCmd, txEditCmd, txRmCmd)
	rootCmd.AddCommand(txCmd)
}
