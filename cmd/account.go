package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/thedev09/fintrack/internal/client"
	"github.com/thedev09/fintrack/internal/ledger"
	"github.com/thedev09/fintrack/internal/store"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage accounts",
}

var (
	acctCreateName     string
	acctCreateType     string
	acctCreateSubtype  string
	acctCreateCurrency string
	acctCreateBalance  string
)

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		balance := decimal.Zero
		if acctCreateBalance != "" {
			var err error
			balance, err = decimal.NewFromString(acctCreateBalance)
			if err != nil {
				return fmt.Errorf("invalid balance: %w", err)
			}
		}

		acct := &ledger.Account{
			Name:     acctCreateName,
			Type:     ledger.AccountType(acctCreateType),
			Subtype:  acctCreateSubtype,
			Currency: ledger.Currency(acctCreateCurrency),
			Balance:  balance,
		}

		created, err := c.CreateAccount(context.Background(), acct)
		if err != nil {
			return err
		}

		fmt.Printf("Account created: %s (%s/%s) %s %s\n",
			created.Name, created.Type, created.Subtype, created.Balance, created.Currency)
		fmt.Printf("ID: %s\n", created.ID)
		return nil
	},
}

var acctListDeleted bool

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		accounts, err := c.ListAccounts(context.Background(), acctListDeleted)
		if err != nil {
			return err
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts found.")
			return nil
		}

		fmt.Printf("%-36s %-20s %-8s %-14s %12s %s\n", "ID", "NAME", "TYPE", "SUBTYPE", "BALANCE", "CCY")
		for _, a := range accounts {
			name := ellipsize(a.Name, 18)
			marker := ""
			if a.IsDeleted {
				marker = " (deleted)"
			}
			fmt.Printf("%-36s %-20s %-8s %-14s %12s %s%s\n",
				a.ID, name, a.Type, a.Subtype, a.Balance, a.Currency, marker)
		}
		return nil
	},
}

var accountShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		acct, err := c.GetAccount(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s/%s)\n", acct.Name, acct.Type, acct.Subtype)
		fmt.Printf("Balance:       %s %s\n", acct.Balance, acct.Currency)
		fmt.Printf("Last activity: %s\n", acct.LastActivityAt.Local().Format("2006-01-02 15:04"))
		if acct.IsDeleted {
			fmt.Println("Status:        deleted")
		}
		return nil
	},
}

var acctRenameName string

var accountRenameCmd = &cobra.Command{
	Use:   "rename <id>",
	Short: "Rename an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		acct, err := c.UpdateAccount(context.Background(), args[0], store.AccountPatch{Name: &acctRenameName})
		if err != nil {
			return err
		}
		fmt.Printf("Account renamed to %s\n", acct.Name)
		return nil
	},
}

var acctReorderPos int

var accountReorderCmd = &cobra.Command{
	Use:   "reorder <id>",
	Short: "Move an account within the display order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		acct, err := c.UpdateAccount(context.Background(), args[0], store.AccountPatch{DisplayOrder: &acctReorderPos})
		if err != nil {
			return err
		}
		fmt.Printf("%s moved to position %d\n", acct.Name, acct.DisplayOrder)
		return nil
	},
}

var acctDeleteCascade bool

var accountDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Soft-delete an account (keeps its transactions unless --cascade)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		if err := c.DeleteAccount(context.Background(), args[0], acctDeleteCascade); err != nil {
			return err
		}
		if acctDeleteCascade {
			fmt.Println("Account deleted; its transactions were removed.")
		} else {
			fmt.Println("Account deleted; its transactions were kept and marked.")
		}
		return nil
	},
}

func init() {
	accountCreateCmd.Flags().StringVar(&acctCreateName, "name", "", "Account name")
	accountCreateCmd.Flags().StringVar(&acctCreateType, "type", "bank", "Account type: bank or crypto")
	accountCreateCmd.Flags().StringVar(&acctCreateSubtype, "subtype", "", "Account subtype (e.g. Savings, Credit Card)")
	accountCreateCmd.Flags().StringVar(&acctCreateCurrency, "currency", "", "Currency: INR or USD (defaults by type)")
	accountCreateCmd.Flags().StringVar(&acctCreateBalance, "balance", "", "Opening balance")
	accountCreateCmd.MarkFlagRequired("name")

	accountListCmd.Flags().BoolVar(&acctListDeleted, "deleted", false, "Include soft-deleted accounts")

	accountRenameCmd.Flags().StringVar(&acctRenameName, "name", "", "New name")
	accountRenameCmd.MarkFlagRequired("name")

	accountReorderCmd.Flags().IntVar(&acctReorderPos, "position", 0, "New display position")
	accountReorderCmd.MarkFlagRequired("position")

	accountDeleteCmd.Flags().BoolVar(&acctDeleteCascade, "cascade", false, "Also delete the account's transactions")

	accountCmd.AddCommand(accountCreateCmd, accountListCmd, accountShowCmd, accountRenameCmd, accountReorderCmd, accountDeleteCmd)
	rootCmd.AddCommand(accountCmd)
}
