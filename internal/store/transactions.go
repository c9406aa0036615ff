package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/ledger"
)

// Apply validates the intent against live account state, persists the
// transaction record, and applies its balance effects — one SQL transaction,
// so partial application is impossible.
func (s *Store) Apply(ctx context.Context, in ledger.Intent, usdToINR decimal.Decimal) (*ledger.Transaction, error) {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	txn, err := applyIntentTx(ctx, tx, in, usdToINR, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return txn, nil
}

// applyIntentTx runs the engine inside an open write transaction. Shared by
// Apply and the subscription processor so posted charges take the exact same
// path as hand-entered expenses.
func applyIntentTx(ctx context.Context, tx *sql.Tx, in ledger.Intent, usdToINR decimal.Decimal, now time.Time) (*ledger.Transaction, error) {
	src, err := getAccount(ctx, tx, in.AccountID)
	if err != nil && !errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, err
	}

	var dst *ledger.Account
	if in.Type == ledger.TxTransfer && in.ToAccountID != "" && in.ToAccountID != in.AccountID {
		dst, err = getAccount(ctx, tx, in.ToAccountID)
		if err != nil && !errors.Is(err, ledger.ErrAccountNotFound) {
			return nil, err
		}
	}

	txn, changes, err := ledger.Apply(in, src, dst, usdToINR, now)
	if err != nil {
		return nil, err
	}
	txn.ID = uuid.Must(uuid.NewV7()).String()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, type, amount, currency, exchange_rate, account_id, to_account_id,
			converted_amount, to_currency, category, payment_mode, notes, is_increase,
			previous_balance, new_balance, date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, string(txn.Type), txn.Amount.String(), string(txn.Currency), txn.ExchangeRate.String(),
		txn.AccountID, nullString(txn.ToAccountID), decimalPtrArg(txn.ConvertedAmount),
		nullString(string(txn.ToCurrency)), txn.Category, txn.PaymentMode, txn.Notes,
		boolToInt(txn.IsIncrease), decimalPtrArg(txn.PreviousBalance), decimalPtrArg(txn.NewBalance),
		formatTime(txn.Date), formatTime(txn.CreatedAt), formatTime(txn.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	balances := map[string]decimal.Decimal{src.ID: src.Balance}
	if dst != nil {
		balances[dst.ID] = dst.Balance
	}
	for _, c := range changes {
		newBal := c.ApplyTo(balances[c.AccountID])
		balances[c.AccountID] = newBal
		if err := setBalance(ctx, tx, c.AccountID, newBal, now); err != nil {
			return nil, err
		}
	}

	return txn, nil
}

// Reverse undoes a transaction's balance effects and deletes its record in
// one batch. Effects on a since-soft-deleted account are skipped
// best-effort; the delete still proceeds.
func (s *Store) Reverse(ctx context.Context, id string) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	txn, err := getTransaction(ctx, tx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, c := range ledger.Reverse(txn) {
		acct, err := getAccount(ctx, tx, c.AccountID)
		if errors.Is(err, ledger.ErrAccountNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if acct.IsDeleted {
			continue
		}
		if err := setBalance(ctx, tx, c.AccountID, c.ApplyTo(acct.Balance), now); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	return tx.Commit()
}

// EditTransaction mutates the classification fields only. Amount, type,
// accounts and date stay immutable, so no balance ever moves here.
func (s *Store) EditTransaction(ctx context.Context, id string, patch ledger.EditPatch) (*ledger.Transaction, error) {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	txn, err := getTransaction(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if patch.Category != nil {
		if *patch.Category == "" && (txn.Type == ledger.TxIncome || txn.Type == ledger.TxExpense) {
			return nil, ledger.ErrCategoryRequired
		}
		txn.Category = *patch.Category
	}
	if patch.PaymentMode != nil {
		txn.PaymentMode = *patch.PaymentMode
	}
	if patch.Notes != nil {
		txn.Notes = *patch.Notes
	}

	txn.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE transactions SET category = ?, payment_mode = ?, notes = ?, updated_at = ? WHERE id = ?`,
		txn.Category, txn.PaymentMode, txn.Notes, formatTime(txn.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return txn, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	return getTransaction(ctx, s.reader, id)
}

func (s *Store) ListTransactions(ctx context.Context, filter TxnFilter) ([]ledger.Transaction, error) {
	query := `SELECT ` + txnCols + ` FROM transactions WHERE 1=1`
	args := []any{}

	if filter.AccountID != "" {
		query += ` AND (account_id = ? OR to_account_id = ?)`
		args = append(args, filter.AccountID, filter.AccountID)
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	if len(filter.Categories) > 0 {
		query += ` AND category IN (?` + strings.Repeat(", ?", len(filter.Categories)-1) + `)`
		for _, c := range filter.Categories {
			args = append(args, c)
		}
	}
	if !filter.Start.IsZero() {
		query += ` AND date >= ?`
		args = append(args, formatTime(filter.Start))
	}
	if !filter.End.IsZero() {
		query += ` AND date < ?`
		args = append(args, formatTime(filter.End))
	}

	query += ` ORDER BY date DESC, created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
		}
	}

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []ledger.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	return txns, rows.Err()
}

const txnCols = `id, type, amount, currency, exchange_rate, account_id, to_account_id,
	converted_amount, to_currency, category, payment_mode, notes, is_increase,
	previous_balance, new_balance, date, account_deleted, account_deleted_at, created_at, updated_at`

func getTransaction(ctx context.Context, q querier, id string) (*ledger.Transaction, error) {
	row := q.QueryRowContext(ctx, `SELECT `+txnCols+` FROM transactions WHERE id = ?`, id)
	txn, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return txn, nil
}

func scanTransaction(scan func(...any) error) (*ledger.Transaction, error) {
	var txn ledger.Transaction
	var txType, amount, currency, exchangeRate, date, createdAt, updatedAt string
	var toAccountID, convertedAmount, toCurrency, prevBalance, newBalance, accountDeletedAt sql.NullString
	var isIncrease, accountDeleted int

	err := scan(&txn.ID, &txType, &amount, &currency, &exchangeRate, &txn.AccountID,
		&toAccountID, &convertedAmount, &toCurrency, &txn.Category, &txn.PaymentMode,
		&txn.Notes, &isIncrease, &prevBalance, &newBalance, &date,
		&accountDeleted, &accountDeletedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	txn.Type = ledger.TxType(txType)
	txn.Amount = parseDecimal(amount)
	txn.Currency = ledger.Currency(currency)
	txn.ExchangeRate = parseDecimal(exchangeRate)
	txn.ToAccountID = toAccountID.String
	txn.ConvertedAmount = parseDecimalPtr(convertedAmount)
	txn.ToCurrency = ledger.Currency(toCurrency.String)
	txn.IsIncrease = isIncrease == 1
	txn.PreviousBalance = parseDecimalPtr(prevBalance)
	txn.NewBalance = parseDecimalPtr(newBalance)
	txn.Date = parseTime(date)
	txn.AccountDeleted = accountDeleted == 1
	txn.AccountDeletedAt = parseTimePtr(accountDeletedAt)
	txn.CreatedAt = parseTime(createdAt)
	txn.UpdatedAt = parseTime(updatedAt)
	return &txn, nil
}

// setBalance writes a new balance and refreshes the activity timestamps.
// The operation's wall-clock time is used, independent of the transaction's
// user-chosen date.
func setBalance(ctx context.Context, tx *sql.Tx, accountID string, balance decimal.Decimal, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = ?, updated_at = ?, last_activity_at = ? WHERE id = ?`,
		balance.String(), formatTime(now), formatTime(now), accountID,
	)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
