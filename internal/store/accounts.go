package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thedev09/fintrack/internal/ledger"
)

func (s *Store) CreateAccount(ctx context.Context, acct *ledger.Account) error {
	if err := acct.Validate(); err != nil {
		return err
	}
	if acct.ID == "" {
		acct.ID = uuid.Must(uuid.NewV7()).String()
	}

	now := time.Now().UTC()
	acct.CreatedAt = now
	acct.UpdatedAt = now
	acct.LastActivityAt = now

	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO accounts (id, name, type, subtype, currency, balance, display_order, created_at, updated_at, last_activity_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		acct.ID, acct.Name, string(acct.Type), acct.Subtype, string(acct.Currency),
		acct.Balance.String(), acct.DisplayOrder, formatTime(now), formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	return getAccount(ctx, s.reader, id)
}

const accountCols = `id, name, type, subtype, currency, balance, is_deleted, deleted_at, display_order, created_at, updated_at, last_activity_at`

func getAccount(ctx context.Context, q querier, id string) (*ledger.Account, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE id = ?`, id)
	acct, err := scanAccount(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return acct, nil
}

func (s *Store) ListAccounts(ctx context.Context, filter AccountFilter) ([]ledger.Account, error) {
	query := `SELECT ` + accountCols + ` FROM accounts WHERE 1=1`
	args := []any{}

	if !filter.IncludeDeleted {
		query += ` AND is_deleted = 0`
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.Currency != "" {
		query += ` AND currency = ?`
		args = append(args, string(filter.Currency))
	}

	query += ` ORDER BY display_order, created_at`

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		acct, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, *acct)
	}
	return accounts, rows.Err()
}

// AccountPatch carries the user-editable account fields. Nil means leave
// unchanged. Balance is deliberately absent: it only moves through ledger
// operations.
type AccountPatch struct {
	Name         *string `json:"name,omitempty"`
	Subtype      *string `json:"subtype,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

func (s *Store) UpdateAccount(ctx context.Context, id string, patch AccountPatch) (*ledger.Account, error) {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	acct, err := getAccount(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if acct.IsDeleted {
		return nil, ledger.ErrAccountDeleted
	}

	if patch.Name != nil {
		acct.Name = *patch.Name
	}
	if patch.Subtype != nil {
		acct.Subtype = *patch.Subtype
	}
	if patch.DisplayOrder != nil {
		acct.DisplayOrder = *patch.DisplayOrder
	}
	if err := acct.Validate(); err != nil {
		return nil, err
	}

	acct.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE accounts SET name = ?, subtype = ?, display_order = ?, updated_at = ? WHERE id = ?`,
		acct.Name, acct.Subtype, acct.DisplayOrder, formatTime(acct.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return acct, nil
}

// DeleteAccount soft-deletes the account and disposes of its transactions
// according to policy, as one atomic batch. Cascade removes source-keyed
// transactions without reversing balances; orphan stamps them instead.
// Transfers where the account is only the destination are untouched either
// way.
func (s *Store) DeleteAccount(ctx context.Context, id string, policy ledger.DeletePolicy) error {
	if !ledger.ValidDeletePolicy(policy) {
		return fmt.Errorf("invalid delete policy %q", policy)
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	acct, err := getAccount(ctx, tx, id)
	if err != nil {
		return err
	}
	if acct.IsDeleted {
		return ledger.ErrAccountDeleted
	}

	now := time.Now().UTC()

	switch policy {
	case ledger.DeleteCascade:
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE account_id = ?`, id); err != nil {
			return fmt.Errorf("cascade delete transactions: %w", err)
		}
	case ledger.DeleteOrphan:
		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions SET account_deleted = 1, account_deleted_at = ?, updated_at = ?
			 WHERE account_id = ? AND account_deleted = 0`,
			formatTime(now), formatTime(now), id); err != nil {
			return fmt.Errorf("orphan-mark transactions: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET is_deleted = 1, deleted_at = ?, updated_at = ? WHERE id = ?`,
		formatTime(now), formatTime(now), id); err != nil {
		return fmt.Errorf("soft-delete account: %w", err)
	}

	return tx.Commit()
}

func scanAccount(scan func(...any) error) (*ledger.Account, error) {
	var acct ledger.Account
	var acctType, currency, balance, createdAt, updatedAt, lastActivityAt string
	var isDeleted int
	var deletedAt sql.NullString

	err := scan(&acct.ID, &acct.Name, &acctType, &acct.Subtype, &currency, &balance,
		&isDeleted, &deletedAt, &acct.DisplayOrder, &createdAt, &updatedAt, &lastActivityAt)
	if err != nil {
		return nil, err
	}

	acct.Type = ledger.AccountType(acctType)
	acct.Currency = ledger.Currency(currency)
	acct.Balance = parseDecimal(balance)
	acct.IsDeleted = isDeleted == 1
	acct.DeletedAt = parseTimePtr(deletedAt)
	acct.CreatedAt = parseTime(createdAt)
	acct.UpdatedAt = parseTime(updatedAt)
	acct.LastActivityAt = parseTime(lastActivityAt)
	return &acct, nil
}
