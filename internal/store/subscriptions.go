package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/ledger"
)

func (s *Store) CreateSubscription(ctx context.Context, sub *ledger.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	// The referenced account must exist and be live.
	acct, err := s.GetAccount(ctx, sub.AccountID)
	if err != nil {
		return err
	}
	if acct.IsDeleted {
		return ledger.ErrAccountDeleted
	}

	if sub.ID == "" {
		sub.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	if sub.NextBillingDate.IsZero() {
		sub.NextBillingDate = now
	}

	_, err = s.writer.ExecContext(ctx,
		`INSERT INTO subscriptions (id, name, amount, currency, account_id, payment_mode, billing_cycle,
			next_billing_date, last_processed_date, auto_renew, notify, active, total_spent, transaction_count,
			created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Amount.String(), string(sub.Currency), sub.AccountID, sub.PaymentMode,
		string(sub.BillingCycle), formatTime(sub.NextBillingDate), formatTimePtr(sub.LastProcessedDate),
		boolToInt(sub.AutoRenew), boolToInt(sub.Notify), boolToInt(sub.Active),
		sub.TotalSpent.String(), sub.TransactionCount, formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (s *Store) GetSubscription(ctx context.Context, id string) (*ledger.Subscription, error) {
	return getSubscription(ctx, s.reader, id)
}

func (s *Store) ListSubscriptions(ctx context.Context, filter SubscriptionFilter) ([]ledger.Subscription, error) {
	query := `SELECT ` + subCols + ` FROM subscriptions WHERE 1=1`
	args := []any{}

	if filter.AccountID != "" {
		query += ` AND account_id = ?`
		args = append(args, filter.AccountID)
	}
	if filter.ActiveOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY next_billing_date`

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []ledger.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan subscription row: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// SubscriptionPatch carries the user-editable subscription fields.
type SubscriptionPatch struct {
	Name        *string          `json:"name,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	PaymentMode *string          `json:"payment_mode,omitempty"`
	AutoRenew   *bool            `json:"auto_renew,omitempty"`
	Notify      *bool            `json:"notify,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

func (s *Store) UpdateSubscription(ctx context.Context, id string, patch SubscriptionPatch) (*ledger.Subscription, error) {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sub, err := getSubscription(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		sub.Name = *patch.Name
	}
	if patch.Amount != nil {
		sub.Amount = *patch.Amount
	}
	if patch.PaymentMode != nil {
		sub.PaymentMode = *patch.PaymentMode
	}
	if patch.AutoRenew != nil {
		sub.AutoRenew = *patch.AutoRenew
	}
	if patch.Notify != nil {
		sub.Notify = *patch.Notify
	}
	if patch.Active != nil {
		sub.Active = *patch.Active
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	sub.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE subscriptions SET name = ?, amount = ?, payment_mode = ?, auto_renew = ?, notify = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		sub.Name, sub.Amount.String(), sub.PaymentMode, boolToInt(sub.AutoRenew),
		boolToInt(sub.Notify), boolToInt(sub.Active), formatTime(sub.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return sub, nil
}

func (s *Store) DeleteSubscription(ctx context.Context, id string) error {
	res, err := s.writer.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ledger.ErrSubscriptionNotFound
	}
	return nil
}

// ProcessDue posts an expense for every active subscription whose billing
// date has arrived, advancing each by whole cycles until it is in the
// future. Each subscription is handled in its own SQL transaction, so one
// failing account (for example, deleted since the subscription was created)
// does not block the rest. Returns the number of charges posted.
//
// The LastProcessedDate guard makes the sweep idempotent per billing date:
// re-running it, from this session or a concurrent one, posts nothing new.
func (s *Store) ProcessDue(ctx context.Context, asOf time.Time, usdToINR decimal.Decimal) (int, error) {
	due, err := s.ListSubscriptions(ctx, SubscriptionFilter{ActiveOnly: true})
	if err != nil {
		return 0, err
	}

	posted := 0
	var firstErr error
	for i := range due {
		if !due[i].Due(asOf) {
			continue
		}
		n, err := s.processSubscription(ctx, due[i].ID, asOf, usdToINR)
		posted += n
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("subscription %s: %w", due[i].ID, err)
		}
	}
	return posted, firstErr
}

func (s *Store) processSubscription(ctx context.Context, id string, asOf time.Time, usdToINR decimal.Decimal) (int, error) {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Re-read inside the write transaction: another session may have
	// processed this subscription since the listing.
	sub, err := getSubscription(ctx, tx, id)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	posted := 0
	for sub.Due(asOf) {
		if !sub.Processed() {
			in := ledger.Intent{
				Type:        ledger.TxExpense,
				AccountID:   sub.AccountID,
				Amount:      sub.Amount,
				Category:    ledger.CategorySubscriptions,
				PaymentMode: sub.PaymentMode,
				Notes:       sub.Name,
				Date:        sub.NextBillingDate,
			}
			if _, err := applyIntentTx(ctx, tx, in, usdToINR, now); err != nil {
				return 0, err
			}
			lp := sub.NextBillingDate
			sub.LastProcessedDate = &lp
			sub.TotalSpent = sub.TotalSpent.Add(sub.Amount)
			sub.TransactionCount++
			posted++
		}
		sub.NextBillingDate = sub.Advance(sub.NextBillingDate)
		if !sub.AutoRenew {
			sub.Active = false
			break
		}
	}

	sub.UpdatedAt = now
	_, err = tx.ExecContext(ctx,
		`UPDATE subscriptions SET next_billing_date = ?, last_processed_date = ?, active = ?,
			total_spent = ?, transaction_count = ?, updated_at = ?
		 WHERE id = ?`,
		formatTime(sub.NextBillingDate), formatTimePtr(sub.LastProcessedDate), boolToInt(sub.Active),
		sub.TotalSpent.String(), sub.TransactionCount, formatTime(now), id,
	)
	if err != nil {
		return 0, fmt.Errorf("update subscription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return posted, nil
}

const subCols = `id, name, amount, currency, account_id, payment_mode, billing_cycle,
	next_billing_date, last_processed_date, auto_renew, notify, active, total_spent, transaction_count,
	created_at, updated_at`

func getSubscription(ctx context.Context, q querier, id string) (*ledger.Subscription, error) {
	row := q.QueryRowContext(ctx, `SELECT `+subCols+` FROM subscriptions WHERE id = ?`, id)
	sub, err := scanSubscription(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

func scanSubscription(scan func(...any) error) (*ledger.Subscription, error) {
	var sub ledger.Subscription
	var amount, currency, cycle, nextBilling, totalSpent, createdAt, updatedAt string
	var lastProcessed sql.NullString
	var autoRenew, notify, active int

	err := scan(&sub.ID, &sub.Name, &amount, &currency, &sub.AccountID, &sub.PaymentMode, &cycle,
		&nextBilling, &lastProcessed, &autoRenew, &notify, &active, &totalSpent, &sub.TransactionCount,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	sub.Amount = parseDecimal(amount)
	sub.Currency = ledger.Currency(currency)
	sub.BillingCycle = ledger.BillingCycle(cycle)
	sub.NextBillingDate = parseTime(nextBilling)
	sub.LastProcessedDate = parseTimePtr(lastProcessed)
	sub.AutoRenew = autoRenew == 1
	sub.Notify = notify == 1
	sub.Active = active == 1
	sub.TotalSpent = parseDecimal(totalSpent)
	sub.CreatedAt = parseTime(createdAt)
	sub.UpdatedAt = parseTime(updatedAt)
	return &sub, nil
}
