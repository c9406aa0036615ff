package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceChange is one account-balance mutation in an apply or reverse
// batch. When Set is non-nil the balance is assigned absolutely (the
// adjustment primitive); otherwise Delta is added.
type BalanceChange struct {
	AccountID string
	Delta     decimal.Decimal
	Set       *decimal.Decimal
}

// ApplyTo returns the balance after applying the change.
func (c BalanceChange) ApplyTo(balance decimal.Decimal) decimal.Decimal {
	if c.Set != nil {
		return *c.Set
	}
	return balance.Add(c.Delta)
}

// Apply computes the transaction record and the balance changes for an
// intent. src must be the resolved source account; dst the resolved
// destination for transfers, nil otherwise. Nothing is persisted here: the
// store commits the returned record and changes as one atomic batch.
//
// usdToINR is the conversion rate snapshot for this operation. now is the
// operation's wall-clock time, used for record timestamps and defaulted
// into Date when the caller left it unset.
func Apply(in Intent, src, dst *Account, usdToINR decimal.Decimal, now time.Time) (*Transaction, []BalanceChange, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}
	if src == nil {
		return nil, nil, ErrAccountNotFound
	}
	if src.IsDeleted {
		return nil, nil, ErrAccountDeleted
	}

	date := in.Date
	if date.IsZero() {
		date = now
	}

	txn := &Transaction{
		Type:         in.Type,
		Amount:       in.Amount,
		Currency:     src.Currency,
		ExchangeRate: usdToINR,
		AccountID:    src.ID,
		Category:     in.Category,
		PaymentMode:  in.PaymentMode,
		Notes:        in.Notes,
		Date:         date,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var changes []BalanceChange

	switch in.Type {
	case TxIncome:
		changes = []BalanceChange{{AccountID: src.ID, Delta: in.Amount}}

	case TxExpense:
		// No overdraft guard: the balance may go negative.
		changes = []BalanceChange{{AccountID: src.ID, Delta: in.Amount.Neg()}}

	case TxTransfer:
		if dst == nil {
			return nil, nil, ErrAccountNotFound
		}
		if dst.IsDeleted {
			return nil, nil, ErrAccountDeleted
		}
		converted := Convert(in.Amount, src.Currency, dst.Currency, usdToINR)
		txn.ToAccountID = dst.ID
		if src.Currency != dst.Currency {
			txn.ConvertedAmount = &converted
			txn.ToCurrency = dst.Currency
		}
		// Sentinel category, regardless of caller input.
		txn.Category = CategoryTransfer
		changes = []BalanceChange{
			{AccountID: src.ID, Delta: in.Amount.Neg()},
			{AccountID: dst.ID, Delta: converted},
		}

	case TxAdjustment:
		newBalance := *in.NewBalance
		prev := src.Balance
		delta := newBalance.Sub(prev)
		txn.Amount = delta.Abs()
		txn.IsIncrease = delta.Sign() >= 0
		txn.PreviousBalance = &prev
		txn.NewBalance = &newBalance
		txn.Category = CategoryAdjustment
		// The balance is set absolutely, not incremented: adjustment is
		// the reconciliation primitive for correcting drift.
		changes = []BalanceChange{{AccountID: src.ID, Set: &newBalance}}
	}

	return txn, changes, nil
}

// Reverse computes the inverse balance changes from the stored record's own
// fields, never from current account state. Re-deriving would drift if the
// configured rate changed between apply and reverse.
func Reverse(txn *Transaction) []BalanceChange {
	switch txn.Type {
	case TxIncome:
		return []BalanceChange{{AccountID: txn.AccountID, Delta: txn.Amount.Neg()}}

	case TxExpense:
		return []BalanceChange{{AccountID: txn.AccountID, Delta: txn.Amount}}

	case TxTransfer:
		// Same-currency transfers omit ConvertedAmount; the destination
		// was credited the source amount.
		credited := txn.Amount
		if txn.ConvertedAmount != nil {
			credited = *txn.ConvertedAmount
		}
		return []BalanceChange{
			{AccountID: txn.AccountID, Delta: txn.Amount},
			{AccountID: txn.ToAccountID, Delta: credited.Neg()},
		}

	case TxAdjustment:
		if txn.IsIncrease {
			return []BalanceChange{{AccountID: txn.AccountID, Delta: txn.Amount.Neg()}}
		}
		return []BalanceChange{{AccountID: txn.AccountID, Delta: txn.Amount}}
	}
	return nil
}
