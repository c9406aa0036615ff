package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type TxType string

const (
	TxIncome     TxType = "income"
	TxExpense    TxType = "expense"
	TxTransfer   TxType = "transfer"
	TxAdjustment TxType = "adjustment"
)

var AllTxTypes = []TxType{TxIncome, TxExpense, TxTransfer, TxAdjustment}

func ValidTxType(t TxType) bool {
	switch t {
	case TxIncome, TxExpense, TxTransfer, TxAdjustment:
		return true
	}
	return false
}

// Sentinel categories assigned by the engine. Income/expense categories are
// user-chosen; transfers and adjustments always carry these.
const (
	CategoryTransfer      = "Transfer"
	CategoryAdjustment    = "Balance Adjustment"
	CategorySubscriptions = "Subscriptions"
)

// Transaction is one ledger record. Amount, Type, account references and
// Date are immutable after creation; corrections go through delete +
// recreate so balance deltas never need re-deriving.
type Transaction struct {
	ID       string          `json:"id"`
	Type     TxType          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`

	// ExchangeRate snapshots the USD→INR rate at creation time. It is
	// informational and never re-applied on later operations.
	ExchangeRate decimal.Decimal `json:"exchange_rate"`

	AccountID   string `json:"account_id"`
	ToAccountID string `json:"to_account_id,omitempty"`

	// ConvertedAmount/ToCurrency are set only when a transfer crosses
	// currencies: the amount credited to the destination in its own
	// currency. Absence signals a same-currency transfer.
	ConvertedAmount *decimal.Decimal `json:"converted_amount,omitempty"`
	ToCurrency      Currency         `json:"to_currency,omitempty"`

	Category    string `json:"category"`
	PaymentMode string `json:"payment_mode,omitempty"`
	Notes       string `json:"notes,omitempty"`

	// Adjustment bookkeeping. IsIncrease records the reconciliation
	// direction; the balance snapshots are informational only.
	IsIncrease      bool             `json:"is_increase,omitempty"`
	PreviousBalance *decimal.Decimal `json:"previous_balance,omitempty"`
	NewBalance      *decimal.Decimal `json:"new_balance,omitempty"`

	// Date is the user-chosen economic event time, independent of CreatedAt.
	Date time.Time `json:"date"`

	// Orphan-mark: set when the source account was later soft-deleted
	// without cascading the transaction.
	AccountDeleted   bool       `json:"account_deleted,omitempty"`
	AccountDeletedAt *time.Time `json:"account_deleted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Intent is the validated form input for Apply: everything the caller
// chooses, nothing the engine derives.
type Intent struct {
	Type        TxType           `json:"type"`
	AccountID   string           `json:"account_id"`
	ToAccountID string           `json:"to_account_id,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	NewBalance  *decimal.Decimal `json:"new_balance,omitempty"`
	Category    string           `json:"category"`
	PaymentMode string           `json:"payment_mode,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	Date        time.Time        `json:"date,omitempty"`
}

// Validate performs the static checks that need no account resolution.
// The store re-checks account existence inside the commit, since an account
// can be soft-deleted between form validation and submit.
func (in *Intent) Validate() error {
	if !ValidTxType(in.Type) {
		return ErrInvalidTxType
	}
	if in.AccountID == "" {
		return ErrAccountNotFound
	}
	switch in.Type {
	case TxIncome, TxExpense:
		if !in.Amount.IsPositive() {
			return ErrAmountNotPositive
		}
		if in.Category == "" {
			return ErrCategoryRequired
		}
	case TxTransfer:
		if in.ToAccountID == "" {
			return ErrDestinationRequired
		}
		if in.ToAccountID == in.AccountID {
			return ErrSameAccountTransfer
		}
		if !in.Amount.IsPositive() {
			return ErrAmountNotPositive
		}
	case TxAdjustment:
		// NewBalance may equal the current balance; a zero-delta
		// adjustment is a legal no-op write.
		if in.NewBalance == nil {
			return ErrNewBalanceRequired
		}
	}
	return nil
}

// EditPatch is the mutable subset of a transaction. Nil fields are left
// unchanged. Nothing in a patch can move a balance.
type EditPatch struct {
	Category    *string `json:"category,omitempty"`
	PaymentMode *string `json:"payment_mode,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (p *EditPatch) Empty() bool {
	return p.Category == nil && p.PaymentMode == nil && p.Notes == nil
}
