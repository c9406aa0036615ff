package ledger

import "errors"

var (
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrInvalidCurrency      = errors.New("invalid currency")
	ErrInvalidTxType        = errors.New("invalid transaction type")
	ErrInvalidBillingCycle  = errors.New("invalid billing cycle")
	ErrNameRequired         = errors.New("name is required")
	ErrAmountNotPositive    = errors.New("amount must be greater than zero")
	ErrCategoryRequired     = errors.New("category is required")
	ErrDestinationRequired  = errors.New("transfer requires a destination account")
	ErrSameAccountTransfer  = errors.New("destination account equals source account")
	ErrNewBalanceRequired   = errors.New("adjustment requires a new balance")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountDeleted       = errors.New("account has been deleted")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrSnapshotNotFound     = errors.New("snapshot not found")
)
