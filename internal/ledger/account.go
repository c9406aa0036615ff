package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes regular bank accounts from USD-denominated
// "crypto" accounts. The name is historical: a crypto account is any
// USD-side holding, not necessarily a cryptocurrency wallet.
type AccountType string

const (
	TypeBank   AccountType = "bank"
	TypeCrypto AccountType = "crypto"
)

var AllAccountTypes = []AccountType{TypeBank, TypeCrypto}

func ValidAccountType(t AccountType) bool {
	return t == TypeBank || t == TypeCrypto
}

type Account struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	Subtype        string          `json:"subtype"`
	Currency       Currency        `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
	IsDeleted      bool            `json:"is_deleted"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
	DisplayOrder   int             `json:"display_order"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	LastActivityAt time.Time       `json:"last_activity_at"`
}

// Validate checks account invariants. Balance is unconstrained: credit-card
// style subtypes legitimately run negative.
func (a *Account) Validate() error {
	if a.Name == "" {
		return ErrNameRequired
	}
	if !ValidAccountType(a.Type) {
		return ErrInvalidAccountType
	}
	if !ValidCurrency(a.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

// DeletePolicy selects what happens to an account's transactions when the
// account is soft-deleted.
type DeletePolicy string

const (
	// DeleteCascade removes every transaction whose source is the account.
	// Transactions where the account is only the transfer destination are
	// left alone. No balance reversal is performed.
	DeleteCascade DeletePolicy = "cascade"
	// DeleteOrphan keeps the transactions and stamps them as referencing a
	// since-deleted account.
	DeleteOrphan DeletePolicy = "orphan"
)

func ValidDeletePolicy(p DeletePolicy) bool {
	return p == DeleteCascade || p == DeleteOrphan
}
