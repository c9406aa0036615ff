package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingCycle is how often a subscription posts a charge.
type BillingCycle string

const (
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
)

var AllBillingCycles = []BillingCycle{CycleMonthly, CycleQuarterly, CycleYearly}

// Months returns the cycle length in months, or 0 for an unknown cycle.
func (c BillingCycle) Months() int {
	switch c {
	case CycleMonthly:
		return 1
	case CycleQuarterly:
		return 3
	case CycleYearly:
		return 12
	}
	return 0
}

func ValidBillingCycle(c BillingCycle) bool {
	return c.Months() > 0
}

// Subscription is a recurring expense template. Processing one posts an
// ordinary expense through the engine with the Subscriptions category, then
// advances NextBillingDate by the cycle and bumps the accumulators.
type Subscription struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     Currency        `json:"currency"`
	AccountID    string          `json:"account_id"`
	PaymentMode  string          `json:"payment_mode,omitempty"`
	BillingCycle BillingCycle    `json:"billing_cycle"`

	NextBillingDate   time.Time  `json:"next_billing_date"`
	LastProcessedDate *time.Time `json:"last_processed_date,omitempty"`

	AutoRenew bool `json:"auto_renew"`
	Notify    bool `json:"notify"`
	Active    bool `json:"active"`

	// Accumulators, maintained by the processor.
	TotalSpent       decimal.Decimal `json:"total_spent"`
	TransactionCount int             `json:"transaction_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscription) Validate() error {
	if s.Name == "" {
		return ErrNameRequired
	}
	if !s.Amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if !ValidCurrency(s.Currency) {
		return ErrInvalidCurrency
	}
	if s.AccountID == "" {
		return ErrAccountNotFound
	}
	if !ValidBillingCycle(s.BillingCycle) {
		return ErrInvalidBillingCycle
	}
	return nil
}

// Due reports whether the subscription should post a charge as of the given
// time. Inactive subscriptions are never due.
func (s *Subscription) Due(asOf time.Time) bool {
	return s.Active && !s.NextBillingDate.After(asOf)
}

// Processed reports whether the current NextBillingDate has already been
// posted. A sweep that crashed between the expense commit and the date
// advance, or a concurrent sweep from another session, sees this and skips.
func (s *Subscription) Processed() bool {
	return s.LastProcessedDate != nil && !s.LastProcessedDate.Before(s.NextBillingDate)
}

// Advance returns the next billing date one cycle after the given one.
func (s *Subscription) Advance(from time.Time) time.Time {
	return from.AddDate(0, s.BillingCycle.Months(), 0)
}
