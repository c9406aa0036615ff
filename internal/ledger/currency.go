package ledger

import (
	"github.com/shopspring/decimal"
)

// Currency is one of the two denominations the tracker supports. Crypto
// accounts are USD-denominated, so every balance in the system is either
// INR or USD.
type Currency string

const (
	INR Currency = "INR"
	USD Currency = "USD"
)

var AllCurrencies = []Currency{INR, USD}

func ValidCurrency(c Currency) bool {
	return c == INR || c == USD
}

// DefaultUSDToINR is the fallback conversion rate when none is configured.
// The engine itself never reads this; it always takes the rate as a
// parameter so a live-rate provider can be swapped in.
var DefaultUSDToINR = decimal.NewFromInt(84)

// Convert converts amount between the two currencies using the USD→INR
// rate. Same-currency conversion is the identity.
func Convert(amount decimal.Decimal, from, to Currency, usdToINR decimal.Decimal) decimal.Decimal {
	if from == to {
		return amount
	}
	if from == USD {
		return amount.Mul(usdToINR)
	}
	return amount.Div(usdToINR)
}

// ToINR normalizes an amount to INR, the reporting currency for aggregates.
func ToINR(amount decimal.Decimal, currency Currency, usdToINR decimal.Decimal) decimal.Decimal {
	return Convert(amount, currency, INR, usdToINR)
}
