// Package report holds the read-side aggregations: pure folds over
// transaction slices, recomputed per request rather than incrementally
// maintained. Filtering (date range, account, category) happens in the
// store query; these functions are filter-agnostic.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/ledger"
)

// Summary is the income/expense/net-savings roll-up for a transaction set,
// normalized to INR.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetSavings   decimal.Decimal `json:"net_savings"`
	Count        int             `json:"count"`
}

// Summarize totals income and expense transactions in INR. Transfers move
// money between the user's own accounts and adjustments reconcile drift, so
// neither contributes to income or expense.
func Summarize(txs []ledger.Transaction, usdToINR decimal.Decimal) Summary {
	var s Summary
	for i := range txs {
		t := &txs[i]
		switch t.Type {
		case ledger.TxIncome:
			s.TotalIncome = s.TotalIncome.Add(ledger.ToINR(t.Amount, t.Currency, usdToINR))
		case ledger.TxExpense:
			s.TotalExpense = s.TotalExpense.Add(ledger.ToINR(t.Amount, t.Currency, usdToINR))
		default:
			continue
		}
		s.Count++
	}
	s.NetSavings = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// OtherBucket labels the remainder slice when the breakdown is capped.
const OtherBucket = "Other"

// CategoryBreakdown groups expense transactions by category, totals them in
// INR, sorts descending, and caps to topN with an "Other" bucket for the
// remainder. topN <= 0 disables the cap.
func CategoryBreakdown(txs []ledger.Transaction, usdToINR decimal.Decimal, topN int) []CategoryTotal {
	byCat := make(map[string]*CategoryTotal)
	for i := range txs {
		t := &txs[i]
		if t.Type != ledger.TxExpense {
			continue
		}
		ct, ok := byCat[t.Category]
		if !ok {
			ct = &CategoryTotal{Category: t.Category}
			byCat[t.Category] = ct
		}
		ct.Total = ct.Total.Add(ledger.ToINR(t.Amount, t.Currency, usdToINR))
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(byCat))
	for _, ct := range byCat {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})

	if topN <= 0 || len(out) <= topN {
		return out
	}

	other := CategoryTotal{Category: OtherBucket}
	for _, ct := range out[topN:] {
		other.Total = other.Total.Add(ct.Total)
		other.Count += ct.Count
	}
	return append(out[:topN:topN], other)
}
