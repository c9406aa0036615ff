package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/ledger"
)

var rate = decimal.NewFromInt(84)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func inrTx(typ ledger.TxType, amount int64, category string) ledger.Transaction {
	return ledger.Transaction{Type: typ, Amount: d(amount), Currency: ledger.INR, Category: category}
}

func usdTx(typ ledger.TxType, amount int64, category string) ledger.Transaction {
	return ledger.Transaction{Type: typ, Amount: d(amount), Currency: ledger.USD, Category: category}
}

func TestSummarize(t *testing.T) {
	txs := []ledger.Transaction{
		inrTx(ledger.TxIncome, 50000, "Salary"),
		usdTx(ledger.TxIncome, 100, "Freelance"), // 8400 INR
		inrTx(ledger.TxExpense, 1200, "Groceries"),
		usdTx(ledger.TxExpense, 10, "Software"), // 840 INR
		inrTx(ledger.TxTransfer, 5000, ledger.CategoryTransfer),
		inrTx(ledger.TxAdjustment, 300, ledger.CategoryAdjustment),
	}

	s := Summarize(txs, rate)

	if !s.TotalIncome.Equal(d(58400)) {
		t.Errorf("total income = %s, want 58400", s.TotalIncome)
	}
	if !s.TotalExpense.Equal(d(2040)) {
		t.Errorf("total expense = %s, want 2040", s.TotalExpense)
	}
	if !s.NetSavings.Equal(d(56360)) {
		t.Errorf("net savings = %s, want 56360", s.NetSavings)
	}
	// Transfers and adjustments are excluded from the count too.
	if s.Count != 4 {
		t.Errorf("count = %d, want 4", s.Count)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, rate)
	if !s.TotalIncome.IsZero() || !s.TotalExpense.IsZero() || !s.NetSavings.IsZero() || s.Count != 0 {
		t.Errorf("empty summary not zero: %+v", s)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	txs := []ledger.Transaction{
		inrTx(ledger.TxExpense, 1200, "Groceries"),
		inrTx(ledger.TxExpense, 800, "Groceries"),
		usdTx(ledger.TxExpense, 10, "Software"), // 840 INR
		inrTx(ledger.TxExpense, 500, "Transport"),
		inrTx(ledger.TxExpense, 300, "Snacks"),
		inrTx(ledger.TxIncome, 50000, "Salary"), // ignored
	}

	out := CategoryBreakdown(txs, rate, 0)
	if len(out) != 4 {
		t.Fatalf("len = %d, want 4", len(out))
	}
	if out[0].Category != "Groceries" || !out[0].Total.Equal(d(2000)) || out[0].Count != 2 {
		t.Errorf("top slice = %+v, want Groceries 2000 x2", out[0])
	}
	if out[1].Category != "Software" || !out[1].Total.Equal(d(840)) {
		t.Errorf("second slice = %+v, want Software 840", out[1])
	}

	// Descending totals.
	for i := 1; i < len(out); i++ {
		if out[i].Total.GreaterThan(out[i-1].Total) {
			t.Errorf("breakdown not sorted at %d: %s > %s", i, out[i].Total, out[i-1].Total)
		}
	}
}

func TestCategoryBreakdownTopNOtherBucket(t *testing.T) {
	txs := []ledger.Transaction{
		inrTx(ledger.TxExpense, 1000, "A"),
		inrTx(ledger.TxExpense, 900, "B"),
		inrTx(ledger.TxExpense, 100, "C"),
		inrTx(ledger.TxExpense, 50, "D"),
	}

	out := CategoryBreakdown(txs, rate, 2)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3 (top 2 + other)", len(out))
	}
	last := out[2]
	if last.Category != OtherBucket {
		t.Fatalf("last slice = %q, want %q", last.Category, OtherBucket)
	}
	if !last.Total.Equal(d(150)) || last.Count != 2 {
		t.Errorf("other bucket = %+v, want total 150 count 2", last)
	}
}
