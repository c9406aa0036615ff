package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var (
	testRate = decimal.NewFromInt(84)
	testNow  = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
)

func inrAccount(id string, balance int64) *Account {
	return &Account{
		ID:       id,
		Name:     "Account " + id,
		Type:     TypeBank,
		Subtype:  "Savings",
		Currency: INR,
		Balance:  decimal.NewFromInt(balance),
	}
}

func usdAccount(id string, balance int64) *Account {
	return &Account{
		ID:       id,
		Name:     "Account " + id,
		Type:     TypeCrypto,
		Subtype:  "Exchange",
		Currency: USD,
		Balance:  decimal.NewFromInt(balance),
	}
}

// applyChanges folds balance changes into the balances map.
func applyChanges(balances map[string]decimal.Decimal, changes []BalanceChange) {
	for _, c := range changes {
		balances[c.AccountID] = c.ApplyTo(balances[c.AccountID])
	}
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestApplyReverseRoundTripAllTypes(t *testing.T) {
	nb := d(1750)
	cases := []struct {
		name   string
		intent Intent
	}{
		{"income", Intent{Type: TxIncome, AccountID: "a", Amount: d(500), Category: "Salary"}},
		{"expense", Intent{Type: TxExpense, AccountID: "a", Amount: d(200), Category: "Groceries"}},
		{"transfer same currency", Intent{Type: TxTransfer, AccountID: "a", ToAccountID: "b", Amount: d(300)}},
		{"transfer cross currency", Intent{Type: TxTransfer, AccountID: "a", ToAccountID: "u", Amount: d(840)}},
		{"adjustment", Intent{Type: TxAdjustment, AccountID: "a", NewBalance: &nb}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := inrAccount("a", 1000)
			dstINR := inrAccount("b", 50)
			dstUSD := usdAccount("u", 10)

			var dst *Account
			switch tc.intent.ToAccountID {
			case "b":
				dst = dstINR
			case "u":
				dst = dstUSD
			}

			balances := map[string]decimal.Decimal{
				"a": src.Balance, "b": dstINR.Balance, "u": dstUSD.Balance,
			}
			before := map[string]decimal.Decimal{}
			for k, v := range balances {
				before[k] = v
			}

			txn, changes, err := Apply(tc.intent, src, dst, testRate, testNow)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			applyChanges(balances, changes)
			applyChanges(balances, Reverse(txn))

			for id, want := range before {
				if !balances[id].Equal(want) {
					t.Errorf("account %s: balance after round trip = %s, want %s", id, balances[id], want)
				}
			}
		})
	}
}

func TestApplyIncomeAndExpenseEffects(t *testing.T) {
	src := inrAccount("a", 1000)

	_, changes, err := Apply(Intent{Type: TxExpense, AccountID: "a", Amount: d(200), Category: "Transport"}, src, nil, testRate, testNow)
	if err != nil {
		t.Fatalf("apply expense: %v", err)
	}
	balances := map[string]decimal.Decimal{"a": src.Balance}
	applyChanges(balances, changes)
	if !balances["a"].Equal(d(800)) {
		t.Fatalf("balance after expense = %s, want 800", balances["a"])
	}

	_, changes, err = Apply(Intent{Type: TxIncome, AccountID: "a", Amount: d(500), Category: "Salary"}, src, nil, testRate, testNow)
	if err != nil {
		t.Fatalf("apply income: %v", err)
	}
	applyChanges(balances, changes)
	if !balances["a"].Equal(d(1300)) {
		t.Fatalf("balance after income = %s, want 1300", balances["a"])
	}
}

func TestCrossCurrencyTransferConservation(t *testing.T) {
	src := usdAccount("usd", 1000)
	dst := inrAccount("inr", 5000)

	txn, changes, err := Apply(Intent{
		Type: TxTransfer, AccountID: "usd", ToAccountID: "inr", Amount: d(100),
	}, src, dst, testRate, testNow)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if txn.ConvertedAmount == nil {
		t.Fatal("cross-currency transfer must record a converted amount")
	}
	if !txn.ConvertedAmount.Equal(d(8400)) {
		t.Fatalf("converted amount = %s, want 8400", txn.ConvertedAmount)
	}
	if txn.ToCurrency != INR {
		t.Fatalf("to currency = %s, want INR", txn.ToCurrency)
	}

	balances := map[string]decimal.Decimal{"usd": d(1000), "inr": d(5000)}
	applyChanges(balances, changes)
	if !balances["usd"].Equal(d(900)) || !balances["inr"].Equal(d(13400)) {
		t.Fatalf("balances after transfer = %s / %s, want 900 / 13400", balances["usd"], balances["inr"])
	}

	// Reverse uses the stored converted amount, not a recomputed one.
	applyChanges(balances, Reverse(txn))
	if !balances["usd"].Equal(d(1000)) || !balances["inr"].Equal(d(5000)) {
		t.Fatalf("balances after reverse = %s / %s, want 1000 / 5000", balances["usd"], balances["inr"])
	}
}

func TestSameCurrencyTransferOmitsConversion(t *testing.T) {
	src := inrAccount("a", 1000)
	dst := inrAccount("b", 0)

	txn, changes, err := Apply(Intent{
		Type: TxTransfer, AccountID: "a", ToAccountID: "b", Amount: d(250),
	}, src, dst, testRate, testNow)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if txn.ConvertedAmount != nil || txn.ToCurrency != "" {
		t.Fatal("same-currency transfer must omit converted amount and to-currency")
	}
	if txn.Category != CategoryTransfer {
		t.Fatalf("category = %q, want %q", txn.Category, CategoryTransfer)
	}

	balances := map[string]decimal.Decimal{"a": d(1000), "b": d(0)}
	applyChanges(balances, changes)
	if !balances["b"].Equal(d(250)) {
		t.Fatalf("destination credited %s, want 250", balances["b"])
	}
}

// Transfers and adjustments carry fixed sentinel categories; a caller-chosen
// category must not leak through.
func TestSentinelCategoriesOverrideCaller(t *testing.T) {
	src := inrAccount("a", 1000)
	dst := inrAccount("b", 0)

	txn, _, err := Apply(Intent{
		Type: TxTransfer, AccountID: "a", ToAccountID: "b", Amount: d(100), Category: "Groceries",
	}, src, dst, testRate, testNow)
	if err != nil {
		t.Fatalf("apply transfer: %v", err)
	}
	if txn.Category != CategoryTransfer {
		t.Errorf("transfer category = %q, want %q", txn.Category, CategoryTransfer)
	}

	nb := d(1200)
	txn, _, err = Apply(Intent{
		Type: TxAdjustment, AccountID: "a", NewBalance: &nb, Category: "Salary",
	}, src, nil, testRate, testNow)
	if err != nil {
		t.Fatalf("apply adjustment: %v", err)
	}
	if txn.Category != CategoryAdjustment {
		t.Errorf("adjustment category = %q, want %q", txn.Category, CategoryAdjustment)
	}
}

// Reverse must fall back to Amount for old same-currency transfers that
// never stored a converted amount.
func TestReverseTransferFallsBackToAmount(t *testing.T) {
	txn := &Transaction{
		Type:      TxTransfer,
		AccountID: "a", ToAccountID: "b",
		Amount:   d(250),
		Currency: INR,
	}
	balances := map[string]decimal.Decimal{"a": d(750), "b": d(250)}
	applyChanges(balances, Reverse(txn))
	if !balances["a"].Equal(d(1000)) || !balances["b"].Equal(d(0)) {
		t.Fatalf("balances after reverse = %s / %s, want 1000 / 0", balances["a"], balances["b"])
	}
}

func TestAdjustmentSetsAbsolutely(t *testing.T) {
	src := inrAccount("a", 500)
	nb := d(750)

	txn, changes, err := Apply(Intent{Type: TxAdjustment, AccountID: "a", NewBalance: &nb}, src, nil, testRate, testNow)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if !txn.Amount.Equal(d(250)) {
		t.Fatalf("stored amount = %s, want 250", txn.Amount)
	}
	if !txn.IsIncrease {
		t.Fatal("IsIncrease = false, want true")
	}
	if txn.PreviousBalance == nil || !txn.PreviousBalance.Equal(d(500)) {
		t.Fatalf("previous balance snapshot = %v, want 500", txn.PreviousBalance)
	}
	if txn.NewBalance == nil || !txn.NewBalance.Equal(d(750)) {
		t.Fatalf("new balance snapshot = %v, want 750", txn.NewBalance)
	}
	if txn.Category != CategoryAdjustment {
		t.Fatalf("category = %q, want %q", txn.Category, CategoryAdjustment)
	}

	if len(changes) != 1 || changes[0].Set == nil {
		t.Fatalf("adjustment must produce a single absolute set, got %+v", changes)
	}
	if !changes[0].ApplyTo(d(99999)).Equal(d(750)) {
		t.Fatal("absolute set must ignore the prior balance")
	}
}

func TestAdjustmentDecrease(t *testing.T) {
	src := inrAccount("a", 500)
	nb := d(-120)

	txn, _, err := Apply(Intent{Type: TxAdjustment, AccountID: "a", NewBalance: &nb}, src, nil, testRate, testNow)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !txn.Amount.Equal(d(620)) {
		t.Fatalf("stored amount = %s, want 620", txn.Amount)
	}
	if txn.IsIncrease {
		t.Fatal("IsIncrease = true, want false")
	}
}

func TestZeroDeltaAdjustmentIsLegalNoOp(t *testing.T) {
	src := inrAccount("a", 500)
	nb := d(500)

	txn, changes, err := Apply(Intent{Type: TxAdjustment, AccountID: "a", NewBalance: &nb}, src, nil, testRate, testNow)
	if err != nil {
		t.Fatalf("zero-delta adjustment must not fail: %v", err)
	}
	if !txn.Amount.IsZero() {
		t.Fatalf("stored amount = %s, want 0", txn.Amount)
	}
	if !txn.IsIncrease {
		t.Fatal("zero delta counts as an increase")
	}

	balances := map[string]decimal.Decimal{"a": d(500)}
	applyChanges(balances, changes)
	applyChanges(balances, Reverse(txn))
	if !balances["a"].Equal(d(500)) {
		t.Fatalf("balance drifted to %s", balances["a"])
	}
}

func TestExpenseMayOverdraw(t *testing.T) {
	src := inrAccount("a", 100)

	_, changes, err := Apply(Intent{Type: TxExpense, AccountID: "a", Amount: d(250), Category: "Shopping"}, src, nil, testRate, testNow)
	if err != nil {
		t.Fatalf("expense beyond balance must succeed: %v", err)
	}
	balances := map[string]decimal.Decimal{"a": d(100)}
	applyChanges(balances, changes)
	if !balances["a"].Equal(d(-150)) {
		t.Fatalf("balance = %s, want -150", balances["a"])
	}
}

func TestApplyValidation(t *testing.T) {
	src := inrAccount("a", 1000)

	cases := []struct {
		name    string
		intent  Intent
		src     *Account
		dst     *Account
		wantErr error
	}{
		{"unknown type", Intent{Type: "refund", AccountID: "a", Amount: d(1)}, src, nil, ErrInvalidTxType},
		{"missing account", Intent{Type: TxIncome, Amount: d(1), Category: "x"}, src, nil, ErrAccountNotFound},
		{"zero amount income", Intent{Type: TxIncome, AccountID: "a", Amount: d(0), Category: "x"}, src, nil, ErrAmountNotPositive},
		{"negative amount expense", Intent{Type: TxExpense, AccountID: "a", Amount: d(-5), Category: "x"}, src, nil, ErrAmountNotPositive},
		{"missing category", Intent{Type: TxExpense, AccountID: "a", Amount: d(5)}, src, nil, ErrCategoryRequired},
		{"transfer to self", Intent{Type: TxTransfer, AccountID: "a", ToAccountID: "a", Amount: d(5)}, src, nil, ErrSameAccountTransfer},
		{"transfer without destination", Intent{Type: TxTransfer, AccountID: "a", Amount: d(5)}, src, nil, ErrDestinationRequired},
		{"adjustment without balance", Intent{Type: TxAdjustment, AccountID: "a"}, src, nil, ErrNewBalanceRequired},
		{"source unresolved", Intent{Type: TxIncome, AccountID: "ghost", Amount: d(1), Category: "x"}, nil, nil, ErrAccountNotFound},
		{"destination unresolved", Intent{Type: TxTransfer, AccountID: "a", ToAccountID: "ghost", Amount: d(5)}, src, nil, ErrAccountNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Apply(tc.intent, tc.src, tc.dst, testRate, testNow)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err != tc.wantErr {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestApplyRejectsDeletedAccounts(t *testing.T) {
	src := inrAccount("a", 1000)
	src.IsDeleted = true

	_, _, err := Apply(Intent{Type: TxIncome, AccountID: "a", Amount: d(1), Category: "x"}, src, nil, testRate, testNow)
	if err != ErrAccountDeleted {
		t.Fatalf("err = %v, want ErrAccountDeleted", err)
	}

	live := inrAccount("a", 1000)
	gone := inrAccount("b", 0)
	gone.IsDeleted = true
	_, _, err = Apply(Intent{Type: TxTransfer, AccountID: "a", ToAccountID: "b", Amount: d(5)}, live, gone, testRate, testNow)
	if err != ErrAccountDeleted {
		t.Fatalf("transfer to deleted account: err = %v, want ErrAccountDeleted", err)
	}
}

func TestApplyDefaultsDateToNow(t *testing.T) {
	src := inrAccount("a", 0)

	txn, _, err := Apply(Intent{Type: TxIncome, AccountID: "a", Amount: d(1), Category: "Salary"}, src, nil, testRate, testNow)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !txn.Date.Equal(testNow) {
		t.Fatalf("date = %s, want %s", txn.Date, testNow)
	}

	backdated := testNow.AddDate(0, 0, -3)
	txn, _, err = Apply(Intent{Type: TxIncome, AccountID: "a", Amount: d(1), Category: "Salary", Date: backdated}, src, nil, testRate, testNow)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !txn.Date.Equal(backdated) {
		t.Fatalf("date = %s, want %s", txn.Date, backdated)
	}
	if !txn.CreatedAt.Equal(testNow) {
		t.Fatalf("created at = %s, want operation time %s", txn.CreatedAt, testNow)
	}
}

func TestConvert(t *testing.T) {
	if got := Convert(d(100), USD, INR, testRate); !got.Equal(d(8400)) {
		t.Fatalf("USD→INR = %s, want 8400", got)
	}
	if got := Convert(d(8400), INR, USD, testRate); !got.Equal(d(100)) {
		t.Fatalf("INR→USD = %s, want 100", got)
	}
	if got := Convert(d(77), INR, INR, testRate); !got.Equal(d(77)) {
		t.Fatalf("identity = %s, want 77", got)
	}
}
