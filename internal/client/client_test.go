package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/ledger"
	"github.com/thedev09/fintrack/internal/server"
	"github.com/thedev09/fintrack/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(server.New(st, server.Options{USDToINR: decimal.NewFromInt(84)}).Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	acct, err := c.CreateAccount(ctx, &ledger.Account{
		Name: "HDFC", Type: ledger.TypeBank, Subtype: "Savings",
		Currency: ledger.INR, Balance: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	txn, err := c.Apply(ctx, ledger.Intent{
		Type: ledger.TxExpense, AccountID: acct.ID,
		Amount: decimal.NewFromInt(200), Category: "Groceries",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, err := c.GetAccount(ctx, acct.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(800)) {
		t.Errorf("balance = %s, want 800", got.Balance)
	}

	cat := "Dining"
	edited, err := c.EditTransaction(ctx, txn.ID, ledger.EditPatch{Category: &cat})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Category != "Dining" {
		t.Errorf("category = %q, want Dining", edited.Category)
	}

	if err := c.ReverseTransaction(ctx, txn.ID); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	got, _ = c.GetAccount(ctx, acct.ID)
	if !got.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance after reverse = %s, want 1000", got.Balance)
	}

	txns, err := c.ListTransactions(ctx, TxnQuery{AccountID: acct.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("transactions after reverse = %d, want 0", len(txns))
	}
}

func TestClientErrorsCarryServerMessage(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetAccount(ctx, "no-such-id")
	if err == nil {
		t.Fatal("expected error for missing account")
	}
	if !strings.Contains(err.Error(), "account not found") {
		t.Errorf("error %q does not carry the server message", err)
	}
}

func TestClientSubscriptionsAndReports(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	acct, err := c.CreateAccount(ctx, &ledger.Account{
		Name: "Checking", Type: ledger.TypeBank, Subtype: "Savings",
		Currency: ledger.INR, Balance: decimal.NewFromInt(5000),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	_, err = c.CreateSubscription(ctx, &ledger.Subscription{
		Name: "Netflix", Amount: decimal.NewFromInt(649), Currency: ledger.INR,
		AccountID: acct.ID, BillingCycle: ledger.CycleMonthly,
		NextBillingDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		AutoRenew:       true,
	})
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	res, err := c.ProcessSubscriptions(ctx, "2026-03-05")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Posted != 1 {
		t.Errorf("posted = %d, want 1", res.Posted)
	}

	sum, err := c.Summary(ctx, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !sum.TotalExpense.Equal(decimal.NewFromInt(649)) {
		t.Errorf("total expense = %s, want 649", sum.TotalExpense)
	}

	if err := c.SetSnapshot(ctx, "2026-03-05", decimal.NewFromInt(90000)); err != nil {
		t.Fatalf("set snapshot: %v", err)
	}
	snaps, err := c.ListSnapshots(ctx, "", "")
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snaps) != 1 || snaps[0].Day != "2026-03-05" {
		t.Errorf("snapshots = %+v", snaps)
	}
}
