package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/ledger"
	"github.com/thedev09/fintrack/internal/report"
	"github.com/thedev09/fintrack/internal/store"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- accounts ---

func (c *Client) CreateAccount(ctx context.Context, acct *ledger.Account) (*ledger.Account, error) {
	body := map[string]any{
		"name":          acct.Name,
		"type":          acct.Type,
		"subtype":       acct.Subtype,
		"currency":      acct.Currency,
		"balance":       acct.Balance,
		"display_order": acct.DisplayOrder,
	}
	var result ledger.Account
	if err := c.post(ctx, "/api/v1/accounts", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListAccounts(ctx context.Context, includeDeleted bool) ([]ledger.Account, error) {
	params := url.Values{}
	if includeDeleted {
		params.Set("deleted", "true")
	}
	var result []ledger.Account
	if err := c.get(ctx, "/api/v1/accounts?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	var result ledger.Account
	if err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateAccount(ctx context.Context, id string, patch store.AccountPatch) (*ledger.Account, error) {
	var result ledger.Account
	if err := c.patch(ctx, "/api/v1/accounts/"+url.PathEscape(id), patch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id string, cascade bool) error {
	path := "/api/v1/accounts/" + url.PathEscape(id)
	if cascade {
		path += "?transactions=delete"
	}
	return c.del(ctx, path)
}

// --- transactions ---

func (c *Client) Apply(ctx context.Context, in ledger.Intent) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.post(ctx, "/api/v1/transactions", in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TxnQuery mirrors the list endpoint's filters.
type TxnQuery struct {
	AccountID  string
	Type       ledger.TxType
	Categories string // comma-separated
	Start, End string // YYYY-MM-DD
	Page       int
	PageSize   int
}

func (c *Client) ListTransactions(ctx context.Context, q TxnQuery) ([]ledger.Transaction, error) {
	params := url.Values{}
	if q.AccountID != "" {
		params.Set("account", q.AccountID)
	}
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	if q.Categories != "" {
		params.Set("categories", q.Categories)
	}
	if q.Start != "" {
		params.Set("start", q.Start)
	}
	if q.End != "" {
		params.Set("end", q.End)
	}
	if q.Page > 0 {
		params.Set("page", fmt.Sprint(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", fmt.Sprint(q.PageSize))
	}
	var result []ledger.Transaction
	if err := c.get(ctx, "/api/v1/transactions?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.get(ctx, "/api/v1/transactions/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) EditTransaction(ctx context.Context, id string, patch ledger.EditPatch) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.patch(ctx, "/api/v1/transactions/"+url.PathEscape(id), patch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ReverseTransaction(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/transactions/"+url.PathEscape(id))
}

// --- subscriptions ---

func (c *Client) CreateSubscription(ctx context.Context, sub *ledger.Subscription) (*ledger.Subscription, error) {
	body := map[string]any{
		"name":              sub.Name,
		"amount":            sub.Amount,
		"currency":          sub.Currency,
		"account_id":        sub.AccountID,
		"payment_mode":      sub.PaymentMode,
		"billing_cycle":     sub.BillingCycle,
		"next_billing_date": sub.NextBillingDate,
		"auto_renew":        sub.AutoRenew,
		"notify":            sub.Notify,
	}
	var result ledger.Subscription
	if err := c.post(ctx, "/api/v1/subscriptions", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListSubscriptions(ctx context.Context, activeOnly bool) ([]ledger.Subscription, error) {
	params := url.Values{}
	if activeOnly {
		params.Set("active", "true")
	}
	var result []ledger.Subscription
	if err := c.get(ctx, "/api/v1/subscriptions?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) UpdateSubscription(ctx context.Context, id string, patch store.SubscriptionPatch) (*ledger.Subscription, error) {
	var result ledger.Subscription
	if err := c.patch(ctx, "/api/v1/subscriptions/"+url.PathEscape(id), patch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteSubscription(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/subscriptions/"+url.PathEscape(id))
}

type ProcessResult struct {
	Posted int    `json:"posted"`
	Error  string `json:"error,omitempty"`
}

func (c *Client) ProcessSubscriptions(ctx context.Context, asOf string) (*ProcessResult, error) {
	path := "/api/v1/subscriptions/process"
	if asOf != "" {
		path += "?as_of=" + url.QueryEscape(asOf)
	}
	var result ProcessResult
	if err := c.post(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// --- reports & snapshots ---

func (c *Client) Summary(ctx context.Context, start, end string) (*report.Summary, error) {
	var result report.Summary
	if err := c.get(ctx, "/api/v1/reports/summary?"+rangeParams(start, end), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Categories(ctx context.Context, start, end string, top int) ([]report.CategoryTotal, error) {
	params := rangeParams(start, end)
	if top > 0 {
		params += "&top=" + fmt.Sprint(top)
	}
	var result []report.CategoryTotal
	if err := c.get(ctx, "/api/v1/reports/categories?"+params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) NetWorth(ctx context.Context, start, end string) ([]report.Point, error) {
	var result []report.Point
	if err := c.get(ctx, "/api/v1/reports/networth?"+rangeParams(start, end), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) SetSnapshot(ctx context.Context, day string, netWorth decimal.Decimal) error {
	body := map[string]any{"net_worth": netWorth}
	return c.put(ctx, "/api/v1/snapshots/"+url.PathEscape(day), body, nil)
}

func (c *Client) ListSnapshots(ctx context.Context, start, end string) ([]ledger.Snapshot, error) {
	var result []ledger.Snapshot
	if err := c.get(ctx, "/api/v1/snapshots?"+rangeParams(start, end), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Catalog mirrors the server's fixed pick-lists: subtypes keyed by account
// type, categories keyed by transaction type.
type Catalog struct {
	AccountTypes  []ledger.AccountType  `json:"account_types"`
	Currencies    []ledger.Currency     `json:"currencies"`
	TxTypes       []ledger.TxType       `json:"transaction_types"`
	BillingCycles []ledger.BillingCycle `json:"billing_cycles"`
	Subtypes      map[string][]string   `json:"subtypes"`
	Categories    map[string][]string   `json:"categories"`
	PaymentModes  []string              `json:"payment_modes"`
}

func (c *Client) Catalog(ctx context.Context) (*Catalog, error) {
	var result Catalog
	if err := c.get(ctx, "/api/v1/catalog", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func rangeParams(start, end string) string {
	params := url.Values{}
	if start != "" {
		params.Set("start", start)
	}
	if end != "" {
		params.Set("end", end)
	}
	return params.Encode()
}

// --- transport helpers ---

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) del(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
