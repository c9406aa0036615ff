package server

import (
	"net/http"

	"github.com/thedev09/fintrack/internal/ledger"
)

type catalogResponse struct {
	AccountTypes  []ledger.AccountType  `json:"account_types"`
	Currencies    []ledger.Currency     `json:"currencies"`
	TxTypes       []ledger.TxType       `json:"transaction_types"`
	BillingCycles []ledger.BillingCycle `json:"billing_cycles"`
	Subtypes      map[string][]string   `json:"subtypes"`
	Categories    map[string][]string   `json:"categories"`
	PaymentModes  []string              `json:"payment_modes"`
}

// catalog serves the fixed pick-lists clients offer when building entry
// forms: subtypes per account type, categories per transaction type, and
// payment modes.
func (s *Server) catalog(w http.ResponseWriter, r *http.Request) {
	subtypes := make(map[string][]string, len(ledger.AllAccountTypes))
	for _, t := range ledger.AllAccountTypes {
		subtypes[string(t)] = ledger.SubtypesFor(t)
	}

	categories := make(map[string][]string, len(ledger.AllTxTypes))
	for _, t := range ledger.AllTxTypes {
		categories[string(t)] = ledger.CategoriesFor(t)
	}

	writeJSON(w, http.StatusOK, catalogResponse{
		AccountTypes:  ledger.AllAccountTypes,
		Currencies:    ledger.AllCurrencies,
		TxTypes:       ledger.AllTxTypes,
		BillingCycles: ledger.AllBillingCycles,
		Subtypes:      subtypes,
		Categories:    categories,
		PaymentModes:  ledger.PaymentModes,
	})
}
