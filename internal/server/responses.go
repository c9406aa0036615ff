package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thedev09/fintrack/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// mapError translates the error taxonomy onto HTTP statuses: referential
// errors are 404, validation errors 400, anything else a commit failure.
// Failed operations never leave partial state, so a retry is always safe.
func mapError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound),
		errors.Is(err, ledger.ErrSubscriptionNotFound),
		errors.Is(err, ledger.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAccountDeleted):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidAccountType),
		errors.Is(err, ledger.ErrInvalidCurrency),
		errors.Is(err, ledger.ErrInvalidTxType),
		errors.Is(err, ledger.ErrInvalidBillingCycle),
		errors.Is(err, ledger.ErrNameRequired),
		errors.Is(err, ledger.ErrAmountNotPositive),
		errors.Is(err, ledger.ErrCategoryRequired),
		errors.Is(err, ledger.ErrDestinationRequired),
		errors.Is(err, ledger.ErrSameAccountTransfer),
		errors.Is(err, ledger.ErrNewBalanceRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
