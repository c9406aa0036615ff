package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/ledger"
	"github.com/thedev09/fintrack/internal/store"
)

type createAccountRequest struct {
	Name         string             `json:"name"`
	Type         ledger.AccountType `json:"type"`
	Subtype      string             `json:"subtype"`
	Currency     ledger.Currency    `json:"currency"`
	Balance      decimal.Decimal    `json:"balance"`
	DisplayOrder int                `json:"display_order"`
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	// Crypto accounts are USD-denominated; default accordingly.
	if req.Currency == "" {
		if req.Type == ledger.TypeCrypto {
			req.Currency = ledger.USD
		} else {
			req.Currency = ledger.INR
		}
	}

	acct := &ledger.Account{
		Name:         req.Name,
		Type:         req.Type,
		Subtype:      req.Subtype,
		Currency:     req.Currency,
		Balance:      req.Balance,
		DisplayOrder: req.DisplayOrder,
	}

	if err := s.store.CreateAccount(r.Context(), acct); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	s.publish("account", "created", acct.ID)
	writeJSON(w, http.StatusCreated, acct)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	filter := store.AccountFilter{}

	q := r.URL.Query()
	if t := q.Get("type"); t != "" {
		filter.Type = ledger.AccountType(t)
	}
	if c := q.Get("currency"); c != "" {
		filter.Currency = ledger.Currency(c)
	}
	if d := q.Get("deleted"); d == "true" || d == "1" {
		filter.IncludeDeleted = true
	}

	accounts, err := s.store.ListAccounts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if accounts == nil {
		accounts = []ledger.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := s.store.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch store.AccountPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	acct, err := s.store.UpdateAccount(r.Context(), id, patch)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	s.publish("account", "updated", id)
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// ?transactions=delete cascades; anything else orphan-marks.
	policy := ledger.DeleteOrphan
	if r.URL.Query().Get("transactions") == "delete" {
		policy = ledger.DeleteCascade
	}

	if err := s.store.DeleteAccount(r.Context(), id, policy); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	s.publish("account", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
