package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/ledger"
	"github.com/thedev09/fintrack/internal/store"
)

type createSubscriptionRequest struct {
	Name            string              `json:"name"`
	Amount          decimal.Decimal     `json:"amount"`
	Currency        ledger.Currency     `json:"currency"`
	AccountID       string              `json:"account_id"`
	PaymentMode     string              `json:"payment_mode"`
	BillingCycle    ledger.BillingCycle `json:"billing_cycle"`
	NextBillingDate time.Time           `json:"next_billing_date"`
	AutoRenew       *bool               `json:"auto_renew"`
	Notify          bool                `json:"notify"`
}

func (s *Server) createSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	autoRenew := true
	if req.AutoRenew != nil {
		autoRenew = *req.AutoRenew
	}

	sub := &ledger.Subscription{
		Name:            req.Name,
		Amount:          req.Amount,
		Currency:        req.Currency,
		AccountID:       req.AccountID,
		PaymentMode:     req.PaymentMode,
		BillingCycle:    req.BillingCycle,
		NextBillingDate: req.NextBillingDate,
		AutoRenew:       autoRenew,
		Notify:          req.Notify,
		Active:          true,
	}

	if err := s.store.CreateSubscription(r.Context(), sub); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	s.publish("subscription", "created", sub.ID)
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.SubscriptionFilter{
		AccountID:  q.Get("account"),
		ActiveOnly: q.Get("active") == "true" || q.Get("active") == "1",
	}

	subs, err := s.store.ListSubscriptions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if subs == nil {
		subs = []ledger.Subscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) getSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.store.GetSubscription(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) updateSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch store.SubscriptionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	sub, err := s.store.UpdateSubscription(r.Context(), id, patch)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	s.publish("subscription", "updated", id)
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteSubscription(r.Context(), id); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	s.publish("subscription", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) processSubscriptions(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	if v := r.URL.Query().Get("as_of"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid as_of date: "+err.Error())
			return
		}
		asOf = t.AddDate(0, 0, 1) // through the whole day
	}

	posted, err := s.store.ProcessDue(r.Context(), asOf, s.rate)
	if err != nil {
		// Charges already posted stay posted; each subscription commits
		// on its own. Report both.
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"posted": posted,
			"error":  err.Error(),
		})
		return
	}

	if posted > 0 {
		s.publish("subscription", "processed", "")
	}
	writeJSON(w, http.StatusOK, map[string]any{"posted": posted})
}
