package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thedev09/fintrack/internal/ledger"
	"github.com/thedev09/fintrack/internal/store"
)

func (s *Server) applyTransaction(w http.ResponseWriter, r *http.Request) {
	var in ledger.Intent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	txn, err := s.store.Apply(r.Context(), in, s.rate)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	s.publish("transaction", "created", txn.ID)
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := s.txnFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := s.store.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if txns == nil {
		txns = []ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	txn, err := s.store.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) editTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch ledger.EditPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	txn, err := s.store.EditTransaction(r.Context(), id, patch)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	s.publish("transaction", "updated", id)
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) reverseTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Reverse(r.Context(), id); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	s.publish("transaction", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) txnFilterFromQuery(r *http.Request) (store.TxnFilter, error) {
	q := r.URL.Query()
	filter := store.TxnFilter{
		AccountID: q.Get("account"),
		Type:      ledger.TxType(q.Get("type")),
		Limit:     s.pageSize,
	}

	if cats := q.Get("categories"); cats != "" {
		for _, c := range strings.Split(cats, ",") {
			if c = strings.TrimSpace(c); c != "" {
				filter.Categories = append(filter.Categories, c)
			}
		}
	}

	var err error
	if filter.Start, err = parseDateParam(q.Get("start"), false); err != nil {
		return filter, err
	}
	if filter.End, err = parseDateParam(q.Get("end"), true); err != nil {
		return filter, err
	}

	if v := q.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			filter.Limit = n
		}
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			filter.Offset = (n - 1) * filter.Limit
		}
	}
	return filter, nil
}

// parseDateParam reads a YYYY-MM-DD query value. End dates are treated as
// "through the whole day" by bumping to the next midnight (filters are
// end-exclusive).
func parseDateParam(v string, endOfDay bool) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}
