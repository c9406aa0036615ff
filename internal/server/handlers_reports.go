package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/ledger"
	"github.com/thedev09/fintrack/internal/report"
	"github.com/thedev09/fintrack/internal/store"
)

// reportWindow reads the start/end date range, defaulting to the last 30
// days when neither is given.
func reportWindow(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	start, err := parseDateParam(q.Get("start"), false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDateParam(q.Get("end"), true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.IsZero() && end.IsZero() {
		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		start = today.AddDate(0, 0, -29)
		end = today.AddDate(0, 0, 1)
	}
	return start, end, nil
}

func (s *Server) reportSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := reportWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := s.store.ListTransactions(r.Context(), store.TxnFilter{
		AccountID: r.URL.Query().Get("account"),
		Start:     start,
		End:       end,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report.Summarize(txns, s.rate))
}

func (s *Server) reportCategories(w http.ResponseWriter, r *http.Request) {
	start, end, err := reportWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	topN := 8
	if v := r.URL.Query().Get("top"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			topN = n
		}
	}

	txns, err := s.store.ListTransactions(r.Context(), store.TxnFilter{
		Type:  ledger.TxExpense,
		Start: start,
		End:   end,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	breakdown := report.CategoryBreakdown(txns, s.rate, topN)
	if breakdown == nil {
		breakdown = []report.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (s *Server) reportNetWorth(w http.ResponseWriter, r *http.Request) {
	start, end, err := reportWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// The window's end bound is exclusive; the series is inclusive days.
	last := end.AddDate(0, 0, -1)

	snaps, err := s.store.ListSnapshots(r.Context(), "", last.Format(ledger.SnapshotDayLayout))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	series := report.NetWorthSeries(report.NewHistory(snaps), start, last)
	if series == nil {
		series = []report.Point{}
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) upsertSnapshot(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")

	var req struct {
		NetWorth decimal.Decimal `json:"net_worth"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	snap := ledger.Snapshot{Day: day, NetWorth: req.NetWorth}
	if err := s.store.UpsertSnapshot(r.Context(), snap); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.publish("snapshot", "updated", day)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	snaps, err := s.store.ListSnapshots(r.Context(), q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snaps == nil {
		snaps = []ledger.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}
