package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/ledger"
)

// History is a chronologically sorted series of daily net-worth snapshots
// with nearest-prior-day lookback. Days are ISO date strings, which sort
// lexicographically in date order.
type History struct {
	days   []string
	values []decimal.Decimal
}

// NewHistory builds a History from snapshots in any order. Duplicate days
// keep the last value seen.
func NewHistory(snaps []ledger.Snapshot) *History {
	h := &History{}
	for _, s := range snaps {
		h.Append(s.Day, s.NetWorth)
	}
	return h
}

// Append adds a point, replacing any existing value for the same day.
func (h *History) Append(day string, v decimal.Decimal) {
	i := sort.SearchStrings(h.days, day)
	if i < len(h.days) && h.days[i] == day {
		h.values[i] = v
		return
	}
	h.days = append(h.days, "")
	h.values = append(h.values, decimal.Decimal{})
	copy(h.days[i+1:], h.days[i:])
	copy(h.values[i+1:], h.values[i:])
	h.days[i] = day
	h.values[i] = v
}

func (h *History) Len() int { return len(h.days) }

// At returns the value for day, falling back to the nearest prior day when
// the exact date has no snapshot. ok is false only before the first point.
func (h *History) At(day string) (v decimal.Decimal, ok bool) {
	i := sort.SearchStrings(h.days, day)
	if i < len(h.days) && h.days[i] == day {
		return h.values[i], true
	}
	if i == 0 {
		return decimal.Decimal{}, false
	}
	return h.values[i-1], true
}

// Point is one day of the net-worth series.
type Point struct {
	Day      string          `json:"day"`
	NetWorth decimal.Decimal `json:"net_worth"`
}

// NetWorthSeries produces one point per day from from to to inclusive,
// carrying the nearest prior snapshot forward across gaps. Days before the
// first snapshot are omitted.
func NetWorthSeries(h *History, from, to time.Time) []Point {
	var out []Point
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := d.Format(ledger.SnapshotDayLayout)
		v, ok := h.At(day)
		if !ok {
			continue
		}
		out = append(out, Point{Day: day, NetWorth: v})
	}
	return out
}
