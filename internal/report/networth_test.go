package report

import (
	"testing"
	"time"

	"github.com/thedev09/fintrack/internal/ledger"
)

func TestHistoryLookback(t *testing.T) {
	h := NewHistory([]ledger.Snapshot{
		{Day: "2026-03-10", NetWorth: d(100000)},
		{Day: "2026-03-01", NetWorth: d(90000)},
		{Day: "2026-03-05", NetWorth: d(95000)},
	})

	if h.Len() != 3 {
		t.Fatalf("len = %d, want 3", h.Len())
	}

	// Exact hit.
	if v, ok := h.At("2026-03-05"); !ok || !v.Equal(d(95000)) {
		t.Errorf("At(03-05) = %s, %v; want 95000, true", v, ok)
	}
	// Gap falls back to nearest prior day.
	if v, ok := h.At("2026-03-07"); !ok || !v.Equal(d(95000)) {
		t.Errorf("At(03-07) = %s, %v; want 95000, true", v, ok)
	}
	// After the last point, the last value carries forward.
	if v, ok := h.At("2026-04-01"); !ok || !v.Equal(d(100000)) {
		t.Errorf("At(04-01) = %s, %v; want 100000, true", v, ok)
	}
	// Before the first point there is nothing to look back to.
	if _, ok := h.At("2026-02-20"); ok {
		t.Error("At before first snapshot must report ok=false")
	}
}

func TestHistoryAppendReplacesSameDay(t *testing.T) {
	h := &History{}
	h.Append("2026-03-01", d(100))
	h.Append("2026-03-01", d(250))

	if h.Len() != 1 {
		t.Fatalf("len = %d, want 1", h.Len())
	}
	if v, _ := h.At("2026-03-01"); !v.Equal(d(250)) {
		t.Errorf("At = %s, want the replaced value 250", v)
	}
}

func TestNetWorthSeries(t *testing.T) {
	h := NewHistory([]ledger.Snapshot{
		{Day: "2026-03-02", NetWorth: d(90000)},
		{Day: "2026-03-04", NetWorth: d(92000)},
	})

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)

	pts := NetWorthSeries(h, from, to)

	want := []Point{
		{Day: "2026-03-02", NetWorth: d(90000)},
		{Day: "2026-03-03", NetWorth: d(90000)},
		{Day: "2026-03-04", NetWorth: d(92000)},
		{Day: "2026-03-05", NetWorth: d(92000)},
	}
	if len(pts) != len(want) {
		t.Fatalf("len = %d, want %d (%+v)", len(pts), len(want), pts)
	}
	for i := range want {
		if pts[i].Day != want[i].Day || !pts[i].NetWorth.Equal(want[i].NetWorth) {
			t.Errorf("point %d = %+v, want %+v", i, pts[i], want[i])
		}
	}
}
