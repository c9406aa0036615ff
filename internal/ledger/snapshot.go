package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is one externally-supplied daily net-worth point, keyed by ISO
// date and denominated in INR. The net-worth report reads these; they are
// never derived from the transaction set.
type Snapshot struct {
	Day       string          `json:"day"` // YYYY-MM-DD
	NetWorth  decimal.Decimal `json:"net_worth"`
	CreatedAt time.Time       `json:"created_at"`
}

const SnapshotDayLayout = "2006-01-02"

// ParseSnapshotDay validates and normalizes an ISO day string.
func ParseSnapshotDay(s string) (string, error) {
	t, err := time.Parse(SnapshotDayLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(SnapshotDayLayout), nil
}
