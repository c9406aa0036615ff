package store

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/ledger"
	_ "modernc.org/sqlite"
)

type AccountFilter struct {
	Type           ledger.AccountType
	Currency       ledger.Currency
	IncludeDeleted bool
}

type TxnFilter struct {
	AccountID  string // matches source or destination
	Type       ledger.TxType
	Categories []string
	Start      time.Time // inclusive
	End        time.Time // exclusive
	Limit      int
	Offset     int
}

type SubscriptionFilter struct {
	AccountID  string
	ActiveOnly bool
}

// Store wraps the SQLite database. The writer pool is capped at one
// connection so every mutating batch is serialized; readers scale with the
// CPU count.
type Store struct {
	writer *sql.DB
	reader *sql.DB
}

func Open(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(runtime.NumCPU())

	s := &Store{writer: writer, reader: reader}

	if err := s.migrate(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	err1 := s.writer.Close()
	err2 := s.reader.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// querier lets the scan helpers run against either a pool or an open tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTimePtr(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseTime(s.String)
	return &t
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}
	}
	return d
}

func decimalPtrArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseDecimalPtr(s sql.NullString) *decimal.Decimal {
	if !s.Valid {
		return nil
	}
	d := parseDecimal(s.String)
	return &d
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
