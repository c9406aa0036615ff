package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thedev09/fintrack/internal/ledger"
)

// UpsertSnapshot records the net-worth point for a day, replacing any
// existing value. The feed is externally supplied; one row per ISO date.
func (s *Store) UpsertSnapshot(ctx context.Context, snap ledger.Snapshot) error {
	day, err := ledger.ParseSnapshotDay(snap.Day)
	if err != nil {
		return fmt.Errorf("parse snapshot day: %w", err)
	}

	_, err = s.writer.ExecContext(ctx,
		`INSERT INTO snapshots (day, net_worth, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(day) DO UPDATE SET net_worth = excluded.net_worth`,
		day, snap.NetWorth.String(), formatTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *Store) GetSnapshot(ctx context.Context, day string) (*ledger.Snapshot, error) {
	var snap ledger.Snapshot
	var netWorth, createdAt string
	err := s.reader.QueryRowContext(ctx,
		`SELECT day, net_worth, created_at FROM snapshots WHERE day = ?`, day,
	).Scan(&snap.Day, &netWorth, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	snap.NetWorth = parseDecimal(netWorth)
	snap.CreatedAt = parseTime(createdAt)
	return &snap, nil
}

// ListSnapshots returns snapshots in day order, optionally bounded by
// inclusive ISO-date strings. Empty bounds are open.
func (s *Store) ListSnapshots(ctx context.Context, from, to string) ([]ledger.Snapshot, error) {
	query := `SELECT day, net_worth, created_at FROM snapshots WHERE 1=1`
	args := []any{}

	if from != "" {
		query += ` AND day >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND day <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY day`

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []ledger.Snapshot
	for rows.Next() {
		var snap ledger.Snapshot
		var netWorth, createdAt string
		if err := rows.Scan(&snap.Day, &netWorth, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.NetWorth = parseDecimal(netWorth)
		snap.CreatedAt = parseTime(createdAt)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *Store) DeleteSnapshot(ctx context.Context, day string) error {
	res, err := s.writer.ExecContext(ctx, `DELETE FROM snapshots WHERE day = ?`, day)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ledger.ErrSnapshotNotFound
	}
	return nil
}
