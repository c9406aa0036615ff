package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		// Accounts. Amounts and balances are decimal strings; times are
		// RFC3339Nano UTC. Accounts are soft-deleted only, so transaction
		// references stay resolvable forever.
		`CREATE TABLE IF NOT EXISTS accounts (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			type             TEXT NOT NULL CHECK (type IN ('bank','crypto')),
			subtype          TEXT NOT NULL DEFAULT '',
			currency         TEXT NOT NULL CHECK (currency IN ('INR','USD')),
			balance          TEXT NOT NULL DEFAULT '0',
			is_deleted       INTEGER NOT NULL DEFAULT 0,
			deleted_at       TEXT,
			display_order    INTEGER NOT NULL DEFAULT 0,
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL,
			last_activity_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_deleted ON accounts(is_deleted)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_order ON accounts(display_order)`,

		// Transactions.
		`CREATE TABLE IF NOT EXISTS transactions (
			id                 TEXT PRIMARY KEY,
			type               TEXT NOT NULL CHECK (type IN ('income','expense','transfer','adjustment')),
			amount             TEXT NOT NULL,
			currency           TEXT NOT NULL,
			exchange_rate      TEXT NOT NULL,
			account_id         TEXT NOT NULL REFERENCES accounts(id),
			to_account_id      TEXT REFERENCES accounts(id),
			converted_amount   TEXT,
			to_currency        TEXT,
			category           TEXT NOT NULL,
			payment_mode       TEXT NOT NULL DEFAULT '',
			notes              TEXT NOT NULL DEFAULT '',
			is_increase        INTEGER NOT NULL DEFAULT 0,
			previous_balance   TEXT,
			new_balance        TEXT,
			date               TEXT NOT NULL,
			account_deleted    INTEGER NOT NULL DEFAULT 0,
			account_deleted_at TEXT,
			created_at         TEXT NOT NULL,
			updated_at         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_txns_account ON transactions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_txns_to_account ON transactions(to_account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_txns_date ON transactions(date)`,
		`CREATE INDEX IF NOT EXISTS idx_txns_type ON transactions(type)`,
		`CREATE INDEX IF NOT EXISTS idx_txns_category ON transactions(category)`,

		// Subscriptions.
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id                  TEXT PRIMARY KEY,
			name                TEXT NOT NULL,
			amount              TEXT NOT NULL,
			currency            TEXT NOT NULL,
			account_id          TEXT NOT NULL REFERENCES accounts(id),
			payment_mode        TEXT NOT NULL DEFAULT '',
			billing_cycle       TEXT NOT NULL CHECK (billing_cycle IN ('monthly','quarterly','yearly')),
			next_billing_date   TEXT NOT NULL,
			last_processed_date TEXT,
			auto_renew          INTEGER NOT NULL DEFAULT 1,
			notify              INTEGER NOT NULL DEFAULT 0,
			active              INTEGER NOT NULL DEFAULT 1,
			total_spent         TEXT NOT NULL DEFAULT '0',
			transaction_count   INTEGER NOT NULL DEFAULT 0,
			created_at          TEXT NOT NULL,
			updated_at          TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_subs_active_due ON subscriptions(active, next_billing_date)`,

		// Daily net-worth snapshots, an externally-supplied feed.
		`CREATE TABLE IF NOT EXISTS snapshots (
			day        TEXT PRIMARY KEY,
			net_worth  TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %.60q: %w", stmt, err)
		}
	}

	return nil
}
