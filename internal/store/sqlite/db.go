// Package sqlite persists the ledger in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id                  TEXT PRIMARY KEY,
	owner_id            TEXT NOT NULL,
	number              TEXT NOT NULL,
	name                TEXT NOT NULL DEFAULT '',
	client_name         TEXT NOT NULL DEFAULT '',
	client_inn          TEXT NOT NULL DEFAULT '',
	currency            TEXT NOT NULL DEFAULT '',
	current_balance     TEXT,
	last_statement_date TEXT,
	created_at          TEXT NOT NULL,
	updated_at          TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS accounts_owner_number ON accounts (owner_id, number);

CREATE TABLE IF NOT EXISTS account_balances (
	id           TEXT PRIMARY KEY,
	account_id   TEXT NOT NULL,
	balance_date TEXT NOT NULL,
	amount       TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS account_balances_account_date ON account_balances (account_id, balance_date);

CREATE TABLE IF NOT EXISTS transactions (
	id                TEXT PRIMARY KEY,
	owner_id          TEXT NOT NULL,
	account_id        TEXT,
	file_id           TEXT,
	external_id       TEXT NOT NULL,
	document_number   TEXT NOT NULL DEFAULT '',
	document_date     TEXT NOT NULL,
	transaction_date  TEXT NOT NULL,
	amount            TEXT NOT NULL,
	currency          TEXT NOT NULL,
	payer_name        TEXT NOT NULL DEFAULT '',
	payer_inn         TEXT NOT NULL DEFAULT '',
	payer_account     TEXT NOT NULL DEFAULT '',
	recipient_name    TEXT NOT NULL DEFAULT '',
	recipient_inn     TEXT NOT NULL DEFAULT '',
	recipient_account TEXT NOT NULL DEFAULT '',
	payment_purpose   TEXT NOT NULL DEFAULT '',
	account_number    TEXT NOT NULL DEFAULT '',
	direction         TEXT NOT NULL,
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS transactions_owner_external_id ON transactions (owner_id, external_id);
CREATE INDEX IF NOT EXISTS transactions_account ON transactions (account_id);

CREATE TABLE IF NOT EXISTS uploaded_files (
	id            TEXT PRIMARY KEY,
	owner_id      TEXT NOT NULL,
	file_name     TEXT NOT NULL,
	bank_type     TEXT NOT NULL,
	format        TEXT NOT NULL DEFAULT '',
	size          INTEGER NOT NULL DEFAULT 0,
	status        TEXT NOT NULL,
	total         INTEGER NOT NULL DEFAULT 0,
	imported      INTEGER NOT NULL DEFAULT 0,
	updated       INTEGER NOT NULL DEFAULT 0,
	skipped       INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	uploaded_at   TEXT NOT NULL,
	processed_at  TEXT
);
CREATE INDEX IF NOT EXISTS uploaded_files_owner ON uploaded_files (owner_id);
`

// Open opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if path == MemoryPath {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates missing tables and indexes.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

func dsn(path string) string {
	if path == MemoryPath {
		return MemoryPath
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
