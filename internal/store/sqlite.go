package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/doughdash/backend/internal/ledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id       TEXT PRIMARY KEY,
	date     TEXT NOT NULL,
	merchant TEXT NOT NULL,
	category TEXT NOT NULL,
	amount   REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS dataset_meta (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	version      INTEGER NOT NULL,
	last_updated TEXT NOT NULL
);
INSERT OR IGNORE INTO dataset_meta (id, version, last_updated) VALUES (1, 0, '');
`

// SQLiteStore implements Store on a single SQLite file. Mutations run in a
// transaction that also bumps the version row, so snapshots stay atomic.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// applies the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, merchant, category, amount FROM transactions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		var t ledger.Transaction
		var date string
		if err := rows.Scan(&t.ID, &date, &t.Merchant, &t.Category, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Meta(ctx context.Context) (Meta, error) {
	var meta Meta
	var updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT version, last_updated FROM dataset_meta WHERE id = 1`).Scan(&meta.Version, &updated)
	if err != nil {
		return Meta{}, fmt.Errorf("query meta: %w", err)
	}
	if updated != "" {
		meta.LastUpdated, err = time.Parse(time.RFC3339, updated)
		if err != nil {
			return Meta{}, fmt.Errorf("parse last_updated: %w", err)
		}
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&meta.Rows); err != nil {
		return Meta{}, fmt.Errorf("count transactions: %w", err)
	}
	return meta, nil
}

func (s *SQLiteStore) Replace(ctx context.Context, txs []ledger.Transaction) (Meta, error) {
	return s.mutate(ctx, func(tx *sql.Tx) (int, error) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return 0, fmt.Errorf("delete transactions: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO transactions (id, date, merchant, category, amount) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range txs {
			id := t.ID
			if id == "" {
				id = uuid.New().String()
			}
			if _, err := stmt.ExecContext(ctx, id, t.Date.UTC().Format(time.RFC3339), t.Merchant, t.Category, t.Amount); err != nil {
				return 0, fmt.Errorf("insert transaction: %w", err)
			}
		}
		return len(txs), nil
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) (Meta, error) {
	return s.mutate(ctx, func(tx *sql.Tx) (int, error) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return 0, fmt.Errorf("delete transactions: %w", err)
		}
		return 0, nil
	})
}

// mutate runs fn and the version bump in one transaction.
func (s *SQLiteStore) mutate(ctx context.Context, fn func(tx *sql.Tx) (int, error)) (Meta, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Meta{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := fn(tx)
	if err != nil {
		return Meta{}, err
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE dataset_meta SET version = version + 1, last_updated = ? WHERE id = 1`,
		now.Format(time.RFC3339)); err != nil {
		return Meta{}, fmt.Errorf("bump version: %w", err)
	}
	var version int64
	if err := tx.QueryRowContext(ctx, `SELECT version FROM dataset_meta WHERE id = 1`).Scan(&version); err != nil {
		return Meta{}, fmt.Errorf("read version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Meta{}, fmt.Errorf("commit: %w", err)
	}

	slog.Info("dataset mutated", "rows", rows, "version", version)
	return Meta{Version: version, Rows: rows, LastUpdated: now}, nil
}
