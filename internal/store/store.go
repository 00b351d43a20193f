// Package store holds the transaction set the analytics core reads from.
// Implementations expose atomically versioned snapshots: readers observe
// either the dataset before or after a mutation, never a partial write.
package store

import (
	"context"
	"time"

	"github.com/doughdash/backend/internal/ledger"
)

// Meta describes the current dataset epoch. Version increases monotonically
// on every mutation so callers know when to recompute.
type Meta struct {
	Version     int64     `json:"version"`
	Rows        int       `json:"records"`
	LastUpdated time.Time `json:"last_updated"`
}

// Store defines the operations the service and its consumers need.
type Store interface {
	// Transactions returns a consistent copy of the current dataset.
	Transactions(ctx context.Context) ([]ledger.Transaction, error)

	// Meta returns the current dataset version without copying rows.
	Meta(ctx context.Context) (Meta, error)

	// Replace swaps the whole dataset, assigning IDs to rows lacking one,
	// and bumps the version.
	Replace(ctx context.Context, txs []ledger.Transaction) (Meta, error)

	// Clear empties the dataset and bumps the version.
	Clear(ctx context.Context) (Meta, error)
}
