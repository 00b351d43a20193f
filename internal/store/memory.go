package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doughdash/backend/internal/ledger"
)

// MemoryStore implements Store with in-memory storage. A single RWMutex
// guards the dataset, so every read sees a whole epoch.
type MemoryStore struct {
	mu sync.RWMutex

	txs         []ledger.Transaction
	version     int64
	lastUpdated time.Time
}

// NewMemoryStore creates an empty in-memory store at version 0.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lastUpdated: time.Now().UTC()}
}

func (m *MemoryStore) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ledger.Transaction, len(m.txs))
	copy(out, m.txs)
	return out, nil
}

func (m *MemoryStore) Meta(ctx context.Context) (Meta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Meta{Version: m.version, Rows: len(m.txs), LastUpdated: m.lastUpdated}, nil
}

func (m *MemoryStore) Replace(ctx context.Context, txs []ledger.Transaction) (Meta, error) {
	next := make([]ledger.Transaction, len(txs))
	copy(next, txs)
	for i := range next {
		if next[i].ID == "" {
			next[i].ID = uuid.New().String()
		}
	}
	sort.SliceStable(next, func(i, j int) bool { return next[i].Date.Before(next[j].Date) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = next
	m.version++
	m.lastUpdated = time.Now().UTC()
	slog.Info("dataset replaced", "rows", len(next), "version", m.version)
	return Meta{Version: m.version, Rows: len(next), LastUpdated: m.lastUpdated}, nil
}

func (m *MemoryStore) Clear(ctx context.Context) (Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = nil
	m.version++
	m.lastUpdated = time.Now().UTC()
	slog.Info("dataset cleared", "version", m.version)
	return Meta{Version: m.version, LastUpdated: m.lastUpdated}, nil
}
