package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doughdash/backend/internal/ledger"
)

func day(date string) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMemoryStoreReplaceBumpsVersion(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	meta, err := s.Meta(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), meta.Version)
	assert.Equal(t, 0, meta.Rows)

	meta, err = s.Replace(ctx, []ledger.Transaction{
		{Date: day("2025-09-10"), Merchant: "SAFEWAY", Category: "Groceries", Amount: 65},
		{Date: day("2025-09-02"), Merchant: "STARBUCKS", Category: "Coffee", Amount: 4.95},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Version)
	assert.Equal(t, 2, meta.Rows)

	meta, err = s.Replace(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Version)
	assert.Equal(t, 0, meta.Rows)
}

func TestMemoryStoreAssignsIDsAndSortsByDate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Replace(ctx, []ledger.Transaction{
		{Date: day("2025-09-10"), Merchant: "SAFEWAY", Amount: 65},
		{ID: "keep-me", Date: day("2025-09-02"), Merchant: "STARBUCKS", Amount: 4.95},
	})
	require.NoError(t, err)

	txs, err := s.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "keep-me", txs[0].ID)
	assert.Equal(t, "STARBUCKS", txs[0].Merchant)
	assert.NotEmpty(t, txs[1].ID)
	assert.True(t, txs[0].Date.Before(txs[1].Date))
}

func TestMemoryStoreReadIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Replace(ctx, []ledger.Transaction{
		{Date: day("2025-09-02"), Merchant: "STARBUCKS", Amount: 4.95},
	})
	require.NoError(t, err)

	first, err := s.Transactions(ctx)
	require.NoError(t, err)
	first[0].Merchant = "TAMPERED"

	second, err := s.Transactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "STARBUCKS", second[0].Merchant)
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Replace(ctx, []ledger.Transaction{
		{Date: day("2025-09-02"), Merchant: "STARBUCKS", Amount: 4.95},
	})
	require.NoError(t, err)

	meta, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Version)
	assert.Equal(t, 0, meta.Rows)

	txs, err := s.Transactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}
