package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doughdash/backend/internal/ledger"
)

func TestComputeHealthScoreEmptySnapshot(t *testing.T) {
	got := ComputeHealthScore(nil, 1800, DefaultConfig())
	assert.Equal(t, 50, got.Score)
	assert.Empty(t, got.Signals)
	assert.NotEmpty(t, got.Explain)
}

func TestComputeHealthScoreBounds(t *testing.T) {
	tests := []struct {
		name   string
		txs    []ledger.Transaction
		income float64
	}{
		{
			name: "heavy overspend",
			txs: []ledger.Transaction{
				tx("2025-09-01", "CASINO", "Entertainment", 9000),
			},
			income: 100,
		},
		{
			name: "frugal month",
			txs: []ledger.Transaction{
				tx("2025-09-01", "SAFEWAY", "Groceries", 40),
			},
			income: 5000,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeHealthScore(tc.txs, tc.income, DefaultConfig())
			assert.GreaterOrEqual(t, got.Score, 0)
			assert.LessOrEqual(t, got.Score, 100)
			for _, s := range got.Signals {
				assert.GreaterOrEqual(t, s.Value, 0)
				assert.LessOrEqual(t, s.Value, 100)
			}
		})
	}
}

func TestComputeHealthScoreOmitsSavingsWithoutIncome(t *testing.T) {
	txs := []ledger.Transaction{
		tx("2025-08-01", "SAFEWAY", "Groceries", 60),
		tx("2025-09-01", "SAFEWAY", "Groceries", 65),
	}

	withIncome := ComputeHealthScore(txs, 1800, DefaultConfig())
	withoutIncome := ComputeHealthScore(txs, 0, DefaultConfig())

	names := func(hs HealthScore) []string {
		out := make([]string, len(hs.Signals))
		for i, s := range hs.Signals {
			out[i] = s.Name
		}
		return out
	}
	assert.Contains(t, names(withIncome), "Savings Rate")
	assert.NotContains(t, names(withoutIncome), "Savings Rate")
	require.Len(t, withoutIncome.Signals, 3)
}

func TestComputeHealthScoreHigherSavingsScoresHigher(t *testing.T) {
	spend := []ledger.Transaction{
		tx("2025-09-01", "SAFEWAY", "Groceries", 900),
	}
	low := ComputeHealthScore(spend, 1000, DefaultConfig())
	high := ComputeHealthScore(spend, 5000, DefaultConfig())
	assert.Greater(t, high.Score, low.Score)
}

func signalValue(t *testing.T, hs HealthScore, name string) int {
	t.Helper()
	for _, s := range hs.Signals {
		if s.Name == name {
			return s.Value
		}
	}
	t.Fatalf("signal %q not found", name)
	return 0
}

func TestComputeHealthScoreRecurringBurdenCurrentMonthOnly(t *testing.T) {
	base := []ledger.Transaction{
		tx("2025-06-03", "NETFLIX", "Entertainment", 15.49),
		tx("2025-07-03", "NETFLIX", "Entertainment", 15.49),
		tx("2025-09-05", "SAFEWAY", "Groceries", 60),
	}

	// NETFLIX last billed in July; nothing recurring hits September.
	got := ComputeHealthScore(base, 1800, DefaultConfig())
	assert.Equal(t, 100, signalValue(t, got, "Recurring Burden"))

	withSub := append(base, tx("2025-09-03", "NETFLIX", "Entertainment", 15.49))
	got = ComputeHealthScore(withSub, 1800, DefaultConfig())
	assert.Less(t, signalValue(t, got, "Recurring Burden"), 100)
}

func TestMonthlyVolatilityIgnoresEmptyMonths(t *testing.T) {
	// A gap month must not count as a zero-spend month; the two active
	// months have identical totals so volatility is zero.
	expenses := expenseList(
		tx("2025-06-10", "SAFEWAY", "Groceries", 100),
		tx("2025-09-10", "SAFEWAY", "Groceries", 100),
	)
	assert.Equal(t, 0.0, monthlyVolatility(expenses, 6))
}

func TestMonthlyVolatilitySingleMonthIsZero(t *testing.T) {
	expenses := expenseList(tx("2025-09-10", "SAFEWAY", "Groceries", 100))
	assert.Equal(t, 0.0, monthlyVolatility(expenses, 6))
}
