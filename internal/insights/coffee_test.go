package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doughdash/backend/internal/ledger"
)

func TestAssessCoffeeNoData(t *testing.T) {
	got := AssessCoffee(nil, DefaultCoffeeConfig())
	assert.False(t, got.OK)
	assert.Equal(t, ReasonNoData, got.Reason)
	assert.Empty(t, got.Suggestions)
}

func TestAssessCoffeeNoCoffeeFound(t *testing.T) {
	txs := []ledger.Transaction{
		tx("2025-09-02", "SAFEWAY", "Groceries", 65),
		tx("2025-09-05", "SHELL GAS", "Transport", 40),
	}
	got := AssessCoffee(txs, DefaultCoffeeConfig())
	assert.True(t, got.OK)
	assert.Equal(t, ReasonNoCoffeeFound, got.Reason)
	assert.Contains(t, got.Answer, "not overspending")
}

func TestAssessCoffeeModerateMonthLooksReasonable(t *testing.T) {
	// Five visits totaling $25.60 in a 30-day month: under the $75 cap,
	// ~1.2 visits/week, no surge baseline. Nothing should fire.
	txs := []ledger.Transaction{
		tx("2025-09-01", "STARBUCKS", "Coffee", 5.75),
		tx("2025-09-06", "STARBUCKS", "Coffee", 4.95),
		tx("2025-09-13", "STARBUCKS", "Coffee", 5.25),
		tx("2025-09-20", "STARBUCKS", "Coffee", 4.70),
		tx("2025-09-27", "STARBUCKS", "Coffee", 4.95),
	}

	got := AssessCoffee(txs, DefaultCoffeeConfig())
	require.True(t, got.OK)
	assert.Equal(t, ReasonLooksReasonable, got.Reason)
	assert.Equal(t, "No — your coffee spending looks reasonable right now.", got.Answer)
	assert.Equal(t, ledger.Period("2025-09"), got.Details.Month)
	assert.Equal(t, 25.6, got.Details.MonthlyTotal)
	assert.Equal(t, 5, got.Details.MonthlyCount)
	assert.Equal(t, 1.2, got.Details.VisitsPerWeek)
	assert.Empty(t, got.Details.Flags)
}

func TestAssessCoffeeOverMonthlyCap(t *testing.T) {
	// Twenty $5 visits is $100 against a $75 cap.
	var txs []ledger.Transaction
	for day := 1; day <= 20; day++ {
		txs = append(txs, tx(dateFor(day), "STARBUCKS", "Coffee", 5))
	}

	got := AssessCoffee(txs, DefaultCoffeeConfig())
	require.True(t, got.OK)
	assert.Equal(t, ReasonOverspending, got.Reason)
	assert.Equal(t, "Yes — you're likely overspending on coffee.", got.Answer)
	assert.Equal(t, 100.0, got.Details.MonthlyTotal)
	assert.NotEmpty(t, got.Details.Flags)
	require.NotEmpty(t, got.Suggestions)
	assert.LessOrEqual(t, len(got.Suggestions), 3)
	for i := 1; i < len(got.Suggestions); i++ {
		assert.GreaterOrEqual(t, got.Suggestions[i-1].EstMonthlySave, got.Suggestions[i].EstMonthlySave)
	}
}

func dateFor(day int) string {
	return ledger.Period("2025-09").Time().AddDate(0, 0, day-1).Format("2006-01-02")
}

func TestAssessCoffeeSurgeVsTrailingAverage(t *testing.T) {
	txs := []ledger.Transaction{
		tx("2025-07-05", "PHILZ", "Coffee", 20),
		tx("2025-08-05", "PHILZ", "Coffee", 20),
		tx("2025-09-05", "PHILZ", "Coffee", 60),
	}

	got := AssessCoffee(txs, DefaultCoffeeConfig())
	require.True(t, got.OK)
	assert.Equal(t, ReasonOverspending, got.Reason)
	require.Len(t, got.Details.Flags, 1)
	assert.Contains(t, got.Details.Flags[0], "3-month average")
}

func TestAssessCoffeeMatchesMerchantKeyword(t *testing.T) {
	txs := []ledger.Transaction{
		tx("2025-09-02", "BLUE BOTTLE OAK", "Uncategorized", 6.50),
	}
	got := AssessCoffee(txs, DefaultCoffeeConfig())
	assert.NotEqual(t, ReasonNoCoffeeFound, got.Reason)
	assert.Equal(t, 1, got.Details.MonthlyCount)
}

func TestCoffeeSpendInsightYearlyFraming(t *testing.T) {
	expenses := expenseList(
		tx("2025-09-02", "STARBUCKS", "Coffee", 30),
		tx("2025-08-02", "STARBUCKS", "Coffee", 99), // other month excluded
	)
	got := CoffeeSpendInsight(expenses, "2025-09")
	assert.Equal(t, 30.0, got.Spend)
	assert.Contains(t, got.Message, "$216/yr")
}
