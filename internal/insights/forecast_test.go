package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doughdash/backend/internal/ledger"
)

func TestComputeForecastOnTrack(t *testing.T) {
	fc, err := ComputeForecast(1800, 1200, 3000, 10)
	require.NoError(t, err)
	assert.True(t, fc.OnTrack)
	assert.Equal(t, 600.0, fc.Surplus)
	assert.Equal(t, -300.0, fc.Gap)
	assert.Equal(t, 0.0, fc.NeedPerMonth)
	assert.Contains(t, fc.Message, "on track")
}

func TestComputeForecastBehind(t *testing.T) {
	fc, err := ComputeForecast(1800, 1700, 3000, 10)
	require.NoError(t, err)
	assert.False(t, fc.OnTrack)
	assert.Equal(t, 100.0, fc.Surplus)
	assert.Equal(t, 200.0, fc.Gap)
	assert.Equal(t, 200.0, fc.NeedPerMonth)
	assert.Contains(t, fc.Message, "Need about")
}

func TestComputeForecastZeroMonthsRejected(t *testing.T) {
	for _, months := range []int{0, -3} {
		_, err := ComputeForecast(2000, 1500, 3000, months)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestComputeForecastNegativeSurplus(t *testing.T) {
	fc, err := ComputeForecast(1000, 1500, 1200, 12)
	require.NoError(t, err)
	assert.False(t, fc.OnTrack)
	assert.Equal(t, -500.0, fc.Surplus)
	assert.Equal(t, 600.0, fc.NeedPerMonth)
}

func TestSimulateWhatIfClampsCuts(t *testing.T) {
	txs := []ledger.Transaction{
		tx("2025-09-02", "STARBUCKS", "Coffee", 30),
		tx("2025-09-10", "SAFEWAY", "Groceries", 200),
	}

	res, err := SimulateWhatIf(txs, map[string]float64{
		"Coffee":    500, // more than the category's spend
		"Groceries": 50,
		"Transport": 40, // no spend this month
	}, 1800, 3000, 10)
	require.NoError(t, err)

	assert.Equal(t, ledger.Period("2025-09"), res.Period)
	assert.Equal(t, 230.0, res.CurrentExpense)
	assert.Equal(t, 150.0, res.NewExpense)
	assert.Equal(t, map[string]float64{"Coffee": 30, "Groceries": 50}, res.Applied)
	assert.GreaterOrEqual(t, res.NewExpense, 0.0)
}

func TestSimulateWhatIfTotalNeverNegative(t *testing.T) {
	txs := []ledger.Transaction{
		tx("2025-09-02", "STARBUCKS", "Coffee", 30),
	}
	res, err := SimulateWhatIf(txs, map[string]float64{"Coffee": 1e9}, 1800, 3000, 10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.NewExpense)
}

func TestSimulateWhatIfEmptySnapshot(t *testing.T) {
	res, err := SimulateWhatIf(nil, map[string]float64{"Coffee": 20}, 1800, 3000, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Applied)
	assert.Equal(t, 0.0, res.CurrentExpense)
	assert.True(t, res.Forecast.OnTrack)
}

func TestSimulateWhatIfPropagatesInvalidMonths(t *testing.T) {
	txs := []ledger.Transaction{tx("2025-09-02", "STARBUCKS", "Coffee", 30)}
	_, err := SimulateWhatIf(txs, nil, 1800, 3000, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
