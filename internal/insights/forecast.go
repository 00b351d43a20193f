package insights

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/doughdash/backend/internal/ledger"
)

var msgPrinter = message.NewPrinter(language.AmericanEnglish)

// Forecast describes whether a monthly surplus reaches a savings goal in
// time. Surplus may be negative when expenses exceed income.
type Forecast struct {
	OnTrack      bool    `json:"on_track"`
	Surplus      float64 `json:"surplus"`
	Gap          float64 `json:"gap"`            // required monthly saving minus surplus
	NeedPerMonth float64 `json:"need_per_month"` // max(0, gap)
	Message      string  `json:"message"`
}

// ComputeForecast projects income minus currentExpense against a goal over
// monthsToGoal months. monthsToGoal must be positive; anything else is an
// invalid-input error, never a division by zero.
func ComputeForecast(incomeMonthly, currentExpense, goalAmount float64, monthsToGoal int) (Forecast, error) {
	if monthsToGoal <= 0 {
		return Forecast{}, invalidInputf("months_to_goal must be positive, got %d", monthsToGoal)
	}

	surplus := incomeMonthly - currentExpense
	required := goalAmount / float64(monthsToGoal)
	gap := required - surplus
	onTrack := gap <= 0.01
	need := math.Max(0, gap)

	var msg string
	if onTrack {
		msg = msgPrinter.Sprintf("You're on track! A surplus of $%.0f/mo covers the $%.0f/mo your goal needs.", surplus, required)
	} else {
		msg = msgPrinter.Sprintf("Need about $%.0f/mo more to hit $%.0f in %d months.", need, goalAmount, monthsToGoal)
	}

	return Forecast{
		OnTrack:      onTrack,
		Surplus:      round2(surplus),
		Gap:          round2(gap),
		NeedPerMonth: round2(need),
		Message:      msg,
	}, nil
}

// WhatIfResult reports a hypothetical forecast after per-category cuts.
type WhatIfResult struct {
	Period         ledger.Period      `json:"period,omitempty"`
	CurrentExpense float64            `json:"current_expense"`
	NewExpense     float64            `json:"new_expense"`
	Applied        map[string]float64 `json:"applied"`
	Forecast       Forecast           `json:"forecast"`
}

// SimulateWhatIf re-runs the forecast with the latest month's expenses
// reduced by the requested per-category cuts. A cut is clamped to the
// category's actual spend, so the simulated total can never go negative.
// The underlying snapshot is never modified.
func SimulateWhatIf(txs []ledger.Transaction, cuts map[string]float64, incomeMonthly, goalAmount float64, monthsToGoal int) (WhatIfResult, error) {
	expenses := Expenses(txs)
	cur, ok := CurrentPeriod(expenses)
	if !ok {
		fc, err := ComputeForecast(incomeMonthly, 0, goalAmount, monthsToGoal)
		if err != nil {
			return WhatIfResult{}, err
		}
		return WhatIfResult{Applied: map[string]float64{}, Forecast: fc}, nil
	}

	byCat := Breakdown(expenses, cur, ByCategory)
	applied := make(map[string]float64)
	var curTotal, reduced float64
	for cat, amt := range byCat {
		curTotal += amt
		want := cuts[cat]
		take := math.Max(0, math.Min(want, amt))
		if take > 0 {
			applied[cat] = round2(take)
			reduced += take
		}
	}

	newExpense := math.Max(0, curTotal-reduced)
	fc, err := ComputeForecast(incomeMonthly, newExpense, goalAmount, monthsToGoal)
	if err != nil {
		return WhatIfResult{}, err
	}
	return WhatIfResult{
		Period:         cur,
		CurrentExpense: round2(curTotal),
		NewExpense:     round2(newExpense),
		Applied:        applied,
		Forecast:       fc,
	}, nil
}
