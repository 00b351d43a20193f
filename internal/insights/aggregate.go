package insights

import (
	"sort"

	"github.com/doughdash/backend/internal/ledger"
)

// Expenses filters a snapshot down to expense-side transactions.
func Expenses(txs []ledger.Transaction) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.IsExpense() {
			out = append(out, t)
		}
	}
	return out
}

// CurrentPeriod returns the most recent period with any expense activity.
// The second return is false for an empty snapshot.
func CurrentPeriod(expenses []ledger.Transaction) (ledger.Period, bool) {
	var cur ledger.Period
	for _, t := range expenses {
		if p := ledger.PeriodOf(t.Date); p > cur {
			cur = p
		}
	}
	return cur, cur != ""
}

// GroupKey selects the dimension for a breakdown.
type GroupKey int

const (
	ByCategory GroupKey = iota
	ByMerchant
)

// Breakdown sums expense amounts for one period grouped by category or
// merchant.
func Breakdown(expenses []ledger.Transaction, period ledger.Period, key GroupKey) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range expenses {
		if ledger.PeriodOf(t.Date) != period {
			continue
		}
		switch key {
		case ByMerchant:
			out[t.Merchant] += t.Amount
		default:
			out[t.Category] += t.Amount
		}
	}
	return out
}

// PeriodTotal sums all expense amounts within one period.
func PeriodTotal(expenses []ledger.Transaction, period ledger.Period) float64 {
	var total float64
	for _, t := range expenses {
		if ledger.PeriodOf(t.Date) == period {
			total += t.Amount
		}
	}
	return total
}

// Ranked is one row of a spend-ordered breakdown.
type Ranked struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// Rank orders a breakdown by total descending; ties break on name ascending
// so output is deterministic. limit <= 0 keeps every row.
func Rank(totals map[string]float64, limit int) []Ranked {
	out := make([]Ranked, 0, len(totals))
	for name, total := range totals {
		out = append(out, Ranked{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MonthlySeries returns a dense trailing window of monthly expense totals
// ending at the latest period with data (or anchor when empty). Months with
// no activity report zero.
func MonthlySeries(expenses []ledger.Transaction, months int, anchor ledger.Period) ([]ledger.Period, []float64) {
	if cur, ok := CurrentPeriod(expenses); ok {
		anchor = cur
	}
	if months <= 0 || anchor == "" {
		return nil, nil
	}

	totals := make(map[ledger.Period]float64)
	for _, t := range expenses {
		totals[ledger.PeriodOf(t.Date)] += t.Amount
	}

	periods := make([]ledger.Period, months)
	values := make([]float64, months)
	p := anchor
	for i := months - 1; i >= 0; i-- {
		periods[i] = p
		values[i] = totals[p]
		p = p.Prev()
	}
	return periods, values
}

// MonthlyCategorySeries returns per-category totals aligned to the given
// period order, zero-filled for missing months.
func MonthlyCategorySeries(expenses []ledger.Transaction, order []ledger.Period) map[string][]float64 {
	byCat := make(map[string]map[ledger.Period]float64)
	for _, t := range expenses {
		m := byCat[t.Category]
		if m == nil {
			m = make(map[ledger.Period]float64)
			byCat[t.Category] = m
		}
		m[ledger.PeriodOf(t.Date)] += t.Amount
	}

	out := make(map[string][]float64, len(byCat))
	for cat, m := range byCat {
		series := make([]float64, len(order))
		for i, p := range order {
			series[i] = m[p]
		}
		out[cat] = series
	}
	return out
}
