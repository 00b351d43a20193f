package insights

import (
	"math"
	"sort"
	"time"

	"github.com/doughdash/backend/internal/ledger"
)

// Anomaly flags one expense whose amount deviates sharply from its peers.
type Anomaly struct {
	ID       string    `json:"id,omitempty"`
	Date     time.Time `json:"date"`
	Merchant string    `json:"merchant"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	ZScore   float64   `json:"z_score"`
}

// DetectAnomalies computes a z-score for each expense against a comparison
// group: other expenses in the same category (same merchant when the
// category group is too thin) within a trailing window of windowMonths
// before the expense's own period. When even the windowed group is too
// small the full history minus the transaction itself is used. A flag is
// raised only when the group has at least minSamples members, its stddev is
// positive, and |z| exceeds threshold. Results are ordered date descending,
// then |z| descending.
func DetectAnomalies(expenses []ledger.Transaction, threshold float64, minSamples, windowMonths int) []Anomaly {
	if minSamples < 1 {
		minSamples = 1
	}

	var out []Anomaly
	for i, t := range expenses {
		group := comparisonGroup(expenses, i, windowMonths, minSamples)
		if len(group) < minSamples {
			continue
		}
		m := mean(group)
		sd := stddev(group, m)
		if sd <= 0 {
			continue
		}
		z := (t.Amount - m) / sd
		if math.Abs(z) > threshold {
			out = append(out, Anomaly{
				ID:       t.ID,
				Date:     t.Date,
				Merchant: t.Merchant,
				Category: t.Category,
				Amount:   t.Amount,
				ZScore:   round2(z),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return math.Abs(out[i].ZScore) > math.Abs(out[j].ZScore)
	})
	return out
}

// comparisonGroup picks the peer amounts for expenses[idx]. Category peers
// win over merchant peers; the trailing window wins over full history.
func comparisonGroup(expenses []ledger.Transaction, idx, windowMonths, minSamples int) []float64 {
	target := expenses[idx]
	targetPeriod := ledger.PeriodOf(target.Date)
	windowStart := target.Date.AddDate(0, -windowMonths, 0)

	var catWindow, merchWindow, catAll, merchAll []float64
	for i, t := range expenses {
		if i == idx {
			continue
		}
		sameCat := t.Category != "" && t.Category == target.Category
		sameMerch := t.Merchant != "" && t.Merchant == target.Merchant
		if !sameCat && !sameMerch {
			continue
		}
		inWindow := !t.Date.Before(windowStart) && ledger.PeriodOf(t.Date) < targetPeriod
		if sameCat {
			catAll = append(catAll, t.Amount)
			if inWindow {
				catWindow = append(catWindow, t.Amount)
			}
		}
		if sameMerch {
			merchAll = append(merchAll, t.Amount)
			if inWindow {
				merchWindow = append(merchWindow, t.Amount)
			}
		}
	}

	for _, group := range [][]float64{catWindow, merchWindow, catAll, merchAll} {
		if len(group) >= minSamples {
			return group
		}
	}
	return nil
}
