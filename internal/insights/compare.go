package insights

import (
	"sort"

	"github.com/doughdash/backend/internal/ledger"
)

// CategoryDelta compares one category's spend between the latest month and
// the month before it.
type CategoryDelta struct {
	Category  string  `json:"category"`
	ThisMonth float64 `json:"this_month"`
	PrevMonth float64 `json:"prev_month"`
	Delta     float64 `json:"delta"`
}

// CompareCategories returns per-category current-vs-previous month deltas,
// sorted by current spend descending. It needs at least two months of
// history; otherwise the list is empty.
func CompareCategories(expenses []ledger.Transaction, current ledger.Period) []CategoryDelta {
	prev := current.Prev()
	cur := Breakdown(expenses, current, ByCategory)
	before := Breakdown(expenses, prev, ByCategory)
	if len(before) == 0 {
		return nil
	}

	names := make(map[string]bool)
	for c := range cur {
		names[c] = true
	}
	for c := range before {
		names[c] = true
	}

	out := make([]CategoryDelta, 0, len(names))
	for c := range names {
		t := cur[c]
		p := before[c]
		out = append(out, CategoryDelta{
			Category:  c,
			ThisMonth: round2(t),
			PrevMonth: round2(p),
			Delta:     round2(t - p),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ThisMonth != out[j].ThisMonth {
			return out[i].ThisMonth > out[j].ThisMonth
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TrimSuggestion proposes cutting part of one category's current spend.
type TrimSuggestion struct {
	Category     string  `json:"category"`
	Current      float64 `json:"current"`
	SuggestedCut float64 `json:"suggested_cut"`
}

// SuggestTrims greedily proposes cuts from the largest current-month
// categories until the monthly gap is covered: 20% for categories spending
// $200 or more, 10% otherwise, skipping trims under $5.
func SuggestTrims(expenses []ledger.Transaction, neededPerMonth float64) []TrimSuggestion {
	if neededPerMonth <= 0 {
		return nil
	}
	cur, ok := CurrentPeriod(expenses)
	if !ok {
		return nil
	}
	ranked := Rank(Breakdown(expenses, cur, ByCategory), 0)

	remaining := neededPerMonth
	var out []TrimSuggestion
	for _, r := range ranked {
		if remaining <= 0 {
			break
		}
		pct := 0.1
		if r.Total >= 200 {
			pct = 0.2
		}
		cut := r.Total * pct
		if cut > remaining {
			cut = remaining
		}
		if cut < 5 {
			continue
		}
		out = append(out, TrimSuggestion{
			Category:     r.Name,
			Current:      round2(r.Total),
			SuggestedCut: round2(cut),
		})
		remaining -= cut
	}
	return out
}
