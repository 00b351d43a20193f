package insights

import (
	"sort"
	"strings"

	"github.com/doughdash/backend/internal/ledger"
)

// Subscription is one detected recurring charge: a merchant billing a
// near-constant amount in two or more distinct months.
type Subscription struct {
	Merchant string  `json:"merchant"`
	Charge   float64 `json:"charge"` // representative (median) charge
	Months   string  `json:"months"` // comma-joined "YYYY-MM" list
	Count    int     `json:"count"`  // distinct billing months

	// Periods holds the billing months for in-process consumers; the wire
	// form carries the rendered Months string instead.
	Periods []ledger.Period `json:"-"`
}

// DetectSubscriptions scans expense history for recurring charges. Per
// merchant it takes the median charge of each month, then clusters those
// monthly charges: a charge joins a cluster when it sits within
// absTol dollars or pctTol of the cluster's running median. Any cluster
// spanning at least two distinct months is reported. This tolerates small
// price drift (a $9.99 plan becoming $10.49) without an explicit merchant
// taxonomy.
func DetectSubscriptions(expenses []ledger.Transaction, absTol, pctTol float64) []Subscription {
	type monthCharge struct {
		period ledger.Period
		amount float64
	}

	// Median charge per merchant per month.
	amounts := make(map[string]map[ledger.Period][]float64)
	for _, t := range expenses {
		if t.Merchant == "" {
			continue
		}
		byPeriod := amounts[t.Merchant]
		if byPeriod == nil {
			byPeriod = make(map[ledger.Period][]float64)
			amounts[t.Merchant] = byPeriod
		}
		p := ledger.PeriodOf(t.Date)
		byPeriod[p] = append(byPeriod[p], t.Amount)
	}

	var subs []Subscription
	for merchant, byPeriod := range amounts {
		charges := make([]monthCharge, 0, len(byPeriod))
		for p, v := range byPeriod {
			charges = append(charges, monthCharge{period: p, amount: median(v)})
		}
		sort.Slice(charges, func(i, j int) bool { return charges[i].period < charges[j].period })

		type cluster struct {
			ref     float64
			amounts []float64
			periods []ledger.Period
		}
		var clusters []*cluster
		for _, mc := range charges {
			placed := false
			for _, c := range clusters {
				within := absDiff(mc.amount, c.ref) <= absTol ||
					(c.ref > 0 && absDiff(mc.amount, c.ref)/c.ref <= pctTol)
				if within {
					c.amounts = append(c.amounts, mc.amount)
					c.periods = append(c.periods, mc.period)
					c.ref = median(c.amounts)
					placed = true
					break
				}
			}
			if !placed {
				clusters = append(clusters, &cluster{
					ref:     mc.amount,
					amounts: []float64{mc.amount},
					periods: []ledger.Period{mc.period},
				})
			}
		}

		for _, c := range clusters {
			periods := uniquePeriods(c.periods)
			if len(periods) < 2 {
				continue
			}
			names := make([]string, len(periods))
			for i, p := range periods {
				names[i] = string(p)
			}
			subs = append(subs, Subscription{
				Merchant: merchant,
				Charge:   round2(median(c.amounts)),
				Months:   strings.Join(names, ", "),
				Count:    len(periods),
				Periods:  periods,
			})
		}
	}

	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Count != subs[j].Count {
			return subs[i].Count > subs[j].Count
		}
		return subs[i].Merchant < subs[j].Merchant
	})
	return subs
}

func uniquePeriods(in []ledger.Period) []ledger.Period {
	seen := make(map[ledger.Period]bool, len(in))
	var out []ledger.Period
	for _, p := range in {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
