package insights

import (
	"math"
	"sort"

	"github.com/doughdash/backend/internal/ledger"
)

// Signal is one normalized component of the health score.
type Signal struct {
	Name  string `json:"name"`
	Value int    `json:"value"` // 0-100
	Hint  string `json:"hint"`
}

// HealthScore is the composite 0-100 financial health rating.
type HealthScore struct {
	Score   int           `json:"score"`
	Period  ledger.Period `json:"period,omitempty"`
	Signals []Signal      `json:"signals"`
	Explain string        `json:"explain,omitempty"`
}

// Signal weights. They sum to 1; when income is unknown the savings-rate
// signal is omitted and the remaining weights are renormalized.
const (
	weightSavings    = 0.55
	weightVolatility = 0.15
	weightRecurring  = 0.20
	weightAnomalies  = 0.10
)

// ComputeHealthScore combines savings rate, spending volatility, recurring
// burden, and anomaly frequency into one score. An empty snapshot scores a
// neutral 50 with no signals.
func ComputeHealthScore(txs []ledger.Transaction, incomeMonthly float64, cfg Config) HealthScore {
	expenses := Expenses(txs)
	cur, ok := CurrentPeriod(expenses)
	if !ok {
		return HealthScore{Score: 50, Explain: "No data yet. Upload transactions to get a score."}
	}

	curTotal := PeriodTotal(expenses, cur)

	type part struct {
		signal Signal
		raw    float64
		weight float64
	}
	var parts []part

	if incomeMonthly > 0 {
		savings := clamp01((incomeMonthly - curTotal) / incomeMonthly)
		parts = append(parts, part{
			signal: Signal{Name: "Savings Rate", Hint: "Aim for 20%+ of income."},
			raw:    savings,
			weight: weightSavings,
		})
	}

	vol := monthlyVolatility(expenses, cfg.VolatilityMonths)
	parts = append(parts, part{
		signal: Signal{Name: "Volatility", Hint: "Flatter is better."},
		raw:    1 - math.Min(vol, 1),
		weight: weightVolatility,
	})

	subs := DetectSubscriptions(expenses, cfg.SubscriptionAbsTolerance, cfg.SubscriptionPctTolerance)
	var recurringInCur float64
	for _, s := range subs {
		for _, p := range s.Periods {
			if p == cur {
				recurringInCur += s.Charge
				break
			}
		}
	}
	recurringRatio := 0.0
	if curTotal > 0 {
		recurringRatio = math.Min(1, recurringInCur/curTotal)
	}
	parts = append(parts, part{
		signal: Signal{Name: "Recurring Burden", Hint: "Trim subscriptions."},
		raw:    1 - recurringRatio,
		weight: weightRecurring,
	})

	anomalyRate := currentAnomalyRate(expenses, cur, cfg)
	parts = append(parts, part{
		signal: Signal{Name: "Anomaly Hygiene", Hint: "Review outliers."},
		raw:    1 - math.Min(anomalyRate, 1),
		weight: weightAnomalies,
	})

	var weightSum, raw float64
	for _, p := range parts {
		weightSum += p.weight
	}
	signals := make([]Signal, len(parts))
	for i, p := range parts {
		raw += (p.weight / weightSum) * p.raw
		p.signal.Value = int(math.Round(100 * p.raw))
		signals[i] = p.signal
	}

	score := int(math.Round(100 * raw))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return HealthScore{Score: score, Period: cur, Signals: signals}
}

// monthlyVolatility is the coefficient of variation of monthly expense
// totals over the trailing window. Only months with activity count; fewer
// than two such months means no volatility reading.
func monthlyVolatility(expenses []ledger.Transaction, months int) float64 {
	byPeriod := make(map[ledger.Period]float64)
	for _, t := range expenses {
		byPeriod[ledger.PeriodOf(t.Date)] += t.Amount
	}
	periods := make([]ledger.Period, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })
	if len(periods) > months {
		periods = periods[len(periods)-months:]
	}
	if len(periods) < 2 {
		return 0
	}
	totals := make([]float64, len(periods))
	for i, p := range periods {
		totals[i] = byPeriod[p]
	}
	m := mean(totals)
	if m <= 1e-6 {
		return 0
	}
	return stddev(totals, m) / m
}

func currentAnomalyRate(expenses []ledger.Transaction, cur ledger.Period, cfg Config) float64 {
	txCount := 0
	for _, t := range expenses {
		if ledger.PeriodOf(t.Date) == cur {
			txCount++
		}
	}
	if txCount == 0 {
		return 0
	}
	flagged := 0
	for _, a := range DetectAnomalies(expenses, cfg.AnomalyThreshold, cfg.AnomalyMinSamples, cfg.AnomalyWindowMonths) {
		if ledger.PeriodOf(a.Date) == cur {
			flagged++
		}
	}
	return float64(flagged) / float64(txCount)
}
