package insights

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doughdash/backend/internal/ledger"
)

// Source supplies the current transaction snapshot. Implementations must
// return an atomically consistent set: a concurrent mutation yields either
// the old or new dataset, never a partial one.
type Source interface {
	Transactions(ctx context.Context) ([]ledger.Transaction, error)
}

// Service exposes the analytics entry points over a transaction source.
// Every method recomputes from the current snapshot; nothing is cached and
// nothing mutates the source.
type Service struct {
	source Source
	cfg    Config
}

// NewService wires a service over a source with the given thresholds.
func NewService(source Source, cfg Config) *Service {
	return &Service{source: source, cfg: cfg}
}

// Summary is the latest month's headline numbers.
type Summary struct {
	Period            ledger.Period `json:"period,omitempty"`
	TotalExpenseMonth float64       `json:"total_expense_month"`
	ByCategory        []Ranked      `json:"by_category"`
	TopMerchants      []Ranked      `json:"top_merchants"`
	Coffee            CoffeeInsight `json:"coffee"`
	Privacy           bool          `json:"privacy"`
}

// Summary computes the current period's totals, category breakdown, top
// merchants, and the coffee one-liner. Merchant names are title-cased for
// display; with privacy on they are pseudonymized instead, before the
// summary leaves the core.
func (s *Service) Summary(ctx context.Context, privacy bool) (Summary, error) {
	txs, err := s.source.Transactions(ctx)
	if err != nil {
		return Summary{}, err
	}
	expenses := Expenses(txs)
	cur, ok := CurrentPeriod(expenses)
	if !ok {
		return Summary{ByCategory: []Ranked{}, TopMerchants: []Ranked{}, Privacy: privacy}, nil
	}

	top := Rank(Breakdown(expenses, cur, ByMerchant), s.cfg.TopMerchants)
	if privacy {
		top = NewMasker().MaskRanked(top)
	} else {
		for i := range top {
			top[i].Name = ledger.DisplayName(top[i].Name)
		}
	}
	return Summary{
		Period:            cur,
		TotalExpenseMonth: round2(PeriodTotal(expenses, cur)),
		ByCategory:        Rank(Breakdown(expenses, cur, ByCategory), 0),
		TopMerchants:      top,
		Coffee:            CoffeeSpendInsight(expenses, cur),
		Privacy:           privacy,
	}, nil
}

// Trends is a dense trailing series of monthly expense totals.
type Trends struct {
	Months     []ledger.Period      `json:"months"`
	Totals     []float64            `json:"totals"`
	ByCategory map[string][]float64 `json:"by_category"`
}

// Trends returns monthsBack months of expense totals ending at the latest
// month with data. monthsBack defaults when non-positive and is rejected
// above 24.
func (s *Service) Trends(ctx context.Context, monthsBack int) (Trends, error) {
	if monthsBack <= 0 {
		monthsBack = s.cfg.TrendMonths
	}
	if monthsBack > 24 {
		return Trends{}, invalidInputf("months_back must be at most 24, got %d", monthsBack)
	}
	txs, err := s.source.Transactions(ctx)
	if err != nil {
		return Trends{}, err
	}
	expenses := Expenses(txs)
	months, totals := MonthlySeries(expenses, monthsBack, ledger.PeriodOf(time.Now().UTC()))
	return Trends{
		Months:     months,
		Totals:     totals,
		ByCategory: MonthlyCategorySeries(expenses, months),
	}, nil
}

// Subscriptions lists detected recurring charges.
func (s *Service) Subscriptions(ctx context.Context, privacy bool) ([]Subscription, error) {
	txs, err := s.source.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	subs := DetectSubscriptions(Expenses(txs), s.cfg.SubscriptionAbsTolerance, s.cfg.SubscriptionPctTolerance)
	if privacy {
		mask := NewMasker()
		for i := range subs {
			subs[i].Merchant = mask.Name(subs[i].Merchant)
		}
	}
	return subs, nil
}

// Anomalies lists statistically unusual expenses, freshest first.
func (s *Service) Anomalies(ctx context.Context, privacy bool) ([]Anomaly, error) {
	txs, err := s.source.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	anomalies := DetectAnomalies(Expenses(txs), s.cfg.AnomalyThreshold, s.cfg.AnomalyMinSamples, s.cfg.AnomalyWindowMonths)
	if privacy {
		mask := NewMasker()
		for i := range anomalies {
			anomalies[i].Merchant = mask.Name(anomalies[i].Merchant)
		}
	}
	return anomalies, nil
}

// Score computes the composite health score against a monthly income.
func (s *Service) Score(ctx context.Context, incomeMonthly float64) (HealthScore, error) {
	txs, err := s.source.Transactions(ctx)
	if err != nil {
		return HealthScore{}, err
	}
	return ComputeHealthScore(txs, incomeMonthly, s.cfg), nil
}

// Forecast projects the current month's surplus against a savings goal.
func (s *Service) Forecast(ctx context.Context, incomeMonthly, goalAmount float64, monthsToGoal int) (Forecast, error) {
	txs, err := s.source.Transactions(ctx)
	if err != nil {
		return Forecast{}, err
	}
	expenses := Expenses(txs)
	var curTotal float64
	if cur, ok := CurrentPeriod(expenses); ok {
		curTotal = PeriodTotal(expenses, cur)
	}
	return ComputeForecast(incomeMonthly, curTotal, goalAmount, monthsToGoal)
}

// WhatIf simulates per-category cuts against the same goal.
func (s *Service) WhatIf(ctx context.Context, cuts map[string]float64, incomeMonthly, goalAmount float64, monthsToGoal int) (WhatIfResult, error) {
	for cat, cut := range cuts {
		if cut < 0 {
			return WhatIfResult{}, invalidInputf("cut for %q must be non-negative, got %v", cat, cut)
		}
	}
	txs, err := s.source.Transactions(ctx)
	if err != nil {
		return WhatIfResult{}, err
	}
	return SimulateWhatIf(txs, cuts, incomeMonthly, goalAmount, monthsToGoal)
}

// CoffeeDefaults returns the configured coffee thresholds. Callers merging
// partial overrides should start from these, not the package defaults.
func (s *Service) CoffeeDefaults() CoffeeConfig {
	return s.cfg.Coffee
}

// Coffee runs the coffee assessor. A nil override uses the configured
// thresholds.
func (s *Service) Coffee(ctx context.Context, override *CoffeeConfig) (CoffeeAssessment, error) {
	txs, err := s.source.Transactions(ctx)
	if err != nil {
		return CoffeeAssessment{}, err
	}
	cfg := s.cfg.Coffee
	if override != nil {
		cfg = *override
	}
	return AssessCoffee(txs, cfg), nil
}

// Comparison is the month-over-month view with trim suggestions.
type Comparison struct {
	Period         ledger.Period    `json:"period,omitempty"`
	DeltaOverall   float64          `json:"delta_overall"`
	ThisMonthTotal float64          `json:"this_month_total"`
	PrevMonthTotal float64          `json:"prev_month_total"`
	Categories     []CategoryDelta  `json:"categories"`
	NeededPerMonth float64          `json:"needed_per_month"`
	Suggestions    []TrimSuggestion `json:"suggestions"`
	Forecast       Forecast         `json:"forecast"`
}

// Compare contrasts the latest two months per category and proposes trims
// sized to close the forecast gap.
func (s *Service) Compare(ctx context.Context, incomeMonthly, goalAmount float64, monthsToGoal int) (Comparison, error) {
	txs, err := s.source.Transactions(ctx)
	if err != nil {
		return Comparison{}, err
	}
	expenses := Expenses(txs)
	cur, ok := CurrentPeriod(expenses)
	if !ok {
		fc, err := ComputeForecast(incomeMonthly, 0, goalAmount, monthsToGoal)
		if err != nil {
			return Comparison{}, err
		}
		return Comparison{Categories: []CategoryDelta{}, Forecast: fc}, nil
	}

	curTotal := PeriodTotal(expenses, cur)
	prevTotal := PeriodTotal(expenses, cur.Prev())
	fc, err := ComputeForecast(incomeMonthly, curTotal, goalAmount, monthsToGoal)
	if err != nil {
		return Comparison{}, err
	}
	needed := 0.0
	if !fc.OnTrack {
		needed = fc.NeedPerMonth
	}
	categories := CompareCategories(expenses, cur)
	if categories == nil {
		categories = []CategoryDelta{}
	}
	return Comparison{
		Period:         cur,
		DeltaOverall:   round2(curTotal - prevTotal),
		ThisMonthTotal: round2(curTotal),
		PrevMonthTotal: round2(prevTotal),
		Categories:     categories,
		NeededPerMonth: round2(needed),
		Suggestions:    SuggestTrims(expenses, needed),
		Forecast:       fc,
	}, nil
}

// CoachContext is the compact snapshot the rule-based coach reasons over.
type CoachContext struct {
	Period       ledger.Period    `json:"period,omitempty"`
	ExpenseTotal float64          `json:"expense_total"`
	ByCategory   []Ranked         `json:"by_category"`
	TopMerchants []Ranked         `json:"top_merchants"`
	CoffeeMsg    string           `json:"coffee_msg"`
	Forecast     Forecast         `json:"forecast"`
	Suggestions  []TrimSuggestion `json:"suggestions"`
	Deltas       []CategoryDelta  `json:"delta_categories"`
	AnomalyCount int              `json:"anomaly_count"`
}

// CoachResult is the coach's context plus its templated nudges.
type CoachResult struct {
	Nudges  []string     `json:"nudges"`
	Context CoachContext `json:"context"`
}

// Coach composes the cross-cutting context (summary, comparison, anomalies)
// and derives up to four nudges from it. The independent sections are
// computed concurrently; all of them read the same snapshot.
func (s *Service) Coach(ctx context.Context, incomeMonthly, goalAmount float64, monthsToGoal int, privacy bool) (CoachResult, error) {
	var (
		summary   Summary
		cmp       Comparison
		anomalies []Anomaly
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.Summary(gctx, privacy)
		return err
	})
	g.Go(func() error {
		var err error
		cmp, err = s.Compare(gctx, incomeMonthly, goalAmount, monthsToGoal)
		return err
	})
	g.Go(func() error {
		var err error
		anomalies, err = s.Anomalies(gctx, privacy)
		return err
	})
	if err := g.Wait(); err != nil {
		return CoachResult{}, err
	}

	cctx := CoachContext{
		Period:       summary.Period,
		ExpenseTotal: summary.TotalExpenseMonth,
		ByCategory:   summary.ByCategory,
		TopMerchants: summary.TopMerchants,
		CoffeeMsg:    summary.Coffee.Message,
		Forecast:     cmp.Forecast,
		Suggestions:  cmp.Suggestions,
		Deltas:       cmp.Categories,
		AnomalyCount: len(anomalies),
	}
	return CoachResult{Nudges: buildNudges(cctx), Context: cctx}, nil
}

// buildNudges renders the fixed coaching templates that apply to the
// context, capped at four.
func buildNudges(ctx CoachContext) []string {
	var out []string
	if ctx.Forecast.OnTrack {
		out = append(out, "Great pace—your plan looks on track. Keep habits steady and avoid new recurring spend.")
	} else {
		out = append(out, msgPrinter.Sprintf("To hit your goal, trim about $%.0f/mo. The What-If panel shows exactly where to take it from.", ctx.Forecast.NeedPerMonth))
	}
	if ctx.CoffeeMsg != "" {
		out = append(out, ctx.CoffeeMsg)
	}
	if len(ctx.Suggestions) > 0 {
		s := ctx.Suggestions[0]
		out = append(out, msgPrinter.Sprintf("Try cutting %s by $%.0f/mo (currently $%.0f).", s.Category, s.SuggestedCut, s.Current))
	}
	if ctx.AnomalyCount > 0 {
		out = append(out, msgPrinter.Sprintf("Spotted %d unusual charges recently—give Anomalies a quick review.", ctx.AnomalyCount))
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}
