package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/doughdash/backend/internal/ledger"
)

// CoffeeConfig tunes the coffee assessor. Every threshold is overridable by
// the caller.
type CoffeeConfig struct {
	CategoryNames    []string `json:"category_names"`
	MerchantKeywords []string `json:"merchant_keywords"`
	MonthlyCap       float64  `json:"monthly_cap"`        // dollars per month before "too much"
	VisitsPerWeekCap float64  `json:"visits_per_week_cap"`
	SurgeVs3MoPct    float64  `json:"surge_vs_3mo_pct"` // e.g. 0.25 = 25% over 3-month average
}

// DefaultCoffeeConfig mirrors the thresholds the coach shipped with.
func DefaultCoffeeConfig() CoffeeConfig {
	return CoffeeConfig{
		CategoryNames:    []string{"Coffee"},
		MerchantKeywords: []string{"Starbucks", "Peet", "Peet's", "Philz", "Dunkin", "Blue Bottle", "Cafe", "Coffee"},
		MonthlyCap:       75,
		VisitsPerWeekCap: 5,
		SurgeVs3MoPct:    0.25,
	}
}

// Assessment reasons.
const (
	ReasonNoData          = "no_data"
	ReasonNoCoffeeFound   = "no_coffee_found"
	ReasonOverspending    = "over"
	ReasonLooksReasonable = "ok"
)

// CoffeeDetails carries the metrics behind an assessment.
type CoffeeDetails struct {
	Month         ledger.Period `json:"month,omitempty"`
	MonthlyTotal  float64       `json:"monthlyTotal"`
	MonthlyCount  int           `json:"monthlyCount"`
	AvgTicket     float64       `json:"avgTicket"`
	VisitsPerWeek float64       `json:"visitsPerWeek"`
	Avg3MoTotal   float64       `json:"avg3moTotal"`
	Flags         []string      `json:"flags"`
}

// CoffeeSuggestion is one ranked savings idea.
type CoffeeSuggestion struct {
	Label          string  `json:"label"`
	EstMonthlySave float64 `json:"estMonthlySave"`
}

// CoffeeAssessment answers "am I spending too much on coffee?".
type CoffeeAssessment struct {
	OK          bool               `json:"ok"` // data sufficiency, not verdict
	Reason      string             `json:"reason"`
	Answer      string             `json:"answer"`
	Details     CoffeeDetails      `json:"details"`
	Suggestions []CoffeeSuggestion `json:"suggestions"`
}

// AssessCoffee classifies coffee purchases (category match or merchant
// keyword), rolls them up by month, and applies three independent triggers:
// a monthly dollar cap, a visits-per-week cap, and a surge versus the
// trailing 3-month average. Any trigger firing means "too much".
func AssessCoffee(txs []ledger.Transaction, cfg CoffeeConfig) CoffeeAssessment {
	usable := make([]ledger.Transaction, 0, len(txs))
	for _, t := range txs {
		if !t.Date.IsZero() && t.Amount > 0 {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return CoffeeAssessment{
			OK:          false,
			Reason:      ReasonNoData,
			Answer:      "I don't see any transactions yet.",
			Suggestions: []CoffeeSuggestion{},
		}
	}

	var coffee []ledger.Transaction
	for _, t := range usable {
		if isCoffee(t, cfg) {
			coffee = append(coffee, t)
		}
	}
	if len(coffee) == 0 {
		return CoffeeAssessment{
			OK:          true,
			Reason:      ReasonNoCoffeeFound,
			Answer:      "No coffee purchases detected—so you're not overspending on coffee.",
			Suggestions: []CoffeeSuggestion{},
		}
	}

	type rollup struct {
		total float64
		count int
	}
	byMonth := make(map[ledger.Period]*rollup)
	for _, t := range coffee {
		p := ledger.PeriodOf(t.Date)
		r := byMonth[p]
		if r == nil {
			r = &rollup{}
			byMonth[p] = r
		}
		r.total += t.Amount
		r.count++
	}

	months := make([]ledger.Period, 0, len(byMonth))
	for p := range byMonth {
		months = append(months, p)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	lastMonth := months[len(months)-1]
	last := byMonth[lastMonth]

	// Average monthly total over the last up-to-3 months including lastMonth.
	last3 := months
	if len(last3) > 3 {
		last3 = last3[len(last3)-3:]
	}
	var sum3 float64
	for _, p := range last3 {
		sum3 += byMonth[p].total
	}
	avg3 := sum3 / float64(len(last3))

	visitsPerWeek := float64(last.count) / (float64(lastMonth.Days()) / 7)

	overCap := last.total > cfg.MonthlyCap
	freqHigh := visitsPerWeek > cfg.VisitsPerWeekCap
	surge := avg3 > 0 && last.total > avg3*(1+cfg.SurgeVs3MoPct)

	var flags []string
	if overCap {
		flags = append(flags, fmt.Sprintf("You spent $%.0f on coffee in %s (above the $%.0f comfort cap).", last.total, lastMonth, cfg.MonthlyCap))
	}
	if freqHigh {
		flags = append(flags, fmt.Sprintf("You're buying coffee ~%.1f×/week (above %.0f×/week).", visitsPerWeek, cfg.VisitsPerWeekCap))
	}
	if surge {
		flags = append(flags, fmt.Sprintf("Coffee spend is up ~%.0f%% vs your 3-month average.", (last.total/avg3-1)*100))
	}
	isTooMuch := len(flags) > 0

	avgTicket := last.total / math.Max(1, float64(last.count))
	suggestions := coffeeSuggestions(avgTicket, last.total, cfg)

	answer := "No — your coffee spending looks reasonable right now."
	reason := ReasonLooksReasonable
	if isTooMuch {
		answer = "Yes — you're likely overspending on coffee."
		reason = ReasonOverspending
	}

	if flags == nil {
		flags = []string{}
	}
	return CoffeeAssessment{
		OK:     true,
		Reason: reason,
		Answer: answer,
		Details: CoffeeDetails{
			Month:         lastMonth,
			MonthlyTotal:  round2(last.total),
			MonthlyCount:  last.count,
			AvgTicket:     round2(avgTicket),
			VisitsPerWeek: math.Round(visitsPerWeek*10) / 10,
			Avg3MoTotal:   round2(avg3),
			Flags:         flags,
		},
		Suggestions: suggestions,
	}
}

func isCoffee(t ledger.Transaction, cfg CoffeeConfig) bool {
	for _, name := range cfg.CategoryNames {
		if strings.EqualFold(t.Category, name) {
			return true
		}
	}
	merchant := strings.ToLower(t.Merchant)
	for _, kw := range cfg.MerchantKeywords {
		if strings.Contains(merchant, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// coffeeSuggestions ranks a fixed candidate list by estimated monthly
// savings derived from the average ticket, keeping the top three.
func coffeeSuggestions(avgTicket, lastTotal float64, cfg CoffeeConfig) []CoffeeSuggestion {
	candidates := []CoffeeSuggestion{
		{Label: "Home-brew 1 day/week", EstMonthlySave: math.Max(4, math.Round(avgTicket)) * 4},
		{Label: "Size down or skip add-ons 2×/week", EstMonthlySave: math.Round(math.Max(2, avgTicket*0.3) * 8)},
		{Label: "Pick a lower-cost cafe for 2 visits/week", EstMonthlySave: math.Round(math.Max(2, avgTicket*0.25) * 8)},
		{Label: "Set a monthly coffee cap", EstMonthlySave: math.Max(5, math.Round(math.Max(0, lastTotal-cfg.MonthlyCap)))},
		{Label: "Use a punch-card/rewards app", EstMonthlySave: 5},
	}

	out := candidates[:0]
	for _, c := range candidates {
		if c.EstMonthlySave > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EstMonthlySave > out[j].EstMonthlySave })
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// CoffeeInsight is the one-line coffee note embedded in summaries.
type CoffeeInsight struct {
	Spend   float64 `json:"coffee_spend"`
	Message string  `json:"message"`
}

// CoffeeSpendInsight totals coffee-category spend for one period and frames
// the yearly saving from brewing at home more often.
func CoffeeSpendInsight(expenses []ledger.Transaction, period ledger.Period) CoffeeInsight {
	var spend float64
	for _, t := range expenses {
		if t.Category == "Coffee" && ledger.PeriodOf(t.Date) == period {
			spend += t.Amount
		}
	}
	yearlySave := spend * 0.60 * 12
	return CoffeeInsight{
		Spend:   round2(spend),
		Message: msgPrinter.Sprintf("You've spent $%.2f on coffee in %s. Brewing at home a bit more could save ~$%.0f/yr.", spend, period, yearlySave),
	}
}
