package ledger

import (
	"math"
	"math/rand"
	"time"
)

// sampleMerchant describes one merchant in the generated dataset: a typical
// charge (negative for income) and roughly how many times it bills per month.
type sampleMerchant struct {
	name        string
	avgAmount   float64
	monthlyFreq float64
}

var sampleMerchants = []sampleMerchant{
	{"STARBUCKS", 4.5, 10},
	{"PEET COFFEE", 5.5, 6},
	{"SAFEWAY", 65, 14},
	{"TRADER JOE'S", 45, 10},
	{"UBEREATS", 28, 8},
	{"Local Pizza", 18, 6},
	{"UBER", 16, 10},
	{"CHEVRON", 52, 5},
	{"NETFLIX", 15.49, 1},
	{"SPOTIFY", 9.99, 1},
	{"T-MOBILE", 70, 1},
	{"APARTMENTS LLC RENT", 1500, 1},
	{"AMAZON", 32, 12},
	{"TARGET", 28, 8},
	{"PAYROLL", -1800, 2},
}

// GenerateSample builds a deterministic mock ledger spanning roughly nDays
// ending at anchor. Expense amounts are positive, income negative, and two
// outsized purchases are planted so anomaly detection has something to find.
func GenerateSample(nDays int, seed int64, anchor time.Time) []Transaction {
	rng := rand.New(rand.NewSource(seed))
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)

	var out []Transaction
	for i := 0; i < nDays; i++ {
		d := day.AddDate(0, 0, -i)
		for _, m := range sampleMerchants {
			p := math.Min(0.9, m.monthlyFreq/30.0)
			if rng.Float64() >= p {
				continue
			}
			mu := math.Abs(m.avgAmount)
			sigma := math.Max(1.0, mu*0.15)
			mag := math.Max(1.0, rng.NormFloat64()*sigma+mu)
			amount := mag
			if m.avgAmount < 0 {
				amount = -mag
			}
			out = append(out, Transaction{
				Date:     d,
				Merchant: m.name,
				Amount:   math.Round(amount*100) / 100,
			})
		}
	}

	out = append(out,
		Transaction{Date: day.AddDate(0, 0, -7), Merchant: "TARGET", Amount: 450},
		Transaction{Date: day.AddDate(0, 0, -22), Merchant: "UBER", Amount: 120},
	)
	return CategorizeAll(out)
}
