// Package insights is the analytics core: pure computations over a
// transaction snapshot producing summaries, recurring-charge detection,
// anomaly flags, a health score, goal forecasts, what-if simulations, and the
// coffee assessor. Nothing in this package mutates the underlying ledger.
package insights

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller mistakes (e.g. a non-positive goal horizon)
// that must surface as a rejection rather than a silent default.
var ErrInvalidInput = errors.New("invalid input")

func invalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

// Config carries the tunable thresholds for the analytics core. Zero values
// are not usable; start from DefaultConfig.
type Config struct {
	// Anomaly detection.
	AnomalyThreshold    float64 // |z| must exceed this
	AnomalyMinSamples   int     // minimum comparison-group size
	AnomalyWindowMonths int     // trailing window for the comparison group

	// Recurring-charge detection. A merchant's monthly charges cluster when
	// they sit within AbsTolerance dollars or PctTolerance of the cluster's
	// running median.
	SubscriptionAbsTolerance float64
	SubscriptionPctTolerance float64

	// Presentation.
	TopMerchants     int // merchants listed in a summary
	TrendMonths      int // default trailing window for trends
	VolatilityMonths int // months sampled by the volatility signal

	Coffee CoffeeConfig
}

// DefaultConfig returns the thresholds the service ships with.
func DefaultConfig() Config {
	return Config{
		AnomalyThreshold:         2.0,
		AnomalyMinSamples:        3,
		AnomalyWindowMonths:      3,
		SubscriptionAbsTolerance: 2.0,
		SubscriptionPctTolerance: 0.10,
		TopMerchants:             10,
		TrendMonths:              6,
		VolatilityMonths:         6,
		Coffee:                   DefaultCoffeeConfig(),
	}
}
