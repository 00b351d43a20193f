package insights

import "math"

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// stddev is the population standard deviation.
func stddev(v []float64, m float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sumSq float64
	for _, x := range v {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(v)))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
