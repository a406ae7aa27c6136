package series

import (
	"math"
	"math/rand"
)

// MeasuredHistoricalStats computes exact reference stats from real rows:
// the arithmetic mean and the maximum, rounded to 2 decimal places.
// An empty input returns zeroed stats rather than failing.
func MeasuredHistoricalStats(values []float64) HistoricalStats {
	if len(values) == 0 {
		return HistoricalStats{}
	}
	mean, max := meanMax(values)
	return HistoricalStats{Average: round2(mean), Peak: round2(max)}
}

// SimulateHistoricalStats derives rolling reference stats by scaling the
// current window when no independently sourced history exists. The scaling
// factors are drawn once per call from period-specific ranges, so peak
// always dominates average on a non-negative series.
func SimulateHistoricalStats(rng *rand.Rand, values []float64, period Period) HistoricalStats {
	if len(values) == 0 {
		return HistoricalStats{}
	}

	mean, max := meanMax(values)

	var avgFactor, peakFactor float64
	if period == PeriodMonth {
		avgFactor = uniform(rng, 0.92, 1.08)
		peakFactor = uniform(rng, 1.10, 1.35)
	} else {
		avgFactor = uniform(rng, 0.95, 1.05)
		peakFactor = uniform(rng, 1.05, 1.20)
	}

	return HistoricalStats{
		Average: round2(mean * avgFactor),
		Peak:    round2(max * peakFactor),
	}
}

func meanMax(values []float64) (mean, max float64) {
	var sum float64
	max = values[0]
	for _, v := range values {
		sum += v
		if v > max {
			max = v
		}
	}
	return sum / float64(len(values)), max
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
