package series

import (
	"math"
	"math/rand"
)

// DailyPattern scales a base value by the business-hour demand curve: two
// Gaussian bumps centered mid-morning and mid-afternoon. amplitude is the
// fraction of base the curve may add at its peak. Pure function.
func DailyPattern(base float64, hour int, amplitude float64) float64 {
	h := float64(hour)
	morning := math.Exp(-((h - 10.5) * (h - 10.5)) / 8)
	afternoon := math.Exp(-((h - 14.5) * (h - 14.5)) / 10)
	pattern := morning*0.7 + afternoon*0.5
	return base * (1 + amplitude*pattern)
}

// AddNoise applies proportional Gaussian jitter to a value, floored at 0
// since all tracked metrics are non-negative. The caller owns the random
// stream, so concurrent generation never shares state.
func AddNoise(rng *rand.Rand, value, noisePercent float64) float64 {
	noisy := value + rng.NormFloat64()*value*noisePercent
	if noisy < 0 {
		return 0
	}
	return noisy
}

// InjectSpikes multiplies a small random fraction of samples by magnitude to
// simulate rare spikes in synthetic data. Returns a mutated copy plus the
// affected indices; the input slice is never modified. Real-data paths skip
// this entirely.
func InjectSpikes(rng *rand.Rand, values []float64, chance, magnitude float64) ([]float64, []int) {
	out := make([]float64, len(values))
	copy(out, values)

	var hit []int
	for i := range out {
		if rng.Float64() < chance {
			out[i] *= magnitude
			hit = append(hit, i)
		}
	}
	return out, hit
}
