package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/opsdash/platform-pulse/internal/series"
)

// edlapPerformance synthesizes the data-lake chart window: users, pipeline
// run counts and ticket levels on a shared grid.
func (e *Engine) edlapPerformance(now time.Time, hours int) PerformanceData {
	timestamps := series.TimeBase(now, hours, 5)
	rng := rand.New(rand.NewSource(seedEdlap))

	users := make([]float64, len(timestamps))
	for i, ts := range timestamps {
		val := series.DailyPattern(80, ts.Hour(), 0.6)
		val = series.AddNoise(rng, val, 0.15)
		users[i] = math.Max(5, math.Round(val))
	}
	users, _ = series.InjectSpikes(rng, users, 0.01, 2.0)

	total := make([]float64, len(timestamps))
	for i := range timestamps {
		total[i] = float64(245 + rng.Intn(11) - 5)
	}

	failed := make([]float64, len(timestamps))
	for i := range timestamps {
		failed[i] = float64(2 + rng.Intn(4))
	}
	failed, _ = series.InjectSpikes(rng, failed, 0.03, 3.0)

	delayed := make([]float64, len(timestamps))
	for i, ts := range timestamps {
		val := series.DailyPattern(5, ts.Hour(), 0.4)
		val = series.AddNoise(rng, val, 0.2)
		delayed[i] = math.Max(0, math.Round(val))
	}
	delayed, _ = series.InjectSpikes(rng, delayed, 0.02, 2.5)

	// Open tickets follow a bounded random walk so the line drifts instead
	// of jittering.
	steps := []int{-1, 0, 0, 0, 1}
	open := make([]float64, len(timestamps))
	level := 12
	for i := range timestamps {
		level += steps[rng.Intn(len(steps))]
		if level < 5 {
			level = 5
		}
		if level > 25 {
			level = 25
		}
		open[i] = float64(level)
	}

	overdue := make([]float64, len(open))
	for i, ot := range open {
		v := math.Round(ot*0.2 + float64(rng.Intn(4)-1))
		v = math.Min(ot-5, v)
		overdue[i] = math.Max(0, v)
	}

	return PerformanceData{
		Platform:   "edlap",
		Timestamps: timestamps,
		Pipeline: &PipelinePerformance{
			Users:            series.Window(users, e.thresholds.OutlierPair("edlap", "users")),
			TotalPipelines:   series.MetricWindow{Values: total},
			FailedPipelines:  series.Window(failed, e.thresholds.OutlierPair("edlap", "pipelines_failed")),
			DelayedPipelines: series.Window(delayed, e.thresholds.OutlierPair("edlap", "pipelines_delayed")),
			OpenTickets:      series.MetricWindow{Values: open},
			OverdueTickets:   series.Window(overdue, e.thresholds.OutlierPair("edlap", "tickets_overdue")),
		},
	}
}
