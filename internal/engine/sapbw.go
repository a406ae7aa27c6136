package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/opsdash/platform-pulse/internal/provider"
	"github.com/opsdash/platform-pulse/internal/series"
)

// Real snapshots cover at most one chart window at 5-minute resolution.
const maxWarehouseSnapshots = 289

// sapbwPerformance builds the warehouse chart window. Memory comes from
// real capacity snapshots when the provider has any; the remaining metrics
// are synthesized around it. With no snapshots the whole window is
// synthetic.
func (e *Engine) sapbwPerformance(now time.Time, hours int) PerformanceData {
	snapshots := e.provider.CapacitySnapshots()
	if len(snapshots) == 0 {
		return e.sapbwSynthetic(now, hours)
	}
	return e.sapbwMeasured(snapshots)
}

func (e *Engine) sapbwMeasured(snapshots []provider.CapacitySnapshot) PerformanceData {
	if len(snapshots) > maxWarehouseSnapshots {
		snapshots = snapshots[len(snapshots)-maxWarehouseSnapshots:]
	}

	timestamps := make([]time.Time, 0, len(snapshots))
	memory := make([]float64, 0, len(snapshots))
	for _, s := range snapshots {
		timestamps = append(timestamps, s.Timestamp)
		memory = append(memory, s.MemoryUsedTB)
	}
	capacity := snapshots[len(snapshots)-1].MemoryCapacityTB

	rng := rand.New(rand.NewSource(seedSapbw))

	users := make([]float64, len(timestamps))
	for i, ts := range timestamps {
		val := series.DailyPattern(45, ts.Hour(), 0.8)
		val = series.AddNoise(rng, val, 0.12)
		users[i] = math.Max(3, math.Round(val))
	}

	// Load time and CPU track memory pressure.
	loadTimes := make([]float64, len(timestamps))
	for i := range timestamps {
		val := 4.5 * (0.8 + 0.4*memory[i]/19)
		val = series.AddNoise(rng, val, 0.2)
		loadTimes[i] = round2(val)
	}

	cpu := make([]float64, len(timestamps))
	for i := range timestamps {
		val := 35 * (0.7 + 0.5*memory[i]/19)
		val = series.AddNoise(rng, val, 0.15)
		cpu[i] = math.Min(100, round1(val))
	}

	return e.warehouseData(timestamps, users, memory, loadTimes, cpu, capacity)
}

func (e *Engine) sapbwSynthetic(now time.Time, hours int) PerformanceData {
	timestamps := series.TimeBase(now, hours, 5)
	rng := rand.New(rand.NewSource(seedSapbw))
	capacity := fallbackCapacityTB

	users := make([]float64, len(timestamps))
	for i, ts := range timestamps {
		val := series.DailyPattern(45, ts.Hour(), 0.8)
		val = series.AddNoise(rng, val, 0.12)
		users[i] = math.Max(3, math.Round(val))
	}

	memory := make([]float64, len(timestamps))
	for i, ts := range timestamps {
		val := series.DailyPattern(fallbackMemoryTB, ts.Hour(), 0.15)
		val = series.AddNoise(rng, val, 0.03)
		memory[i] = round2(val)
	}
	memory, _ = series.InjectSpikes(rng, memory, 0.02, 1.15)

	loadTimes := make([]float64, len(timestamps))
	for i := range timestamps {
		val := 4.5 * (1 + 0.3*users[i]/50)
		val = series.AddNoise(rng, val, 0.2)
		loadTimes[i] = round2(val)
	}
	loadTimes, _ = series.InjectSpikes(rng, loadTimes, 0.03, 2.0)

	cpu := make([]float64, len(timestamps))
	for i := range timestamps {
		val := 35 * (1 + 0.4*users[i]/50 + 0.3*memory[i]/18)
		val = series.AddNoise(rng, val, 0.15)
		cpu[i] = math.Min(100, round1(val))
	}
	cpu, _ = series.InjectSpikes(rng, cpu, 0.02, 1.4)

	return e.warehouseData(timestamps, users, memory, loadTimes, cpu, capacity)
}

// warehouseData assembles the warehouse window. Outliers are detected on
// the raw memory series, then the displayed values are capped at capacity
// so a spike still flags even when the plot is clamped.
func (e *Engine) warehouseData(timestamps []time.Time, users, memory, loadTimes, cpu []float64, capacity float64) PerformanceData {
	memoryWindow := series.MetricWindow{
		Values:   clampAll(memory, capacity),
		Outliers: series.DetectOutliers(memory, e.thresholds.OutlierPair("sapbw", "memory_tb")),
	}
	cpuClamped := clampAll(cpu, 100)

	return PerformanceData{
		Platform:   "sapbw",
		Timestamps: timestamps,
		Warehouse: &WarehousePerformance{
			Users:            series.Window(users, e.thresholds.OutlierPair("sapbw", "users")),
			MemoryTB:         memoryWindow,
			MemoryCapacityTB: capacity,
			LoadTimeSec:      series.Window(loadTimes, e.thresholds.OutlierPair("sapbw", "load_time_sec")),
			CPUPercent:       series.Window(cpuClamped, e.thresholds.OutlierPair("sapbw", "cpu_percent")),
		},
	}
}

func clampAll(values []float64, max float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Min(max, v)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
