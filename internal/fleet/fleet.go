// Package fleet generates and aggregates per-machine telemetry for the
// multi-machine analytics platforms.
package fleet

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/opsdash/platform-pulse/internal/series"
)

// Machine holds one worker's metric windows, all aligned to the platform's
// shared timestamp grid.
type Machine struct {
	Name          string
	Users         series.MetricWindow
	MemoryPercent series.MetricWindow
	CPUPercent    series.MetricWindow
}

// Config describes one platform's fleet.
type Config struct {
	Count  int    `yaml:"count"`
	Prefix string `yaml:"prefix"`
}

// Baselines are the per-fleet base values the synthetic generators scale.
type Baselines struct {
	Users  float64
	Memory float64
	CPU    float64
}

// Generate produces synthetic telemetry for every machine in the fleet over
// the given timestamp grid. Each machine gets its own random stream seeded
// from seedBase plus its ordinal, so machines are independent and a fixed
// seedBase reproduces the whole fleet. The first two machines carry a 1.3x
// load bias to mimic uneven load balancing.
func Generate(cfg Config, seedBase int64, timestamps []time.Time, base Baselines) []Machine {
	machines := make([]Machine, 0, cfg.Count)

	for m := 0; m < cfg.Count; m++ {
		rng := rand.New(rand.NewSource(seedBase + int64(m)))
		perMachine := base.Users / float64(cfg.Count)

		users := make([]float64, len(timestamps))
		for i, ts := range timestamps {
			val := series.DailyPattern(perMachine, ts.Hour(), 0.7)
			val = series.AddNoise(rng, val, 0.2)
			if m < 2 {
				val *= 1.3
			}
			users[i] = math.Max(0, math.Round(val))
		}

		memory := make([]float64, len(timestamps))
		for i := range timestamps {
			userFactor := users[i] / perMachine
			val := base.Memory * (0.7 + 0.3*userFactor)
			val = series.AddNoise(rng, val, 0.1)
			memory[i] = math.Min(100, round1(val))
		}
		memory, _ = series.InjectSpikes(rng, memory, 0.02, 1.2)

		cpu := make([]float64, len(timestamps))
		for i := range timestamps {
			userFactor := users[i] / perMachine
			val := base.CPU * (0.6 + 0.4*userFactor)
			val = series.AddNoise(rng, val, 0.15)
			cpu[i] = math.Min(100, round1(val))
		}
		cpu, _ = series.InjectSpikes(rng, cpu, 0.025, 1.3)

		machines = append(machines, Machine{
			Name:          fmt.Sprintf("%s-%02d", cfg.Prefix, m+1),
			Users:         series.MetricWindow{Values: users},
			MemoryPercent: series.MetricWindow{Values: clampAll(memory, 100)},
			CPUPercent:    series.MetricWindow{Values: clampAll(cpu, 100)},
		})
	}

	return machines
}

// Aggregated holds the platform-level fold of a fleet: users by sum,
// percentages by arithmetic mean, per timestamp.
type Aggregated struct {
	Users         []float64
	MemoryPercent []float64
	CPUPercent    []float64
}

// Aggregate folds per-machine series into platform-level series. All
// machines must share the same grid length; the caller guarantees this
// (a mismatch would silently misalign the series, so it is a documented
// assumption rather than a runtime check).
func Aggregate(machines []Machine) Aggregated {
	if len(machines) == 0 {
		return Aggregated{}
	}

	n := len(machines[0].Users.Values)
	agg := Aggregated{
		Users:         make([]float64, n),
		MemoryPercent: make([]float64, n),
		CPUPercent:    make([]float64, n),
	}

	for i := 0; i < n; i++ {
		var users, mem, cpu float64
		for _, m := range machines {
			users += m.Users.Values[i]
			mem += m.MemoryPercent.Values[i]
			cpu += m.CPUPercent.Values[i]
		}
		agg.Users[i] = users
		agg.MemoryPercent[i] = round1(mem / float64(len(machines)))
		agg.CPUPercent[i] = round1(cpu / float64(len(machines)))
	}

	return agg
}

// DetectOutliers annotates every machine's percentage windows in place
// against the platform's threshold pairs.
func DetectOutliers(machines []Machine, memory, cpu series.ThresholdPair) {
	for i := range machines {
		machines[i].MemoryPercent.Outliers = series.DetectOutliers(machines[i].MemoryPercent.Values, memory)
		machines[i].CPUPercent.Outliers = series.DetectOutliers(machines[i].CPUPercent.Values, cpu)
	}
}

func clampAll(values []float64, max float64) []float64 {
	for i, v := range values {
		if v > max {
			values[i] = max
		}
	}
	return values
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
