package engine

import (
	"math/rand"
	"time"

	"github.com/opsdash/platform-pulse/internal/fleet"
	"github.com/opsdash/platform-pulse/internal/series"
)

type fleetProfile struct {
	baselines fleet.Baselines
	aggSeed   int64

	// Aggregate load-time model: base scaled by user and CPU pressure.
	loadBase       float64
	loadUserDiv    float64
	loadUserWeight float64
	loadCPUDiv     float64
	loadCPUWeight  float64
	loadFloor      float64
	loadNoise      float64
	loadRound      func(float64) float64
	spikeChance    float64
	spikeMagnitude float64
}

// Tableau renders dashboards in seconds; Alteryx runs workflows in tens of
// seconds, so its execution-time model has a different shape.
var fleetProfiles = map[string]fleetProfile{
	"tableau": {
		baselines:      fleet.Baselines{Users: 180, Memory: 55, CPU: 45},
		aggSeed:        seedTableauAgg,
		loadBase:       3.8,
		loadUserDiv:    180,
		loadUserWeight: 0.2,
		loadCPUDiv:     50,
		loadCPUWeight:  0.1,
		loadFloor:      0.7,
		loadNoise:      0.15,
		loadRound:      round2,
		spikeChance:    0.04,
		spikeMagnitude: 2.5,
	},
	"alteryx": {
		baselines:      fleet.Baselines{Users: 40, Memory: 50, CPU: 40},
		aggSeed:        seedAlteryxAgg,
		loadBase:       85,
		loadUserDiv:    40,
		loadUserWeight: 0.15,
		loadCPUDiv:     45,
		loadCPUWeight:  0.05,
		loadFloor:      0.8,
		loadNoise:      0.2,
		loadRound:      round1,
		spikeChance:    0.02,
		spikeMagnitude: 1.8,
	},
}

// fleetPerformance builds the multi-machine chart window: per-machine
// telemetry plus the platform aggregates.
func (e *Engine) fleetPerformance(platformID string, now time.Time, hours int) PerformanceData {
	profile := fleetProfiles[platformID]
	cfg, ok := e.thresholds.Fleet(platformID)
	if !ok {
		cfg = fleet.Config{Count: 8, Prefix: "SRV"}
	}

	timestamps := series.TimeBase(now, hours, 5)
	machines := fleet.Generate(cfg, seedFleetBase, timestamps, profile.baselines)
	agg := fleet.Aggregate(machines)

	rng := rand.New(rand.NewSource(profile.aggSeed))
	loadTimes := make([]float64, len(timestamps))
	for i := range timestamps {
		userFactor := agg.Users[i] / profile.loadUserDiv
		cpuFactor := agg.CPUPercent[i] / profile.loadCPUDiv
		val := profile.loadBase * (profile.loadFloor + profile.loadUserWeight*userFactor + profile.loadCPUWeight*cpuFactor)
		val = series.AddNoise(rng, val, profile.loadNoise)
		loadTimes[i] = profile.loadRound(val)
	}
	loadTimes, _ = series.InjectSpikes(rng, loadTimes, profile.spikeChance, profile.spikeMagnitude)

	fleet.DetectOutliers(machines,
		e.thresholds.OutlierPair(platformID, "memory_percent"),
		e.thresholds.OutlierPair(platformID, "cpu_percent"))

	return PerformanceData{
		Platform:   platformID,
		Timestamps: timestamps,
		Fleet: &FleetPerformance{
			Machines: machines,
			Aggregated: FleetAggregates{
				Users:         series.Window(agg.Users, e.thresholds.OutlierPair(platformID, "users")),
				MemoryPercent: series.Window(agg.MemoryPercent, e.thresholds.OutlierPair(platformID, "memory_percent")),
				LoadTimeSec:   series.Window(loadTimes, e.thresholds.OutlierPair(platformID, "load_time_sec")),
				CPUPercent:    series.Window(agg.CPUPercent, e.thresholds.OutlierPair(platformID, "cpu_percent")),
			},
		},
	}
}
