// Package engine synthesizes platform telemetry and classifies platform
// health. Every operation is a synchronous in-memory computation over the
// provider's materialized records; missing data degrades to deterministic
// simulated output, never to an error.
package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/opsdash/platform-pulse/internal/config"
	"github.com/opsdash/platform-pulse/internal/health"
	"github.com/opsdash/platform-pulse/internal/provider"
	"github.com/opsdash/platform-pulse/internal/series"
)

// PlatformIDs lists the monitored platforms in display order.
var PlatformIDs = []string{"edlap", "sapbw", "tableau", "alteryx"}

var platformNames = map[string]string{
	"edlap":   "EDLAP",
	"sapbw":   "SAP B/W",
	"tableau": "Tableau",
	"alteryx": "Alteryx",
}

var platformSubtitles = map[string]string{
	"edlap":   "Enterprise Data Lake",
	"sapbw":   "Business Warehouse",
	"tableau": "Analytics & Reporting",
	"alteryx": "Self-Service Analytics",
}

// Engine is the telemetry synthesis and health classification engine.
// It holds no mutable state; all methods are safe for concurrent use.
type Engine struct {
	provider   provider.Provider
	thresholds *config.Thresholds
}

// New creates an engine over the given provider and threshold tables.
func New(p provider.Provider, thresholds *config.Thresholds) *Engine {
	return &Engine{provider: p, thresholds: thresholds}
}

// Platforms evaluates every monitored platform's current health.
func (e *Engine) Platforms(now time.Time) []health.PlatformHealth {
	counts := e.ticketCountsByPlatform()
	memory, storage, capacity := e.latestCapacity()
	summary := e.PipelineSummary("edlap")

	return []health.PlatformHealth{
		e.buildEdlap(counts, summary.Failed, summary.Delayed),
		e.buildSapbw(counts, memory, storage, capacity),
		e.buildTableau(counts),
		e.buildAlteryx(counts),
	}
}

// Platform evaluates a single platform by id.
func (e *Engine) Platform(id string, now time.Time) (health.PlatformHealth, error) {
	for _, p := range e.Platforms(now) {
		if p.ID == id {
			return p, nil
		}
	}
	return health.PlatformHealth{}, fmt.Errorf("unknown platform: %s", id)
}

// SummaryCounts returns the header counts: platforms per status plus the
// total number of open tickets.
func (e *Engine) SummaryCounts(now time.Time) SummaryCounts {
	var counts SummaryCounts
	for _, p := range e.Platforms(now) {
		switch p.Status {
		case health.StatusHealthy:
			counts.Healthy++
		case health.StatusAttention:
			counts.Attention++
		case health.StatusCritical:
			counts.Critical++
		}
	}
	counts.TotalTickets = len(e.Tickets())
	return counts
}

// Tickets returns the active tickets sorted by priority (High first) then
// by age, oldest first.
func (e *Engine) Tickets() []provider.TicketRecord {
	var active []provider.TicketRecord
	for _, t := range e.provider.Tickets() {
		if t.Active {
			active = append(active, t)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Priority.Rank() != active[j].Priority.Rank() {
			return active[i].Priority.Rank() < active[j].Priority.Rank()
		}
		return active[i].AgeDays > active[j].AgeDays
	})

	return active
}

// PerformanceData produces the chart window for one platform. Unknown
// platform ids return an error; everything else always succeeds.
func (e *Engine) PerformanceData(platformID string, now time.Time, hours int) (PerformanceData, error) {
	switch platformID {
	case "edlap":
		return e.edlapPerformance(now, hours), nil
	case "sapbw":
		return e.sapbwPerformance(now, hours), nil
	case "tableau":
		return e.fleetPerformance("tableau", now, hours), nil
	case "alteryx":
		return e.fleetPerformance("alteryx", now, hours), nil
	}
	return PerformanceData{}, fmt.Errorf("unknown platform: %s", platformID)
}

// HistoricalStats derives the rolling reference stats for a window. Real
// history is not persisted, so the values are simulated from the current
// window with a fixed per-call stream.
func (e *Engine) HistoricalStats(values []float64, period series.Period) series.HistoricalStats {
	rng := rand.New(rand.NewSource(seedHistorical))
	return series.SimulateHistoricalStats(rng, values, period)
}

// CapacityStats computes the true 30-day memory stats from the warehouse
// capacity snapshots, falling back to zeroed stats when none exist.
func (e *Engine) CapacityStats() series.HistoricalStats {
	snapshots := e.provider.CapacitySnapshots()
	values := make([]float64, 0, len(snapshots))
	for _, s := range snapshots {
		values = append(values, s.MemoryUsedTB)
	}
	return series.MeasuredHistoricalStats(values)
}

func (e *Engine) ticketCountsByPlatform() map[string]int {
	counts := make(map[string]int)
	for _, t := range e.provider.Tickets() {
		if t.Active {
			counts[t.Platform]++
		}
	}
	return counts
}

// latestCapacity returns the most recent capacity snapshot's memory,
// storage and capacity, or the documented demo fallbacks when the provider
// has no rows.
func (e *Engine) latestCapacity() (memory, storage, capacity float64) {
	snapshots := e.provider.CapacitySnapshots()
	if len(snapshots) == 0 {
		return fallbackMemoryTB, fallbackStorageTB, fallbackCapacityTB
	}
	last := snapshots[len(snapshots)-1]
	return last.MemoryUsedTB, last.StorageUsedTB, last.MemoryCapacityTB
}
