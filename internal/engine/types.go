package engine

import (
	"time"

	"github.com/opsdash/platform-pulse/internal/fleet"
	"github.com/opsdash/platform-pulse/internal/series"
)

// Per-platform seed constants for the synthetic paths. Each generation call
// builds its own stream from these, so platforms can be evaluated
// concurrently and a single call is always reproducible.
const (
	seedEdlap      int64 = 42
	seedSapbw      int64 = 43
	seedFleetBase  int64 = 44
	seedTableauAgg int64 = 48
	seedAlteryxAgg int64 = 52
	seedHistorical int64 = 100
)

// PipelinePerformance is the performance window for the data-lake platform.
type PipelinePerformance struct {
	Users            series.MetricWindow
	TotalPipelines   series.MetricWindow
	FailedPipelines  series.MetricWindow
	DelayedPipelines series.MetricWindow
	OpenTickets      series.MetricWindow
	OverdueTickets   series.MetricWindow
}

// WarehousePerformance is the performance window for the warehouse
// platform. MemoryTB comes from real capacity snapshots when available.
type WarehousePerformance struct {
	Users            series.MetricWindow
	MemoryTB         series.MetricWindow
	MemoryCapacityTB float64
	LoadTimeSec      series.MetricWindow
	CPUPercent       series.MetricWindow
}

// FleetAggregates are the platform-level folds of a machine fleet.
type FleetAggregates struct {
	Users         series.MetricWindow
	MemoryPercent series.MetricWindow
	LoadTimeSec   series.MetricWindow
	CPUPercent    series.MetricWindow
}

// FleetPerformance is the performance window for a multi-machine platform:
// per-machine detail plus the aggregates the overview chart renders.
type FleetPerformance struct {
	Machines   []fleet.Machine
	Aggregated FleetAggregates
}

// PerformanceData is the engine's output for one platform's chart request.
// Exactly one of the three shape fields is set, matching the platform kind.
type PerformanceData struct {
	Platform   string
	Timestamps []time.Time
	Pipeline   *PipelinePerformance
	Warehouse  *WarehousePerformance
	Fleet      *FleetPerformance
}

// PipelineSummary holds current pipeline run counts for one platform.
type PipelineSummary struct {
	Successful    int
	Delayed       int
	Failed        int
	NotApplicable int
	Total         int
}

// TicketHistory is the simulated daily ticket trend for line graphs. The
// last point is pinned to the real current counts.
type TicketHistory struct {
	Dates          []time.Time
	OpenTickets    series.MetricWindow
	OverdueTickets series.MetricWindow
	CurrentCount   int
	BreachedCount  int
}

// SummaryCounts feeds the dashboard header.
type SummaryCounts struct {
	Healthy      int
	Attention    int
	Critical     int
	TotalTickets int
}
