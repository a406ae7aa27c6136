package api

import (
	"time"

	"github.com/opsdash/platform-pulse/internal/engine"
	"github.com/opsdash/platform-pulse/internal/fleet"
	"github.com/opsdash/platform-pulse/internal/health"
	"github.com/opsdash/platform-pulse/internal/provider"
	"github.com/opsdash/platform-pulse/internal/series"
)

// Chart timestamps are minute-resolution wall clock strings; history dates
// are calendar days.
const (
	timestampLayout = "2006-01-02 15:04"
	dateLayout      = "2006-01-02"
)

// MetricResponse is one labeled card metric.
type MetricResponse struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Threshold string `json:"threshold,omitempty"`
}

// PlatformResponse is one platform health card.
type PlatformResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Subtitle    string           `json:"subtitle"`
	Status      string           `json:"status"`
	StatusLabel string           `json:"status_label"`
	Metrics     []MetricResponse `json:"metrics"`
	Trend       string           `json:"trend"`
	EvaluatedAt *time.Time       `json:"evaluated_at,omitempty"`
}

// PlatformListResponse wraps the platform card list.
type PlatformListResponse struct {
	Platforms []PlatformResponse `json:"platforms"`
}

// WindowResponse is one metric series with flagged samples.
type WindowResponse struct {
	Values   []float64        `json:"values"`
	Outliers []series.Outlier `json:"outliers"`
}

// MachineResponse is one fleet machine's series.
type MachineResponse struct {
	Name          string         `json:"name"`
	Users         WindowResponse `json:"users"`
	MemoryPercent WindowResponse `json:"memory_percent"`
	CPUPercent    WindowResponse `json:"cpu_percent"`
}

// PerformanceResponse is the chart payload for one platform. Exactly one
// of the pipeline, warehouse, and machine groups is populated.
type PerformanceResponse struct {
	Platform   string   `json:"platform"`
	Timestamps []string `json:"timestamps"`

	Users            *WindowResponse `json:"users,omitempty"`
	TotalPipelines   *WindowResponse `json:"total_pipelines,omitempty"`
	FailedPipelines  *WindowResponse `json:"failed_pipelines,omitempty"`
	DelayedPipelines *WindowResponse `json:"delayed_pipelines,omitempty"`
	OpenTickets      *WindowResponse `json:"open_tickets,omitempty"`
	OverdueTickets   *WindowResponse `json:"overdue_tickets,omitempty"`

	MemoryTB         *WindowResponse `json:"memory_tb,omitempty"`
	MemoryCapacityTB float64         `json:"memory_capacity,omitempty"`
	LoadTimeSec      *WindowResponse `json:"load_time_sec,omitempty"`
	CPUPercent       *WindowResponse `json:"cpu_percent,omitempty"`

	Machines      []MachineResponse `json:"machines,omitempty"`
	MemoryPercent *WindowResponse   `json:"memory_percent,omitempty"`
}

// PipelineSummaryResponse is the pipeline status breakdown.
type PipelineSummaryResponse struct {
	Successful    int `json:"successful"`
	Delayed       int `json:"delayed"`
	Failed        int `json:"failed"`
	NotApplicable int `json:"not_applicable"`
	Total         int `json:"total"`
}

// TicketResponse is one service ticket.
type TicketResponse struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Priority string `json:"priority"`
	AgeDays  int    `json:"age_days"`
	Breached bool   `json:"breached"`
}

// TicketListResponse wraps the active ticket list.
type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int              `json:"total"`
}

// TicketHistoryResponse is the daily ticket trend.
type TicketHistoryResponse struct {
	Dates          []string       `json:"dates"`
	OpenTickets    WindowResponse `json:"open_tickets"`
	OverdueTickets WindowResponse `json:"overdue_tickets"`
	CurrentCount   int            `json:"current_count"`
	BreachedCount  int            `json:"breached_count"`
}

// SummaryResponse feeds the dashboard header.
type SummaryResponse struct {
	Healthy      int `json:"healthy"`
	Attention    int `json:"attention"`
	Critical     int `json:"critical"`
	TotalTickets int `json:"total_tickets"`
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the readiness check payload.
type ReadyResponse struct {
	Ready     bool     `json:"ready"`
	Platforms int      `json:"platforms"`
	Reasons   []string `json:"reasons,omitempty"`
}

// ErrorResponse wraps an error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toPlatformResponse(h health.PlatformHealth, evaluatedAt *time.Time) PlatformResponse {
	return PlatformResponse{
		ID:          h.ID,
		Name:        h.Name,
		Subtitle:    h.Subtitle,
		Status:      string(h.Status),
		StatusLabel: h.Status.Label(),
		Metrics: []MetricResponse{
			toMetricResponse(h.Metrics.Primary),
			toMetricResponse(h.Metrics.Secondary),
			toMetricResponse(h.Metrics.Tertiary),
		},
		Trend:       string(h.Trend),
		EvaluatedAt: evaluatedAt,
	}
}

func toMetricResponse(m health.Metric) MetricResponse {
	return MetricResponse{Label: m.Label, Value: m.Value, Threshold: m.Threshold}
}

func toWindowResponse(w series.MetricWindow) *WindowResponse {
	outliers := w.Outliers
	if outliers == nil {
		outliers = []series.Outlier{}
	}
	return &WindowResponse{Values: w.Values, Outliers: outliers}
}

func toPerformanceResponse(d engine.PerformanceData) PerformanceResponse {
	resp := PerformanceResponse{
		Platform:   d.Platform,
		Timestamps: formatTimestamps(d.Timestamps),
	}

	switch {
	case d.Pipeline != nil:
		resp.Users = toWindowResponse(d.Pipeline.Users)
		resp.TotalPipelines = toWindowResponse(d.Pipeline.TotalPipelines)
		resp.FailedPipelines = toWindowResponse(d.Pipeline.FailedPipelines)
		resp.DelayedPipelines = toWindowResponse(d.Pipeline.DelayedPipelines)
		resp.OpenTickets = toWindowResponse(d.Pipeline.OpenTickets)
		resp.OverdueTickets = toWindowResponse(d.Pipeline.OverdueTickets)
	case d.Warehouse != nil:
		resp.Users = toWindowResponse(d.Warehouse.Users)
		resp.MemoryTB = toWindowResponse(d.Warehouse.MemoryTB)
		resp.MemoryCapacityTB = d.Warehouse.MemoryCapacityTB
		resp.LoadTimeSec = toWindowResponse(d.Warehouse.LoadTimeSec)
		resp.CPUPercent = toWindowResponse(d.Warehouse.CPUPercent)
	case d.Fleet != nil:
		resp.Machines = toMachineResponses(d.Fleet.Machines)
		resp.Users = toWindowResponse(d.Fleet.Aggregated.Users)
		resp.MemoryPercent = toWindowResponse(d.Fleet.Aggregated.MemoryPercent)
		resp.LoadTimeSec = toWindowResponse(d.Fleet.Aggregated.LoadTimeSec)
		resp.CPUPercent = toWindowResponse(d.Fleet.Aggregated.CPUPercent)
	}

	return resp
}

func toMachineResponses(machines []fleet.Machine) []MachineResponse {
	out := make([]MachineResponse, 0, len(machines))
	for _, m := range machines {
		out = append(out, MachineResponse{
			Name:          m.Name,
			Users:         *toWindowResponse(m.Users),
			MemoryPercent: *toWindowResponse(m.MemoryPercent),
			CPUPercent:    *toWindowResponse(m.CPUPercent),
		})
	}
	return out
}

func toTicketResponses(tickets []provider.TicketRecord) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, TicketResponse{
			ID:       t.ID,
			Platform: t.Platform,
			Title:    t.Title,
			Priority: string(t.Priority),
			AgeDays:  t.AgeDays,
			Breached: t.Breached,
		})
	}
	return out
}

func formatTimestamps(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(timestampLayout)
	}
	return out
}

func formatDates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(dateLayout)
	}
	return out
}
