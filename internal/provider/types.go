// Package provider defines the materialized input records the engine
// consumes. The engine itself never does I/O; a provider hands it tickets,
// pipeline runs and capacity snapshots as already-loaded slices.
package provider

import "time"

// TicketPriority orders tickets for display.
type TicketPriority string

const (
	PriorityHigh   TicketPriority = "High"
	PriorityMedium TicketPriority = "Medium"
	PriorityLow    TicketPriority = "Low"
)

// Rank returns the sort rank of a priority, High first. Unknown priorities
// sort last.
func (p TicketPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	}
	return 2
}

// TicketRecord is one service ticket. The engine only consumes aggregate
// counts; the full record is passed through to the UI collaborator.
type TicketRecord struct {
	ID       string
	Platform string
	Title    string
	Priority TicketPriority
	AgeDays  int
	Active   bool
	Breached bool
}

// PipelineStatus is the resolved state of one pipeline run.
type PipelineStatus string

const (
	PipelineSuccessful    PipelineStatus = "successful"
	PipelineDelayed       PipelineStatus = "delayed"
	PipelineFailed        PipelineStatus = "failed"
	PipelineNotApplicable PipelineStatus = "not_applicable"
)

// PipelineRun is one pipeline execution record, consumed only as counts.
type PipelineRun struct {
	Platform string
	Status   PipelineStatus
}

// CapacitySnapshot is one periodic memory/storage usage row for the
// warehouse platform.
type CapacitySnapshot struct {
	ID                string
	Timestamp         time.Time
	MemoryUsedTB      float64
	MemoryCapacityTB  float64
	StorageUsedTB     float64
	StorageCapacityTB float64
}

// Provider supplies materialized records to the engine. Implementations
// must degrade to empty slices on failure instead of surfacing errors; the
// engine substitutes deterministic simulated data when a slice is empty.
type Provider interface {
	Tickets() []TicketRecord
	PipelineRuns(platform string) []PipelineRun
	CapacitySnapshots() []CapacitySnapshot
}
