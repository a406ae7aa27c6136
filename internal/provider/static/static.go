// Package static is an in-memory provider used for demo mode and tests.
package static

import "github.com/opsdash/platform-pulse/internal/provider"

// Provider serves fixed record slices.
type Provider struct {
	TicketRecords []provider.TicketRecord
	Runs          []provider.PipelineRun
	Snapshots     []provider.CapacitySnapshot
}

// New returns an empty static provider. Every engine path degrades to its
// simulated fallback when the slices stay empty, which is exactly what demo
// mode wants.
func New() *Provider {
	return &Provider{}
}

func (p *Provider) Tickets() []provider.TicketRecord {
	return p.TicketRecords
}

func (p *Provider) PipelineRuns(platform string) []provider.PipelineRun {
	var runs []provider.PipelineRun
	for _, r := range p.Runs {
		if r.Platform == platform {
			runs = append(runs, r)
		}
	}
	return runs
}

func (p *Provider) CapacitySnapshots() []provider.CapacitySnapshot {
	return p.Snapshots
}
