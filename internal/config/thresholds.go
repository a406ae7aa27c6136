package config

import (
	"math"

	"github.com/opsdash/platform-pulse/internal/fleet"
	"github.com/opsdash/platform-pulse/internal/health"
	"github.com/opsdash/platform-pulse/internal/series"
)

// Ladder is the two-threshold status ladder for one metric. Values above
// attention are considered critical.
type Ladder struct {
	Healthy   float64 `yaml:"healthy"`
	Attention float64 `yaml:"attention"`
}

// Pair holds the per-sample outlier cutoffs for one metric.
type Pair struct {
	Warning  float64 `yaml:"warning"`
	Critical float64 `yaml:"critical"`
}

// PlatformRules groups one platform's threshold tables.
type PlatformRules struct {
	Status   map[string]Ladder `yaml:"status"`
	Outliers map[string]Pair   `yaml:"outliers"`
}

// Thresholds is the full threshold configuration, loaded once at startup
// and treated as immutable for the process lifetime.
type Thresholds struct {
	Platforms    map[string]PlatformRules `yaml:"platforms"`
	Fleets       map[string]fleet.Config  `yaml:"fleets"`
	TicketLimits map[string]float64       `yaml:"ticket_limits"`
}

// StatusLadder returns the status rule for a platform/metric pair. An
// unconfigured combination returns the always-pass sentinel so absent
// configuration degrades to "no alerts" instead of failing.
func (t *Thresholds) StatusLadder(platform, metric string) health.LadderRule {
	rules, ok := t.Platforms[platform]
	if !ok {
		return health.AlwaysPass()
	}
	ladder, ok := rules.Status[metric]
	if !ok {
		return health.AlwaysPass()
	}
	return health.LadderRule{Healthy: ladder.Healthy, Attention: ladder.Attention}
}

// OutlierPair returns the per-sample detection thresholds for a
// platform/metric pair, or the unbounded sentinel when unconfigured.
func (t *Thresholds) OutlierPair(platform, metric string) series.ThresholdPair {
	rules, ok := t.Platforms[platform]
	if !ok {
		return series.Unbounded()
	}
	pair, ok := rules.Outliers[metric]
	if !ok {
		return series.Unbounded()
	}
	return series.ThresholdPair{Warning: pair.Warning, Critical: pair.Critical}
}

// TicketRule returns the single-cutover ticket rule for a platform. An
// unconfigured platform gets an infinite limit, so it never flags.
func (t *Thresholds) TicketRule(platform string) health.SingleCutoverRule {
	limit, ok := t.TicketLimits[platform]
	if !ok {
		return health.SingleCutoverRule{Limit: math.Inf(1)}
	}
	return health.SingleCutoverRule{Limit: limit}
}

// Fleet returns the machine fleet definition for a multi-machine platform.
func (t *Thresholds) Fleet(platform string) (fleet.Config, bool) {
	cfg, ok := t.Fleets[platform]
	return cfg, ok
}

// DefaultThresholds returns the built-in threshold tables. In production
// these would come from a configuration service; the YAML file overrides
// them per key.
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		Platforms: map[string]PlatformRules{
			"edlap": {
				Status: map[string]Ladder{
					"pipeline_failures": {Healthy: 5, Attention: 10},
					"data_delays":       {Healthy: 15, Attention: 30},
				},
				Outliers: map[string]Pair{
					"users":             {Warning: 150, Critical: 200},
					"pipelines_failed":  {Warning: 5, Critical: 10},
					"pipelines_delayed": {Warning: 8, Critical: 15},
					"tickets_overdue":   {Warning: 5, Critical: 10},
				},
			},
			"sapbw": {
				Status: map[string]Ladder{
					"memory_tb":  {Healthy: 20, Attention: 22},
					"storage_tb": {Healthy: 55, Attention: 60},
				},
				Outliers: map[string]Pair{
					"users":         {Warning: 80, Critical: 120},
					"memory_tb":     {Warning: 20, Critical: 22},
					"load_time_sec": {Warning: 8, Critical: 12},
					"cpu_percent":   {Warning: 75, Critical: 90},
				},
			},
			"tableau": {
				Status: map[string]Ladder{
					"load_time_sec": {Healthy: 5, Attention: 8},
					"cpu_percent":   {Healthy: 70, Attention: 85},
				},
				Outliers: map[string]Pair{
					"users":          {Warning: 200, Critical: 300},
					"memory_percent": {Warning: 75, Critical: 90},
					"load_time_sec":  {Warning: 5, Critical: 8},
					"cpu_percent":    {Warning: 70, Critical: 85},
				},
			},
			"alteryx": {
				Status: map[string]Ladder{
					"job_failures": {Healthy: 3, Attention: 7},
					"queue_depth":  {Healthy: 10, Attention: 20},
				},
				Outliers: map[string]Pair{
					"users":          {Warning: 50, Critical: 80},
					"memory_percent": {Warning: 70, Critical: 85},
					"load_time_sec":  {Warning: 120, Critical: 180},
					"cpu_percent":    {Warning: 70, Critical: 85},
				},
			},
		},
		Fleets: map[string]fleet.Config{
			"tableau": {Count: 8, Prefix: "TAB-SRV"},
			"alteryx": {Count: 8, Prefix: "ALT-WRK"},
		},
		TicketLimits: map[string]float64{
			"tableau": 15,
			"alteryx": 15,
		},
	}
}
