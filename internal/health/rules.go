// Package health classifies current metric values into the three-level
// status shown on platform cards.
//
// Two rule shapes exist in the current rule set: the pipeline- and
// capacity-oriented platforms use a two-threshold ladder with a critical
// tier, while the ticket-volume platforms use a single cutover with no
// critical tier at all. The asymmetry is deliberate and kept explicit as
// two rule types instead of one generic function with special cases.
package health

import "math"

// Rule classifies a single current metric value.
type Rule interface {
	Classify(value float64) Status
}

// LadderRule is the two-threshold ladder: values below Healthy are healthy,
// values from Healthy up to Attention need attention, values at or above
// Attention are critical.
type LadderRule struct {
	Healthy   float64
	Attention float64
}

func (r LadderRule) Classify(value float64) Status {
	switch {
	case value >= r.Attention:
		return StatusCritical
	case value >= r.Healthy:
		return StatusAttention
	}
	return StatusHealthy
}

// SingleCutoverRule flags attention when a count exceeds the limit. There is
// no critical tier for platforms classified this way.
type SingleCutoverRule struct {
	Limit float64
}

func (r SingleCutoverRule) Classify(value float64) Status {
	if value > r.Limit {
		return StatusAttention
	}
	return StatusHealthy
}

// AlwaysPass is the sentinel rule substituted when no ladder is configured
// for a platform/metric pair: every value classifies as healthy.
func AlwaysPass() LadderRule {
	return LadderRule{Healthy: math.MaxFloat64, Attention: math.MaxFloat64}
}

// CapacityTrend derives the display trend for capacity-oriented platforms:
// rising once usage reaches the attention cutover, stable otherwise.
func CapacityTrend(usage, attentionCutover float64) Trend {
	if usage >= attentionCutover {
		return TrendRising
	}
	return TrendStable
}
