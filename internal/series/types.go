package series

import "math"

// Severity marks how far a sample is past its configured thresholds.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Outlier records a single flagged sample. Produced by DetectOutliers and
// never mutated afterwards.
type Outlier struct {
	Index    int      `json:"index"`
	Value    float64  `json:"value"`
	Severity Severity `json:"severity"`
}

// ThresholdPair holds per-sample outlier cutoffs. Warning is expected to be
// below Critical by convention; this is not enforced.
type ThresholdPair struct {
	Warning  float64
	Critical float64
}

// Unbounded returns the always-pass sentinel pair. Detection against it
// flags nothing, so an unconfigured metric degrades to "no alerts".
func Unbounded() ThresholdPair {
	return ThresholdPair{Warning: math.Inf(1), Critical: math.Inf(1)}
}

// MetricWindow is the unit exchanged between generation and the rendering
// collaborator: one metric's values over a timestamp grid plus whatever
// outliers were detected on it.
type MetricWindow struct {
	Values   []float64
	Outliers []Outlier
}

// HistoricalStats holds rolling reference values for a named period.
type HistoricalStats struct {
	Average float64
	Peak    float64
}

// Period selects which historical reference window stats are derived for.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)
