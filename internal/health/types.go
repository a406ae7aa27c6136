package health

// Status is a platform or machine health level.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusAttention Status = "attention"
	StatusCritical  Status = "critical"
)

// Label returns the human-readable form of the status.
func (s Status) Label() string {
	switch s {
	case StatusHealthy:
		return "Healthy"
	case StatusAttention:
		return "Attention"
	case StatusCritical:
		return "Critical"
	}
	return string(s)
}

// Trend is the display-only direction flag on a platform card. It never
// affects the classified status.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendStable  Trend = "stable"
	TrendFalling Trend = "falling"
)

// Metric is one labeled key/value/threshold triple shown on a card.
type Metric struct {
	Label     string
	Value     string
	Threshold string
}

// Metrics holds the three card metrics in display order.
type Metrics struct {
	Primary   Metric
	Secondary Metric
	Tertiary  Metric
}

// PlatformHealth is the classification output for one platform. It is
// recomputed fresh on every evaluation and never mutated; the only durable
// identity is the ID string.
type PlatformHealth struct {
	ID       string
	Name     string
	Subtitle string
	Status   Status
	Metrics  Metrics
	Trend    Trend
}
