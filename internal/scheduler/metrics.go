package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/opsdash/platform-pulse/internal/health"
)

var (
	platformStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pulse_platform_status",
		Help: "Current platform health status (0=healthy, 1=attention, 2=critical).",
	}, []string{"platform"})

	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_evaluations_total",
		Help: "Total number of platform health evaluations.",
	}, []string{"platform"})

	evaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pulse_evaluation_duration_seconds",
		Help:    "Time spent evaluating one platform.",
		Buckets: prometheus.DefBuckets,
	}, []string{"platform"})
)

func statusValue(s health.Status) float64 {
	switch s {
	case health.StatusAttention:
		return 1
	case health.StatusCritical:
		return 2
	}
	return 0
}
