package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "truetimer"

	labelOperation = "operation"
	labelResult    = "result"
	labelMethod    = "method"
	labelRoute     = "route"
	labelStatus    = "status"

	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

var (
	Registry = prometheus.NewRegistry()

	UsersCreated = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "users",
		Name:      "created_total",
		Help:      "Number of users created.",
	})

	TimersCreated = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "standard_timer",
		Name:      "created_total",
		Help:      "Number of standard timers created.",
	})

	TimerTransitions = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "standard_timer",
		Name:      "transitions_total",
		Help:      "Number of timer lifecycle transitions by operation and result.",
	}, []string{labelOperation, labelResult})

	CompletedActiveSeconds = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "standard_timer",
		Name:      "completed_active_seconds",
		Help:      "Active seconds of timers at completion.",
		Buckets:   prometheus.ExponentialBucketsRange(60, 24*3600, 20),
	})

	RequestDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{labelMethod, labelRoute, labelStatus})
)

func ObserveTransition(operation, result string) {
	TimerTransitions.WithLabelValues(operation, result).Inc()
}
