package gazelle

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeSuccess is the outcome label of a request that returned a payload.
// Failed requests are labelled with their Kind.
const OutcomeSuccess = "success"

// Metrics holds the Prometheus collectors updated by a Client.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	limiterWait     prometheus.Histogram
}

// NewMetrics creates and registers the client collectors on reg.
// It panics if the collectors are already registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gazelle_requests_total",
				Help: "Total number of Gazelle API operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gazelle_request_duration_seconds",
				Help:    "Duration of Gazelle API operations in seconds, including rate limiter waits",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		limiterWait: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gazelle_rate_limiter_wait_seconds",
				Help:    "Time spent waiting for the rate limiter before a request was sent",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
	}
}

func (m *Metrics) recordRequest(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = "error"
		if kind, ok := KindOf(err); ok {
			outcome = kind.String()
		}
	}
	m.requestsTotal.WithLabelValues(op, outcome).Inc()
	m.requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) recordWait(wait time.Duration) {
	if m == nil || wait <= 0 {
		return
	}
	m.limiterWait.Observe(wait.Seconds())
}
