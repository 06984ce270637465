package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records quote lifecycle and detector activity.
type QuoteMetrics struct {
	created          prometheus.Counter
	edits            *prometheus.CounterVec
	detectorDuration prometheus.Histogram
	detectorFailures prometheus.Counter
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quotes_created_total",
		Help: "Quotes created from detection results.",
	})
	edits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_edits_total",
		Help: "Quote edit operations by kind.",
	}, []string{"op"})
	detectorDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "detector_request_duration_seconds",
		Help:    "Duration of detector inference calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	detectorFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "detector_failures_total",
		Help: "Failed detector inference calls.",
	})
	reg.MustRegister(created, edits, detectorDuration, detectorFailures)
	return &QuoteMetrics{
		created:          created,
		edits:            edits,
		detectorDuration: detectorDuration,
		detectorFailures: detectorFailures,
	}
}

// IncCreated increments the created-quote counter.
func (q *QuoteMetrics) IncCreated() {
	if q == nil || q.created == nil {
		return
	}
	q.created.Inc()
}

// IncEdit increments the edit counter for the named operation.
func (q *QuoteMetrics) IncEdit(op string) {
	if q == nil || q.edits == nil {
		return
	}
	q.edits.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveDetectorDuration records one detector round trip.
func (q *QuoteMetrics) ObserveDetectorDuration(duration time.Duration) {
	if q == nil || q.detectorDuration == nil {
		return
	}
	q.detectorDuration.Observe(duration.Seconds())
}

// IncDetectorFailure increments the detector failure counter.
func (q *QuoteMetrics) IncDetectorFailure() {
	if q == nil || q.detectorFailures == nil {
		return
	}
	q.detectorFailures.Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
