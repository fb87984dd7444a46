package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the KBV module.
type Metrics struct {
	// Question round outcomes by result ("question", "no_content", "error")
	RoundOutcome *prometheus.CounterVec

	// Provider round-trip latency by operation ("saa", "rtq")
	ProviderLatency *prometheus.HistogramVec

	// Provider outcomes by operation and authentication result
	ProviderResult *prometheus.CounterVec

	// Structured provider errors by operation and error code
	ProviderError *prometheus.CounterVec
}

// New creates a Metrics instance with all KBV module metrics registered.
func New() *Metrics {
	return &Metrics{
		RoundOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kbvcri_question_round_outcomes_total",
			Help: "Total question round outcomes by result",
		}, []string{"result"}),

		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kbvcri_provider_duration_seconds",
			Help:    "Duration of provider round-trips by operation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),

		ProviderResult: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kbvcri_provider_results_total",
			Help: "Total provider results by operation and authentication result",
		}, []string{"operation", "result"}),

		ProviderError: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kbvcri_provider_errors_total",
			Help: "Total structured provider errors by operation and code",
		}, []string{"operation", "code"}),
	}
}

// ObserveProviderLatency records the duration of one provider round-trip.
func (m *Metrics) ObserveProviderLatency(operation string, d time.Duration) {
	if m != nil {
		m.ProviderLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// IncrementRoundOutcome records the outcome of one question round.
func (m *Metrics) IncrementRoundOutcome(result string) {
	if m != nil {
		m.RoundOutcome.WithLabelValues(result).Inc()
	}
}

// IncrementProviderResult records the authentication result attached to a
// provider response.
func (m *Metrics) IncrementProviderResult(operation, result string) {
	if m != nil && result != "" {
		m.ProviderResult.WithLabelValues(operation, result).Inc()
	}
}

// IncrementProviderError records a structured error attached to a provider
// response.
func (m *Metrics) IncrementProviderError(operation, code string) {
	if m != nil {
		m.ProviderError.WithLabelValues(operation, code).Inc()
	}
}
