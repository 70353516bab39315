package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	invocations *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	fragments   prometheus.Histogram
	cacheTotal  *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a recorder registered on reg. A nil reg means the default
// registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		invocations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onchainiq_model_invocations_total",
				Help: "Model invocations by mode and final outcome",
			},
			[]string{"mode", "outcome"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onchainiq_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		fragments: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "onchainiq_stream_fragments",
				Help:    "Fragments delivered per chat stream",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		cacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onchainiq_analysis_cache_total",
				Help: "Analysis cache lookups by result",
			},
			[]string{"result"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "onchainiq_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordInvocation(mode, outcome string) {
	r.invocations.WithLabelValues(mode, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordFragments(n int) {
	r.fragments.Observe(float64(n))
}

func (r *Recorder) RecordCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheTotal.WithLabelValues(result).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
