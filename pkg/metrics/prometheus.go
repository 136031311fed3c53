package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain service.Metrics using Prometheus.
type Recorder struct {
	callDuration *prometheus.HistogramVec
	failures     *prometheus.CounterVec
	predictions  *prometheus.CounterVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		callDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "demandcast",
				Subsystem: "scoring",
				Name:      "call_duration_seconds",
				Help:      "Duration of scoring service calls in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		failures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "demandcast",
				Subsystem: "scoring",
				Name:      "failures_total",
				Help:      "Scoring failures by operation and kind",
			},
			[]string{"operation", "kind"},
		),
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "demandcast",
				Name:      "predictions_total",
				Help:      "Successful predictions by demand level",
			},
			[]string{"level"},
		),
	}
}

// RecordCall records the latency of one scoring call.
func (r *Recorder) RecordCall(op string, seconds float64) {
	r.callDuration.WithLabelValues(op).Observe(seconds)
}

// RecordFailure counts a classified failure.
func (r *Recorder) RecordFailure(op, kind string) {
	r.failures.WithLabelValues(op, kind).Inc()
}

// RecordPrediction counts a prediction by its demand level.
func (r *Recorder) RecordPrediction(level string) {
	r.predictions.WithLabelValues(level).Inc()
}
