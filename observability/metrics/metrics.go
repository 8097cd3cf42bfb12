// Package metrics provides the Prometheus-backed implementation of
// lending.MetricsRecorder, adapted from the teacher repository's
// observability.moduleMetrics: a lazily-registered set of CounterVec and
// HistogramVec collectors behind a package-level singleton.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Im-Sue/Pelago/lending"
)

// Recorder implements lending.MetricsRecorder.
type Recorder struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	interest   *prometheus.CounterVec
}

var _ lending.MetricsRecorder = (*Recorder)(nil)

var (
	once     sync.Once
	instance *Recorder
)

// Default returns the process-wide Recorder singleton, registering its
// collectors with the default Prometheus registry on first use.
func Default() *Recorder {
	once.Do(func() {
		instance = &Recorder{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "lending",
				Subsystem: "engine",
				Name:      "operations_total",
				Help:      "Total MarketEngine operations segmented by market, operation, and outcome.",
			}, []string{"market", "operation", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "lending",
				Subsystem: "engine",
				Name:      "operation_duration_seconds",
				Help:      "Latency distribution for MarketEngine operations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"market", "operation"}),
			interest: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "lending",
				Subsystem: "engine",
				Name:      "interest_accrued_base_units_total",
				Help:      "Cumulative interest credited to market totals, in loan-asset base units.",
			}, []string{"market"}),
		}
		prometheus.MustRegister(instance.operations, instance.latency, instance.interest)
	})
	return instance
}

// ObserveOperation implements lending.MetricsRecorder.
func (r *Recorder) ObserveOperation(marketID, operation, outcome string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(marketID, operation, outcome).Inc()
}

// ObserveInterestAccrued implements lending.MetricsRecorder.
func (r *Recorder) ObserveInterestAccrued(marketID string, amount uint64) {
	if r == nil {
		return
	}
	r.interest.WithLabelValues(marketID).Add(float64(amount))
}

// Timer reports operation latency; call it via defer at the top of a call
// site that wraps an Engine operation.
func (r *Recorder) Timer(marketID, operation string) func() {
	if r == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		r.latency.WithLabelValues(marketID, operation).Observe(time.Since(start).Seconds())
	}
}
