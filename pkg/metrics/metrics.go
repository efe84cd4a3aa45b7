// Package metrics provides conversion observability for the table bridge
// using Prometheus metrics.
//
// # Overview
//
// The metrics package provides:
//   - Conversion counts per direction and strategy
//   - Conversion latency histograms
//   - Counters for column reuse, fallback builders and lazy materializations
//   - A small Timer utility
//
// # Basic Usage
//
//	timer := metrics.NewTimer("to_table")
//	table, err := converter.ToTable(ctx, set)
//	metrics.ObserveConversion(metrics.DirectionToTable, "direct", timer.Stop(), err)
//
// Recording can be disabled globally with SetEnabled(false); all helpers then
// become no-ops.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversion directions used as label values.
const (
	DirectionToTable = "to_table"
	DirectionToSet   = "to_example_set"
	DirectionToLazy  = "to_lazy_example_set"
)

var enabled atomic.Bool

func init() {
	enabled.Store(true)
}

// SetEnabled turns metric recording on or off.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Enabled reports whether metrics are recorded.
func Enabled() bool {
	return enabled.Load()
}

var (
	// ConversionsTotal counts finished conversion calls.
	// Labels: direction, strategy, status (success/failure)
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablebridge_conversions_total",
			Help: "Total number of table conversions",
		},
		[]string{"direction", "strategy", "status"},
	)

	// ConversionLatency tracks conversion durations in seconds.
	ConversionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tablebridge_conversion_duration_seconds",
			Help:    "Conversion duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 12),
		},
		[]string{"direction", "strategy"},
	)

	// ColumnsReused counts columns taken by reference from a lazy view's
	// source table instead of being copied.
	ColumnsReused = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tablebridge_columns_reused_total",
			Help: "Columns reused without copying during conversion",
		},
	)

	// FallbackBuilds counts columns built through a slower, correctness
	// preserving path. Labels: reason
	FallbackBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablebridge_fallback_builds_total",
			Help: "Columns built by a fallback builder",
		},
		[]string{"reason"},
	)

	// Materializations counts lazy tables that switched to a mutable store.
	Materializations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tablebridge_materializations_total",
			Help: "Lazy convert-on-write tables materialized",
		},
	)
)

// ObserveConversion records one conversion call.
func ObserveConversion(direction, strategy string, d time.Duration, err error) {
	if !Enabled() {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	ConversionsTotal.WithLabelValues(direction, strategy, status).Inc()
	ConversionLatency.WithLabelValues(direction, strategy).Observe(d.Seconds())
}

// ObserveReuse records n columns reused by reference.
func ObserveReuse(n int) {
	if !Enabled() || n == 0 {
		return
	}
	ColumnsReused.Add(float64(n))
}

// ObserveFallback records a fallback column build.
func ObserveFallback(reason string) {
	if !Enabled() {
		return
	}
	FallbackBuilds.WithLabelValues(reason).Inc()
}

// ObserveMaterialization records a lazy table materialization.
func ObserveMaterialization() {
	if !Enabled() {
		return
	}
	Materializations.Inc()
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the timer name.
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation. The timer can be
// stopped multiple times.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
