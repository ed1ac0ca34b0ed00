package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	labelKind   = "kind"
	labelStatus = "status"

	// StatusSuccess labels comparisons that produced a mask.
	StatusSuccess = "success"
)

// Metrics exposes comparison counters and latencies to Prometheus.
// All methods are safe on a nil receiver.
type Metrics struct {
	comparisons   *prometheus.CounterVec
	rows          prometheus.Counter
	parallelScans prometheus.Counter
	duration      *prometheus.HistogramVec
}

// NewMetrics registers the comparison metrics with r.
func NewMetrics(r prometheus.Registerer) *Metrics {
	return &Metrics{
		comparisons: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "relcmp_comparisons_total",
			Help: "Total number of comparisons by kind and outcome",
		}, []string{labelKind, labelStatus}),
		rows: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "relcmp_rows_compared_total",
			Help: "Total number of rows scanned by successful comparisons",
		}),
		parallelScans: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "relcmp_parallel_scans_total",
			Help: "Total number of comparisons scanned in parallel chunks",
		}),
		duration: promauto.With(r).NewHistogramVec(prometheus.HistogramOpts{
			Name:                            "relcmp_comparison_duration_seconds",
			Help:                            "Duration of comparisons in seconds",
			Buckets:                         prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs -> ~2.6s
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: time.Hour,
		}, []string{labelKind}),
	}
}

// Observe records one comparison. status is StatusSuccess or an error kind name.
func (m *Metrics) Observe(kind, status string, rows int, parallel bool, d time.Duration) {
	if m == nil {
		return
	}
	m.comparisons.WithLabelValues(kind, status).Inc()
	m.duration.WithLabelValues(kind).Observe(d.Seconds())
	if status == StatusSuccess {
		m.rows.Add(float64(rows))
	}
	if parallel {
		m.parallelScans.Inc()
	}
}
