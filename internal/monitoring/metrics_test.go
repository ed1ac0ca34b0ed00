//nolint:testpackage // requires internal access to unexported types and functions
package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector(t *testing.T) {
	t.Run("create disabled collector", func(t *testing.T) {
		collector := NewMetricsCollector(false)
		assert.NotNil(t, collector)
		assert.False(t, collector.IsEnabled())
		assert.Empty(t, collector.GetMetrics())
	})

	t.Run("nil collector is disabled", func(t *testing.T) {
		var collector *MetricsCollector
		assert.False(t, collector.IsEnabled())

		called := false
		err := collector.RecordOperation("eq", 10, false, func() error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("record operation with disabled collector", func(t *testing.T) {
		collector := NewMetricsCollector(false)

		callCount := 0
		err := collector.RecordOperation("gt", 5, false, func() error {
			callCount++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, callCount)
		assert.Empty(t, collector.GetMetrics())
	})

	t.Run("record operation with enabled collector", func(t *testing.T) {
		collector := NewMetricsCollector(true)

		err := collector.RecordOperation("lt_eq", 1000, true, func() error {
			time.Sleep(time.Millisecond)
			return nil
		})
		require.NoError(t, err)

		metrics := collector.GetMetrics()
		require.Len(t, metrics, 1)
		assert.Equal(t, "lt_eq", metrics[0].Operation)
		assert.Equal(t, int64(1000), metrics[0].RowsProcessed)
		assert.True(t, metrics[0].Parallel)
		assert.False(t, metrics[0].Failed)
		assert.GreaterOrEqual(t, metrics[0].Duration, time.Millisecond)
	})

	t.Run("failed operation is recorded and error returned", func(t *testing.T) {
		collector := NewMetricsCollector(true)
		boom := errors.New("boom")

		err := collector.RecordOperation("eq", 3, false, func() error { return boom })
		assert.Equal(t, boom, err)

		metrics := collector.GetMetrics()
		require.Len(t, metrics, 1)
		assert.True(t, metrics[0].Failed)
	})
}

func TestMetricsCollector_Summary(t *testing.T) {
	collector := NewMetricsCollector(true)
	assert.Equal(t, MetricsSummary{}, collector.GetSummary())

	_ = collector.RecordOperation("eq", 10, false, func() error { return nil })
	_ = collector.RecordOperation("eq", 20, true, func() error { return nil })
	_ = collector.RecordOperation("gt", 30, false, func() error { return errors.New("x") })

	summary := collector.GetSummary()
	assert.Equal(t, 3, summary.TotalOperations)
	assert.Equal(t, 1, summary.FailedOperations)
	assert.Equal(t, 1, summary.ParallelOperations)
	assert.Equal(t, int64(60), summary.TotalRows)
	assert.Equal(t, map[string]int{"eq": 2, "gt": 1}, summary.OperationCounts)

	collector.Clear()
	assert.Empty(t, collector.GetMetrics())

	collector.SetEnabled(false)
	assert.False(t, collector.IsEnabled())
}

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg)

	m.Observe("eq", StatusSuccess, 100, false, time.Millisecond)
	m.Observe("eq", StatusSuccess, 50, true, time.Millisecond)
	m.Observe("eq", "type mismatch", 0, false, time.Microsecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.comparisons.WithLabelValues("eq", StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.comparisons.WithLabelValues("eq", "type mismatch")), 0)
	assert.InDelta(t, 150, testutil.ToFloat64(m.rows), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.parallelScans), 0)

	count, err := testutil.GatherAndCount(reg, "relcmp_comparison_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPrometheusMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Observe("eq", StatusSuccess, 1, false, time.Millisecond)
	})
}
