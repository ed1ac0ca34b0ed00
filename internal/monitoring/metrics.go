// Package monitoring provides performance monitoring and metrics collection for comparison operations.
package monitoring

import (
	"runtime"
	"sync"
	"time"
)

// OperationMetrics represents performance metrics for a single comparison.
type OperationMetrics struct {
	Duration      time.Duration `json:"duration"`
	RowsProcessed int64         `json:"rows_processed"`
	MemoryUsed    int64         `json:"memory_used"`
	Operation     string        `json:"operation"`
	Parallel      bool          `json:"parallel"`
	Failed        bool          `json:"failed"`
}

// MetricsCollector collects and stores performance metrics for comparison operations.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics []OperationMetrics
	enabled bool
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	return &MetricsCollector{
		metrics: make([]OperationMetrics, 0),
		enabled: enabled,
	}
}

// IsEnabled returns whether metrics collection is enabled.
func (mc *MetricsCollector) IsEnabled() bool {
	if mc == nil {
		return false
	}
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.enabled
}

// RecordOperation executes the given function and records performance metrics.
// A nil or disabled collector only runs fn.
func (mc *MetricsCollector) RecordOperation(operation string, rows int, parallel bool, fn func() error) error {
	if !mc.IsEnabled() {
		return fn()
	}

	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	start := time.Now()
	err := fn()
	duration := time.Since(start)

	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)

	// TotalAlloc is monotonic, unlike Alloc which drops after a GC cycle.
	memoryUsed := int64(memAfter.TotalAlloc - memBefore.TotalAlloc) //nolint:gosec // bounded by process allocations

	mc.mu.Lock()
	mc.metrics = append(mc.metrics, OperationMetrics{
		Duration:      duration,
		RowsProcessed: int64(rows),
		MemoryUsed:    memoryUsed,
		Operation:     operation,
		Parallel:      parallel,
		Failed:        err != nil,
	})
	mc.mu.Unlock()

	return err
}

// GetMetrics returns a copy of all collected metrics.
func (mc *MetricsCollector) GetMetrics() []OperationMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make([]OperationMetrics, len(mc.metrics))
	copy(result, mc.metrics)
	return result
}

// Clear removes all collected metrics.
func (mc *MetricsCollector) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.metrics = mc.metrics[:0]
}

// SetEnabled enables or disables metrics collection.
func (mc *MetricsCollector) SetEnabled(enabled bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.enabled = enabled
}

// GetSummary returns a summary of collected metrics.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if len(mc.metrics) == 0 {
		return MetricsSummary{}
	}

	var (
		totalDuration time.Duration
		totalMemory   int64
		totalRows     int64
		failures      int
		parallelRuns  int
	)
	operationCounts := make(map[string]int)

	for _, metric := range mc.metrics {
		totalDuration += metric.Duration
		totalMemory += metric.MemoryUsed
		totalRows += metric.RowsProcessed
		operationCounts[metric.Operation]++
		if metric.Failed {
			failures++
		}
		if metric.Parallel {
			parallelRuns++
		}
	}

	return MetricsSummary{
		TotalOperations:    len(mc.metrics),
		FailedOperations:   failures,
		ParallelOperations: parallelRuns,
		TotalDuration:      totalDuration,
		TotalMemory:        totalMemory,
		TotalRows:          totalRows,
		OperationCounts:    operationCounts,
		AverageDuration:    totalDuration / time.Duration(len(mc.metrics)),
	}
}

// MetricsSummary provides aggregate statistics for collected metrics.
type MetricsSummary struct {
	TotalOperations    int            `json:"total_operations"`
	FailedOperations   int            `json:"failed_operations"`
	ParallelOperations int            `json:"parallel_operations"`
	TotalDuration      time.Duration  `json:"total_duration"`
	TotalMemory        int64          `json:"total_memory"`
	TotalRows          int64          `json:"total_rows"`
	OperationCounts    map[string]int `json:"operation_counts"`
	AverageDuration    time.Duration  `json:"average_duration"`
}
