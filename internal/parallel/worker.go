// Package parallel provides the worker pool used for chunked comparison scans.
//
// Inputs above the configured parallel threshold are split into contiguous
// row ranges. Each range is handed to a worker goroutine and the results are
// placed back by index, so callers observe exactly the output of a
// sequential scan.
//
// The pool holds no per-call state and may be shared by any number of
// concurrent callers.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool manages a pool of goroutines for parallel processing
type WorkerPool struct {
	numWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
}

// Range is a half-open row interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns the number of rows covered by the range
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// NumWorkers returns the number of worker goroutines per call
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// ProcessIndexed executes work items in parallel while preserving order.
// After Close, items not yet started are skipped and their results are zero.
func ProcessIndexed[T, R any](
	wp *WorkerPool,
	items []T,
	worker func(int, T) R,
) []R {
	if len(items) == 0 {
		return nil
	}

	// Channel for input items with index
	itemCh := make(chan indexedItem[T], len(items))

	// Channel for results with index
	resultCh := make(chan indexedResult[R], len(items))

	// Start workers
	var wg sync.WaitGroup
	for range min(wp.numWorkers, len(items)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemCh {
				select {
				case <-wp.ctx.Done():
					return
				default:
					result := worker(item.index, item.value)
					resultCh <- indexedResult[R]{
						index:  item.index,
						result: result,
					}
				}
			}
		}()
	}

	// Send items to workers
	go func() {
		defer close(itemCh)
		for i, item := range items {
			select {
			case <-wp.ctx.Done():
				return
			case itemCh <- indexedItem[T]{index: i, value: item}:
			}
		}
	}()

	// Close result channel when all workers are done
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Collect results and maintain order
	results := make([]R, len(items))
	for result := range resultCh {
		results[result.index] = result.result
	}

	return results
}

// ChunkRanges splits n rows into consecutive ranges of at most size rows.
func ChunkRanges(n, size int) []Range {
	if n <= 0 {
		return nil
	}
	if size <= 0 || size >= n {
		return []Range{{Lo: 0, Hi: n}}
	}

	ranges := make([]Range, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		ranges = append(ranges, Range{Lo: lo, Hi: min(lo+size, n)})
	}
	return ranges
}

// ForEachRange runs fn once per range on the pool and blocks until all
// ranges are done. It returns the number of rows processed, which is less
// than the total only when the pool was closed mid-call.
func ForEachRange(wp *WorkerPool, ranges []Range, fn func(Range)) int {
	done := ProcessIndexed(wp, ranges, func(_ int, r Range) int {
		fn(r)
		return r.Len()
	})

	total := 0
	for _, n := range done {
		total += n
	}
	return total
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	wp.cancel()
}

// indexedItem holds an item with its index
type indexedItem[T any] struct {
	index int
	value T
}

// indexedResult holds a result with its index
type indexedResult[R any] struct {
	index  int
	result R
}
