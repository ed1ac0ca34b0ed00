// Package testutil provides common testing utilities shared by the
// comparison packages: leak-checked allocators, mask assertions and
// deterministic column fixtures.
package testutil

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/relcmp/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryContext provides a leak-checked allocator.
type TestMemoryContext struct {
	Allocator *memory.CheckedAllocator
	tb        testing.TB
}

// Release asserts that every allocation made through the context was freed.
func (tmc *TestMemoryContext) Release() {
	tmc.Allocator.AssertSize(tmc.tb, 0)
}

// SetupMemoryTest creates a checked allocator for tests.
// Returns a TestMemoryContext that should be released with defer.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{
		Allocator: memory.NewCheckedAllocator(memory.NewGoAllocator()),
		tb:        tb,
	}
}

// MaskValues returns the rows of a Boolean series as bool, or nil for null rows.
func MaskValues(tb testing.TB, mask *series.Series) []any {
	tb.Helper()
	require.NotNil(tb, mask)
	require.Equal(tb, series.Boolean, mask.ElementType(), "mask must be boolean")

	values, valid, err := mask.Bools()
	require.NoError(tb, err)

	out := make([]any, len(values))
	for i := range values {
		if valid[i] {
			out[i] = values[i]
		}
	}
	return out
}

// AssertMask checks a mask row by row. Each expected entry is true, false
// or nil for a null row.
func AssertMask(tb testing.TB, mask *series.Series, expected ...any) {
	tb.Helper()
	assert.Equal(tb, expected, MaskValues(tb, mask))
}

// GenerateInt64s returns n pseudo-random values in [-limit, limit] from a fixed seed.
func GenerateInt64s(n int, limit int64, seed uint64) []int64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]int64, n)
	for i := range out {
		out[i] = rng.Int64N(2*limit+1) - limit
	}
	return out
}

// GenerateFloat64s returns n pseudo-random values in [-1, 1) from a fixed
// seed. Every nanEvery-th value is NaN when nanEvery is positive.
func GenerateFloat64s(n, nanEvery int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	for i := range out {
		if nanEvery > 0 && i%nanEvery == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = rng.Float64()*2 - 1
	}
	return out
}

// GenerateValidity returns a validity slice where every nullEvery-th row is null.
func GenerateValidity(n, nullEvery int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = nullEvery <= 0 || i%nullEvery != nullEvery-1
	}
	return out
}
