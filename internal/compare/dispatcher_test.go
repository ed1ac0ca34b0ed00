package compare_test

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/relcmp/internal/compare"
	"github.com/paveg/relcmp/internal/config"
	cmperrors "github.com/paveg/relcmp/internal/errors"
	"github.com/paveg/relcmp/internal/monitoring"
	"github.com/paveg/relcmp/internal/parallel"
	"github.com/paveg/relcmp/internal/series"
	"github.com/paveg/relcmp/internal/testutil"
)

// sequentialConfig never splits a scan.
var sequentialConfig = config.Config{ParallelThreshold: math.MaxInt32}

func newDispatcher(t *testing.T, mem *testutil.TestMemoryContext, opts ...compare.Option) *compare.Dispatcher {
	t.Helper()
	opts = append([]compare.Option{compare.WithAllocator(mem.Allocator), compare.WithConfig(sequentialConfig)}, opts...)
	d, err := compare.NewDispatcher(opts...)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func ptr[T any](v T) *T { return &v }

func TestCompare_ScalarEqualWithNull(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	left := series.NewFromPointers("a", []*int32{ptr[int32](1), ptr[int32](2), nil, ptr[int32](4)}, mem.Allocator)
	defer left.Release()

	mask, err := d.Equal(left, series.NewScalar(int32(2)))
	require.NoError(t, err)
	defer mask.Release()

	assert.Equal(t, "a", mask.Name())
	assert.Equal(t, 4, mask.Len())
	testutil.AssertMask(t, mask, false, true, nil, false)
}

func TestCompare_StringsLexicographic(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	left := series.New("fruit", []string{"apple", "banana"}, mem.Allocator)
	defer left.Release()
	right := series.New("other", []string{"banana", "banana"}, mem.Allocator)
	defer right.Release()

	mask, err := d.LessThan(left, right)
	require.NoError(t, err)
	defer mask.Release()

	testutil.AssertMask(t, mask, true, false)
}

func TestCompare_WidensUnsignedAgainstSigned(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	left := series.New("u", []uint8{1, 255}, mem.Allocator)
	defer left.Release()
	right := series.New("i", []int32{300, 255}, mem.Allocator)
	defer right.Release()

	mask, err := d.Equal(left, right)
	require.NoError(t, err)
	defer mask.Release()

	testutil.AssertMask(t, mask, false, true)
}

func TestCompare_UInt64AgainstInt64(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	left := series.New("u", []uint64{math.MaxUint64, 0, 5, 1 << 63}, mem.Allocator)
	defer left.Release()
	right := series.New("i", []int64{-1, -1, 5, math.MaxInt64}, mem.Allocator)
	defer right.Release()

	gt, err := d.GreaterThan(left, right)
	require.NoError(t, err)
	defer gt.Release()
	testutil.AssertMask(t, gt, true, true, false, true)

	eq, err := d.Equal(left, right)
	require.NoError(t, err)
	defer eq.Release()
	testutil.AssertMask(t, eq, false, false, true, false)

	lt, err := d.LessThan(right, series.NewScalar(uint64(math.MaxUint64)))
	require.NoError(t, err)
	defer lt.Release()
	testutil.AssertMask(t, lt, true, true, true, true)
}

func TestCompare_AllKindsMixedWidths(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	left := series.New("l", []int8{-3, 0, 7}, mem.Allocator)
	defer left.Release()
	right := series.New("r", []uint16{1, 0, 6}, mem.Allocator)
	defer right.Release()

	expected := map[compare.Kind][]any{
		compare.Equal:          {false, true, false},
		compare.NotEqual:       {true, false, true},
		compare.GreaterThan:    {false, false, true},
		compare.GreaterOrEqual: {false, true, true},
		compare.LessThan:       {true, false, false},
		compare.LessOrEqual:    {true, true, false},
	}

	for kind, want := range expected {
		t.Run(kind.String(), func(t *testing.T) {
			mask, err := d.Compare(kind, left, right)
			require.NoError(t, err)
			defer mask.Release()
			testutil.AssertMask(t, mask, want...)
		})
	}
}

func TestCompare_NaN(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	nan := math.NaN()
	left := series.New("x", []float64{nan, nan, 1, nan}, mem.Allocator)
	defer left.Release()
	right := series.New("y", []float32{float32(nan), 1, float32(nan), 0}, mem.Allocator)
	defer right.Release()

	expected := map[compare.Kind]bool{
		compare.Equal:          false,
		compare.NotEqual:       true,
		compare.GreaterThan:    false,
		compare.GreaterOrEqual: false,
		compare.LessThan:       false,
		compare.LessOrEqual:    false,
	}

	for kind, want := range expected {
		mask, err := d.Compare(kind, left, right)
		require.NoError(t, err)
		testutil.AssertMask(t, mask, want, want, want, want)
		assert.Zero(t, mask.NullCount(), "NaN is a value, not null")
		mask.Release()
	}

	mask, err := d.Equal(left, series.NewScalar(nan))
	require.NoError(t, err)
	defer mask.Release()
	testutil.AssertMask(t, mask, false, false, false, false)
}

func TestCompare_NullPropagation(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	left, err := series.NewNullable("l", []string{"a", "b", "c", "d"}, []bool{true, false, true, false}, mem.Allocator)
	require.NoError(t, err)
	defer left.Release()
	right, err := series.NewNullable("r", []string{"a", "b", "x", "d"}, []bool{true, true, false, false}, mem.Allocator)
	require.NoError(t, err)
	defer right.Release()

	for _, kind := range compare.AllKinds {
		mask, err := d.Compare(kind, left, right)
		require.NoError(t, err)
		assert.Equal(t, 3, mask.NullCount(), kind.String())
		assert.False(t, mask.IsNull(0))
		assert.True(t, mask.IsNull(1))
		assert.True(t, mask.IsNull(2))
		assert.True(t, mask.IsNull(3))
		mask.Release()
	}
}

func TestCompare_NullScalar(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	left := series.New("a", []int64{1, 2, 3}, mem.Allocator)
	defer left.Release()

	mask, err := d.NotEqual(left, series.NullScalar(series.Int64))
	require.NoError(t, err)
	defer mask.Release()

	testutil.AssertMask(t, mask, nil, nil, nil)
}

func TestCompare_ScalarLeft(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	right := series.New("b", []float32{1, 2, 3}, mem.Allocator)
	defer right.Release()

	// 2 < b
	mask, err := d.CompareScalarLeft(compare.LessThan, series.NewScalar(int16(2)), right)
	require.NoError(t, err)
	defer mask.Release()

	assert.Equal(t, "b", mask.Name())
	testutil.AssertMask(t, mask, false, false, true)
}

func TestCompare_Complementarity(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	const n = 500
	left := series.New("l", testutil.GenerateInt64s(n, 5, 1), mem.Allocator)
	defer left.Release()
	right := series.New("r", testutil.GenerateInt64s(n, 5, 2), mem.Allocator)
	defer right.Release()

	results := make(map[compare.Kind][]any)
	for _, kind := range compare.AllKinds {
		mask, err := d.Compare(kind, left, right)
		require.NoError(t, err)
		results[kind] = testutil.MaskValues(t, mask)
		mask.Release()
	}

	for i := range n {
		lt := results[compare.LessThan][i].(bool)
		eq := results[compare.Equal][i].(bool)
		gt := results[compare.GreaterThan][i].(bool)

		exactlyOne := 0
		for _, b := range []bool{lt, eq, gt} {
			if b {
				exactlyOne++
			}
		}
		assert.Equal(t, 1, exactlyOne, "row %d", i)
		assert.Equal(t, gt || eq, results[compare.GreaterOrEqual][i], "row %d", i)
		assert.Equal(t, lt || eq, results[compare.LessOrEqual][i], "row %d", i)
		assert.Equal(t, !eq, results[compare.NotEqual][i], "row %d", i)
	}
}

func TestCompare_TypeMismatch(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	text := series.New("t", []string{"1", "2", "3"}, mem.Allocator)
	defer text.Release()
	ints := series.New("i", []int32{1, 2, 3}, mem.Allocator)
	defer ints.Release()
	flags := series.New("b", []bool{true, false, true}, mem.Allocator)
	defer flags.Release()

	tests := []struct {
		name  string
		left  *series.Series
		right series.Operand
	}{
		{"utf8 vs int32", text, ints},
		{"int32 vs utf8", ints, text},
		{"utf8 vs int scalar", text, series.NewScalar(int32(1))},
		{"int32 vs string scalar", ints, series.NewScalar("1")},
		{"bool vs bool", flags, flags},
		{"bool vs int32", flags, ints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask, err := d.Equal(tt.left, tt.right)
			assert.Nil(t, mask)
			require.Error(t, err)
			assert.ErrorIs(t, err, cmperrors.ErrTypeMismatch)
		})
	}
}

func TestCompare_LengthMismatch(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	left := series.New("a", []int32{1, 2, 3}, mem.Allocator)
	defer left.Release()
	right := series.New("b", []int32{1, 2, 3, 4, 5}, mem.Allocator)
	defer right.Release()

	_, err := d.Equal(left, right)
	require.Error(t, err)
	assert.ErrorIs(t, err, cmperrors.ErrLengthMismatch)
	assert.Contains(t, err.Error(), "3 != 5")
}

func TestCompare_Overflow(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	floats := series.New("f", []float64{0, 1}, mem.Allocator)
	defer floats.Release()

	t.Run("int64 series", func(t *testing.T) {
		ints := series.New("big", []int64{1, 1<<53 + 1}, mem.Allocator)
		defer ints.Release()

		_, err := d.LessThan(ints, floats)
		require.Error(t, err)
		assert.ErrorIs(t, err, cmperrors.ErrOverflow)
		assert.Contains(t, err.Error(), "big")
		assert.Contains(t, err.Error(), "index 1")
	})

	t.Run("null rows are not checked", func(t *testing.T) {
		ints, err := series.NewNullable("big", []int64{1, 1<<53 + 1}, []bool{true, false}, mem.Allocator)
		require.NoError(t, err)
		defer ints.Release()

		mask, err := d.Equal(floats, ints)
		require.NoError(t, err)
		defer mask.Release()
		testutil.AssertMask(t, mask, false, nil)
	})

	t.Run("uint64 scalar", func(t *testing.T) {
		_, err := d.GreaterThan(floats, series.NewScalar(uint64(math.MaxUint64)))
		assert.ErrorIs(t, err, cmperrors.ErrOverflow)
	})

	t.Run("exact large values widen", func(t *testing.T) {
		mask, err := d.LessThan(floats, series.NewScalar(int64(1<<62)))
		require.NoError(t, err)
		defer mask.Release()
		testutil.AssertMask(t, mask, true, true)
	})
}

func TestCompare_InvalidInput(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	s := series.New("a", []int32{1}, mem.Allocator)

	_, err := d.Compare(compare.Kind(0), s, s)
	assert.ErrorIs(t, err, cmperrors.ErrInvalidInput)

	_, err = d.Equal(s, nil)
	assert.ErrorIs(t, err, cmperrors.ErrInvalidInput)

	_, err = d.Equal(nil, s)
	assert.ErrorIs(t, err, cmperrors.ErrInvalidInput)

	s.Release()
	_, err = d.Equal(s, series.NewScalar(int32(1)))
	assert.ErrorIs(t, err, cmperrors.ErrInvalidInput)
}

func TestCompare_EmptySeries(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	left := series.New("a", []uint32{}, mem.Allocator)
	defer left.Release()

	mask, err := d.GreaterOrEqual(left, left)
	require.NoError(t, err)
	defer mask.Release()
	assert.Equal(t, 0, mask.Len())
}

func TestCompare_SlicedArrow(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	b := array.NewInt16Builder(mem.Allocator)
	b.AppendValues([]int16{9, 1, 2, 3, 9}, []bool{true, true, false, true, true})
	full := b.NewArray()
	b.Release()
	sliced := array.NewSlice(full, 1, 4)
	full.Release()

	s, err := series.FromArrow("sliced", sliced)
	sliced.Release()
	require.NoError(t, err)
	defer s.Release()

	mask, err := d.GreaterThan(s, series.NewScalar(int16(1)))
	require.NoError(t, err)
	defer mask.Release()
	testutil.AssertMask(t, mask, false, nil, true)
}

func TestCompare_ParallelMatchesSequential(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	const n = 10_000
	valid := testutil.GenerateValidity(n, 11)
	left, err := series.NewNullable("l", testutil.GenerateFloat64s(n, 37, 3), valid, mem.Allocator)
	require.NoError(t, err)
	defer left.Release()
	right := series.New("r", testutil.GenerateInt64s(n, 1, 4), mem.Allocator)
	defer right.Release()

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	seq := newDispatcher(t, mem)
	par := newDispatcher(t, mem,
		compare.WithConfig(config.Config{ParallelThreshold: 1, ChunkSize: 333, WorkerPoolSize: 4}),
		compare.WithMetrics(metrics),
	)

	for _, kind := range compare.AllKinds {
		want, err := seq.Compare(kind, left, right)
		require.NoError(t, err)
		got, err := par.Compare(kind, left, right)
		require.NoError(t, err)

		assert.Equal(t, want.Fingerprint(), got.Fingerprint(), kind.String())
		assert.Equal(t, testutil.MaskValues(t, want), testutil.MaskValues(t, got), kind.String())

		want.Release()
		got.Release()
	}

	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(`
# HELP relcmp_parallel_scans_total Total number of comparisons scanned in parallel chunks
# TYPE relcmp_parallel_scans_total counter
relcmp_parallel_scans_total 6
`), "relcmp_parallel_scans_total"))
}

func TestCompare_ClosedPool(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	pool := parallel.NewWorkerPool(2)
	pool.Close()

	d := newDispatcher(t, mem,
		compare.WithConfig(config.Config{ParallelThreshold: 1, ChunkSize: 1, WorkerPoolSize: 2}),
		compare.WithWorkerPool(pool),
	)

	left := series.New("a", []int32{1, 2, 3, 4}, mem.Allocator)
	defer left.Release()

	_, err := d.Equal(left, left)
	require.Error(t, err)
	var cmpErr *cmperrors.ComparisonError
	require.ErrorAs(t, err, &cmpErr)
	assert.Equal(t, cmperrors.KindInternal, cmpErr.Kind)
}

func TestCompare_Deterministic(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()
	d := newDispatcher(t, mem)

	left := series.New("l", testutil.GenerateInt64s(1000, 100, 9), mem.Allocator)
	defer left.Release()

	var first uint64
	for i := range 5 {
		mask, err := d.GreaterOrEqual(left, series.NewScalar(int8(0)))
		require.NoError(t, err)
		if i == 0 {
			first = mask.Fingerprint()
		}
		assert.Equal(t, first, mask.Fingerprint())
		mask.Release()
	}
}

func TestCompare_ObservabilityHooks(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	collector := monitoring.NewMetricsCollector(true)
	reg := prometheus.NewRegistry()

	d := newDispatcher(t, mem,
		compare.WithLogger(logger),
		compare.WithCollector(collector),
		compare.WithMetrics(monitoring.NewMetrics(reg)),
	)
	assert.Same(t, collector, d.Collector())

	left := series.New("a", []uint8{1, 2}, mem.Allocator)
	defer left.Release()
	text := series.New("t", []string{"x", "y"}, mem.Allocator)
	defer text.Release()

	mask, err := d.Equal(left, series.NewScalar(uint32(2)))
	require.NoError(t, err)
	mask.Release()

	_, err = d.Equal(left, text)
	require.Error(t, err)

	assert.Contains(t, logs.String(), `"msg":"comparison planned"`)
	assert.Contains(t, logs.String(), `"domain":"uint64"`)
	assert.NotContains(t, logs.String(), "cannot compare", "errors are returned, not logged")

	summary := collector.GetSummary()
	assert.Equal(t, 1, summary.TotalOperations)
	assert.Equal(t, int64(2), summary.TotalRows)

	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(`
# HELP relcmp_comparisons_total Total number of comparisons by kind and outcome
# TYPE relcmp_comparisons_total counter
relcmp_comparisons_total{kind="eq",status="success"} 1
relcmp_comparisons_total{kind="eq",status="type mismatch"} 1
`), "relcmp_comparisons_total"))
}

func TestNewDispatcher_InvalidConfig(t *testing.T) {
	_, err := compare.NewDispatcher(compare.WithConfig(config.Config{ParallelThreshold: -1}))
	require.Error(t, err)
	assert.ErrorIs(t, err, cmperrors.ErrInvalidInput)
}
