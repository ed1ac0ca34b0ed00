//nolint:testpackage // requires internal access to unexported types and functions
package compare

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmperrors "github.com/paveg/relcmp/internal/errors"
	"github.com/paveg/relcmp/internal/series"
)

func TestResolveDomain(t *testing.T) {
	tests := []struct {
		left, right series.ElementType
		expected    domain
	}{
		{series.UInt8, series.UInt32, domainUint64},
		{series.UInt64, series.UInt64, domainUint64},
		{series.Int8, series.Int64, domainInt64},
		{series.Int32, series.UInt8, domainInt64},
		{series.UInt32, series.Int16, domainInt64},
		{series.Int8, series.UInt64, domainInt128},
		{series.UInt64, series.Int64, domainInt128},
		{series.Float32, series.Float32, domainFloat64},
		{series.Int64, series.Float32, domainFloat64},
		{series.Float64, series.UInt64, domainFloat64},
		{series.Utf8, series.Utf8, domainUtf8},
	}

	for _, tt := range tests {
		t.Run(tt.left.String()+"_"+tt.right.String(), func(t *testing.T) {
			got, err := resolveDomain("eq", tt.left, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)

			got, err = resolveDomain("eq", tt.right, tt.left)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got, "domain must not depend on operand order")
		})
	}

	for _, pair := range [][2]series.ElementType{
		{series.Utf8, series.Int32},
		{series.Float64, series.Utf8},
		{series.Boolean, series.Boolean},
		{series.Boolean, series.Int8},
	} {
		_, err := resolveDomain("eq", pair[0], pair[1])
		assert.ErrorIs(t, err, cmperrors.ErrTypeMismatch)
	}
}

func TestInt128Compare(t *testing.T) {
	maxU := int128FromUint64(math.MaxUint64)
	maxI := int128FromInt64(math.MaxInt64)
	minI := int128FromInt64(math.MinInt64)
	negOne := int128FromInt64(-1)
	zero := int128FromUint64(0)

	assert.Equal(t, greater, maxU.compare(maxI))
	assert.Equal(t, greater, maxU.compare(negOne))
	assert.Equal(t, less, minI.compare(negOne))
	assert.Equal(t, less, negOne.compare(zero))
	assert.Equal(t, equal, int128FromInt64(42).compare(int128FromUint64(42)))
	assert.Equal(t, equal, int128FromInt64(0).compare(zero))
}

func TestExactFloatRepresentation(t *testing.T) {
	assert.True(t, exactInt64(1<<53))
	assert.False(t, exactInt64(1<<53+1))
	assert.True(t, exactInt64(-(1 << 53)))
	assert.True(t, exactInt64(math.MinInt64))
	assert.False(t, exactInt64(math.MaxInt64))
	assert.True(t, exactInt64(1<<62))

	assert.True(t, exactUint64(1<<63))
	assert.False(t, exactUint64(math.MaxUint64))
	assert.False(t, exactUint64(1<<53+1))
	assert.True(t, exactUint64(0))
}

func TestPredicateAgreesWithOrdering(t *testing.T) {
	values := []float64{math.Inf(-1), -1, -0.0, 0, 1, math.Inf(1), math.NaN()}

	for _, k := range AllKinds {
		pred := predicate[float64](k)
		for _, a := range values {
			for _, b := range values {
				assert.Equal(t, k.accepts(compareOrdered(a, b)), pred(a, b),
					"%s(%v, %v)", k, a, b)
			}
		}
	}
}

func TestOnlyNotEqualAcceptsUnordered(t *testing.T) {
	for _, k := range AllKinds {
		assert.Equal(t, k == NotEqual, k.accepts(unordered), k.String())
	}
	assert.False(t, Kind(0).accepts(equal))
}

func TestConvertZeroCopy(t *testing.T) {
	src := []int64{1, 2, 3}
	same := convert[int64](src)
	assert.Same(t, &src[0], &same[0])

	widened := convert[float64](src)
	assert.Equal(t, []float64{1, 2, 3}, widened)
}

func TestColumnMaterialisation(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := array.NewInt8Builder(mem)
	b.AppendValues([]int8{-1, 0, 7}, nil)
	arr := b.NewArray()
	b.Release()
	defer arr.Release()

	assert.Equal(t, []int64{-1, 0, 7}, columnAs[int64](arr))
	assert.Equal(t, []float64{-1, 0, 7}, columnAs[float64](arr))

	wide := columnInt128(arr, series.Int8)
	assert.Equal(t, int128{hi: -1, lo: math.MaxUint64}, wide[0])
	assert.Equal(t, int128{lo: 7}, wide[2])

	sliced := array.NewSlice(arr, 1, 3)
	defer sliced.Release()
	assert.Equal(t, []int64{0, 7}, columnAs[int64](sliced))
}

func TestScalarConversion(t *testing.T) {
	assert.Equal(t, int64(-5), scalarAs[int64](int8(-5)))
	assert.InDelta(t, 1.5, scalarAs[float64](float32(1.5)), 0)
	assert.Equal(t, uint64(9), scalarAs[uint64](uint16(9)))

	assert.Equal(t, int128{lo: math.MaxUint64}, scalarInt128(series.NewScalar(uint64(math.MaxUint64))))
	assert.Equal(t, int128{hi: -1, lo: math.MaxUint64}, scalarInt128(series.NewScalar(int32(-1))))
}
