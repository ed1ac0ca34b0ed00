// Package relcmp compares typed, nullable columns element by element.
//
// A comparison takes a Series and either another Series of the same length
// or a Scalar, and returns a new Boolean Series (a mask). Numeric operands of
// different widths and signedness are widened to a common representation
// before comparing, so no value is ever truncated. Rows where either side is
// null are null in the mask, while NaN is an ordinary value that is unequal
// to everything.
//
// This package is the sole public API for the library.
//
//	mem := memory.NewGoAllocator()
//	prices := relcmp.NewSeries("price", []float64{9.5, 10, 12}, mem)
//	defer prices.Release()
//
//	mask, err := relcmp.Gt(prices, relcmp.NewScalar(int32(10)))
//	if err != nil {
//		return err
//	}
//	defer mask.Release() // [false, false, true]
package relcmp

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/relcmp/internal/common"
	"github.com/paveg/relcmp/internal/compare"
	"github.com/paveg/relcmp/internal/config"
	cmperrors "github.com/paveg/relcmp/internal/errors"
	"github.com/paveg/relcmp/internal/series"
)

type (
	// Series is a named, typed, nullable column backed by Apache Arrow.
	Series = series.Series
	// Scalar is a single typed value compared against every row of a Series.
	Scalar = series.Scalar
	// Operand is the right-hand side of a comparison: *Series or Scalar.
	Operand = series.Operand
	// ElementType tags the element type of a Series or Scalar.
	ElementType = series.ElementType
	// Element is the set of Go types a Series can be built from.
	Element = series.Element
	// ScalarElement is the set of Go types a Scalar can be built from.
	ScalarElement = series.ScalarElement

	// Kind is one of the six relational comparisons.
	Kind = compare.Kind
	// Dispatcher evaluates comparisons with its own allocator, configuration and observers.
	Dispatcher = compare.Dispatcher
	// Option configures a Dispatcher.
	Option = compare.Option

	// Config holds the parallel scan and observability settings.
	Config = config.Config

	// ComparisonError is the error type returned by every comparison.
	ComparisonError = cmperrors.ComparisonError
	// ErrorKind classifies a ComparisonError.
	ErrorKind = cmperrors.ErrorKind
)

// Element types.
const (
	UInt8   = series.UInt8
	UInt16  = series.UInt16
	UInt32  = series.UInt32
	UInt64  = series.UInt64
	Int8    = series.Int8
	Int16   = series.Int16
	Int32   = series.Int32
	Int64   = series.Int64
	Float32 = series.Float32
	Float64 = series.Float64
	Utf8    = series.Utf8
	Boolean = series.Boolean
)

// Comparison kinds.
const (
	Equal          = compare.Equal
	NotEqual       = compare.NotEqual
	GreaterThan    = compare.GreaterThan
	GreaterOrEqual = compare.GreaterOrEqual
	LessThan       = compare.LessThan
	LessOrEqual    = compare.LessOrEqual
)

// Error kinds.
const (
	KindTypeMismatch    = cmperrors.KindTypeMismatch
	KindLengthMismatch  = cmperrors.KindLengthMismatch
	KindOverflow        = cmperrors.KindOverflow
	KindInvalidInput    = cmperrors.KindInvalidInput
	KindUnsupportedType = cmperrors.KindUnsupportedType
	KindInternal        = cmperrors.KindInternal
)

// Sentinel errors for use with errors.Is. Each matches every error of its kind.
var (
	ErrTypeMismatch    = cmperrors.ErrTypeMismatch
	ErrLengthMismatch  = cmperrors.ErrLengthMismatch
	ErrOverflow        = cmperrors.ErrOverflow
	ErrInvalidInput    = cmperrors.ErrInvalidInput
	ErrUnsupportedType = cmperrors.ErrUnsupportedType
)

// Dispatcher options.
var (
	WithAllocator  = compare.WithAllocator
	WithConfig     = compare.WithConfig
	WithWorkerPool = compare.WithWorkerPool
	WithMetrics    = compare.WithMetrics
	WithCollector  = compare.WithCollector
	WithLogger     = compare.WithLogger
)

// NewSeries creates a Series where every value is present.
func NewSeries[T Element](name string, values []T, mem memory.Allocator) *Series {
	return series.New(name, values, mem)
}

// NewNullableSeries creates a Series where valid[i] == false marks row i as null.
func NewNullableSeries[T Element](name string, values []T, valid []bool, mem memory.Allocator) (*Series, error) {
	return series.NewNullable(name, values, valid, mem)
}

// NewSeriesFromPointers creates a Series where nil entries are null.
func NewSeriesFromPointers[T Element](name string, values []*T, mem memory.Allocator) *Series {
	return series.NewFromPointers(name, values, mem)
}

// SeriesFromArrow wraps an existing Arrow array without copying it.
func SeriesFromArrow(name string, arr arrow.Array) (*Series, error) {
	return series.FromArrow(name, arr)
}

// NewScalar creates a present scalar.
func NewScalar[T ScalarElement](v T) Scalar {
	return series.NewScalar(v)
}

// NullScalar creates an absent scalar. Comparing against it yields an all-null mask.
func NullScalar(t ElementType) Scalar {
	return series.NullScalar(t)
}

// ParseScalar converts text into a scalar of the given type with range checks.
func ParseScalar(t ElementType, text string) (Scalar, error) {
	return common.ParseScalar(t, text)
}

// ParseElementType parses a type name such as "int32", "u8" or "utf8".
func ParseElementType(name string) (ElementType, error) {
	return series.ParseElementType(name)
}

// ParseKind parses a comparison name ("gt_eq"), symbol (">=") or alias ("ge").
func ParseKind(s string) (Kind, error) {
	return compare.ParseKind(s)
}

// NewDispatcher creates a Dispatcher. Without options it uses the global
// configuration and the Go allocator.
func NewDispatcher(opts ...Option) (*Dispatcher, error) {
	return compare.NewDispatcher(opts...)
}

// SetConfig replaces the global configuration used by dispatchers created
// afterwards. The package-level functions keep the configuration in effect
// at their first call.
func SetConfig(cfg Config) error {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	config.SetGlobalConfig(cfg)
	return nil
}

var defaultDispatcher = sync.OnceValues(func() (*Dispatcher, error) {
	return compare.NewDispatcher()
})

// Compare evaluates kind between left and right with the default dispatcher.
func Compare(kind Kind, left *Series, right Operand) (*Series, error) {
	d, err := defaultDispatcher()
	if err != nil {
		return nil, err
	}
	return d.Compare(kind, left, right)
}

// Eq returns left == right.
func Eq(left *Series, right Operand) (*Series, error) {
	return Compare(Equal, left, right)
}

// Neq returns left != right.
func Neq(left *Series, right Operand) (*Series, error) {
	return Compare(NotEqual, left, right)
}

// Gt returns left > right.
func Gt(left *Series, right Operand) (*Series, error) {
	return Compare(GreaterThan, left, right)
}

// GtEq returns left >= right.
func GtEq(left *Series, right Operand) (*Series, error) {
	return Compare(GreaterOrEqual, left, right)
}

// Lt returns left < right.
func Lt(left *Series, right Operand) (*Series, error) {
	return Compare(LessThan, left, right)
}

// LtEq returns left <= right.
func LtEq(left *Series, right Operand) (*Series, error) {
	return Compare(LessOrEqual, left, right)
}
