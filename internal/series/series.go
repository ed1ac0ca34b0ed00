// Package series provides the typed, nullable column used as comparison input
// and output. A Series is backed by an Apache Arrow array and never changes
// after construction, so any number of goroutines may read it concurrently.
package series

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cespare/xxhash/v2"
	cmperrors "github.com/paveg/relcmp/internal/errors"
)

// ScalarElement is the set of Go types usable as a comparison scalar.
type ScalarElement interface {
	uint8 | uint16 | uint32 | uint64 |
		int8 | int16 | int32 | int64 |
		float32 | float64 | string
}

// Element is the set of Go types a Series can be built from.
type Element interface {
	ScalarElement | bool
}

// Series represents a named, typed data column with an Apache Arrow backend
type Series struct {
	name  string
	typ   ElementType
	array arrow.Array
}

// New creates a new Series from a slice of values, all of them valid
func New[T Element](name string, values []T, mem memory.Allocator) *Series {
	return newSeries(name, values, nil, mem)
}

// NewNullable creates a Series where valid[i] == false marks position i as null.
// A nil valid slice means every value is present.
func NewNullable[T Element](name string, values []T, valid []bool, mem memory.Allocator) (*Series, error) {
	if valid != nil && len(valid) != len(values) {
		return nil, &cmperrors.ComparisonError{
			Op:      "series creation",
			Column:  name,
			Kind:    cmperrors.KindLengthMismatch,
			Message: fmt.Sprintf("validity length %d does not match value length %d", len(valid), len(values)),
		}
	}
	return newSeries(name, values, valid, mem), nil
}

// NewFromPointers creates a Series where nil entries become nulls
func NewFromPointers[T Element](name string, values []*T, mem memory.Allocator) *Series {
	data := make([]T, len(values))
	valid := make([]bool, len(values))
	for i, v := range values {
		if v != nil {
			data[i] = *v
			valid[i] = true
		}
	}
	return newSeries(name, data, valid, mem)
}

// NewMask creates a Boolean series from values and an optional validity slice
func NewMask(name string, values, valid []bool, mem memory.Allocator) *Series {
	return newSeries(name, values, valid, mem)
}

// FromArrow wraps an existing Arrow array. The array is retained; the caller
// keeps its own reference.
func FromArrow(name string, arr arrow.Array) (*Series, error) {
	if arr == nil {
		return nil, cmperrors.NewInvalidInputError("series creation", "nil arrow array")
	}
	typ, ok := ElementTypeOf(arr.DataType())
	if !ok {
		return nil, cmperrors.NewUnsupportedTypeError("series creation", arr.DataType().String())
	}
	arr.Retain()
	return &Series{name: name, typ: typ, array: arr}, nil
}

func newSeries[T Element](name string, values []T, valid []bool, mem memory.Allocator) *Series {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	var (
		arr arrow.Array
		typ ElementType
	)

	// Use type switching to create appropriate Arrow array
	switch v := any(values).(type) {
	case []uint8:
		builder := array.NewUint8Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), UInt8
	case []uint16:
		builder := array.NewUint16Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), UInt16
	case []uint32:
		builder := array.NewUint32Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), UInt32
	case []uint64:
		builder := array.NewUint64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), UInt64
	case []int8:
		builder := array.NewInt8Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), Int8
	case []int16:
		builder := array.NewInt16Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), Int16
	case []int32:
		builder := array.NewInt32Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), Int32
	case []int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), Int64
	case []float32:
		builder := array.NewFloat32Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), Float32
	case []float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), Float64
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), Utf8
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		arr, typ = builder.NewArray(), Boolean
	default:
		// unreachable: the Element constraint is closed
		panic(fmt.Sprintf("unsupported type: %T", values))
	}

	return &Series{name: name, typ: typ, array: arr}
}

// Name returns the column name
func (s *Series) Name() string {
	return s.name
}

// Len returns the length of the series
func (s *Series) Len() int {
	return s.array.Len()
}

// ElementType returns the element type tag
func (s *Series) ElementType() ElementType {
	return s.typ
}

// DataType returns the Arrow data type
func (s *Series) DataType() arrow.DataType {
	return s.array.DataType()
}

// NullCount returns the number of null positions
func (s *Series) NullCount() int {
	return s.array.NullN()
}

// IsNull checks if the value at index is null
func (s *Series) IsNull(index int) bool {
	return s.array.IsNull(index)
}

// Get returns the value at index and whether it is present.
// Out of range indexes and nulls both report false.
func (s *Series) Get(index int) (any, bool) {
	if index < 0 || index >= s.array.Len() || s.array.IsNull(index) {
		return nil, false
	}

	switch arr := s.array.(type) {
	case *array.Uint8:
		return arr.Value(index), true
	case *array.Uint16:
		return arr.Value(index), true
	case *array.Uint32:
		return arr.Value(index), true
	case *array.Uint64:
		return arr.Value(index), true
	case *array.Int8:
		return arr.Value(index), true
	case *array.Int16:
		return arr.Value(index), true
	case *array.Int32:
		return arr.Value(index), true
	case *array.Int64:
		return arr.Value(index), true
	case *array.Float32:
		return arr.Value(index), true
	case *array.Float64:
		return arr.Value(index), true
	case *array.String:
		return arr.Value(index), true
	case *array.LargeString:
		return arr.Value(index), true
	case *array.Boolean:
		return arr.Value(index), true
	}
	return nil, false
}

// Bools returns the values and validity of a Boolean series.
func (s *Series) Bools() (values, valid []bool, err error) {
	arr, ok := s.array.(*array.Boolean)
	if !ok {
		return nil, nil, cmperrors.NewUnsupportedTypeError("bools", s.typ.String())
	}
	values = make([]bool, arr.Len())
	valid = make([]bool, arr.Len())
	for i := range arr.Len() {
		valid[i] = arr.IsValid(i)
		if valid[i] {
			values[i] = arr.Value(i)
		}
	}
	return values, valid, nil
}

// Fingerprint returns a 64-bit xxhash digest of the element type, the null
// pattern and the present values. Equal series always produce equal digests.
func (s *Series) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte

	_, _ = h.Write([]byte{byte(s.typ)})
	binary.LittleEndian.PutUint64(buf[:], uint64(s.array.Len()))
	_, _ = h.Write(buf[:])

	for i := range s.array.Len() {
		v, ok := s.Get(i)
		if !ok {
			_, _ = h.Write([]byte{0})
			continue
		}
		_, _ = h.Write([]byte{1})
		switch x := v.(type) {
		case uint8:
			_, _ = h.Write([]byte{x})
		case uint16:
			binary.LittleEndian.PutUint16(buf[:2], x)
			_, _ = h.Write(buf[:2])
		case uint32:
			binary.LittleEndian.PutUint32(buf[:4], x)
			_, _ = h.Write(buf[:4])
		case uint64:
			binary.LittleEndian.PutUint64(buf[:], x)
			_, _ = h.Write(buf[:])
		case int8:
			_, _ = h.Write([]byte{byte(x)})
		case int16:
			binary.LittleEndian.PutUint16(buf[:2], uint16(x))
			_, _ = h.Write(buf[:2])
		case int32:
			binary.LittleEndian.PutUint32(buf[:4], uint32(x))
			_, _ = h.Write(buf[:4])
		case int64:
			binary.LittleEndian.PutUint64(buf[:], uint64(x))
			_, _ = h.Write(buf[:])
		case float32:
			binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(x))
			_, _ = h.Write(buf[:4])
		case float64:
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
			_, _ = h.Write(buf[:])
		case string:
			binary.LittleEndian.PutUint64(buf[:], uint64(len(x)))
			_, _ = h.Write(buf[:])
			_, _ = h.WriteString(x)
		case bool:
			if x {
				_, _ = h.Write([]byte{1})
			} else {
				_, _ = h.Write([]byte{0})
			}
		}
	}
	return h.Sum64()
}

// String returns a string representation of the series
func (s *Series) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d, nulls=%d)", s.typ, s.name, s.Len(), s.NullCount())
}

// Array returns the underlying Arrow array (retains a reference)
func (s *Series) Array() arrow.Array {
	if s.array != nil {
		s.array.Retain()
		return s.array
	}
	return nil
}

// Release releases the underlying Arrow memory. The series must not be
// read afterwards; Released reports whether this has happened.
func (s *Series) Release() {
	if s.array != nil {
		s.array.Release()
		s.array = nil
	}
}

// Released reports whether Release has been called
func (s *Series) Released() bool {
	return s.array == nil
}

func (s *Series) isOperand() {}
