package compare

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"golang.org/x/exp/constraints"

	cmperrors "github.com/paveg/relcmp/internal/errors"
	"github.com/paveg/relcmp/internal/series"
)

// domain is the common representation both operands widen into.
type domain uint8

const (
	domainUint64 domain = iota + 1
	domainInt64
	domainInt128
	domainFloat64
	domainUtf8
)

func (d domain) String() string {
	switch d {
	case domainUint64:
		return "uint64"
	case domainInt64:
		return "int64"
	case domainInt128:
		return "int128"
	case domainFloat64:
		return "float64"
	case domainUtf8:
		return "utf8"
	}
	return fmt.Sprintf("domain(%d)", uint8(d))
}

// resolveDomain picks the narrowest representation that holds every value
// of both element types.
func resolveDomain(op string, a, b series.ElementType) (domain, error) {
	switch {
	case a == series.Utf8 && b == series.Utf8:
		return domainUtf8, nil
	case !a.IsNumeric() || !b.IsNumeric():
		return 0, cmperrors.NewTypeMismatchError(op, a.String(), b.String())
	case a.IsFloat() || b.IsFloat():
		return domainFloat64, nil
	case a.IsUnsigned() && b.IsUnsigned():
		return domainUint64, nil
	case a.IsSigned() && b.IsSigned():
		return domainInt64, nil
	case a == series.UInt64 || b == series.UInt64:
		return domainInt128, nil
	default:
		return domainInt64, nil
	}
}

// int128 is a two's complement 128-bit integer. It only needs to hold the
// union of the int64 and uint64 ranges.
type int128 struct {
	hi int64
	lo uint64
}

func int128FromInt64(v int64) int128 {
	return int128{hi: v >> 63, lo: uint64(v)}
}

func int128FromUint64(v uint64) int128 {
	return int128{lo: v}
}

func (a int128) compare(b int128) ordering {
	if o := compareOrdered(a.hi, b.hi); o != equal {
		return o
	}
	return compareOrdered(a.lo, b.lo)
}

type number interface {
	constraints.Integer | constraints.Float
}

// convert widens src into D. When S and D are the same type the input slice
// is returned without copying.
func convert[D, S number](src []S) []D {
	if same, ok := any(src).([]D); ok {
		return same
	}
	out := make([]D, len(src))
	for i, v := range src {
		out[i] = D(v)
	}
	return out
}

// columnAs materialises a numeric Arrow array as a slice of D. Values under
// null slots are unspecified.
func columnAs[D number](arr arrow.Array) []D {
	switch a := arr.(type) {
	case *array.Uint8:
		return convert[D](a.Uint8Values())
	case *array.Uint16:
		return convert[D](a.Uint16Values())
	case *array.Uint32:
		return convert[D](a.Uint32Values())
	case *array.Uint64:
		return convert[D](a.Uint64Values())
	case *array.Int8:
		return convert[D](a.Int8Values())
	case *array.Int16:
		return convert[D](a.Int16Values())
	case *array.Int32:
		return convert[D](a.Int32Values())
	case *array.Int64:
		return convert[D](a.Int64Values())
	case *array.Float32:
		return convert[D](a.Float32Values())
	case *array.Float64:
		return convert[D](a.Float64Values())
	}
	panic(fmt.Sprintf("compare: %s is not numeric", arr.DataType()))
}

func columnInt128(arr arrow.Array, typ series.ElementType) []int128 {
	out := make([]int128, arr.Len())
	if typ.IsUnsigned() {
		for i, v := range columnAs[uint64](arr) {
			out[i] = int128FromUint64(v)
		}
		return out
	}
	for i, v := range columnAs[int64](arr) {
		out[i] = int128FromInt64(v)
	}
	return out
}

func columnUtf8(arr arrow.Array) []string {
	out := make([]string, arr.Len())
	switch a := arr.(type) {
	case *array.String:
		for i := range out {
			out[i] = a.Value(i)
		}
	case *array.LargeString:
		for i := range out {
			out[i] = a.Value(i)
		}
	default:
		panic(fmt.Sprintf("compare: %s is not utf8", arr.DataType()))
	}
	return out
}

// scalarAs converts a numeric scalar value into D.
func scalarAs[D number](v any) D {
	switch x := v.(type) {
	case uint8:
		return D(x)
	case uint16:
		return D(x)
	case uint32:
		return D(x)
	case uint64:
		return D(x)
	case int8:
		return D(x)
	case int16:
		return D(x)
	case int32:
		return D(x)
	case int64:
		return D(x)
	case float32:
		return D(x)
	case float64:
		return D(x)
	}
	panic(fmt.Sprintf("compare: %T is not numeric", v))
}

func scalarInt128(s series.Scalar) int128 {
	if s.ElementType().IsUnsigned() {
		return int128FromUint64(scalarAs[uint64](s.Value()))
	}
	return int128FromInt64(scalarAs[int64](s.Value()))
}

// exactInt64 reports whether v survives a round trip through float64.
// 2^63 itself is representable as a float but not as an int64.
func exactInt64(v int64) bool {
	f := float64(v)
	return f < 0x1p63 && int64(f) == v
}

func exactUint64(v uint64) bool {
	f := float64(v)
	return f < 0x1p64 && uint64(f) == v
}

// checkFloatExact returns an Overflow error for the first present 64-bit
// integer in arr that float64 cannot represent exactly. Other types always
// widen losslessly.
func checkFloatExact(op, column string, arr arrow.Array) error {
	switch a := arr.(type) {
	case *array.Int64:
		for i, v := range a.Int64Values() {
			if !exactInt64(v) && a.IsValid(i) {
				return cmperrors.NewOverflowError(op, column,
					fmt.Sprintf("int64 value %d at index %d has no exact float64 representation", v, i))
			}
		}
	case *array.Uint64:
		for i, v := range a.Uint64Values() {
			if !exactUint64(v) && a.IsValid(i) {
				return cmperrors.NewOverflowError(op, column,
					fmt.Sprintf("uint64 value %d at index %d has no exact float64 representation", v, i))
			}
		}
	}
	return nil
}

func checkScalarFloatExact(op string, s series.Scalar) error {
	if s.IsNull() {
		return nil
	}
	switch v := s.Value().(type) {
	case int64:
		if !exactInt64(v) {
			return cmperrors.NewOverflowError(op, "",
				fmt.Sprintf("int64 scalar %d has no exact float64 representation", v))
		}
	case uint64:
		if !exactUint64(v) {
			return cmperrors.NewOverflowError(op, "",
				fmt.Sprintf("uint64 scalar %d has no exact float64 representation", v))
		}
	}
	return nil
}
