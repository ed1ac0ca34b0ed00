package series

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// ElementType is the closed set of element types a Series can hold.
type ElementType uint8

const (
	// Invalid is the zero value; no Series carries it.
	Invalid ElementType = iota
	UInt8
	UInt16
	UInt32
	UInt64
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	Utf8
	Boolean
)

var elementTypeNames = [...]string{
	Invalid: "invalid",
	UInt8:   "uint8",
	UInt16:  "uint16",
	UInt32:  "uint32",
	UInt64:  "uint64",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
	Utf8:    "utf8",
	Boolean: "bool",
}

// AllElementTypes lists every valid element type in declaration order.
var AllElementTypes = []ElementType{
	UInt8, UInt16, UInt32, UInt64,
	Int8, Int16, Int32, Int64,
	Float32, Float64, Utf8, Boolean,
}

func (t ElementType) String() string {
	if int(t) < len(elementTypeNames) {
		return elementTypeNames[t]
	}
	return fmt.Sprintf("element_type(%d)", uint8(t))
}

// Valid reports whether t is one of the declared element types.
func (t ElementType) Valid() bool {
	return t > Invalid && t <= Boolean
}

// IsUnsigned reports whether t is an unsigned integer type.
func (t ElementType) IsUnsigned() bool {
	return t >= UInt8 && t <= UInt64
}

// IsSigned reports whether t is a signed integer type.
func (t ElementType) IsSigned() bool {
	return t >= Int8 && t <= Int64
}

// IsInteger reports whether t is any integer type.
func (t ElementType) IsInteger() bool {
	return t.IsUnsigned() || t.IsSigned()
}

// IsFloat reports whether t is a floating point type.
func (t ElementType) IsFloat() bool {
	return t == Float32 || t == Float64
}

// IsNumeric reports whether t is an integer or floating point type.
func (t ElementType) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// BitWidth returns the storage width of numeric types and 0 otherwise.
func (t ElementType) BitWidth() int {
	switch t {
	case UInt8, Int8:
		return 8
	case UInt16, Int16:
		return 16
	case UInt32, Int32, Float32:
		return 32
	case UInt64, Int64, Float64:
		return 64
	default:
		return 0
	}
}

// ArrowType returns the Arrow data type backing t.
func (t ElementType) ArrowType() arrow.DataType {
	switch t {
	case UInt8:
		return arrow.PrimitiveTypes.Uint8
	case UInt16:
		return arrow.PrimitiveTypes.Uint16
	case UInt32:
		return arrow.PrimitiveTypes.Uint32
	case UInt64:
		return arrow.PrimitiveTypes.Uint64
	case Int8:
		return arrow.PrimitiveTypes.Int8
	case Int16:
		return arrow.PrimitiveTypes.Int16
	case Int32:
		return arrow.PrimitiveTypes.Int32
	case Int64:
		return arrow.PrimitiveTypes.Int64
	case Float32:
		return arrow.PrimitiveTypes.Float32
	case Float64:
		return arrow.PrimitiveTypes.Float64
	case Utf8:
		return arrow.BinaryTypes.String
	case Boolean:
		return arrow.FixedWidthTypes.Boolean
	default:
		return nil
	}
}

// ElementTypeOf maps an Arrow data type onto the supported element types.
// Large strings map to Utf8.
func ElementTypeOf(dt arrow.DataType) (ElementType, bool) {
	if dt == nil {
		return Invalid, false
	}
	switch dt.ID() {
	case arrow.UINT8:
		return UInt8, true
	case arrow.UINT16:
		return UInt16, true
	case arrow.UINT32:
		return UInt32, true
	case arrow.UINT64:
		return UInt64, true
	case arrow.INT8:
		return Int8, true
	case arrow.INT16:
		return Int16, true
	case arrow.INT32:
		return Int32, true
	case arrow.INT64:
		return Int64, true
	case arrow.FLOAT32:
		return Float32, true
	case arrow.FLOAT64:
		return Float64, true
	case arrow.STRING, arrow.LARGE_STRING:
		return Utf8, true
	case arrow.BOOL:
		return Boolean, true
	default:
		return Invalid, false
	}
}

// ParseElementType resolves a type name such as "int32", "u8" or "str".
func ParseElementType(name string) (ElementType, error) {
	switch name {
	case "uint8", "u8":
		return UInt8, nil
	case "uint16", "u16":
		return UInt16, nil
	case "uint32", "u32":
		return UInt32, nil
	case "uint64", "u64":
		return UInt64, nil
	case "int8", "i8":
		return Int8, nil
	case "int16", "i16":
		return Int16, nil
	case "int32", "i32":
		return Int32, nil
	case "int64", "i64", "int":
		return Int64, nil
	case "float32", "f32":
		return Float32, nil
	case "float64", "f64", "float", "double":
		return Float64, nil
	case "utf8", "str", "string":
		return Utf8, nil
	case "bool", "boolean":
		return Boolean, nil
	default:
		return Invalid, fmt.Errorf("unknown element type %q", name)
	}
}
