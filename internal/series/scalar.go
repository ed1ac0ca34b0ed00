package series

import "fmt"

// Operand is either a *Series or a Scalar. The set is sealed.
type Operand interface {
	isOperand()
}

// Scalar is a single typed value broadcast against every row of a Series.
type Scalar struct {
	typ   ElementType
	value any
	null  bool
}

// NewScalar creates a present scalar. Booleans are excluded by the constraint.
func NewScalar[T ScalarElement](v T) Scalar {
	var typ ElementType
	switch any(v).(type) {
	case uint8:
		typ = UInt8
	case uint16:
		typ = UInt16
	case uint32:
		typ = UInt32
	case uint64:
		typ = UInt64
	case int8:
		typ = Int8
	case int16:
		typ = Int16
	case int32:
		typ = Int32
	case int64:
		typ = Int64
	case float32:
		typ = Float32
	case float64:
		typ = Float64
	case string:
		typ = Utf8
	}
	return Scalar{typ: typ, value: v}
}

// NullScalar creates an absent scalar of the given type. Comparing against it
// yields an all-null mask.
func NullScalar(t ElementType) Scalar {
	return Scalar{typ: t, null: true}
}

// ElementType returns the scalar type tag
func (s Scalar) ElementType() ElementType {
	return s.typ
}

// IsNull reports whether the scalar is absent
func (s Scalar) IsNull() bool {
	return s.null
}

// Value returns the Go value, or nil for a null scalar
func (s Scalar) Value() any {
	return s.value
}

func (s Scalar) String() string {
	if s.null {
		return fmt.Sprintf("Scalar[%s]: null", s.typ)
	}
	if s.typ == Utf8 {
		return fmt.Sprintf("Scalar[%s]: %q", s.typ, s.value)
	}
	return fmt.Sprintf("Scalar[%s]: %v", s.typ, s.value)
}

func (Scalar) isOperand() {}
