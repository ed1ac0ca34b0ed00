package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paveg/relcmp/internal/series"
)

// NullToken is the text form of an absent value.
const NullToken = "null"

// IsNullText reports whether text denotes an absent value.
func IsNullText(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), NullToken)
}

// ParseValue parses text as a value of the given element type, checking that
// it fits the type's range. The result has the Go type of the element type.
func ParseValue(typ series.ElementType, text string) (any, error) {
	trimmed := strings.TrimSpace(text)

	switch {
	case typ.IsUnsigned():
		v, err := strconv.ParseUint(trimmed, 10, typ.BitWidth())
		if err != nil {
			return nil, rangeError(typ, text, err)
		}
		switch typ {
		case series.UInt8:
			return uint8(v), nil
		case series.UInt16:
			return uint16(v), nil
		case series.UInt32:
			return uint32(v), nil
		default:
			return v, nil
		}
	case typ.IsSigned():
		v, err := strconv.ParseInt(trimmed, 10, typ.BitWidth())
		if err != nil {
			return nil, rangeError(typ, text, err)
		}
		switch typ {
		case series.Int8:
			return int8(v), nil
		case series.Int16:
			return int16(v), nil
		case series.Int32:
			return int32(v), nil
		default:
			return v, nil
		}
	case typ == series.Float32:
		v, err := strconv.ParseFloat(trimmed, 32)
		if err != nil {
			return nil, rangeError(typ, text, err)
		}
		return float32(v), nil
	case typ == series.Float64:
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, rangeError(typ, text, err)
		}
		return v, nil
	case typ == series.Utf8:
		return text, nil
	case typ == series.Boolean:
		v, err := strconv.ParseBool(trimmed)
		if err != nil {
			return nil, rangeError(typ, text, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported element type: %s", typ)
	}
}

// ParseScalar converts text into a typed comparison scalar. The literal
// "null" yields a null scalar of typ. Boolean is not a scalar type.
func ParseScalar(typ series.ElementType, text string) (series.Scalar, error) {
	if typ == series.Boolean || !typ.Valid() {
		return series.Scalar{}, fmt.Errorf("unsupported scalar type: %s", typ)
	}
	if typ != series.Utf8 && IsNullText(text) {
		return series.NullScalar(typ), nil
	}

	v, err := ParseValue(typ, text)
	if err != nil {
		return series.Scalar{}, err
	}

	switch x := v.(type) {
	case uint8:
		return series.NewScalar(x), nil
	case uint16:
		return series.NewScalar(x), nil
	case uint32:
		return series.NewScalar(x), nil
	case uint64:
		return series.NewScalar(x), nil
	case int8:
		return series.NewScalar(x), nil
	case int16:
		return series.NewScalar(x), nil
	case int32:
		return series.NewScalar(x), nil
	case int64:
		return series.NewScalar(x), nil
	case float32:
		return series.NewScalar(x), nil
	case float64:
		return series.NewScalar(x), nil
	case string:
		return series.NewScalar(x), nil
	}
	return series.Scalar{}, fmt.Errorf("unsupported scalar type: %s", typ)
}

// InferElementType picks the narrowest of int64, float64 and bool that can
// hold every non-null sample, falling back to utf8.
func InferElementType(samples []string) series.ElementType {
	candidates := []series.ElementType{series.Int64, series.Float64, series.Boolean}

	for _, typ := range candidates {
		ok, seen := true, false
		for _, s := range samples {
			if s == "" || IsNullText(s) {
				continue
			}
			seen = true
			if _, err := ParseValue(typ, s); err != nil {
				ok = false
				break
			}
		}
		if ok && seen {
			return typ
		}
	}
	return series.Utf8
}

func rangeError(typ series.ElementType, text string, err error) error {
	return fmt.Errorf("cannot parse %q as %s: %w", text, typ, err)
}
