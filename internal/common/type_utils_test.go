package common_test

import (
	"math"
	"testing"

	"github.com/paveg/relcmp/internal/common"
	"github.com/paveg/relcmp/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name     string
		typ      series.ElementType
		input    string
		expected any
	}{
		{"uint8", series.UInt8, "255", uint8(255)},
		{"uint16", series.UInt16, "65535", uint16(65535)},
		{"uint32", series.UInt32, " 7 ", uint32(7)},
		{"uint64", series.UInt64, "18446744073709551615", uint64(math.MaxUint64)},
		{"int8", series.Int8, "-128", int8(-128)},
		{"int16", series.Int16, "300", int16(300)},
		{"int32", series.Int32, "-2", int32(-2)},
		{"int64", series.Int64, "-9223372036854775808", int64(math.MinInt64)},
		{"float32", series.Float32, "1.5", float32(1.5)},
		{"float64", series.Float64, "-0.25", -0.25},
		{"utf8 keeps spaces", series.Utf8, " a b ", " a b "},
		{"bool", series.Boolean, "true", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := common.ParseValue(tt.typ, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseValue_Errors(t *testing.T) {
	tests := []struct {
		name  string
		typ   series.ElementType
		input string
	}{
		{"uint8 overflow", series.UInt8, "256"},
		{"negative unsigned", series.UInt32, "-1"},
		{"int8 overflow", series.Int8, "128"},
		{"not a number", series.Int64, "abc"},
		{"float32 overflow", series.Float32, "1e39"},
		{"bad float", series.Float64, "1.2.3"},
		{"bad bool", series.Boolean, "maybe"},
		{"invalid type", series.Invalid, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := common.ParseValue(tt.typ, tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParseValue_NaN(t *testing.T) {
	got, err := common.ParseValue(series.Float64, "NaN")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.(float64)))
}

func TestParseScalar(t *testing.T) {
	s, err := common.ParseScalar(series.Int32, "2")
	require.NoError(t, err)
	assert.Equal(t, series.Int32, s.ElementType())
	assert.Equal(t, int32(2), s.Value())

	s, err = common.ParseScalar(series.Float64, "null")
	require.NoError(t, err)
	assert.True(t, s.IsNull())
	assert.Equal(t, series.Float64, s.ElementType())

	s, err = common.ParseScalar(series.Utf8, "null")
	require.NoError(t, err)
	assert.False(t, s.IsNull())
	assert.Equal(t, "null", s.Value())

	_, err = common.ParseScalar(series.Boolean, "true")
	assert.Error(t, err)

	_, err = common.ParseScalar(series.UInt8, "300")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `cannot parse "300" as uint8`)
}

func TestInferElementType(t *testing.T) {
	assert.Equal(t, series.Int64, common.InferElementType([]string{"1", "", "-3"}))
	assert.Equal(t, series.Float64, common.InferElementType([]string{"1", "2.5", "null"}))
	assert.Equal(t, series.Boolean, common.InferElementType([]string{"true", "false"}))
	assert.Equal(t, series.Utf8, common.InferElementType([]string{"1", "x"}))
	assert.Equal(t, series.Utf8, common.InferElementType([]string{"", "NULL"}))
}
