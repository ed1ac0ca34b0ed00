package io_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relio "github.com/paveg/relcmp/internal/io"
	"github.com/paveg/relcmp/internal/series"
	"github.com/paveg/relcmp/internal/testutil"
)

func TestJSONWriter_WriteSeries(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	x := series.New("x", []float64{1, math.NaN()}, mem.Allocator)
	defer x.Release()
	m := series.NewMask("mask", []bool{true, false}, []bool{true, false}, mem.Allocator)
	defer m.Release()

	var buf bytes.Buffer
	require.NoError(t, relio.NewJSONWriter(&buf, relio.DefaultJSONOptions()).WriteSeries(x, m))
	assert.JSONEq(t, `[{"x":1,"mask":true},{"x":"NaN","mask":null}]`, buf.String())

	buf.Reset()
	require.NoError(t, relio.NewJSONWriter(&buf, relio.JSONOptions{Format: relio.JSONLines}).WriteSeries(m))
	assert.Equal(t, "{\"mask\":true}\n{\"mask\":null}\n", buf.String())

	err := relio.NewJSONWriter(&buf, relio.JSONOptions{Format: 9}).WriteSeries(m)
	assert.ErrorContains(t, err, "unsupported JSON format")
}
