package io

import (
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/relcmp/internal/common"
	"github.com/paveg/relcmp/internal/series"
	"github.com/paveg/relcmp/internal/validation"
)

// Read reads CSV data and returns one series per column.
// An empty input yields no series.
func (r *CSVReader) Read() ([]*series.Series, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var headers []string
	dataRows := records
	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
	}

	// Transpose data to work with columns; short rows are padded with nulls
	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, len(dataRows))
		for j, row := range dataRows {
			if i < len(row) {
				columns[i][j] = row[i]
			} else {
				columns[i][j] = r.nullText()
			}
		}
	}

	result := make([]*series.Series, 0, len(headers))
	for i, header := range headers {
		s, err := r.createSeriesFromStrings(header, columns[i])
		if err != nil {
			releaseAll(result)
			return nil, fmt.Errorf("creating series for column %s: %w", header, err)
		}
		result = append(result, s)
	}
	return result, nil
}

// createSeriesFromStrings builds a series of the hinted or inferred type
func (r *CSVReader) createSeriesFromStrings(name string, data []string) (*series.Series, error) {
	typ, ok := r.options.TypeHints[name]
	if !ok {
		samples := make([]string, 0, len(data))
		for _, cell := range data {
			if !r.isNull(cell) {
				samples = append(samples, cell)
			}
		}
		typ = common.InferElementType(samples)
	}

	switch typ {
	case series.UInt8:
		return parseColumn[uint8](name, typ, data, r.isNull, r.mem)
	case series.UInt16:
		return parseColumn[uint16](name, typ, data, r.isNull, r.mem)
	case series.UInt32:
		return parseColumn[uint32](name, typ, data, r.isNull, r.mem)
	case series.UInt64:
		return parseColumn[uint64](name, typ, data, r.isNull, r.mem)
	case series.Int8:
		return parseColumn[int8](name, typ, data, r.isNull, r.mem)
	case series.Int16:
		return parseColumn[int16](name, typ, data, r.isNull, r.mem)
	case series.Int32:
		return parseColumn[int32](name, typ, data, r.isNull, r.mem)
	case series.Int64:
		return parseColumn[int64](name, typ, data, r.isNull, r.mem)
	case series.Float32:
		return parseColumn[float32](name, typ, data, r.isNull, r.mem)
	case series.Float64:
		return parseColumn[float64](name, typ, data, r.isNull, r.mem)
	case series.Utf8:
		return parseColumn[string](name, typ, data, r.isNull, r.mem)
	case series.Boolean:
		return parseColumn[bool](name, typ, data, r.isNull, r.mem)
	default:
		return nil, fmt.Errorf("unsupported type hint: %s", typ)
	}
}

func parseColumn[T series.Element](
	name string, typ series.ElementType, data []string, isNull func(string) bool, mem memory.Allocator,
) (*series.Series, error) {
	values := make([]T, len(data))
	valid := make([]bool, len(data))
	for i, cell := range data {
		if isNull(cell) {
			continue
		}
		v, err := common.ParseValue(typ, cell)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		values[i] = v.(T)
		valid[i] = true
	}
	return series.NewNullable(name, values, valid, mem)
}

func (r *CSVReader) isNull(cell string) bool {
	return slices.Contains(r.options.NullValues, cell)
}

func (r *CSVReader) nullText() string {
	if len(r.options.NullValues) > 0 {
		return r.options.NullValues[0]
	}
	return ""
}

// WriteSeries writes the series as CSV columns
func (w *CSVWriter) WriteSeries(cols ...*series.Series) error {
	n, err := commonLength("csv write", cols)
	if err != nil {
		return err
	}

	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = w.options.Delimiter

	if w.options.Header {
		headers := make([]string, len(cols))
		for i, s := range cols {
			headers[i] = s.Name()
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	nullText := ""
	if len(w.options.NullValues) > 0 {
		nullText = w.options.NullValues[0]
	}

	row := make([]string, len(cols))
	for i := range n {
		for j, s := range cols {
			row[j] = FormatValue(s, i, nullText)
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

// FormatValue renders the value at index as text, or nullText for a null
func FormatValue(s *series.Series, index int, nullText string) string {
	v, ok := s.Get(index)
	if !ok {
		return nullText
	}

	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%d", x)
	}
}

// commonLength validates that all series are live and of equal length
func commonLength(op string, cols []*series.Series) (int, error) {
	if len(cols) == 0 {
		return 0, fmt.Errorf("%s: no series to write", op)
	}
	for _, s := range cols {
		if err := validation.NewNotReleasedValidator(s, op).Validate(); err != nil {
			return 0, err
		}
		if err := validation.ValidateLength(cols[0].Len(), s.Len(), op); err != nil {
			return 0, err
		}
	}
	return cols[0].Len(), nil
}

func releaseAll(cols []*series.Series) {
	for _, s := range cols {
		s.Release()
	}
}
