package io

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/paveg/relcmp/internal/series"
)

// WriteSeries writes the series as JSON objects keyed by column name.
// NaN and infinities are written as strings since JSON has no literal for them.
func (w *JSONWriter) WriteSeries(cols ...*series.Series) error {
	n, err := commonLength("json write", cols)
	if err != nil {
		return err
	}

	records := make([]map[string]any, n)
	for i := range n {
		record := make(map[string]any, len(cols))
		for _, s := range cols {
			record[s.Name()] = jsonValue(s, i)
		}
		records[i] = record
	}

	switch w.options.Format {
	case JSONArray:
		return w.writeJSONArray(records)
	case JSONLines:
		return w.writeJSONLines(records)
	default:
		return fmt.Errorf("unsupported JSON format: %d", w.options.Format)
	}
}

// writeJSONArray writes records as one JSON array.
func (w *JSONWriter) writeJSONArray(records []map[string]any) error {
	encoder := json.NewEncoder(w.writer)
	encoder.SetIndent("", w.options.Indent)
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("marshaling JSON array: %w", err)
	}
	return nil
}

// writeJSONLines writes one record per line.
func (w *JSONWriter) writeJSONLines(records []map[string]any) error {
	encoder := json.NewEncoder(w.writer)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("marshaling JSON record: %w", err)
		}
	}
	return nil
}

func jsonValue(s *series.Series, index int) any {
	v, ok := s.Get(index)
	if !ok {
		return nil
	}
	switch x := v.(type) {
	case float32:
		return jsonFloat(float64(x))
	case float64:
		return jsonFloat(x)
	}
	return v
}

func jsonFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprintf("%v", f)
	}
	return f
}
