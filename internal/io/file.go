package io

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/relcmp/internal/series"
)

// ReadFile reads every column of a .csv or .parquet file.
func ReadFile(path string, csvOptions CSVOptions, mem memory.Allocator) ([]*series.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var reader SeriesReader
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		reader = NewCSVReader(f, csvOptions, mem)
	case ".parquet", ".pq":
		reader = NewParquetReader(f, DefaultParquetOptions(), mem)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", ext)
	}

	cols, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return cols, nil
}

// SelectColumn returns the named column, or the only column when name is
// empty, and releases every other column.
func SelectColumn(cols []*series.Series, name string) (*series.Series, error) {
	var selected *series.Series
	switch {
	case name == "" && len(cols) == 1:
		selected = cols[0]
	case name == "":
		releaseAll(cols)
		return nil, fmt.Errorf("input has %d columns, one must be named", len(cols))
	default:
		for _, s := range cols {
			if s.Name() == name {
				selected = s
				break
			}
		}
	}

	for _, s := range cols {
		if s != selected {
			s.Release()
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return selected, nil
}
