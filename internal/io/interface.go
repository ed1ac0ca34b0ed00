// Package io provides readers and writers that move series between files
// and memory.
//
// CSV and Parquet readers produce one Series per column; writers accept any
// number of equal-length series, typically comparison masks together with
// the columns they were computed from.
//
// Memory management: every returned Series is backed by Arrow memory from the
// given allocator and must be released by the caller.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/relcmp/internal/common"
	"github.com/paveg/relcmp/internal/series"
)

const (
	// DefaultBatchSize is the default batch size for Parquet I/O operations
	DefaultBatchSize = 1024
)

// SeriesReader defines the interface for reading columns from a source
type SeriesReader interface {
	// Read returns one Series per column in source order
	Read() ([]*series.Series, error)
}

// SeriesWriter defines the interface for writing columns to a destination
type SeriesWriter interface {
	// WriteSeries writes equal-length series as the columns of one table
	WriteSeries(cols ...*series.Series) error
}

// CSVOptions contains configuration options for CSV operations
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers
	Header bool
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
	// NullValues lists the cell texts read as null. Writers emit the first one.
	NullValues []string
	// TypeHints fixes the element type of named columns instead of inferring it
	TypeHints map[string]series.ElementType
}

// DefaultCSVOptions returns default CSV options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:        ',',
		Comment:          0,
		Header:           true,
		SkipInitialSpace: false,
		NullValues:       []string{"", common.NullToken},
	}
}

// CSVReader reads CSV data into series
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	mem     memory.Allocator
}

// NewCSVReader creates a new CSV reader with the specified options
func NewCSVReader(reader io.Reader, options CSVOptions, mem memory.Allocator) *CSVReader {
	return &CSVReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// CSVWriter writes series as CSV columns
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer with the specified options
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{
		writer:  writer,
		options: options,
	}
}

// ParquetOptions contains configuration options for Parquet operations
type ParquetOptions struct {
	// Compression type for Parquet files
	Compression string
	// BatchSize for reading/writing operations
	BatchSize int
}

// DefaultParquetOptions returns default Parquet options
func DefaultParquetOptions() ParquetOptions {
	return ParquetOptions{
		Compression: "snappy",
		BatchSize:   DefaultBatchSize,
	}
}

// ParquetReader reads Parquet data into series
type ParquetReader struct {
	reader  io.Reader
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetReader creates a new Parquet reader with the specified options
func NewParquetReader(reader io.Reader, options ParquetOptions, mem memory.Allocator) *ParquetReader {
	return &ParquetReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// ParquetWriter writes series as Parquet columns
type ParquetWriter struct {
	writer  io.Writer
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetWriter creates a new Parquet writer with the specified options
func NewParquetWriter(writer io.Writer, options ParquetOptions, mem memory.Allocator) *ParquetWriter {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &ParquetWriter{
		writer:  writer,
		options: options,
		mem:     mem,
	}
}

// JSONFormat represents the JSON output layout
type JSONFormat int

const (
	// JSONArray writes one array of row objects
	JSONArray JSONFormat = iota
	// JSONLines writes one row object per line
	JSONLines
)

// JSONOptions contains configuration options for JSON output
type JSONOptions struct {
	Format JSONFormat
	Indent string
}

// DefaultJSONOptions returns default JSON options
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{Format: JSONArray}
}

// JSONWriter writes series as JSON row objects
type JSONWriter struct {
	writer  io.Writer
	options JSONOptions
}

// NewJSONWriter creates a new JSON writer with the specified options
func NewJSONWriter(writer io.Writer, options JSONOptions) *JSONWriter {
	return &JSONWriter{
		writer:  writer,
		options: options,
	}
}
