package io

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/paveg/relcmp/internal/series"
)

// Read reads Parquet data and returns one series per column.
func (r *ParquetReader) Read() ([]*series.Series, error) {
	// Parquet needs random access, so the whole input is buffered
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating parquet file reader: %w", err)
	}
	defer pqReader.Close()

	props := pqarrow.ArrowReadProperties{BatchSize: int64(r.options.BatchSize)}
	arrowReader, err := pqarrow.NewFileReader(pqReader, props, r.mem)
	if err != nil {
		return nil, fmt.Errorf("creating arrow file reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer table.Release()

	result := make([]*series.Series, 0, table.NumCols())
	for i := range int(table.NumCols()) {
		column := table.Column(i)
		s, err := r.arrowColumnToSeries(column)
		if err != nil {
			releaseAll(result)
			return nil, fmt.Errorf("converting column %s: %w", column.Name(), err)
		}
		result = append(result, s)
	}
	return result, nil
}

// arrowColumnToSeries flattens a chunked column into one array.
func (r *ParquetReader) arrowColumnToSeries(column *arrow.Column) (*series.Series, error) {
	chunks := column.Data().Chunks()

	var (
		arr arrow.Array
		err error
	)
	switch len(chunks) {
	case 0:
		builder := array.NewBuilder(r.mem, column.DataType())
		arr = builder.NewArray()
		builder.Release()
	case 1:
		arr = chunks[0]
		arr.Retain()
	default:
		arr, err = array.Concatenate(chunks, r.mem)
		if err != nil {
			return nil, fmt.Errorf("concatenating chunks: %w", err)
		}
	}
	defer arr.Release()

	return series.FromArrow(column.Name(), arr)
}

// WriteSeries writes the series as the columns of one Parquet file.
func (w *ParquetWriter) WriteSeries(cols ...*series.Series) (err error) {
	n, err := commonLength("parquet write", cols)
	if err != nil {
		return err
	}

	compression, err := parseCompression(w.options.Compression)
	if err != nil {
		return err
	}

	fields := make([]arrow.Field, len(cols))
	arrays := make([]arrow.Array, len(cols))
	for i, s := range cols {
		fields[i] = arrow.Field{Name: s.Name(), Type: s.DataType(), Nullable: true}
		arrays[i] = s.Array()
	}
	defer func() {
		for _, arr := range arrays {
			arr.Release()
		}
	}()

	schema := arrow.NewSchema(fields, nil)
	record := array.NewRecord(schema, arrays, int64(n))
	defer record.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compression),
		parquet.WithBatchSize(int64(w.options.BatchSize)),
		parquet.WithAllocator(w.mem),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(w.mem), pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(schema, w.writer, props, arrowProps)
	if err != nil {
		return fmt.Errorf("creating file writer: %w", err)
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("closing file writer: %w", closeErr))
		}
	}()

	if err := writer.Write(record); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

func parseCompression(name string) (compress.Compression, error) {
	switch name {
	case "", "snappy":
		return compress.Codecs.Snappy, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "lz4":
		return compress.Codecs.Lz4Raw, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "uncompressed":
		return compress.Codecs.Uncompressed, nil
	default:
		return compress.Codecs.Uncompressed, fmt.Errorf("unsupported compression: %s", name)
	}
}
