package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paveg/relcmp/internal/common"
	"github.com/paveg/relcmp/internal/compare"
	relio "github.com/paveg/relcmp/internal/io"
	"github.com/paveg/relcmp/internal/monitoring"
	"github.com/paveg/relcmp/internal/series"
)

type compareOptions struct {
	left       string
	right      string
	op         string
	scalar     string
	scalarType string
	scalarLeft bool
	types      []string
	output     string
	format     string
	limit      int
	metricsOut string
}

func newCompareCmd(global *globalOptions) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a column against another column or a scalar",
		Example: `  relcmp compare --left prices.csv:price --op gt --scalar 10 --scalar-type int32
  relcmp compare --left a.parquet:x --op lt_eq --right b.csv:y --output mask.parquet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, global, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.left, "left", "l", "", "Left operand as file[:column]")
	f.StringVarP(&opts.right, "right", "r", "", "Right operand as file[:column]")
	f.StringVarP(&opts.op, "op", "o", "", "Comparison: eq, neq, gt, gt_eq, lt, lt_eq or a symbol such as >=")
	f.StringVarP(&opts.scalar, "scalar", "s", "", "Scalar right operand; \"null\" yields an all-null mask")
	f.StringVar(&opts.scalarType, "scalar-type", "", "Element type of the scalar (default: the left column's type)")
	f.BoolVar(&opts.scalarLeft, "scalar-left", false, "Place the scalar on the left-hand side")
	f.StringSliceVarP(&opts.types, "type", "t", nil, "CSV column type hint as column=type, repeatable")
	f.StringVar(&opts.output, "output", "", "Write the mask with its inputs to a .csv, .parquet or .json file")
	f.StringVarP(&opts.format, "format", "f", "table", "Stdout format: table, csv, json or none")
	f.IntVar(&opts.limit, "limit", 40, "Maximum rows shown in table format (0 for unlimited)")
	f.StringVar(&opts.metricsOut, "metrics-out", "", "Write Prometheus metrics in text format to this file")

	_ = cmd.MarkFlagRequired("left")
	_ = cmd.MarkFlagRequired("op")
	cmd.MarkFlagsMutuallyExclusive("right", "scalar")
	cmd.MarkFlagsOneRequired("right", "scalar")
	return cmd
}

func runCompare(cmd *cobra.Command, global *globalOptions, opts *compareOptions) error {
	cfg, logger, err := global.setup(cmd)
	if err != nil {
		return err
	}

	kind, err := compare.ParseKind(opts.op)
	if err != nil {
		return err
	}
	csvOpts, err := opts.csvOptions()
	if err != nil {
		return err
	}

	mem := memory.NewGoAllocator()
	left, right, err := loadOperands(opts.left, opts.right, csvOpts, mem)
	if err != nil {
		return err
	}
	if right != nil && right.Name() == left.Name() {
		right = renamed(right, right.Name()+"_right")
	}
	defer left.Release()
	if right != nil {
		defer right.Release()
	}

	registry := prometheus.NewRegistry()
	d, err := compare.NewDispatcher(
		compare.WithAllocator(mem),
		compare.WithConfig(cfg),
		compare.WithLogger(logger),
		compare.WithMetrics(monitoring.NewMetrics(registry)),
	)
	if err != nil {
		return err
	}
	defer d.Close()

	var mask *series.Series
	if right != nil {
		mask, err = d.Compare(kind, left, right)
	} else {
		mask, err = compareScalar(d, kind, left, opts)
	}
	if opts.metricsOut != "" {
		if werr := prometheus.WriteToTextfile(opts.metricsOut, registry); werr != nil {
			logger.Warn("writing metrics", "path", opts.metricsOut, "error", werr)
		}
	}
	if err != nil {
		return err
	}
	mask = renamed(mask, resultName(left, right, kind, opts))
	defer mask.Release()

	cols := []*series.Series{left}
	if right != nil {
		cols = append(cols, right)
	}
	cols = append(cols, mask)

	if opts.output != "" {
		if err := writeOutput(opts.output, cols, mem); err != nil {
			return err
		}
		logger.Info("mask written", "path", opts.output, "rows", mask.Len())
	}

	if err := render(cmd.OutOrStdout(), opts.format, cols, opts.limit); err != nil {
		return err
	}

	if cfg.MetricsCollection {
		renderSummary(cmd.OutOrStdout(), d.Collector().GetSummary())
	}
	return nil
}

func compareScalar(d *compare.Dispatcher, kind compare.Kind, left *series.Series, opts *compareOptions) (*series.Series, error) {
	typ := left.ElementType()
	if opts.scalarType != "" {
		var err error
		if typ, err = series.ParseElementType(opts.scalarType); err != nil {
			return nil, err
		}
	}
	scalar, err := common.ParseScalar(typ, opts.scalar)
	if err != nil {
		return nil, err
	}
	if opts.scalarLeft {
		return d.CompareScalarLeft(kind, scalar, left)
	}
	return d.Compare(kind, left, scalar)
}

// resultName labels the mask column as "left op right".
func resultName(left, right *series.Series, kind compare.Kind, opts *compareOptions) string {
	rhs := opts.scalar
	if right != nil {
		rhs = right.Name()
	}
	if opts.scalarLeft {
		return common.FormatBinaryOperation(rhs, kind.Symbol(), left.Name())
	}
	return common.FormatBinaryOperation(left.Name(), kind.Symbol(), rhs)
}

// renamed returns s under a new name, sharing its data, and releases s.
func renamed(s *series.Series, name string) *series.Series {
	arr := s.Array()
	defer arr.Release()
	out, err := series.FromArrow(name, arr)
	if err != nil {
		return s
	}
	s.Release()
	return out
}

func (o *compareOptions) csvOptions() (relio.CSVOptions, error) {
	opts := relio.DefaultCSVOptions()
	if len(o.types) == 0 {
		return opts, nil
	}
	opts.TypeHints = make(map[string]series.ElementType, len(o.types))
	for _, hint := range o.types {
		column, typeName, ok := strings.Cut(hint, "=")
		if !ok || column == "" {
			return relio.CSVOptions{}, fmt.Errorf("type hint %q must be column=type", hint)
		}
		typ, err := series.ParseElementType(typeName)
		if err != nil {
			return relio.CSVOptions{}, fmt.Errorf("type hint %q: %w", hint, err)
		}
		opts.TypeHints[column] = typ
	}
	return opts, nil
}

// loadOperands reads the left and, when given, right operand concurrently.
func loadOperands(leftRef, rightRef string, csvOpts relio.CSVOptions, mem memory.Allocator) (left, right *series.Series, err error) {
	var g errgroup.Group
	g.Go(func() error {
		var err error
		left, err = loadColumn(leftRef, csvOpts, mem)
		return err
	})
	if rightRef != "" {
		g.Go(func() error {
			var err error
			right, err = loadColumn(rightRef, csvOpts, mem)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		if left != nil {
			left.Release()
		}
		if right != nil {
			right.Release()
		}
		return nil, nil, err
	}
	return left, right, nil
}

// loadColumn reads one column given as path[:column].
func loadColumn(ref string, csvOpts relio.CSVOptions, mem memory.Allocator) (*series.Series, error) {
	path, column := splitColumnRef(ref)
	cols, err := relio.ReadFile(path, csvOpts, mem)
	if err != nil {
		return nil, err
	}
	s, err := relio.SelectColumn(cols, column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// splitColumnRef splits "data/prices.csv:price" into path and column. A colon
// inside the directory part (such as a Windows drive letter) is kept in the path.
func splitColumnRef(ref string) (path, column string) {
	i := strings.LastIndex(ref, ":")
	if i <= 0 || strings.ContainsAny(ref[i+1:], `/\`) {
		return ref, ""
	}
	return ref[:i], ref[i+1:]
}

// writeOutput writes cols to path in the format named by its extension.
func writeOutput(path string, cols []*series.Series, mem memory.Allocator) error {
	var (
		buf    bytes.Buffer
		writer relio.SeriesWriter
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		writer = relio.NewCSVWriter(&buf, relio.DefaultCSVOptions())
	case ".parquet", ".pq":
		writer = relio.NewParquetWriter(&buf, relio.DefaultParquetOptions(), mem)
	case ".json":
		writer = relio.NewJSONWriter(&buf, relio.DefaultJSONOptions())
	case ".jsonl", ".ndjson":
		writer = relio.NewJSONWriter(&buf, relio.JSONOptions{Format: relio.JSONLines})
	default:
		return fmt.Errorf("unsupported output format: %s", ext)
	}

	if err := writer.WriteSeries(cols...); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
