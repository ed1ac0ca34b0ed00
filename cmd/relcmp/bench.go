package main

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/paveg/relcmp/internal/compare"
	"github.com/paveg/relcmp/internal/config"
	"github.com/paveg/relcmp/internal/monitoring"
	"github.com/paveg/relcmp/internal/series"
)

const defaultBenchRows = 1_000_000

type benchOptions struct {
	rows int
	op   string
}

// benchCase is one pair of generated operands.
type benchCase struct {
	name  string
	left  *series.Series
	right series.Operand
}

func newBenchCmd(global *globalOptions) *cobra.Command {
	opts := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time comparisons over generated columns, sequentially and in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, global, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.rows, "rows", "n", defaultBenchRows, "Rows per generated column")
	cmd.Flags().StringVarP(&opts.op, "op", "o", "lt", "Comparison to run")
	return cmd
}

func runBench(cmd *cobra.Command, global *globalOptions, opts *benchOptions) error {
	cfg, logger, err := global.setup(cmd)
	if err != nil {
		return err
	}
	if opts.rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", opts.rows)
	}
	kind, err := compare.ParseKind(opts.op)
	if err != nil {
		return err
	}

	mem := memory.NewGoAllocator()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating %d rows per column...\n", opts.rows)
	start := time.Now()
	cases := generateBenchCases(opts.rows, mem)
	defer func() {
		for _, c := range cases {
			c.left.Release()
			if s, ok := c.right.(*series.Series); ok {
				s.Release()
			}
		}
	}()
	fmt.Fprintf(out, "Generation time: %s\n\n", time.Since(start))

	collector := monitoring.NewMetricsCollector(true)
	modes := []struct {
		name       string
		sequential bool
	}{
		{"sequential", true},
		{"parallel", false},
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"case", "mode", "rows", "duration", "rows/s", "true"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	for _, mode := range modes {
		d, err := compare.NewDispatcher(
			compare.WithAllocator(mem),
			compare.WithConfig(benchConfig(cfg, mode.sequential)),
			compare.WithLogger(logger),
			compare.WithCollector(collector),
		)
		if err != nil {
			return err
		}

		for _, c := range cases {
			start := time.Now()
			mask, err := d.Compare(kind, c.left, c.right)
			elapsed := time.Since(start)
			if err != nil {
				d.Close()
				return fmt.Errorf("%s: %w", c.name, err)
			}
			counts := countMask(mask)
			mask.Release()

			t.AppendRow(table.Row{
				c.name + " " + kind.Symbol(),
				mode.name,
				opts.rows,
				elapsed.Round(time.Microsecond),
				throughput(opts.rows, elapsed),
				counts.True,
			})
		}
		d.Close()
	}
	t.Render()
	fmt.Fprintln(out)

	renderSummary(out, collector.GetSummary())
	return nil
}

// benchConfig forces a sequential scan or lets the dispatcher split every input.
func benchConfig(cfg config.Config, sequential bool) config.Config {
	if sequential {
		cfg.ParallelThreshold = math.MaxInt
	} else {
		cfg.ParallelThreshold = 1
	}
	return cfg
}

func throughput(rows int, d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return strconv.FormatFloat(float64(rows)/d.Seconds(), 'e', 2, 64)
}

// generateBenchCases builds one case per widening domain with deterministic data.
func generateBenchCases(rows int, mem memory.Allocator) []benchCase {
	const (
		valueRange = 1000
		nullEvery  = 97
	)

	i32 := make([]int32, rows)
	i64 := make([]int64, rows)
	u64 := make([]uint64, rows)
	f64 := make([]float64, rows)
	left := make([]string, rows)
	right := make([]string, rows)
	valid := make([]bool, rows)

	for i := range rows {
		i32[i] = int32(i % valueRange)
		i64[i] = int64((i * 7) % valueRange)
		u64[i] = uint64((i * 13) % valueRange)
		f64[i] = float64(i%valueRange) + 0.5
		left[i] = "key_" + strconv.Itoa(i%valueRange)
		right[i] = "key_" + strconv.Itoa((i*3)%valueRange)
		valid[i] = i%nullEvery != 0
	}

	// valid has the same length as i64, so NewNullable cannot fail.
	nullableI64, _ := series.NewNullable("i64", i64, valid, mem)

	return []benchCase{
		{name: "int32 vs int64", left: series.New("i32", i32, mem), right: nullableI64},
		{name: "uint64 vs int64", left: series.New("u64", u64, mem), right: series.New("i64", i64, mem)},
		{name: "float64 vs int32", left: series.New("f64", f64, mem), right: series.NewScalar(int32(valueRange / 2))},
		{name: "utf8 vs utf8", left: series.New("a", left, mem), right: series.New("b", right, mem)},
	}
}
