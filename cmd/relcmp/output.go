package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/paveg/relcmp/internal/common"
	relio "github.com/paveg/relcmp/internal/io"
	"github.com/paveg/relcmp/internal/monitoring"
	"github.com/paveg/relcmp/internal/series"
)

// maskCounts tallies the rows of a Boolean mask.
type maskCounts struct {
	True, False, Null int
}

func countMask(mask *series.Series) maskCounts {
	var c maskCounts
	values, valid, err := mask.Bools()
	if err != nil {
		return c
	}
	for i := range values {
		switch {
		case !valid[i]:
			c.Null++
		case values[i]:
			c.True++
		default:
			c.False++
		}
	}
	return c
}

// render writes cols to w. The last column is the mask.
func render(w io.Writer, format string, cols []*series.Series, limit int) error {
	switch strings.ToLower(format) {
	case "table":
		renderTable(w, cols, limit)
		return nil
	case "csv":
		return relio.NewCSVWriter(w, relio.DefaultCSVOptions()).WriteSeries(cols...)
	case "json":
		return relio.NewJSONWriter(w, relio.JSONOptions{Format: relio.JSONArray, Indent: "  "}).WriteSeries(cols...)
	case "none":
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = false
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// renderTable prints the columns with a row index. Tables longer than limit
// show the first and last rows around a marker row.
func renderTable(w io.Writer, cols []*series.Series, limit int) {
	t := newTable(w)

	header := table.Row{"#"}
	for _, s := range cols {
		header = append(header, common.FormatColumnRef(s.Name(), s.ElementType().String()))
	}
	t.AppendHeader(header)

	rows := cols[len(cols)-1].Len()
	row := func(i int) table.Row {
		r := table.Row{i}
		for _, s := range cols {
			r = append(r, relio.FormatValue(s, i, common.NullToken))
		}
		return r
	}

	if limit > 0 && rows > limit {
		top := limit / 2
		for i := range top {
			t.AppendRow(row(i))
		}
		marker := make(table.Row, len(header))
		for i := range marker {
			marker[i] = fmt.Sprintf("... (%d more rows) ...", rows-limit)
		}
		t.AppendRow(marker, table.RowConfig{AutoMerge: true})
		for i := rows - (limit - top); i < rows; i++ {
			t.AppendRow(row(i))
		}
	} else {
		for i := range rows {
			t.AppendRow(row(i))
		}
	}

	mask := cols[len(cols)-1]
	c := countMask(mask)
	t.AppendFooter(table.Row{"", fmt.Sprintf("true=%d false=%d null=%d", c.True, c.False, c.Null)})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	t.Render()

	fmt.Fprintf(w, "fingerprint: %016x\n", mask.Fingerprint())
}

// renderSummary prints the in-process metrics collected during a run.
func renderSummary(w io.Writer, summary monitoring.MetricsSummary) {
	t := newTable(w)
	t.SetTitle("metrics")
	t.AppendHeader(table.Row{"metric", "value"})
	t.AppendRows([]table.Row{
		{"operations", summary.TotalOperations},
		{"failed", summary.FailedOperations},
		{"parallel", summary.ParallelOperations},
		{"rows", summary.TotalRows},
		{"total duration", summary.TotalDuration},
		{"average duration", summary.AverageDuration},
		{"memory", fmt.Sprintf("%d B", summary.TotalMemory)},
	})
	t.Render()
}
