package exporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"solareda/internal/dataprocessing"
	"solareda/pkg/contracts/domain"
)

// RenderReport writes the report as plain-text tables, one per section.
func RenderReport(w io.Writer, r *dataprocessing.Report) error {
	ew := &errWriter{w: w}

	fmt.Fprintf(ew, "Dataset: %s (%d rows, %d columns)\n\n", r.Info.Name, r.Info.Rows, r.Info.Columns)

	section(ew, "Schema")
	t := newTable(ew)
	t.AppendHeader(table.Row{"Column", "Type", "Non-Null"})
	for _, c := range r.Info.Schema {
		t.AppendRow(table.Row{c.Name, string(c.Type), c.NonNull})
	}
	t.Render()

	section(ew, "Descriptive statistics")
	renderDescribe(ew, r.Describe)

	section(ew, "Summary statistics")
	renderSummary(ew, r.Summary, r.Describe)

	section(ew, "Missing values")
	t = newTable(ew)
	t.AppendHeader(table.Row{"Column", "Missing", "Percent"})
	for _, m := range r.Missing {
		t.AppendRow(table.Row{m.Column, m.Count, formatPercent(m.Percent)})
	}
	t.Render()

	section(ew, "Negative values")
	t = newTable(ew)
	t.AppendHeader(table.Row{"Column", "Negative"})
	for _, n := range r.Negatives {
		t.AppendRow(table.Row{n.Column, n.Count})
	}
	t.Render()

	if c := r.Cleaned; c != nil {
		section(ew, "Negative-row filter")
		t = newTable(ew)
		t.AppendHeader(table.Row{"Columns", "Rows Before", "Rows After", "Removed"})
		t.AppendRow(table.Row{fmt.Sprint(c.Columns), c.RowsBefore, c.RowsAfter, c.RowsRemoved})
		t.Render()
	}

	if len(r.Wind) > 0 {
		section(ew, "Wind")
		renderDescribe(ew, r.Wind)
	}
	if len(r.Temperature) > 0 {
		section(ew, "Temperature")
		renderDescribe(ew, r.Temperature)
	}

	if len(r.Skipped) > 0 {
		section(ew, "Skipped sections")
		t = newTable(ew)
		t.AppendHeader(table.Row{"Section", "Reason"})
		for _, s := range r.Skipped {
			t.AppendRow(table.Row{s.Section, s.Reason})
		}
		t.Render()
	}
	return ew.err
}

func renderDescribe(w io.Writer, rows []domain.DescriptiveStatistics) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"})
	for _, d := range rows {
		t.AppendRow(table.Row{
			d.Column, d.Count,
			formatMetric(d.Mean), formatMetric(d.StdDev), formatMetric(d.Min),
			formatMetric(d.Q25), formatMetric(d.Median), formatMetric(d.Q75), formatMetric(d.Max),
		})
	}
	t.Render()
}

// renderSummary prints one row per statistic with a value per numeric
// column. Column order follows the describe section.
func renderSummary(w io.Writer, summary []domain.SummaryStatistic, describe []domain.DescriptiveStatistics) {
	t := newTable(w)
	header := table.Row{"Statistic", "Description"}
	for _, d := range describe {
		header = append(header, d.Column)
	}
	t.AppendHeader(header)
	for _, s := range summary {
		row := table.Row{s.Statistic, s.Description}
		for _, d := range describe {
			v := s.Values[d.Column]
			if s.Statistic == domain.StatCount {
				row = append(row, strconv.Itoa(int(v)))
				continue
			}
			row = append(row, formatMetric(v))
		}
		t.AppendRow(row)
	}
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n== %s ==\n", title)
}

// errWriter keeps the first write error so rendering can proceed without
// checking every call.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
