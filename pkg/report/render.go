package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"examscore/pkg/data"
	"examscore/pkg/dataprep"
	"examscore/pkg/model"
	"examscore/pkg/profile"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func section(w io.Writer, title string) {
	_, _ = fmt.Fprintf(w, "\n== %s ==\n", title)
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}

func renderHead(w io.Writer, t *data.Table, n int) {
	tw := newTable(w)
	header := make(table.Row, 0, t.Width())
	for _, name := range t.Names() {
		header = append(header, name)
	}
	tw.AppendHeader(header)
	for _, row := range t.Head(n) {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = v
		}
		tw.AppendRow(r)
	}
	tw.Render()
}

func renderInfo(w io.Writer, t *data.Table) {
	_, _ = fmt.Fprintf(w, "Shape: %d rows x %d columns\n", t.Rows(), t.Width())
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Column", "Kind", "Non-null", "Null"})
	nulls := profile.NullCounts(t)
	for i, c := range t.Columns() {
		tw.AppendRow(table.Row{c.Name, c.Kind.String(), t.Rows() - nulls[i].Missing, nulls[i].Missing})
	}
	tw.Render()
}

func renderDescribe(w io.Writer, ds []profile.Describe) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
	for _, d := range ds {
		tw.AppendRow(table.Row{d.Column, d.Count, num(d.Mean), num(d.Std), num(d.Min), num(d.Q25), num(d.Q50), num(d.Q75), num(d.Max)})
	}
	tw.Render()
}

func renderQuantitative(w io.Writer, qs []profile.Quantitative) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Column", "Mean", "Median", "Std", "Min", "Max"})
	for _, q := range qs {
		tw.AppendRow(table.Row{q.Column, num(q.Mean), num(q.Median), num(q.Std), num(q.Min), num(q.Max)})
	}
	tw.Render()
}

func renderCategorical(w io.Writer, cs []profile.CategoricalSummary) {
	for _, c := range cs {
		_, _ = fmt.Fprintf(w, "%s (mode: %s, missing: %d)\n", c.Column, c.Mode, c.Missing)
		tw := newTable(w)
		tw.AppendHeader(table.Row{"Value", "Count"})
		for _, vc := range c.Counts {
			tw.AppendRow(table.Row{vc.Value, vc.Count})
		}
		tw.Render()
	}
}

func renderUnique(w io.Writer, us []profile.Unique) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Column", "Kind", "Distinct", "Values"})
	for _, u := range us {
		vals := u.Values
		more := ""
		if len(vals) > 12 {
			more = fmt.Sprintf(" ... (+%d)", len(vals)-12)
			vals = vals[:12]
		}
		tw.AppendRow(table.Row{u.Column, u.Kind.String(), len(u.Values), strings.Join(vals, ", ") + more})
	}
	tw.Render()
}

func renderFences(w io.Writer, fs dataprep.FenceSet) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Column", "Q1", "Q3", "IQR", "Lower", "Upper"})
	for _, c := range fs.Columns {
		f := fs.Fences[c]
		tw.AppendRow(table.Row{c, num(f.Q1), num(f.Q3), num(f.IQR()), num(f.Lower), num(f.Upper)})
	}
	tw.Render()
}

func renderTargetCorr(w io.Writer, target string, pcs []profile.PairCorr) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Column", "r(" + target + ")"})
	for _, pc := range pcs {
		tw.AppendRow(table.Row{pc.Column, num(pc.R)})
	}
	tw.Render()
}

func renderResults(w io.Writer, results []model.Result) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Model", "MAE", "RMSE", "R²"})
	for _, r := range results {
		tw.AppendRow(table.Row{r.Model, num(r.MAE), num(r.RMSE), num(r.R2)})
	}
	tw.Render()
}
