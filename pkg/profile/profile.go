// Package profile computes the descriptive statistics printed by the
// report: describe tables, per-column univariate summaries, null counts,
// unique values and correlations.
package profile

import (
	"math"
	"sort"

	"examscore/pkg/data"
	"examscore/pkg/stats"
)

// Describe is the count/mean/std/min/quartiles/max summary of a numeric column.
type Describe struct {
	Column        string
	Count         int
	Mean, Std     float64 // Std uses the sample divisor
	Min, Max      float64
	Q25, Q50, Q75 float64
}

// DescribeTable summarizes every numeric column over its non-missing values.
func DescribeTable(t *data.Table) []Describe {
	var out []Describe
	for _, c := range t.Columns() {
		if c.Kind != data.Numeric {
			continue
		}
		vals := c.Present()
		d := Describe{Column: c.Name, Count: len(vals)}
		d.Mean = stats.Mean(vals)
		d.Std = stats.SampleStd(vals)
		d.Min, d.Max = stats.MinMax(vals)
		d.Q25, d.Q50, d.Q75 = stats.Quartiles(vals)
		out = append(out, d)
	}
	return out
}

// Quantitative is the univariate analysis of a numeric column.
type Quantitative struct {
	Column string
	Mean   float64
	Median float64
	Std    float64 // population
	Min    float64
	Max    float64
}

// AnalyzeQuantitative summarizes every numeric column.
func AnalyzeQuantitative(t *data.Table) []Quantitative {
	var out []Quantitative
	for _, c := range t.Columns() {
		if c.Kind != data.Numeric {
			continue
		}
		vals := c.Present()
		q := Quantitative{
			Column: c.Name,
			Mean:   stats.Mean(vals),
			Median: stats.Median(vals),
			Std:    stats.Std(vals),
		}
		q.Min, q.Max = stats.MinMax(vals)
		out = append(out, q)
	}
	return out
}

// ValueCount is one category and its frequency.
type ValueCount struct {
	Value string
	Count int
}

// CategoricalSummary is the univariate analysis of a categorical column.
type CategoricalSummary struct {
	Column  string
	Counts  []ValueCount // descending by count, ties by value
	Mode    string
	Missing int
}

// ValueCounts tallies the non-missing values, most frequent first.
func ValueCounts(vals []string) []ValueCount {
	counts := map[string]int{}
	for _, v := range vals {
		if v != "" {
			counts[v]++
		}
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// AnalyzeCategorical summarizes every categorical column.
func AnalyzeCategorical(t *data.Table) []CategoricalSummary {
	var out []CategoricalSummary
	for _, c := range t.Columns() {
		if c.Kind != data.Categorical {
			continue
		}
		s := CategoricalSummary{Column: c.Name, Counts: ValueCounts(c.Cat), Missing: c.MissingCount()}
		if len(s.Counts) > 0 {
			s.Mode = s.Counts[0].Value
		}
		out = append(out, s)
	}
	return out
}

// NullCount is the number of missing cells of a column.
type NullCount struct {
	Column  string
	Missing int
}

// NullCounts lists the missing-cell count of every column, in order.
func NullCounts(t *data.Table) []NullCount {
	out := make([]NullCount, 0, t.Width())
	for _, c := range t.Columns() {
		out = append(out, NullCount{Column: c.Name, Missing: c.MissingCount()})
	}
	return out
}

// Unique is the distinct values of a column in first-seen order.
type Unique struct {
	Column string
	Kind   data.Kind
	Values []string
}

// UniqueValues lists the distinct values of every column.
func UniqueValues(t *data.Table) []Unique {
	out := make([]Unique, 0, t.Width())
	for _, c := range t.Columns() {
		seen := map[string]bool{}
		u := Unique{Column: c.Name, Kind: c.Kind}
		for i := 0; i < c.Len(); i++ {
			v := c.String(i)
			if !seen[v] {
				seen[v] = true
				u.Values = append(u.Values, v)
			}
		}
		out = append(out, u)
	}
	return out
}

// CorrMatrix is a symmetric Pearson correlation matrix.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Correlations computes pairwise Pearson correlations over numeric and
// boolean columns, using rows where both cells are present.
func Correlations(t *data.Table) CorrMatrix {
	var cols []*data.Column
	for _, c := range t.Columns() {
		if c.Kind != data.Categorical {
			cols = append(cols, c)
		}
	}
	m := CorrMatrix{Columns: make([]string, len(cols)), Values: make([][]float64, len(cols))}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pairwise(cols[i].Num, cols[j].Num)
			m.Values[i][j], m.Values[j][i] = r, r
		}
	}
	return m
}

func pairwise(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return stats.Correlation(x, y)
}

// PairCorr is the correlation of one column with the target.
type PairCorr struct {
	Column string
	R      float64
}

// WithTarget returns every column's correlation with target, descending;
// undefined (NaN) correlations sort last. ok is false if target is absent.
func (m CorrMatrix) WithTarget(target string) (out []PairCorr, ok bool) {
	ti := -1
	for i, c := range m.Columns {
		if c == target {
			ti = i
		}
	}
	if ti < 0 {
		return nil, false
	}
	for i, c := range m.Columns {
		out = append(out, PairCorr{Column: c, R: m.Values[ti][i]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].R, out[j].R
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})
	return out, true
}
