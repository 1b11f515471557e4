package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examscore/pkg/data"
)

func profileTable(t *testing.T) *data.Table {
	t.Helper()
	tbl, err := data.NewTable("t",
		data.NewNumeric("Hours", []float64{1, 2, 3, 4, math.NaN()}),
		data.NewCategorical("Gender", []string{"Male", "Female", "Male", "", "Female"}),
		data.NewBoolean("Internet_Access_Yes", []bool{true, false, true, false, true}),
		data.NewNumeric("Exam_Score", []float64{2, 4, 6, 8, 10}),
	)
	require.NoError(t, err)
	return tbl
}

func TestDescribeTable(t *testing.T) {
	ds := DescribeTable(profileTable(t))
	require.Len(t, ds, 2, "only numeric columns")
	d := ds[0]
	assert.Equal(t, "Hours", d.Column)
	assert.Equal(t, 4, d.Count)
	assert.InDelta(t, 2.5, d.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3), d.Std, 1e-12)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 4.0, d.Max)
	assert.InDelta(t, 1.75, d.Q25, 1e-12)
	assert.InDelta(t, 2.5, d.Q50, 1e-12)
	assert.InDelta(t, 3.25, d.Q75, 1e-12)
}

func TestAnalyzeQuantitative(t *testing.T) {
	qs := AnalyzeQuantitative(profileTable(t))
	require.Len(t, qs, 2)
	q := qs[1]
	assert.Equal(t, "Exam_Score", q.Column)
	assert.InDelta(t, 6.0, q.Mean, 1e-12)
	assert.InDelta(t, 6.0, q.Median, 1e-12)
	assert.InDelta(t, math.Sqrt(8), q.Std, 1e-12)
}

func TestAnalyzeCategorical(t *testing.T) {
	cs := AnalyzeCategorical(profileTable(t))
	require.Len(t, cs, 1)
	c := cs[0]
	assert.Equal(t, "Gender", c.Column)
	assert.Equal(t, 1, c.Missing)
	assert.Equal(t, []ValueCount{{"Female", 2}, {"Male", 2}}, c.Counts, "ties ordered by value")
	assert.Equal(t, "Female", c.Mode)

	assert.Equal(t, []ValueCount{{"b", 3}, {"a", 1}}, ValueCounts([]string{"a", "b", "b", "", "b"}))
}

func TestNullCountsAndUnique(t *testing.T) {
	tbl := profileTable(t)
	assert.Equal(t, []NullCount{
		{"Hours", 1}, {"Gender", 1}, {"Internet_Access_Yes", 0}, {"Exam_Score", 0},
	}, NullCounts(tbl))

	us := UniqueValues(tbl)
	require.Len(t, us, 4)
	assert.Equal(t, []string{"Male", "Female", "NaN"}, us[1].Values)
	assert.Equal(t, []string{"true", "false"}, us[2].Values)
	assert.Equal(t, data.Boolean, us[2].Kind)
}

func TestCorrelations(t *testing.T) {
	m := Correlations(profileTable(t))
	assert.Equal(t, []string{"Hours", "Internet_Access_Yes", "Exam_Score"}, m.Columns)
	for i := range m.Columns {
		assert.InDelta(t, 1.0, m.Values[i][i], 1e-12)
	}
	assert.InDelta(t, 1.0, m.Values[0][2], 1e-12, "pairwise complete rows only")
	assert.Equal(t, m.Values[0][2], m.Values[2][0])

	pcs, ok := m.WithTarget("Exam_Score")
	require.True(t, ok)
	require.Len(t, pcs, 3)
	assert.InDelta(t, 1.0, pcs[0].R, 1e-12)
	assert.GreaterOrEqual(t, pcs[1].R, pcs[2].R)

	_, ok = m.WithTarget("Gender")
	assert.False(t, ok)
}

func TestWithTargetSortsNaNLast(t *testing.T) {
	m := CorrMatrix{
		Columns: []string{"const", "y", "x"},
		Values: [][]float64{
			{math.NaN(), math.NaN(), math.NaN()},
			{math.NaN(), 1, -0.5},
			{math.NaN(), -0.5, 1},
		},
	}
	pcs, ok := m.WithTarget("y")
	require.True(t, ok)
	assert.Equal(t, "y", pcs[0].Column)
	assert.Equal(t, "x", pcs[1].Column)
	assert.Equal(t, "const", pcs[2].Column)
}
