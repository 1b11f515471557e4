package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examscore/pkg/data"
)

func outlierTable(t *testing.T) *data.Table {
	t.Helper()
	tbl, err := data.NewTable("raw",
		data.NewNumeric("Hours", []float64{1, 2, 3, 4, 5, 6, 7, 8, 100}),
		data.NewNumeric("Score", []float64{-50, 61, 62, 63, 64, 65, 66, 67, math.NaN()}),
		data.NewCategorical("Gender", []string{"M", "F", "M", "F", "M", "F", "M", "F", "M"}),
	)
	require.NoError(t, err)
	return tbl
}

func TestClipOutliersStaysWithinFences(t *testing.T) {
	raw := outlierTable(t)
	clean, fs, err := ClipOutliers(raw, nil, "clean")
	require.NoError(t, err)

	assert.Equal(t, "clean", clean.Name)
	assert.Equal(t, []string{"Hours", "Score"}, fs.Columns, "nil selects every numeric column")

	for _, name := range fs.Columns {
		f, ok := fs.Get(name)
		require.True(t, ok)
		col, err := clean.Column(name)
		require.NoError(t, err)
		for _, v := range col.Present() {
			assert.True(t, f.Contains(v), "%s value %v outside %s", name, v, f)
		}
	}

	hours, _ := clean.Column("Hours")
	f, _ := fs.Get("Hours")
	assert.Equal(t, f.Upper, hours.Num[8])
	assert.Equal(t, 1.0, hours.Num[0])

	score, _ := clean.Column("Score")
	assert.True(t, math.IsNaN(score.Num[8]), "missing cells stay missing")

	rawHours, _ := raw.Column("Hours")
	assert.Equal(t, 100.0, rawHours.Num[8], "input table is untouched")
}

func TestApplyFencesIsIdempotent(t *testing.T) {
	raw := outlierTable(t)
	once, fs, err := ClipOutliers(raw, nil, "once")
	require.NoError(t, err)
	twice, err := ApplyFences(once, fs, "twice")
	require.NoError(t, err)

	for _, name := range fs.Columns {
		a, _ := once.Column(name)
		b, _ := twice.Column(name)
		for i := range a.Num {
			if math.IsNaN(a.Num[i]) {
				assert.True(t, math.IsNaN(b.Num[i]))
				continue
			}
			assert.Equal(t, a.Num[i], b.Num[i])
		}
	}
}

func TestComputeFencesErrors(t *testing.T) {
	tbl, err := data.NewTable("t",
		data.NewNumeric("Empty", []float64{math.NaN(), math.NaN()}),
		data.NewCategorical("Gender", []string{"M", "F"}),
	)
	require.NoError(t, err)

	_, err = ComputeFences(tbl, []string{"Empty"})
	assert.ErrorIs(t, err, data.ErrInvalidInput)

	_, err = ComputeFences(tbl, []string{"Gender"})
	assert.ErrorIs(t, err, data.ErrSchemaMismatch)
}

func TestApplyFencesMissingFence(t *testing.T) {
	raw := outlierTable(t)
	fs, err := ComputeFences(raw, []string{"Hours"})
	require.NoError(t, err)
	fs.Columns = append(fs.Columns, "Score")

	_, err = ApplyFences(raw, fs, "clean")
	require.ErrorIs(t, err, data.ErrInvalidInput)
	var ce *data.ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Score", ce.Column)

	score, _ := raw.Column("Score")
	assert.Equal(t, 61.0, score.Num[1], "input table is untouched")
}

func TestClipperStage(t *testing.T) {
	c := &Clipper{Columns: []string{"Hours"}, Output: "clean"}
	out, err := c.Apply(outlierTable(t))
	require.NoError(t, err)
	assert.Equal(t, "clean", out.Name)
	assert.Equal(t, []string{"Hours"}, c.Fences.Columns)

	score, _ := out.Column("Score")
	assert.Equal(t, -50.0, score.Num[0], "unlisted columns are not clipped")
}
