package plotting

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examscore/pkg/data"
	"examscore/pkg/profile"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, ".png", filepath.Ext(path))
}

func TestRendererWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r, err := NewRenderer(dir)
	require.NoError(t, err)

	hours := data.NewNumeric("Hours_Studied", []float64{10, 12, 15, math.NaN(), 20, 22, 30})
	score := data.NewNumeric("Exam_Score", []float64{60, 62, 65, 66, 68, 70, 75})

	path, err := r.Histogram(hours)
	require.NoError(t, err)
	assertPNG(t, path)
	assert.Equal(t, filepath.Join(dir, "hist_Hours_Studied.png"), path)

	path, err = r.BoxPlot(score)
	require.NoError(t, err)
	assertPNG(t, path)

	path, err = r.Scatter(hours, score)
	require.NoError(t, err)
	assertPNG(t, path)

	path, err = r.CountPlot("School Type", []profile.ValueCount{{Value: "Public", Count: 5}, {Value: "Private", Count: 2}})
	require.NoError(t, err)
	assertPNG(t, path)
	assert.Equal(t, "count_School_Type.png", filepath.Base(path))

	tbl, err := data.NewTable("t", hours, score)
	require.NoError(t, err)
	path, err = r.Heatmap(profile.Correlations(tbl), "Correlation matrix")
	require.NoError(t, err)
	assertPNG(t, path)

	assert.Len(t, r.Written, 5)
}

func TestRendererRejectsEmptyInput(t *testing.T) {
	r, err := NewRenderer(t.TempDir())
	require.NoError(t, err)

	_, err = r.Histogram(data.NewNumeric("x", []float64{math.NaN()}))
	assert.ErrorIs(t, err, data.ErrInvalidInput)

	_, err = r.CountPlot("x", nil)
	assert.ErrorIs(t, err, data.ErrEmptyColumn)

	_, err = r.Heatmap(profile.CorrMatrix{}, "empty")
	assert.ErrorIs(t, err, data.ErrInvalidInput)
	assert.Empty(t, r.Written)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "Hours_Studied", slug("Hours_Studied"))
	assert.Equal(t, "a_b_c", slug("a/b c"))
}
