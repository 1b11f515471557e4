package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examscore/pkg/data"
)

// planar returns rows of y = 3 + 2·x0 − x1.
func planar() ([][]float64, []float64) {
	X := [][]float64{{0, 1}, {1, 0}, {2, 3}, {3, 1}, {4, 4}, {5, 2}, {6, 7}, {7, 3}}
	y := make([]float64, len(X))
	for i, r := range X {
		y[i] = 3 + 2*r[0] - r[1]
	}
	return X, y
}

func TestLinearRegressionExactFit(t *testing.T) {
	X, y := planar()
	m := NewLinearRegression()
	require.NoError(t, m.Fit(X, y))

	w, b := m.Coefficients()
	assert.InDelta(t, 2.0, w[0], 1e-9)
	assert.InDelta(t, -1.0, w[1], 1e-9)
	assert.InDelta(t, 3.0, b, 1e-9)
	assert.InDeltaSlice(t, y, m.Predict(X), 1e-9)
}

func TestLinearRegressionRankDeficient(t *testing.T) {
	// the last two columns are complementary indicators
	X := [][]float64{{1, 1, 0}, {2, 0, 1}, {3, 1, 0}, {4, 0, 1}, {5, 1, 0}, {6, 0, 1}}
	y := make([]float64, len(X))
	for i, r := range X {
		y[i] = 1 + 0.5*r[0] + 4*r[1]
	}
	m := NewLinearRegression()
	require.NoError(t, m.Fit(X, y))
	assert.InDeltaSlice(t, y, m.Predict(X), 1e-8)

	w, _ := m.Coefficients()
	assert.InDelta(t, -w[1], w[2], 1e-8, "minimum-norm split between the indicators")
}

func TestLinearRegressionUnfitted(t *testing.T) {
	pred := NewLinearRegression().Predict([][]float64{{1, 2}})
	assert.True(t, math.IsNaN(pred[0]))

	err := NewLinearRegression().Fit(nil, nil)
	assert.ErrorIs(t, err, data.ErrInvalidInput)
	err = NewLinearRegression().Fit([][]float64{{1}, {2, 3}}, []float64{1, 2})
	assert.ErrorIs(t, err, data.ErrInvalidInput)
}

func norm(w []float64) float64 {
	s := 0.0
	for _, v := range w {
		s += v * v
	}
	return math.Sqrt(s)
}

func TestRidgeShrinks(t *testing.T) {
	X, y := planar()
	ols := NewLinearRegression()
	require.NoError(t, ols.Fit(X, y))
	wOLS, _ := ols.Coefficients()

	prev := norm(wOLS)
	for _, alpha := range []float64{0.1, 1, 10, 100} {
		r := NewRidge(alpha)
		require.NoError(t, r.Fit(X, y))
		w, _ := r.Coefficients()
		assert.Less(t, norm(w), prev, "alpha=%v", alpha)
		prev = norm(w)
	}

	assert.ErrorIs(t, NewRidge(0).Fit(X, y), data.ErrInvalidInput)
}

func TestRidgeInterceptUnpenalized(t *testing.T) {
	X := [][]float64{{0}, {0}, {0}, {0}}
	y := []float64{5, 7, 5, 7}
	r := NewRidge(1)
	require.NoError(t, r.Fit(X, y))
	w, b := r.Coefficients()
	assert.Equal(t, 0.0, w[0])
	assert.InDelta(t, 6.0, b, 1e-12)
}

func TestLassoSoftThresholds(t *testing.T) {
	// centered, orthogonal columns: the solution is closed form
	X := [][]float64{
		{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
		{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	}
	y := make([]float64, len(X))
	for i, r := range X {
		y[i] = 10 + 3*r[0] + 0.05*r[1]
	}
	m := NewLasso(0.1)
	require.NoError(t, m.Fit(X, y))

	w, b := m.Coefficients()
	assert.InDelta(t, 2.9, w[0], 1e-9)
	assert.Equal(t, 0.0, w[1], "weak coefficient is zeroed")
	assert.InDelta(t, 10.0, b, 1e-9)
	assert.LessOrEqual(t, m.Iterations, 3)
}

func TestLassoLargeAlphaIsIntercept(t *testing.T) {
	X, y := planar()
	m := NewLasso(1e6)
	require.NoError(t, m.Fit(X, y))
	w, b := m.Coefficients()
	assert.Equal(t, []float64{0, 0}, w)

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	assert.InDelta(t, mean/float64(len(y)), b, 1e-12)
	assert.ErrorIs(t, NewLasso(-1).Fit(X, y), data.ErrInvalidInput)
}

func TestSoftThreshold(t *testing.T) {
	assert.Equal(t, 2.0, softThreshold(3, 1))
	assert.Equal(t, -2.0, softThreshold(-3, 1))
	assert.Equal(t, 0.0, softThreshold(0.5, 1))
}
