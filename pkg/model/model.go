package model

import (
	"errors"
	"fmt"

	"examscore/pkg/data"
)

// Regressor is a supervised model predicting a continuous target.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// Factory builds a fresh, unfitted regressor.
type Factory func() Regressor

// ErrNotFitted is returned when predicting with a model that has not been fitted.
var ErrNotFitted = errors.New("model not fitted")

// checkXY validates a training set: non-empty, rectangular, matching y.
func checkXY(name string, X [][]float64, y []float64) (n, p int, err error) {
	n = len(X)
	if n == 0 {
		return 0, 0, fmt.Errorf("%s: %w: empty X", name, data.ErrInvalidInput)
	}
	if len(y) != n {
		return 0, 0, fmt.Errorf("%s: %w: X has %d rows, y has %d", name, data.ErrInvalidInput, n, len(y))
	}
	p = len(X[0])
	if p == 0 {
		return 0, 0, fmt.Errorf("%s: %w: no features", name, data.ErrInvalidInput)
	}
	for i := range X {
		if len(X[i]) != p {
			return 0, 0, fmt.Errorf("%s: %w: inconsistent number of features in X rows", name, data.ErrInvalidInput)
		}
	}
	return n, p, nil
}
