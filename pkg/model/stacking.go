package model

import (
	"fmt"
	"math"

	"examscore/pkg/data"
	"examscore/pkg/loader"
)

// NamedFactory pairs a base estimator name with its constructor.
type NamedFactory struct {
	Name string
	New  Factory
}

// StackingRegressor fits a final estimator on out-of-fold predictions of
// the base estimators. Folds are contiguous and unshuffled; after the
// cross-fitting pass every base estimator is refit on the full training set.
type StackingRegressor struct {
	Estimators []NamedFactory
	Final      Factory
	CV         int

	bases []Regressor
	final Regressor
}

// NewStackingRegressor returns a stacking ensemble with 5 folds.
func NewStackingRegressor(final Factory, estimators ...NamedFactory) *StackingRegressor {
	return &StackingRegressor{Estimators: estimators, Final: final, CV: 5}
}

func (s *StackingRegressor) Fit(X [][]float64, y []float64) error {
	n, _, err := checkXY("stacking", X, y)
	if err != nil {
		return err
	}
	if len(s.Estimators) == 0 || s.Final == nil {
		return fmt.Errorf("stacking: %w: needs base estimators and a final estimator", data.ErrInvalidInput)
	}
	folds, err := loader.KFoldSplit(n, s.CV)
	if err != nil {
		return fmt.Errorf("stacking: %w", err)
	}

	meta := make([][]float64, n)
	for i := range meta {
		meta[i] = make([]float64, len(s.Estimators))
	}
	for k, est := range s.Estimators {
		for _, fold := range folds {
			trainIdx := loader.Complement(n, fold)
			xTr, yTr := loader.Take(X, y, trainIdx)
			m := est.New()
			if err := m.Fit(xTr, yTr); err != nil {
				return fmt.Errorf("stacking: %s: %w", est.Name, err)
			}
			xTe, _ := loader.Take(X, y, fold)
			for j, v := range m.Predict(xTe) {
				meta[fold[j]][k] = v
			}
		}
	}

	s.bases = make([]Regressor, len(s.Estimators))
	for k, est := range s.Estimators {
		m := est.New()
		if err := m.Fit(X, y); err != nil {
			return fmt.Errorf("stacking: %s: %w", est.Name, err)
		}
		s.bases[k] = m
	}
	s.final = s.Final()
	if err := s.final.Fit(meta, y); err != nil {
		return fmt.Errorf("stacking: final: %w", err)
	}
	return nil
}

// Predict feeds the base predictions to the final estimator.
func (s *StackingRegressor) Predict(X [][]float64) []float64 {
	if s.final == nil {
		out := make([]float64, len(X))
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	meta := make([][]float64, len(X))
	for i := range meta {
		meta[i] = make([]float64, len(s.bases))
	}
	for k, m := range s.bases {
		for i, v := range m.Predict(X) {
			meta[i][k] = v
		}
	}
	return s.final.Predict(meta)
}
