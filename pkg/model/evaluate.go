package model

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"examscore/pkg/loader"
)

// Roster model names.
const (
	NameLinear   = "Linear Regression"
	NameRidge    = "Ridge Regression"
	NameLasso    = "Lasso Regression"
	NameTree     = "Decision Tree"
	NameForest   = "Random Forest"
	NameStacking = "Stacking Regressor"
)

// RosterParams fixes the hyperparameters of the evaluated roster.
type RosterParams struct {
	RidgeAlpha float64
	LassoAlpha float64
	Trees      int
	Seed       int64
	StackFolds int
}

// DefaultRosterParams returns ridge α=1, lasso α=0.1, 100 trees, seed 42, 5 folds.
func DefaultRosterParams() RosterParams {
	return RosterParams{RidgeAlpha: 1.0, LassoAlpha: 0.1, Trees: 100, Seed: 42, StackFolds: 5}
}

// Roster returns the fixed list of models, in report order.
func Roster(p RosterParams) []NamedFactory {
	linear := func() Regressor { return NewLinearRegression() }
	forest := func() Regressor {
		return NewRandomForestRegressor(WithNEstimators(p.Trees), WithForestSeed(p.Seed))
	}
	return []NamedFactory{
		{Name: NameLinear, New: linear},
		{Name: NameRidge, New: func() Regressor { return NewRidge(p.RidgeAlpha) }},
		{Name: NameLasso, New: func() Regressor { return NewLasso(p.LassoAlpha) }},
		{Name: NameTree, New: func() Regressor { return NewDecisionTreeRegressor(WithRandomState(p.Seed)) }},
		{Name: NameForest, New: forest},
		{Name: NameStacking, New: func() Regressor {
			s := NewStackingRegressor(linear,
				NamedFactory{Name: "linear", New: linear},
				NamedFactory{Name: "random_forest", New: forest},
			)
			s.CV = p.StackFolds
			return s
		}},
	}
}

// Result is the held-out score of one model.
type Result struct {
	Model string
	Metrics
	Took time.Duration
}

// Evaluate fits every roster entry on the training partition, scores it on
// the test partition and returns the results by descending R².
func Evaluate(ctx context.Context, split *loader.Split, roster []NamedFactory) ([]Result, error) {
	results := make([]Result, 0, len(roster))
	for _, entry := range roster {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		m := entry.New()
		if err := m.Fit(split.XTrain, split.YTrain); err != nil {
			return nil, fmt.Errorf("fit %s: %w", entry.Name, err)
		}
		res := Result{Model: entry.Name, Metrics: Score(split.YTest, m.Predict(split.XTest)), Took: time.Since(start)}
		log.Debug().
			Str("model", entry.Name).
			Float64("r2", res.R2).
			Dur("took", res.Took).
			Msg("model evaluated")
		results = append(results, res)
	}
	SortByR2(results)
	return results, nil
}

// SortByR2 orders results by descending R², keeping roster order on ties.
func SortByR2(results []Result) {
	sort.SliceStable(results, func(i, j int) bool { return results[i].R2 > results[j].R2 })
}
