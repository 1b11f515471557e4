package model

import (
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RandomForestRegressor averages bootstrapped regression trees.
type RandomForestRegressor struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int // 0 => every feature at every split
	Bootstrap       bool
	RandomState     int64

	// Internal state
	Trees []*DecisionTreeRegressor
}

// RandomForestOption functional config for RandomForestRegressor
type RandomForestOption func(*RandomForestRegressor)

func WithNEstimators(n int) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.NEstimators = n }
}
func WithBootstrap(b bool) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.Bootstrap = b }
}
func WithForestSeed(seed int64) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.RandomState = seed }
}
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.MaxFeatures = k }
}

// NewRandomForestRegressor initializes the forest with 100 trees and seed 42.
func NewRandomForestRegressor(opts ...RandomForestOption) *RandomForestRegressor {
	rf := &RandomForestRegressor{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MaxFeatures:     0,
		Bootstrap:       true,
		RandomState:     42,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains the forest. Trees are grown concurrently; tree i draws its
// bootstrap sample and feature order from RandomState+i, so the result does
// not depend on scheduling.
func (rf *RandomForestRegressor) Fit(X [][]float64, y []float64) error {
	n, _, err := checkXY("randomforest", X, y)
	if err != nil {
		return err
	}

	rf.Trees = make([]*DecisionTreeRegressor, rf.NEstimators)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < rf.NEstimators; i++ {
		g.Go(func() error {
			seed := rf.RandomState + int64(i)
			treeRand := rand.New(rand.NewSource(seed))

			// index-based bootstrap: rows repeat instead of being copied
			sampleIndices := make([]int, n)
			for j := 0; j < n; j++ {
				if rf.Bootstrap {
					sampleIndices[j] = treeRand.Intn(n)
				} else {
					sampleIndices[j] = j
				}
			}

			tree := NewDecisionTreeRegressor(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMaxFeatures(rf.MaxFeatures),
				WithRandomState(seed),
			)
			tree.fitIndices(X, y, sampleIndices)
			rf.Trees[i] = tree
			return nil
		})
	}
	return g.Wait()
}

// Predict returns the mean of the trees' predictions.
func (rf *RandomForestRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(rf.Trees) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	for _, tree := range rf.Trees {
		for i, v := range tree.Predict(X) {
			out[i] += v
		}
	}
	for i := range out {
		out[i] /= float64(len(rf.Trees))
	}
	return out
}
