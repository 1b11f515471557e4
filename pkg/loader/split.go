package loader

import (
	"fmt"
	"math"
	"math/rand"

	"examscore/pkg/data"
)

// Split holds a train/test partition of row indices and the rows they select.
type Split struct {
	TrainIdx, TestIdx []int
	XTrain, XTest     [][]float64
	YTrain, YTest     []float64
}

// TestSize returns the number of test rows for n rows at ratio: the ratio
// is rounded up so the test partition is never empty for ratio > 0.
func TestSize(n int, ratio float64) int {
	return int(math.Ceil(float64(n) * ratio))
}

// TrainTestSplit shuffles row indices with a seeded permutation and takes
// the first TestSize rows as the test partition.
func TrainTestSplit(X [][]float64, Y []float64, testRatio float64, seed int64) (*Split, error) {
	n := len(X)
	if len(Y) != n {
		return nil, fmt.Errorf("split: %w: %d rows but %d targets", data.ErrInvalidInput, n, len(Y))
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, fmt.Errorf("split: %w: test ratio %v outside (0, 1)", data.ErrInvalidInput, testRatio)
	}
	nTest := TestSize(n, testRatio)
	if nTest < 1 || n-nTest < 2 {
		return nil, fmt.Errorf("split: %w: %d rows cannot be split at ratio %v", data.ErrInvalidInput, n, testRatio)
	}
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	s := &Split{
		TestIdx:  indices[:nTest],
		TrainIdx: indices[nTest:],
	}
	s.XTest, s.YTest = Take(X, Y, s.TestIdx)
	s.XTrain, s.YTrain = Take(X, Y, s.TrainIdx)
	return s, nil
}

// Take selects rows of X and Y by index. Rows are shared, not copied.
func Take(X [][]float64, Y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = Y[j]
	}
	return xs, ys
}

// KFoldSplit partitions 0..n-1 into k contiguous folds without shuffling.
// The first n%k folds hold one extra row.
func KFoldSplit(n, k int) ([][]int, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("kfold: %w: cannot make %d folds from %d rows", data.ErrInvalidInput, k, n)
	}
	folds := make([][]int, k)
	start := 0
	for f := range k {
		size := n / k
		if f < n%k {
			size++
		}
		fold := make([]int, size)
		for i := range size {
			fold[i] = start + i
		}
		folds[f] = fold
		start += size
	}
	return folds, nil
}

// Complement returns the indices of 0..n-1 not in fold.
func Complement(n int, fold []int) []int {
	in := make([]bool, n)
	for _, i := range fold {
		in[i] = true
	}
	out := make([]int, 0, n-len(fold))
	for i := range n {
		if !in[i] {
			out = append(out, i)
		}
	}
	return out
}
