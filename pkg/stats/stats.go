package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean computes the average of a slice. Empty input yields NaN.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// Std computes the population standard deviation (divisor n).
func Std(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return 0
	}
	return math.Sqrt(stat.Variance(x, nil) * float64(n-1) / float64(n))
}

// SampleStd computes the sample standard deviation (divisor n-1).
func SampleStd(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	min, max := x[0], x[0]
	for _, v := range x[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Median returns the median value of the slice (allocates a copy).
func Median(x []float64) float64 {
	return Percentile(x, 50)
}

// Percentile returns the p-th percentile (0 <= p <= 100) using linear
// interpolation between closest ranks.
func Percentile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	return percentileSorted(cp, p)
}

func percentileSorted(cp []float64, p float64) float64 {
	n := len(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 100 {
		return cp[n-1]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return cp[lower]
	}
	return cp[lower]*(1-weight) + cp[upper]*weight
}

// Quartiles returns Q1, the median and Q3 with a single sort.
func Quartiles(x []float64) (q1, q2, q3 float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	cp := make([]float64, len(x))
	copy(cp, x)
	sort.Float64s(cp)
	return percentileSorted(cp, 25), percentileSorted(cp, 50), percentileSorted(cp, 75)
}

// Correlation computes the Pearson correlation coefficient. Constant input
// yields NaN, matching the usual dataframe behavior.
func Correlation(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
