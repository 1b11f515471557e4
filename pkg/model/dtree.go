package model

import (
	"math"
	"math/rand"
	"sort"
)

// ---------------------------
// Types & options
// ---------------------------

// DecisionTreeRegressor is a CART-style regression tree using the squared
// error criterion. Leaves predict the mean target of their samples.
type DecisionTreeRegressor struct {
	// Hyperparameters / options
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	MaxFeatures         int     // 0 => use all features, >0 => number of features to sample when looking for split
	MinImpurityDecrease float64 // minimal weighted impurity decrease to accept a split
	RandomState         int64   // seed for the per-node feature order

	// internals
	root    *dtNode
	nFeat   int
	nLeaves int
	depth   int
}

// dtNode holds a node in the tree.
type dtNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold => left
	left      *dtNode
	right     *dtNode

	n     int
	value float64 // mean target of the node's samples
}

// Option functional config
type Option func(*DecisionTreeRegressor)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeRegressor) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesLeaf = n }
}
func WithMaxFeatures(k int) Option { return func(t *DecisionTreeRegressor) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeRegressor) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeRegressor) { t.RandomState = seed }
}

// NewDecisionTreeRegressor returns a fully grown tree by default.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	d := &DecisionTreeRegressor{
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		RandomState:     42,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ---------------------------
// Public API
// ---------------------------

// Fit grows the tree on X (n x p) and y.
func (t *DecisionTreeRegressor) Fit(X [][]float64, y []float64) error {
	n, _, err := checkXY("dtree", X, y)
	if err != nil {
		return err
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	t.fitIndices(X, y, idx)
	return nil
}

// fitIndices grows the tree on the rows selected by idx; an index may
// repeat, which is how the forest passes bootstrap samples.
func (t *DecisionTreeRegressor) fitIndices(X [][]float64, y []float64, idx []int) {
	p := len(X[0])
	t.nFeat = p
	t.nLeaves, t.depth = 0, 0

	// Presort once; children inherit the order by stable partitioning.
	sorted := make([][]int, p)
	for f := range p {
		s := append([]int(nil), idx...)
		sort.SliceStable(s, func(a, b int) bool { return X[s[a]][f] < X[s[b]][f] })
		sorted[f] = s
	}
	b := &treeBuilder{
		t:      t,
		X:      X,
		y:      y,
		rnd:    rand.New(rand.NewSource(t.RandomState)),
		goLeft: make([]bool, len(X)),
		total:  float64(len(idx)),
	}
	t.root = b.build(sorted, 0)
}

// Predict returns the leaf mean reached by every row.
func (t *DecisionTreeRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = t.predictSingle(x)
	}
	return out
}

// Depth returns the depth of the fitted tree.
func (t *DecisionTreeRegressor) Depth() int { return t.depth }

// Leaves returns the number of leaves of the fitted tree.
func (t *DecisionTreeRegressor) Leaves() int { return t.nLeaves }

func (t *DecisionTreeRegressor) predictSingle(x []float64) float64 {
	node := t.root
	if node == nil {
		return math.NaN()
	}
	for !node.isLeaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// ---------------------------
// Growing
// ---------------------------

type treeBuilder struct {
	t      *DecisionTreeRegressor
	X      [][]float64
	y      []float64
	rnd    *rand.Rand
	goLeft []bool
	total  float64
}

type splitResult struct {
	feature   int
	threshold float64
	pos       int     // number of samples going left in the feature's sorted order
	proxy     float64 // sumL²/nL + sumR²/nR, larger is better
}

func (b *treeBuilder) build(sorted [][]int, depth int) *dtNode {
	t := b.t
	idx := sorted[0]
	n := len(idx)
	node := &dtNode{n: n}

	var sum, sumSq float64
	for _, i := range idx {
		v := b.y[i]
		sum += v
		sumSq += v * v
	}
	node.value = sum / float64(n)
	impurity := sumSq/float64(n) - node.value*node.value

	if depth > t.depth {
		t.depth = depth
	}
	if n < t.MinSamplesSplit || n < 2*t.MinSamplesLeaf ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) || impurity <= 1e-12 {
		return b.leaf(node)
	}

	// determine features to try, in a seeded order
	p := len(sorted)
	featIndices := make([]int, p)
	for j := range p {
		featIndices[j] = j
	}
	for i := 0; i < p; i++ {
		j := i + b.rnd.Intn(p-i)
		featIndices[i], featIndices[j] = featIndices[j], featIndices[i]
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		featIndices = featIndices[:t.MaxFeatures]
	}

	best := splitResult{feature: -1, proxy: math.Inf(-1)}
	for _, f := range featIndices {
		if r := b.bestSplitForFeature(sorted[f], f, sum); r.feature >= 0 && r.proxy > best.proxy {
			best = r
		}
	}
	if best.feature < 0 {
		return b.leaf(node)
	}
	// weighted impurity decrease: (n/N) * (parent - weighted children)
	decrease := (best.proxy/float64(n) - node.value*node.value) * float64(n) / b.total
	if decrease < t.MinImpurityDecrease {
		return b.leaf(node)
	}

	for k, i := range sorted[best.feature] {
		b.goLeft[i] = k < best.pos
	}
	left := make([][]int, p)
	right := make([][]int, p)
	for f := range p {
		l := make([]int, 0, best.pos)
		r := make([]int, 0, n-best.pos)
		for _, i := range sorted[f] {
			if b.goLeft[i] {
				l = append(l, i)
			} else {
				r = append(r, i)
			}
		}
		left[f], right[f] = l, r
	}

	node.feature = best.feature
	node.threshold = best.threshold
	node.left = b.build(left, depth+1)
	node.right = b.build(right, depth+1)
	return node
}

func (b *treeBuilder) leaf(node *dtNode) *dtNode {
	node.isLeaf = true
	b.t.nLeaves++
	return node
}

// bestSplitForFeature scans split positions between distinct values of
// feature f using running sums over the presorted order.
func (b *treeBuilder) bestSplitForFeature(order []int, f int, sum float64) splitResult {
	minLeaf := max(b.t.MinSamplesLeaf, 1)
	n := len(order)
	result := splitResult{feature: -1, proxy: math.Inf(-1)}
	var sumL float64
	for s := 1; s < n; s++ {
		sumL += b.y[order[s-1]]
		if s < minLeaf || n-s < minLeaf {
			continue
		}
		lo, hi := b.X[order[s-1]][f], b.X[order[s]][f]
		if lo == hi {
			continue
		}
		sumR := sum - sumL
		proxy := sumL*sumL/float64(s) + sumR*sumR/float64(n-s)
		if proxy > result.proxy {
			thr := lo/2 + hi/2
			if thr == hi {
				thr = lo
			}
			result = splitResult{feature: f, threshold: thr, pos: s, proxy: proxy}
		}
	}
	return result
}
