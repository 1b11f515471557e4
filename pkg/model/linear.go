package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"examscore/pkg/data"
)

// linearModel holds the fitted coefficients shared by the linear family.
type linearModel struct {
	W      []float64 // weights
	B      float64   // intercept
	fitted bool
}

// Predict returns X·W + B for every row. Unfitted models predict NaN.
func (m *linearModel) Predict(X [][]float64) []float64 {
	pred := make([]float64, len(X))
	for i, row := range X {
		if !m.fitted {
			pred[i] = math.NaN()
			continue
		}
		sum := m.B
		for j, v := range row {
			sum += m.W[j] * v
		}
		pred[i] = sum
	}
	return pred
}

// Coefficients returns the fitted weights and intercept.
func (m *linearModel) Coefficients() ([]float64, float64) { return m.W, m.B }

// centered is the column-centered design used by every linear solver: the
// intercept is recovered as yMean - xMean·W.
type centered struct {
	X     *mat.Dense
	Y     *mat.VecDense
	XMean []float64
	YMean float64
}

func center(X [][]float64, y []float64) centered {
	n, p := len(X), len(X[0])
	c := centered{XMean: make([]float64, p)}
	for _, row := range X {
		for j, v := range row {
			c.XMean[j] += v
		}
	}
	for j := range c.XMean {
		c.XMean[j] /= float64(n)
	}
	for _, v := range y {
		c.YMean += v
	}
	c.YMean /= float64(n)

	c.X = mat.NewDense(n, p, nil)
	yc := make([]float64, n)
	for i, row := range X {
		for j, v := range row {
			c.X.Set(i, j, v-c.XMean[j])
		}
		yc[i] = y[i] - c.YMean
	}
	c.Y = mat.NewVecDense(n, yc)
	return c
}

func (c centered) finish(w *mat.VecDense) linearModel {
	p := len(c.XMean)
	m := linearModel{W: make([]float64, p), B: c.YMean, fitted: true}
	for j := range p {
		m.W[j] = w.AtVec(j)
		m.B -= c.XMean[j] * m.W[j]
	}
	return m
}

// LinearRegression is ordinary least squares with an intercept. Rank
// deficient designs (e.g. a full set of one-hot indicators) get the
// minimum-norm solution.
type LinearRegression struct {
	linearModel
}

// NewLinearRegression returns an unfitted OLS model.
func NewLinearRegression() *LinearRegression { return &LinearRegression{} }

// Fit solves the least squares problem through a thin SVD.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	n, p, err := checkXY("linear", X, y)
	if err != nil {
		return err
	}
	c := center(X, y)
	var svd mat.SVD
	if ok := svd.Factorize(c.X, mat.SVDThin); !ok {
		return fmt.Errorf("linear: %w: SVD did not converge", data.ErrInvalidInput)
	}
	rcond := float64(max(n, p)) * 2.220446049250313e-16
	rank := svd.Rank(rcond)
	w := mat.NewVecDense(p, nil)
	if rank > 0 {
		svd.SolveVecTo(w, c.Y, rank)
	}
	m.linearModel = c.finish(w)
	return nil
}

// Ridge is L2-regularized least squares; the intercept is not penalized.
type Ridge struct {
	Alpha float64
	linearModel
}

// NewRidge returns an unfitted ridge model.
func NewRidge(alpha float64) *Ridge { return &Ridge{Alpha: alpha} }

// Fit solves (XᵀX + αI)w = Xᵀy on centered data with a Cholesky factorization.
func (m *Ridge) Fit(X [][]float64, y []float64) error {
	_, p, err := checkXY("ridge", X, y)
	if err != nil {
		return err
	}
	if m.Alpha <= 0 {
		return fmt.Errorf("ridge: %w: alpha must be positive", data.ErrInvalidInput)
	}
	c := center(X, y)
	gram := mat.NewSymDense(p, nil)
	gram.SymOuterK(1, c.X.T())
	for j := range p {
		gram.SetSym(j, j, gram.At(j, j)+m.Alpha)
	}
	var rhs mat.VecDense
	rhs.MulVec(c.X.T(), c.Y)

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return fmt.Errorf("ridge: %w: normal equations not positive definite", data.ErrInvalidInput)
	}
	w := mat.NewVecDense(p, nil)
	if err := chol.SolveVecTo(w, &rhs); err != nil {
		return fmt.Errorf("ridge: solve: %w", err)
	}
	m.linearModel = c.finish(w)
	return nil
}
