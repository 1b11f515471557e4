package model

import (
	"fmt"
	"math"

	"examscore/pkg/data"
)

// Lasso is L1-regularized least squares minimizing
//
//	(1 / 2n) · ‖y − Xw − b‖² + α · ‖w‖₁
//
// by cyclic coordinate descent on centered data. Convergence is checked
// with the duality gap once the largest coordinate update falls below Tol.
type Lasso struct {
	Alpha   float64
	MaxIter int
	Tol     float64

	// Iterations is the number of full passes the last Fit needed.
	Iterations int
	linearModel
}

// NewLasso returns an unfitted lasso model with 1000 passes and tol 1e-4.
func NewLasso(alpha float64) *Lasso {
	return &Lasso{Alpha: alpha, MaxIter: 1000, Tol: 1e-4}
}

func (m *Lasso) Fit(X [][]float64, y []float64) error {
	n, p, err := checkXY("lasso", X, y)
	if err != nil {
		return err
	}
	if m.Alpha < 0 {
		return fmt.Errorf("lasso: %w: alpha must be non-negative", data.ErrInvalidInput)
	}
	c := center(X, y)

	// column-major copies for the inner loop
	cols := make([][]float64, p)
	norms := make([]float64, p)
	for j := range p {
		col := make([]float64, n)
		for i := range n {
			col[i] = c.X.At(i, j)
			norms[j] += col[i] * col[i]
		}
		cols[j] = col
	}
	yc := make([]float64, n)
	r := make([]float64, n)
	for i := range n {
		yc[i] = c.Y.AtVec(i)
		r[i] = yc[i]
	}
	yy := dot(yc, yc)

	alphaN := m.Alpha * float64(n)
	tol := m.Tol * yy
	w := make([]float64, p)

	m.Iterations = 0
	for it := 0; it < m.MaxIter; it++ {
		m.Iterations = it + 1
		var wMax, dwMax float64
		for j := range p {
			if norms[j] == 0 {
				continue
			}
			old := w[j]
			col := cols[j]
			if old != 0 {
				for i, v := range col {
					r[i] += v * old
				}
			}
			w[j] = softThreshold(dot(col, r), alphaN) / norms[j]
			if w[j] != 0 {
				for i, v := range col {
					r[i] -= v * w[j]
				}
			}
			dwMax = math.Max(dwMax, math.Abs(w[j]-old))
			wMax = math.Max(wMax, math.Abs(w[j]))
		}
		if wMax == 0 || dwMax/wMax < m.Tol || it == m.MaxIter-1 {
			if dualityGap(cols, r, yc, w, alphaN) < tol {
				break
			}
		}
	}

	wv := make([]float64, p)
	copy(wv, w)
	m.W, m.B, m.fitted = wv, c.YMean, true
	for j := range p {
		m.B -= c.XMean[j] * wv[j]
	}
	return nil
}

func softThreshold(z, gamma float64) float64 {
	switch {
	case z > gamma:
		return z - gamma
	case z < -gamma:
		return z + gamma
	default:
		return 0
	}
}

func dualityGap(cols [][]float64, r, y, w []float64, alphaN float64) float64 {
	var dualNorm float64
	for _, col := range cols {
		dualNorm = math.Max(dualNorm, math.Abs(dot(col, r)))
	}
	rNorm2 := dot(r, r)
	var l1 float64
	for _, v := range w {
		l1 += math.Abs(v)
	}
	scale := 1.0
	gap := rNorm2
	if dualNorm > alphaN {
		scale = alphaN / dualNorm
		gap = 0.5 * (rNorm2 + rNorm2*scale*scale)
	}
	return gap + alphaN*l1 - scale*dot(r, y)
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
