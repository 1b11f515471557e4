package stats

import "fmt"

// IQRMultiplier is the Tukey factor used for outlier fences.
const IQRMultiplier = 1.5

// Fence is the lower/upper clipping bound pair for one column.
type Fence struct {
	Q1, Q3       float64
	Lower, Upper float64
}

// IQR returns Q3 - Q1.
func (f Fence) IQR() float64 { return f.Q3 - f.Q1 }

// Clip bounds v to [Lower, Upper].
func (f Fence) Clip(v float64) float64 {
	if v < f.Lower {
		return f.Lower
	}
	if v > f.Upper {
		return f.Upper
	}
	return v
}

// Contains reports whether v lies within the fence.
func (f Fence) Contains(v float64) bool { return v >= f.Lower && v <= f.Upper }

func (f Fence) String() string {
	return fmt.Sprintf("[%.4g, %.4g]", f.Lower, f.Upper)
}

// IQRFence derives the fence from Q1 - 1.5*IQR and Q3 + 1.5*IQR. The
// second return is false for empty input.
func IQRFence(x []float64) (Fence, bool) {
	if len(x) == 0 {
		return Fence{}, false
	}
	q1, _, q3 := Quartiles(x)
	iqr := q3 - q1
	return Fence{
		Q1:    q1,
		Q3:    q3,
		Lower: q1 - IQRMultiplier*iqr,
		Upper: q3 + IQRMultiplier*iqr,
	}, true
}

// ClipSlice returns a copy of x with every value bounded by f.
func ClipSlice(x []float64, f Fence) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = f.Clip(v)
	}
	return out
}
