package dataprep

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"examscore/pkg/data"
	"examscore/pkg/stats"
)

// FenceSet holds the IQR fences per numeric column, in column order.
type FenceSet struct {
	Columns []string
	Fences  map[string]stats.Fence
}

// Get returns the fence for a column.
func (fs FenceSet) Get(col string) (stats.Fence, bool) {
	f, ok := fs.Fences[col]
	return f, ok
}

// ComputeFences derives IQR fences for the named numeric columns. A nil
// cols selects every numeric column. Empty or all-missing columns fail
// with ErrInvalidInput.
func ComputeFences(t *data.Table, cols []string) (FenceSet, error) {
	if cols == nil {
		cols = t.NamesOf(data.Numeric)
	}
	fs := FenceSet{Columns: cols, Fences: make(map[string]stats.Fence, len(cols))}
	for _, name := range cols {
		col, err := t.ColumnOf(name, data.Numeric)
		if err != nil {
			return FenceSet{}, err
		}
		f, ok := stats.IQRFence(col.Present())
		if !ok {
			return FenceSet{}, data.NewColumnError("fence", name, fmt.Errorf("%w: no values to compute quartiles", data.ErrInvalidInput))
		}
		fs.Fences[name] = f
	}
	return fs, nil
}

// ApplyFences returns a copy of t with each fenced column clipped.
// Missing cells stay missing.
func ApplyFences(t *data.Table, fs FenceSet, name string) (*data.Table, error) {
	out := t.Clone(name)
	for _, c := range fs.Columns {
		col, err := out.ColumnOf(c, data.Numeric)
		if err != nil {
			return nil, err
		}
		f, ok := fs.Get(c)
		if !ok {
			return nil, data.NewColumnError("clip", c, fmt.Errorf("%w: no fence for column", data.ErrInvalidInput))
		}
		clipped := 0
		for i, v := range col.Num {
			if cv := f.Clip(v); cv != v && !math.IsNaN(v) {
				col.Num[i] = cv
				clipped++
			}
		}
		log.Debug().
			Str("table", name).
			Str("column", c).
			Float64("lower", f.Lower).
			Float64("upper", f.Upper).
			Int("clipped", clipped).
			Msg("clipped outliers")
	}
	return out, nil
}

// ClipOutliers computes IQR fences over t and clips to them, leaving t
// untouched.
func ClipOutliers(t *data.Table, cols []string, name string) (*data.Table, FenceSet, error) {
	fs, err := ComputeFences(t, cols)
	if err != nil {
		return nil, FenceSet{}, err
	}
	out, err := ApplyFences(t, fs, name)
	if err != nil {
		return nil, FenceSet{}, err
	}
	return out, fs, nil
}

// Clipper is the pipeline stage form of ClipOutliers.
type Clipper struct {
	// Columns to clip; nil means every numeric column.
	Columns []string
	// Output names the clipped table; empty keeps the input name.
	Output string

	// Fences records the fences used by the last Apply.
	Fences FenceSet
}

func (c *Clipper) Name() string { return "clip-iqr" }

func (c *Clipper) Apply(t *data.Table) (*data.Table, error) {
	name := c.Output
	if name == "" {
		name = t.Name
	}
	out, fs, err := ClipOutliers(t, c.Columns, name)
	if err != nil {
		return nil, err
	}
	c.Fences = fs
	return out, nil
}
