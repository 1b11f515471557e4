package dataprep

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"examscore/pkg/data"
)

// ModeString returns the most frequent non-empty value. Ties go to the
// value encountered first. ok is false when no value is present.
func ModeString(vals []string) (mode string, ok bool) {
	counts := make(map[string]int)
	var order []string
	for _, v := range vals {
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	best := 0
	for _, v := range order {
		if counts[v] > best {
			best = counts[v]
			mode = v
		}
	}
	return mode, best > 0
}

// ImputeMode replaces missing entries of a categorical column with the
// column mode, returning the filled copy and the fill value.
func ImputeMode(col *data.Column) (*data.Column, string, error) {
	if col.Kind != data.Categorical {
		if col.Kind == data.Numeric && len(col.Present()) == 0 {
			return nil, "", data.NewColumnError("impute", col.Name, data.ErrEmptyColumn)
		}
		return nil, "", data.NewColumnError("impute", col.Name, fmt.Errorf("%w: column is %s", data.ErrSchemaMismatch, col.Kind))
	}
	mode, ok := ModeString(col.Cat)
	if !ok {
		return nil, "", data.NewColumnError("impute", col.Name, data.ErrEmptyColumn)
	}
	out := col.Clone()
	for i, v := range out.Cat {
		if v == "" {
			out.Cat[i] = mode
		}
	}
	return out, mode, nil
}

// ModeImputer fills missing categorical values with the per-column mode.
// An all-missing column loads as numeric NaN and is reported as empty.
type ModeImputer struct {
	Columns []string

	// Fills records the value used per column by the last Apply.
	Fills map[string]string
}

// NewModeImputer returns an imputer for the named columns.
func NewModeImputer(cols ...string) *ModeImputer {
	return &ModeImputer{Columns: cols}
}

func (m *ModeImputer) Name() string { return "impute-mode" }

// Apply returns a copy of t with the configured columns filled.
func (m *ModeImputer) Apply(t *data.Table) (*data.Table, error) {
	out := t.Clone(t.Name)
	m.Fills = make(map[string]string, len(m.Columns))
	for _, name := range m.Columns {
		col, err := out.Column(name)
		if err != nil {
			return nil, err
		}
		missing := col.MissingCount()
		filled, mode, err := ImputeMode(col)
		if err != nil {
			return nil, err
		}
		if err := out.Replace(name, filled); err != nil {
			return nil, err
		}
		m.Fills[name] = mode
		log.Debug().
			Str("table", t.Name).
			Str("column", name).
			Str("mode", mode).
			Int("filled", missing).
			Msg("imputed missing values")
	}
	return out, nil
}
