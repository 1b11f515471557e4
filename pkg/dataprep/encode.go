package dataprep

import (
	"fmt"
	"slices"
	"sort"

	"github.com/rs/zerolog/log"

	"examscore/pkg/data"
)

// MissingLabel is the class a missing cell is encoded as by LabelEncoder.
const MissingLabel = "NaN"

// LabelEncoder maps each distinct label to its index in sorted order.
type LabelEncoder struct {
	Classes []string
	codes   map[string]int
}

// FitLabelEncoder learns the sorted class list of vals. Missing cells form
// their own class.
func FitLabelEncoder(vals []string) *LabelEncoder {
	seen := make(map[string]struct{})
	for _, v := range vals {
		if v == "" {
			v = MissingLabel
		}
		seen[v] = struct{}{}
	}
	e := &LabelEncoder{Classes: make([]string, 0, len(seen)), codes: make(map[string]int, len(seen))}
	for v := range seen {
		e.Classes = append(e.Classes, v)
	}
	sort.Strings(e.Classes)
	for i, v := range e.Classes {
		e.codes[v] = i
	}
	return e
}

// Code returns the integer code of a label.
func (e *LabelEncoder) Code(label string) (int, bool) {
	if label == "" {
		label = MissingLabel
	}
	c, ok := e.codes[label]
	return c, ok
}

// Transform encodes vals; unseen labels fail with ErrInvalidInput.
func (e *LabelEncoder) Transform(vals []string) ([]float64, error) {
	out := make([]float64, len(vals))
	for i, v := range vals {
		c, ok := e.Code(v)
		if !ok {
			return nil, fmt.Errorf("%w: unseen label %q", data.ErrInvalidInput, v)
		}
		out[i] = float64(c)
	}
	return out, nil
}

// OneHotEncoder expands one column into an indicator per observed label.
type OneHotEncoder struct {
	Column     string
	Categories []string
}

// FitOneHot learns the sorted distinct non-missing labels of vals.
func FitOneHot(column string, vals []string) *OneHotEncoder {
	seen := make(map[string]struct{})
	for _, v := range vals {
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	cats := make([]string, 0, len(seen))
	for v := range seen {
		cats = append(cats, v)
	}
	sort.Strings(cats)
	return &OneHotEncoder{Column: column, Categories: cats}
}

// FeatureNames returns the indicator column names.
func (e *OneHotEncoder) FeatureNames() []string {
	out := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		out[i] = e.Column + "_" + c
	}
	return out
}

// Transform builds one Boolean column per category. Missing cells produce
// an all-false row; unseen labels fail with ErrInvalidInput.
func (e *OneHotEncoder) Transform(vals []string) ([]*data.Column, error) {
	pos := make(map[string]int, len(e.Categories))
	for i, c := range e.Categories {
		pos[c] = i
	}
	ind := make([][]bool, len(e.Categories))
	for j := range ind {
		ind[j] = make([]bool, len(vals))
	}
	for i, v := range vals {
		if v == "" {
			continue
		}
		j, ok := pos[v]
		if !ok {
			return nil, fmt.Errorf("%w: unseen label %q", data.ErrInvalidInput, v)
		}
		ind[j][i] = true
	}
	names := e.FeatureNames()
	out := make([]*data.Column, len(ind))
	for j := range ind {
		out[j] = data.NewBoolean(names[j], ind[j])
	}
	return out, nil
}

// Encoder label-encodes the Ordinal columns and one-hot expands the
// Nominal columns. The two sets must be disjoint.
//
// By default every Apply refits, so each table variant is encoded against
// its own observed labels and the resulting column sets may differ. With
// Shared set, the first Apply fits and later calls reuse that fit.
type Encoder struct {
	Ordinal []string
	Nominal []string
	Shared  bool

	labels map[string]*LabelEncoder
	onehot []*OneHotEncoder
	fitted bool
}

// NewEncoder returns an unfitted encoder.
func NewEncoder(ordinal, nominal []string) *Encoder {
	return &Encoder{Ordinal: ordinal, Nominal: nominal}
}

func (e *Encoder) Name() string { return "encode" }

// Fit learns the label maps and indicator categories from t.
func (e *Encoder) Fit(t *data.Table) error {
	for _, n := range e.Ordinal {
		if slices.Contains(e.Nominal, n) {
			return data.NewColumnError("encode", n, fmt.Errorf("%w: column is both ordinal and nominal", data.ErrInvalidInput))
		}
	}
	labels := make(map[string]*LabelEncoder, len(e.Ordinal))
	for _, n := range e.Ordinal {
		col, err := t.ColumnOf(n, data.Categorical)
		if err != nil {
			return err
		}
		labels[n] = FitLabelEncoder(col.Cat)
	}
	onehot := make([]*OneHotEncoder, 0, len(e.Nominal))
	for _, n := range e.Nominal {
		col, err := t.ColumnOf(n, data.Categorical)
		if err != nil {
			return err
		}
		onehot = append(onehot, FitOneHot(n, col.Cat))
	}
	e.labels, e.onehot, e.fitted = labels, onehot, true
	return nil
}

// Transform encodes a copy of t with the fitted maps. Indicator columns
// replace their source column and are appended at the end, in Nominal
// order.
func (e *Encoder) Transform(t *data.Table) (*data.Table, error) {
	if !e.fitted {
		return nil, fmt.Errorf("encode: %w: encoder not fitted", data.ErrInvalidInput)
	}
	out := t.Clone(t.Name)
	for _, n := range e.Ordinal {
		col, err := out.ColumnOf(n, data.Categorical)
		if err != nil {
			return nil, err
		}
		codes, err := e.labels[n].Transform(col.Cat)
		if err != nil {
			return nil, data.NewColumnError("encode", n, err)
		}
		if err := out.Replace(n, data.NewNumeric(n, codes)); err != nil {
			return nil, err
		}
	}
	for _, oh := range e.onehot {
		col, err := out.ColumnOf(oh.Column, data.Categorical)
		if err != nil {
			return nil, err
		}
		cols, err := oh.Transform(col.Cat)
		if err != nil {
			return nil, data.NewColumnError("encode", oh.Column, err)
		}
		if err := out.Drop(oh.Column); err != nil {
			return nil, err
		}
		for _, c := range cols {
			if err := out.Append(c); err != nil {
				return nil, err
			}
		}
	}
	log.Debug().
		Str("table", t.Name).
		Int("ordinal", len(e.Ordinal)).
		Int("nominal", len(e.Nominal)).
		Int("width", out.Width()).
		Msg("encoded categorical columns")
	return out, nil
}

// Apply fits (unless Shared and already fitted) and transforms.
func (e *Encoder) Apply(t *data.Table) (*data.Table, error) {
	if !e.fitted || !e.Shared {
		if err := e.Fit(t); err != nil {
			return nil, err
		}
	}
	return e.Transform(t)
}

// Classes returns the label classes learnt for an ordinal column.
func (e *Encoder) Classes(col string) []string {
	if le, ok := e.labels[col]; ok {
		return le.Classes
	}
	return nil
}

// ColumnDiff returns the column names present only in a and only in b.
func ColumnDiff(a, b *data.Table) (onlyA, onlyB []string) {
	for _, n := range a.Names() {
		if !b.Has(n) {
			onlyA = append(onlyA, n)
		}
	}
	for _, n := range b.Names() {
		if !a.Has(n) {
			onlyB = append(onlyB, n)
		}
	}
	return onlyA, onlyB
}
