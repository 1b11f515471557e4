package data

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the storage kind of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Boolean
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Boolean:
		return "bool"
	default:
		return "unknown"
	}
}

// Column holds one named column. Numeric and Boolean columns use Num
// (NaN marks a missing cell, Boolean cells are 0 or 1); Categorical
// columns use Cat (the empty string marks a missing cell).
type Column struct {
	Name string
	Kind Kind
	Num  []float64
	Cat  []string
}

// NewNumeric builds a numeric column.
func NewNumeric(name string, vals []float64) *Column {
	return &Column{Name: name, Kind: Numeric, Num: vals}
}

// NewCategorical builds a categorical column.
func NewCategorical(name string, vals []string) *Column {
	return &Column{Name: name, Kind: Categorical, Cat: vals}
}

// NewBoolean builds an indicator column.
func NewBoolean(name string, vals []bool) *Column {
	num := make([]float64, len(vals))
	for i, v := range vals {
		if v {
			num[i] = 1
		}
	}
	return &Column{Name: name, Kind: Boolean, Num: num}
}

// Len returns the number of cells.
func (c *Column) Len() int {
	if c.Kind == Categorical {
		return len(c.Cat)
	}
	return len(c.Num)
}

// IsMissing reports whether cell i is missing.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == Categorical {
		return c.Cat[i] == ""
	}
	return math.IsNaN(c.Num[i])
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Present returns the non-missing numeric values (copy).
func (c *Column) Present() []float64 {
	out := make([]float64, 0, len(c.Num))
	for _, v := range c.Num {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// String formats cell i for display.
func (c *Column) String(i int) string {
	switch c.Kind {
	case Categorical:
		if c.Cat[i] == "" {
			return "NaN"
		}
		return c.Cat[i]
	case Boolean:
		if c.Num[i] != 0 {
			return "true"
		}
		return "false"
	default:
		return strconv.FormatFloat(c.Num[i], 'g', -1, 64)
	}
}

// Clone deep-copies the column.
func (c *Column) Clone() *Column {
	n := &Column{Name: c.Name, Kind: c.Kind}
	if c.Num != nil {
		n.Num = append([]float64(nil), c.Num...)
	}
	if c.Cat != nil {
		n.Cat = append([]string(nil), c.Cat...)
	}
	return n
}

// Table is an ordered set of equally long named columns.
type Table struct {
	Name  string
	rows  int
	cols  []*Column
	index map[string]int
}

// NewTable assembles a table; all columns must have the same length and
// distinct names.
func NewTable(name string, cols ...*Column) (*Table, error) {
	t := &Table{Name: name, index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.Append(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Width returns the column count.
func (t *Table) Width() int { return len(t.cols) }

// Columns returns the columns in order. The slice must not be modified.
func (t *Table) Columns() []*Column { return t.cols }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// NamesOf returns, in order, the names of columns of the given kinds.
func (t *Table) NamesOf(kinds ...Kind) []string {
	var out []string
	for _, c := range t.cols {
		for _, k := range kinds {
			if c.Kind == k {
				out = append(out, c.Name)
				break
			}
		}
	}
	return out
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, columnErr("lookup", name, ErrSchemaMismatch)
	}
	return t.cols[i], nil
}

// ColumnOf looks a column up and checks its kind.
func (t *Table) ColumnOf(name string, kinds ...Kind) (*Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	for _, k := range kinds {
		if c.Kind == k {
			return c, nil
		}
	}
	return nil, columnErr("lookup", name, fmt.Errorf("%w: column is %s", ErrSchemaMismatch, c.Kind))
}

// Append adds a column at the end.
func (t *Table) Append(c *Column) error {
	if _, dup := t.index[c.Name]; dup {
		return columnErr("append", c.Name, fmt.Errorf("%w: duplicate column", ErrSchemaMismatch))
	}
	if len(t.cols) > 0 && c.Len() != t.rows {
		return columnErr("append", c.Name, fmt.Errorf("%w: %d rows, table has %d", ErrSchemaMismatch, c.Len(), t.rows))
	}
	if len(t.cols) == 0 {
		t.rows = c.Len()
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Replace swaps the named column for c, keeping its position.
func (t *Table) Replace(name string, c *Column) error {
	i, ok := t.index[name]
	if !ok {
		return columnErr("replace", name, ErrSchemaMismatch)
	}
	if c.Len() != t.rows {
		return columnErr("replace", name, fmt.Errorf("%w: %d rows, table has %d", ErrSchemaMismatch, c.Len(), t.rows))
	}
	delete(t.index, name)
	t.cols[i] = c
	t.index[c.Name] = i
	return nil
}

// Drop removes the named columns.
func (t *Table) Drop(names ...string) error {
	for _, n := range names {
		if !t.Has(n) {
			return columnErr("drop", n, ErrSchemaMismatch)
		}
	}
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := t.cols[:0]
	for _, c := range t.cols {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	t.cols = kept
	t.reindex()
	return nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		t.index[c.Name] = i
	}
}

// Clone deep-copies the table under a new name.
func (t *Table) Clone(name string) *Table {
	n := &Table{Name: name, rows: t.rows, cols: make([]*Column, len(t.cols))}
	for i, c := range t.cols {
		n.cols[i] = c.Clone()
	}
	n.reindex()
	return n
}

// Head returns the first n rows formatted for display.
func (t *Table) Head(n int) [][]string {
	n = min(n, t.rows)
	out := make([][]string, n)
	for i := range n {
		row := make([]string, len(t.cols))
		for j, c := range t.cols {
			row[j] = c.String(i)
		}
		out[i] = row
	}
	return out
}

// Matrix extracts the feature matrix (every column except target) and the
// target vector. Only numeric and boolean columns are accepted, and no
// cell may be missing.
func (t *Table) Matrix(target string) (X [][]float64, y []float64, features []string, err error) {
	tc, err := t.ColumnOf(target, Numeric)
	if err != nil {
		return nil, nil, nil, err
	}
	var cols []*Column
	for _, c := range t.cols {
		if c.Name == target {
			continue
		}
		if c.Kind == Categorical {
			return nil, nil, nil, columnErr("matrix", c.Name, fmt.Errorf("%w: categorical column not encoded", ErrSchemaMismatch))
		}
		cols = append(cols, c)
		features = append(features, c.Name)
	}
	X = make([][]float64, t.rows)
	y = make([]float64, t.rows)
	for i := range t.rows {
		if math.IsNaN(tc.Num[i]) {
			return nil, nil, nil, columnErr("matrix", target, fmt.Errorf("%w: missing target at row %d", ErrInvalidInput, i))
		}
		y[i] = tc.Num[i]
		row := make([]float64, len(cols))
		for j, c := range cols {
			v := c.Num[i]
			if math.IsNaN(v) {
				return nil, nil, nil, columnErr("matrix", c.Name, fmt.Errorf("%w: missing value at row %d", ErrInvalidInput, i))
			}
			row[j] = v
		}
		X[i] = row
	}
	return X, y, features, nil
}
