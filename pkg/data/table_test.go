package data

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable("t",
		NewNumeric("x", []float64{1, 2, 3}),
		NewCategorical("c", []string{"a", "", "b"}),
		NewBoolean("flag", []bool{true, false, true}),
		NewNumeric("y", []float64{10, 20, 30}),
	)
	require.NoError(t, err)
	return tbl
}

func TestNewTableRejectsMismatchedColumns(t *testing.T) {
	_, err := NewTable("bad", NewNumeric("a", []float64{1, 2}), NewNumeric("b", []float64{1}))
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = NewTable("dup", NewNumeric("a", []float64{1}), NewNumeric("a", []float64{2}))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestTableColumnOps(t *testing.T) {
	tbl := newTestTable(t)

	_, err := tbl.ColumnOf("c", Numeric)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	clone := tbl.Clone("copy")
	require.NoError(t, clone.Drop("c"))
	assert.Equal(t, []string{"x", "flag", "y"}, clone.Names())
	assert.True(t, tbl.Has("c"), "drop on a clone leaves the source intact")

	require.NoError(t, clone.Replace("x", NewNumeric("x2", []float64{4, 5, 6})))
	assert.Equal(t, []string{"x2", "flag", "y"}, clone.Names())
	assert.ErrorIs(t, clone.Replace("nope", NewNumeric("z", []float64{1, 2, 3})), ErrSchemaMismatch)

	x, _ := tbl.Column("x")
	cx, _ := tbl.Clone("c2").Column("x")
	cx.Num[0] = 99
	assert.Equal(t, 1.0, x.Num[0])
}

func TestHead(t *testing.T) {
	tbl := newTestTable(t)
	head := tbl.Head(2)
	require.Len(t, head, 2)
	assert.Equal(t, []string{"1", "a", "true", "10"}, head[0])
	assert.Equal(t, []string{"2", "NaN", "false", "20"}, head[1])
	assert.Len(t, tbl.Head(10), 3)
}

func TestMatrix(t *testing.T) {
	tbl := newTestTable(t)

	_, _, _, err := tbl.Matrix("y")
	assert.ErrorIs(t, err, ErrSchemaMismatch, "categorical columns must be encoded first")

	require.NoError(t, tbl.Drop("c"))
	X, y, features, err := tbl.Matrix("y")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "flag"}, features)
	assert.Equal(t, []float64{10, 20, 30}, y)
	assert.Equal(t, [][]float64{{1, 1}, {2, 0}, {3, 1}}, X)

	x, _ := tbl.Column("x")
	x.Num[1] = math.NaN()
	_, _, _, err = tbl.Matrix("y")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
