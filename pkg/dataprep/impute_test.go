package dataprep

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examscore/pkg/data"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		name string
		vals []string
		want string
		ok   bool
	}{
		{"majority", []string{"High", "Low", "High", ""}, "High", true},
		{"tie goes to first seen", []string{"Low", "High", "High", "Low"}, "Low", true},
		{"all missing", []string{"", ""}, "", false},
		{"empty", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ModeString(tt.vals)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeImputerFillsWithObservedValues(t *testing.T) {
	tbl, err := data.NewTable("t",
		data.NewCategorical("Teacher_Quality", []string{"Medium", "", "High", "Medium", ""}),
		data.NewCategorical("Gender", []string{"Male", "", "Female", "Male", "Female"}),
	)
	require.NoError(t, err)

	imp := NewModeImputer("Teacher_Quality")
	out, err := imp.Apply(tbl)
	require.NoError(t, err)

	col, err := out.Column("Teacher_Quality")
	require.NoError(t, err)
	assert.Zero(t, col.MissingCount())
	assert.Equal(t, []string{"Medium", "Medium", "High", "Medium", "Medium"}, col.Cat)
	assert.Equal(t, "Medium", imp.Fills["Teacher_Quality"])

	observed := map[string]bool{"Medium": true, "High": true}
	for _, v := range col.Cat {
		assert.True(t, observed[v], "imputed value %q was never observed", v)
	}

	src, _ := tbl.Column("Teacher_Quality")
	assert.Equal(t, 2, src.MissingCount(), "input table is untouched")
	untouched, _ := out.Column("Gender")
	assert.Equal(t, 1, untouched.MissingCount(), "only listed columns are filled")
}

func TestModeImputerErrors(t *testing.T) {
	tbl, err := data.NewTable("t",
		data.NewNumeric("Empty", []float64{math.NaN(), math.NaN()}),
		data.NewNumeric("Hours", []float64{1, 2}),
		data.NewCategorical("Blank", []string{"", ""}),
	)
	require.NoError(t, err)

	_, err = NewModeImputer("Empty").Apply(tbl)
	assert.ErrorIs(t, err, data.ErrEmptyColumn)

	_, err = NewModeImputer("Blank").Apply(tbl)
	assert.ErrorIs(t, err, data.ErrEmptyColumn)
	var ce *data.ColumnError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Blank", ce.Column)

	_, err = NewModeImputer("Hours").Apply(tbl)
	assert.ErrorIs(t, err, data.ErrSchemaMismatch)

	_, err = NewModeImputer("Absent").Apply(tbl)
	assert.ErrorIs(t, err, data.ErrSchemaMismatch)
}
