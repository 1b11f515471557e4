package dataprep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examscore/pkg/data"
)

func TestLabelEncoderSortedCodes(t *testing.T) {
	le := FitLabelEncoder([]string{"Medium", "High", "Low", "High", ""})
	assert.Equal(t, []string{"High", "Low", "Medium", MissingLabel}, le.Classes)

	codes, err := le.Transform([]string{"Low", "High", "Medium", ""})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 2, 3}, codes)

	_, err = le.Transform([]string{"Very High"})
	assert.ErrorIs(t, err, data.ErrInvalidInput)
}

func TestOneHotRowsSumToOne(t *testing.T) {
	vals := []string{"Public", "Private", "Public", "Public"}
	oh := FitOneHot("School_Type", vals)
	assert.Equal(t, []string{"School_Type_Private", "School_Type_Public"}, oh.FeatureNames())

	cols, err := oh.Transform(vals)
	require.NoError(t, err)
	require.Len(t, cols, 2)
	for i := range vals {
		sum := 0.0
		for _, c := range cols {
			assert.Equal(t, data.Boolean, c.Kind)
			sum += c.Num[i]
		}
		assert.Equal(t, 1.0, sum, "row %d", i)
	}

	_, err = oh.Transform([]string{"Charter"})
	assert.ErrorIs(t, err, data.ErrInvalidInput)
}

func encodeTable(t *testing.T, peers []string) *data.Table {
	t.Helper()
	n := len(peers)
	motivation := []string{"Low", "High", "Medium", "Low", "High"}[:n]
	gender := []string{"Male", "Female", "Male", "Female", "Male"}[:n]
	score := []float64{60, 70, 65, 62, 71}[:n]
	tbl, err := data.NewTable("t",
		data.NewCategorical("Motivation_Level", motivation),
		data.NewCategorical("Gender", gender),
		data.NewCategorical("Peer_Influence", peers),
		data.NewNumeric("Exam_Score", score),
	)
	require.NoError(t, err)
	return tbl
}

func TestEncoderLayout(t *testing.T) {
	tbl := encodeTable(t, []string{"Positive", "Negative", "Neutral", "Positive", "Neutral"})
	enc := NewEncoder([]string{"Motivation_Level"}, []string{"Gender", "Peer_Influence"})

	out, err := enc.Apply(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Motivation_Level", "Exam_Score",
		"Gender_Female", "Gender_Male",
		"Peer_Influence_Negative", "Peer_Influence_Neutral", "Peer_Influence_Positive",
	}, out.Names())
	assert.Equal(t, tbl.Rows(), out.Rows())

	mot, err := out.ColumnOf("Motivation_Level", data.Numeric)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 2, 1, 0}, mot.Num)
	assert.Equal(t, []string{"High", "Low", "Medium"}, enc.Classes("Motivation_Level"))

	_, _, _, err = out.Matrix("Exam_Score")
	assert.NoError(t, err)

	src, _ := tbl.Column("Gender")
	assert.Equal(t, data.Categorical, src.Kind, "input table is untouched")
}

func TestEncoderRejectsOverlappingSets(t *testing.T) {
	tbl := encodeTable(t, []string{"Positive", "Negative", "Neutral", "Positive", "Neutral"})
	_, err := NewEncoder([]string{"Gender"}, []string{"Gender"}).Apply(tbl)
	assert.ErrorIs(t, err, data.ErrInvalidInput)

	_, err = NewEncoder([]string{"Exam_Score"}, nil).Apply(tbl)
	assert.ErrorIs(t, err, data.ErrSchemaMismatch)
}

func TestEncoderUniverses(t *testing.T) {
	full := encodeTable(t, []string{"Positive", "Negative", "Neutral", "Positive", "Neutral"})
	narrow := encodeTable(t, []string{"Positive", "Neutral", "Neutral", "Positive", "Neutral"})

	t.Run("independent fits may differ", func(t *testing.T) {
		enc := NewEncoder(nil, []string{"Peer_Influence"})
		a, err := enc.Apply(full)
		require.NoError(t, err)
		b, err := enc.Apply(narrow)
		require.NoError(t, err)

		onlyA, onlyB := ColumnDiff(a, b)
		assert.Equal(t, []string{"Peer_Influence_Negative"}, onlyA)
		assert.Empty(t, onlyB)
	})

	t.Run("shared fit aligns columns", func(t *testing.T) {
		enc := NewEncoder(nil, []string{"Peer_Influence"})
		enc.Shared = true
		a, err := enc.Apply(full)
		require.NoError(t, err)
		b, err := enc.Apply(narrow)
		require.NoError(t, err)

		onlyA, onlyB := ColumnDiff(a, b)
		assert.Empty(t, onlyA)
		assert.Empty(t, onlyB)
		assert.Equal(t, a.Names(), b.Names())
	})

	t.Run("shared fit rejects unseen labels", func(t *testing.T) {
		enc := NewEncoder(nil, []string{"Peer_Influence"})
		enc.Shared = true
		_, err := enc.Apply(narrow)
		require.NoError(t, err)
		_, err = enc.Apply(full)
		assert.ErrorIs(t, err, data.ErrInvalidInput)
	})
}
