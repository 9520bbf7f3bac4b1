package model_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
)

func TestNewFeatureBatch_Validation(t *testing.T) {
	_, err := model.NewFeatureBatch(2, model.NumericColumn("a", []float64{1}))
	assert.ErrorContains(t, err, "has 1 rows, want 2")

	_, err = model.NewFeatureBatch(1,
		model.NumericColumn("a", []float64{1}),
		model.NumericColumn("a", []float64{2}),
	)
	assert.ErrorContains(t, err, "duplicate column")

	_, err = model.NewFeatureBatch(1, model.NumericColumn("", []float64{1}))
	assert.Error(t, err)
}

func TestFeatureBatch_CopiesInput(t *testing.T) {
	values := []float64{1, 2}
	batch, err := model.NewFeatureBatch(2, model.NumericColumn("a", values))
	require.NoError(t, err)

	values[0] = 99
	col, ok := batch.Column("a")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2}, col.Numbers)
}

func TestFeatureBatch_DropAndMatrix(t *testing.T) {
	batch, err := model.NewFeatureBatch(2,
		model.TextColumn(model.ColLoanID, []string{"LP1", "LP2"}),
		model.NumericColumn("x", []float64{1, 2}),
		model.NumericColumn("y", []float64{3, 4}),
	)
	require.NoError(t, err)

	_, err = batch.Matrix()
	assert.ErrorContains(t, err, "not numeric")
	assert.Equal(t, []string{model.ColLoanID}, batch.TextColumns())

	numeric := batch.Drop(model.ColLoanID, "not-there")
	assert.Equal(t, []string{"x", "y"}, numeric.Names())
	assert.True(t, batch.Has(model.ColLoanID), "Drop must not modify the receiver")

	m, err := numeric.Matrix()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 3}, {2, 4}}, m)
}

func TestColumn_HasNonFinite(t *testing.T) {
	assert.False(t, model.NumericColumn("a", []float64{0, 1}).HasNonFinite())
	assert.True(t, model.NumericColumn("a", []float64{math.NaN()}).HasNonFinite())
	assert.True(t, model.NumericColumn("a", []float64{math.Inf(-1)}).HasNonFinite())
	assert.Equal(t, "text", model.KindText.String())
}
