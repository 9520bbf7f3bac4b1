package valueobject_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/valueobject"
)

func TestNewThreshold(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{name: "default", value: 0.5},
		{name: "zero", value: 0},
		{name: "one", value: 1},
		{name: "negative", value: -0.1, wantErr: true},
		{name: "above one", value: 1.01, wantErr: true},
		{name: "NaN", value: math.NaN(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, err := valueobject.NewThreshold(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, th.Value())
		})
	}
}

func TestThreshold_ClassifyIsInclusive(t *testing.T) {
	th := valueobject.MustThreshold(valueobject.DefaultThreshold)

	assert.Equal(t, valueobject.ClassApproved, th.Classify(0.5))
	assert.Equal(t, valueobject.ClassApproved, th.Classify(0.73))
	assert.Equal(t, valueobject.ClassRejected, th.Classify(0.4999999))

	strict := valueobject.MustThreshold(0.7)
	assert.Equal(t, valueobject.ClassRejected, strict.Classify(0.69))
	assert.Equal(t, valueobject.ClassApproved, strict.Classify(0.7))
}

func TestMustThreshold_Panics(t *testing.T) {
	assert.Panics(t, func() { valueobject.MustThreshold(2) })
}

func TestPredictedClass(t *testing.T) {
	c, err := valueobject.PredictedClassFromInt(1)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ClassApproved, c)
	assert.Equal(t, 1, c.Int())
	assert.Equal(t, "Y", c.LoanStatus())
	assert.Equal(t, "APPROVED", c.String())

	assert.Equal(t, "N", valueobject.ClassRejected.LoanStatus())
	assert.Equal(t, "REJECTED", valueobject.ClassRejected.String())

	_, err = valueobject.PredictedClassFromInt(2)
	assert.Error(t, err)
}
