package model_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
)

func validStatistics() model.Statistics {
	return model.Statistics{
		LoanAmountMedian:   128,
		LoanAmountTermMode: 360,
		CreditHistoryMode:  1,
		GenderMode:         "Male",
		MarriedMode:        "Yes",
		DependentsMode:     "0",
		LoanAmountZeroFill: 128,
		ApplicantIncomeCap: 32540,
		LoanAmountLower:    3.5,
		LoanAmountUpper:    261.5,
	}
}

func TestCanonicalColumns(t *testing.T) {
	cols, err := model.NewCanonicalColumns([]string{"Gender", "Married", "TotalIncome"})
	require.NoError(t, err)
	assert.Equal(t, 3, cols.Len())

	names := cols.Names()
	names[0] = "mutated"
	assert.Equal(t, "Gender", cols.Names()[0], "Names must return a copy")

	raw, err := json.Marshal(cols)
	require.NoError(t, err)
	assert.JSONEq(t, `["Gender","Married","TotalIncome"]`, string(raw))

	var decoded model.CanonicalColumns
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, cols.Fingerprint(), decoded.Fingerprint())

	_, err = model.NewCanonicalColumns(nil)
	assert.Error(t, err)
	_, err = model.NewCanonicalColumns([]string{"a", "a"})
	assert.Error(t, err)
	assert.Error(t, json.Unmarshal([]byte(`["a",""]`), &decoded))
}

func TestStatistics_Validate(t *testing.T) {
	require.NoError(t, validStatistics().Validate())

	s := validStatistics()
	s.ApplicantIncomeCap = math.NaN()
	assert.ErrorContains(t, s.Validate(), "applicant_income_cap")

	s = validStatistics()
	s.LoanAmountZeroFill = 0
	assert.Error(t, s.Validate())

	s = validStatistics()
	s.LoanAmountLower, s.LoanAmountUpper = 10, 5
	assert.ErrorContains(t, s.Validate(), "inverted")
}

func TestFeatureContract_Validate(t *testing.T) {
	cols, err := model.NewCanonicalColumns([]string{"Gender"})
	require.NoError(t, err)

	c := model.FeatureContract{Columns: cols, Statistics: validStatistics()}
	require.NoError(t, c.Validate())

	c.Encodings = []model.CategoricalEncoding{{Column: ""}}
	assert.Error(t, c.Validate())

	assert.Error(t, model.FeatureContract{Statistics: validStatistics()}.Validate())

	enc := model.CategoricalEncoding{Column: "Channel", Categories: []string{"web"}}
	assert.Equal(t, "Channel_web", enc.ColumnName("web"))
}
