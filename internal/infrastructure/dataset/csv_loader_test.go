package dataset_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/dataset"
	"github.com/AliSleiman0/loan-default-predictor/pkg/checksum"
	"github.com/AliSleiman0/loan-default-predictor/pkg/observability"
	"github.com/AliSleiman0/loan-default-predictor/pkg/testutil"
)

func TestCSVLoader_Load(t *testing.T) {
	path := testutil.WriteLoanCSV(t, testutil.LoanTrainCSV)
	loader := dataset.NewCSVLoader(observability.Discard())

	ds, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, ds.HasLabel)
	assert.Len(t, ds.Records, strings.Count(testutil.LoanTrainCSV, "\n")-1)

	want, err := checksum.FileSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, want, ds.Hash)

	first := ds.Records[0]
	assert.Equal(t, "LP001002", first.LoanID)
	assert.Equal(t, "Male", *first.Gender)
	assert.Nil(t, first.LoanAmount, "blank cell is missing")
	assert.Equal(t, 5849.0, *first.ApplicantIncome)
	assert.Equal(t, "Y", *first.LoanStatus)
	assert.Empty(t, first.Extra)
}

func TestCSVLoader_MissingMarkersAndExtras(t *testing.T) {
	csv := "\ufeffLoan_ID,Gender,LoanAmount,Dependents,Channel\n" +
		"LP1,NA,NaN,3+,web\n" +
		"LP2, Female ,120,,\n"
	loader := dataset.NewCSVLoader(observability.Discard())

	ds, err := loader.Load(context.Background(), testutil.WriteLoanCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)
	assert.False(t, ds.HasLabel)

	r1, r2 := ds.Records[0], ds.Records[1]
	assert.Equal(t, "LP1", r1.LoanID)
	assert.Nil(t, r1.Gender)
	assert.Nil(t, r1.LoanAmount)
	assert.Equal(t, "3+", *r1.Dependents)
	assert.Nil(t, r1.ApplicantIncome, "absent column is missing")
	assert.Equal(t, map[string]string{"Channel": "web"}, r1.Extra)

	assert.Equal(t, "Female", *r2.Gender)
	assert.Equal(t, 120.0, *r2.LoanAmount)
	assert.Nil(t, r2.Dependents)
	assert.NotContains(t, r2.Extra, "Channel")
}

func TestCSVLoader_Errors(t *testing.T) {
	loader := dataset.NewCSVLoader(observability.Discard())
	ctx := context.Background()

	_, err := loader.Load(ctx, filepath.Join(t.TempDir(), "data", "raw", "loan_train.csv"))
	assert.ErrorIs(t, err, dataset.ErrDatasetNotFound)

	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{name: "empty", content: "", msg: "empty"},
		{name: "bad number", content: "Loan_ID,LoanAmount\nLP1,lots\n", msg: "LoanAmount"},
		{name: "ragged", content: "Loan_ID,LoanAmount\nLP1,1,2\n", msg: "line 2"},
		{name: "duplicate header", content: "Loan_ID,Loan_ID\nLP1,LP1\n", msg: "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(ctx, testutil.WriteLoanCSV(t, tt.content))
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}
