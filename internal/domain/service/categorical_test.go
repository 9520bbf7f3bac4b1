package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/service"
)

func TestLearnAndExpandCategoricals(t *testing.T) {
	train := mustBatch(t, 4,
		model.NumericColumn("x", []float64{1, 2, 3, 4}),
		model.TextColumn("Channel", []string{"web", "branch", "", "web"}),
	)

	encodings, err := service.LearnEncodings(train)
	require.NoError(t, err)
	require.Len(t, encodings, 1)
	assert.Equal(t, model.CategoricalEncoding{Column: "Channel", Categories: []string{"branch", "web"}}, encodings[0])

	expanded, err := service.ExpandCategoricals(train, encodings)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "Channel_branch", "Channel_web"}, expanded.Names())
	assert.Empty(t, expanded.TextColumns())

	web, _ := expanded.Column("Channel_web")
	assert.Equal(t, []float64{1, 0, 0, 1}, web.Numbers)

	unseen := mustBatch(t, 1,
		model.NumericColumn("x", []float64{5}),
		model.TextColumn("Channel", []string{"phone"}),
	)
	expanded, err = service.ExpandCategoricals(unseen, encodings)
	require.NoError(t, err)
	rows, err := expanded.Matrix()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{5, 0, 0}}, rows)
}

func TestExpandCategoricals_NoEncodings(t *testing.T) {
	batch := mustBatch(t, 1, model.NumericColumn("x", []float64{1}))
	out, err := service.ExpandCategoricals(batch, nil)
	require.NoError(t, err)
	assert.Equal(t, batch.Names(), out.Names())
}

func TestLearnEncodings_NameCollision(t *testing.T) {
	tests := []struct {
		name string
		cols []model.Column
		want string
	}{
		{
			name: "with a numeric feature",
			cols: []model.Column{
				model.NumericColumn(model.ColPropertyUrban, []float64{1, 0}),
				model.TextColumn("Property", []string{"Urban", "Rural"}),
			},
			want: `"Property_Urban" from column "Property" category "Urban", already produced by "Property_Urban"`,
		},
		{
			name: "between two text columns",
			cols: []model.Column{
				model.TextColumn("Region", []string{"North_East", "South"}),
				model.TextColumn("Region_North", []string{"East", "West"}),
			},
			want: `"Region_North_East" from column "Region_North" category "East", already produced by "Region"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.LearnEncodings(mustBatch(t, 2, tt.cols...))
			require.ErrorIs(t, err, service.ErrEncodingCollision)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
