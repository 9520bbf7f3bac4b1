package ml_test

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/service"
	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/ml"
	"github.com/AliSleiman0/loan-default-predictor/pkg/observability"
)

// synthetic returns rows whose first feature drives the label, a second
// noise feature, and a constant third feature.
func synthetic(n int, seed uint64) ([][]float64, []int) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	rows := make([][]float64, n)
	labels := make([]int, n)
	for i := range rows {
		signal := rng.NormFloat64()
		rows[i] = []float64{signal*1000 + 5000, rng.NormFloat64(), 7}
		if signal+0.3*rng.NormFloat64() > 0 {
			labels[i] = 1
		}
	}
	return rows, labels
}

func TestFitScaler(t *testing.T) {
	s, err := ml.FitScaler([][]float64{{1, 5}, {3, 5}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, s.Mean)
	assert.Equal(t, []float64{1, 1}, s.Scale, "constant column keeps unit scale")
	assert.Equal(t, [][]float64{{-1, 0}, {1, 0}}, s.Transform([][]float64{{1, 5}, {3, 5}}))

	_, err = ml.FitScaler(nil)
	assert.Error(t, err)
}

func TestFitLogistic(t *testing.T) {
	rows, labels := synthetic(400, 1)

	for _, penalty := range []string{ml.PenaltyL1, ml.PenaltyL2} {
		t.Run(penalty, func(t *testing.T) {
			m, err := ml.FitLogistic(context.Background(), rows, labels, model.HyperParams{C: 1, Penalty: penalty}, ml.DefaultSolverConfig())
			require.NoError(t, err)
			require.NoError(t, m.Validate())
			assert.Equal(t, 3, m.NumFeatures())
			assert.Greater(t, m.Weights[0], 0.0)

			probs, err := m.PredictProba(rows)
			require.NoError(t, err)
			for _, p := range probs {
				assert.True(t, p >= 0 && p <= 1)
			}
			auc, err := service.ROCAUC(labels, probs)
			require.NoError(t, err)
			assert.Greater(t, auc, 0.9)
		})
	}
}

func TestFitLogistic_L1Sparsity(t *testing.T) {
	rows, labels := synthetic(300, 2)

	m, err := ml.FitLogistic(context.Background(), rows, labels, model.HyperParams{C: 0.01, Penalty: ml.PenaltyL1}, ml.DefaultSolverConfig())
	require.NoError(t, err)
	assert.Zero(t, m.Weights[1], "noise feature is shrunk to zero")
	assert.Zero(t, m.Weights[2], "constant feature carries no weight")
}

func TestFitLogistic_Deterministic(t *testing.T) {
	rows, labels := synthetic(200, 3)
	params := model.HyperParams{C: 10, Penalty: ml.PenaltyL2}

	a, err := ml.FitLogistic(context.Background(), rows, labels, params, ml.DefaultSolverConfig())
	require.NoError(t, err)
	b, err := ml.FitLogistic(context.Background(), rows, labels, params, ml.DefaultSolverConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFitLogistic_InvalidInput(t *testing.T) {
	ctx := context.Background()
	cfg := ml.DefaultSolverConfig()
	ok := model.HyperParams{C: 1, Penalty: ml.PenaltyL2}

	tests := []struct {
		name   string
		rows   [][]float64
		labels []int
		params model.HyperParams
	}{
		{name: "no rows", params: ok},
		{name: "label count", rows: [][]float64{{1}}, labels: []int{0, 1}, params: ok},
		{name: "ragged rows", rows: [][]float64{{1, 2}, {1}}, labels: []int{0, 1}, params: ok},
		{name: "non-positive C", rows: [][]float64{{1}}, labels: []int{1}, params: model.HyperParams{C: 0, Penalty: ml.PenaltyL2}},
		{name: "unknown penalty", rows: [][]float64{{1}}, labels: []int{1}, params: model.HyperParams{C: 1, Penalty: "elasticnet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ml.FitLogistic(ctx, tt.rows, tt.labels, tt.params, cfg)
			assert.Error(t, err)
		})
	}
}

func TestPredictProba_WidthMismatch(t *testing.T) {
	rows, labels := synthetic(50, 4)
	m, err := ml.FitLogistic(context.Background(), rows, labels, model.HyperParams{C: 1, Penalty: ml.PenaltyL2}, ml.DefaultSolverConfig())
	require.NoError(t, err)

	_, err = m.PredictProba([][]float64{{1, 2}})
	assert.Error(t, err)
}

func TestCodec(t *testing.T) {
	rows, labels := synthetic(80, 5)
	m, err := ml.FitLogistic(context.Background(), rows, labels, model.HyperParams{C: 1, Penalty: ml.PenaltyL2}, ml.DefaultSolverConfig())
	require.NoError(t, err)

	kind, raw, err := ml.Encode(m)
	require.NoError(t, err)
	assert.Equal(t, ml.KindLogisticRegression, kind)

	decoded, err := ml.Decode(kind, raw)
	require.NoError(t, err)
	want, _ := m.PredictProba(rows[:5])
	got, err := decoded.PredictProba(rows[:5])
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ml.Decode("random_forest", raw)
	assert.ErrorContains(t, err, "unknown model kind")

	var broken map[string]any
	require.NoError(t, json.Unmarshal(raw, &broken))
	broken["weights"] = []float64{}
	bad, _ := json.Marshal(broken)
	_, err = ml.Decode(kind, bad)
	assert.Error(t, err)
}

func TestGridSearch(t *testing.T) {
	rows, labels := synthetic(250, 6)
	logger := observability.Discard()

	gs, err := ml.NewGridSearch(ml.DefaultGridConfig(), logger)
	require.NoError(t, err)
	assert.Len(t, gs.Candidates(), 6)
	assert.Equal(t, model.HyperParams{C: 0.1, Penalty: ml.PenaltyL1}, gs.Candidates()[0])

	res, err := gs.Train(context.Background(), rows, labels)
	require.NoError(t, err)
	assert.Greater(t, res.CVScore, 0.9)
	assert.Contains(t, gs.Candidates(), res.Params)
	assert.Equal(t, 3, res.Model.NumFeatures())

	again, err := gs.Train(context.Background(), rows, labels)
	require.NoError(t, err)
	assert.Equal(t, res.Params, again.Params)
	assert.Equal(t, res.CVScore, again.CVScore)
}

func TestGridSearch_Errors(t *testing.T) {
	logger := observability.Discard()

	_, err := ml.NewGridSearch(ml.GridConfig{Folds: 5}, logger)
	assert.Error(t, err)

	cfg := ml.DefaultGridConfig()
	cfg.Folds = 1
	_, err = ml.NewGridSearch(cfg, logger)
	assert.Error(t, err)

	gs, err := ml.NewGridSearch(ml.DefaultGridConfig(), logger)
	require.NoError(t, err)
	_, err = gs.Train(context.Background(), [][]float64{{1}, {2}, {3}}, []int{0, 1, 1})
	assert.Error(t, err, "too few rows per class for five folds")
}
