package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/event"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/valueobject"
)

func TestNewPrediction(t *testing.T) {
	th := valueobject.MustThreshold(0.5)

	p, err := model.NewPrediction("LP001002", 0.5, th, "abc123")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID())
	assert.Equal(t, valueobject.ClassApproved, p.Class())
	assert.Equal(t, "abc123", p.ModelFingerprint())

	evts := p.Events()
	require.Len(t, evts, 1)
	made, ok := evts[0].(event.PredictionMade)
	require.True(t, ok)
	assert.Equal(t, "LP001002", made.AggregateID())
	assert.Equal(t, 1, made.Prediction)
	assert.Equal(t, event.EventTypePredictionMade, made.EventType())

	low, err := model.NewPrediction("LP2", 0.2, th, "abc123")
	require.NoError(t, err)
	assert.Equal(t, valueobject.ClassRejected, low.Class())

	_, err = model.NewPrediction("LP3", 1.2, th, "")
	assert.Error(t, err)
}

func TestTrainingRun_Complete(t *testing.T) {
	cols, err := model.NewCanonicalColumns([]string{"Gender", "Married"})
	require.NoError(t, err)

	run := model.StartTrainingRun("data/raw/loan_train.csv", "deadbeef")
	err = run.Complete(model.TrainingResult{
		Rows:          614,
		Columns:       cols,
		Best:          model.HyperParams{C: 1, Penalty: "l2"},
		ValidationAUC: 0.78,
		ArtifactHash:  "cafe",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, run.Features())
	assert.Equal(t, cols.Fingerprint(), run.ColumnsFingerprint())
	assert.False(t, run.CompletedAt().Before(run.StartedAt()))

	evts := run.ClearEvents()
	require.Len(t, evts, 1)
	trained := evts[0].(event.ModelTrained)
	assert.Equal(t, run.ID(), trained.RunID)
	assert.InDelta(t, 0.78, trained.ValidationAUC, 1e-12)

	assert.Error(t, run.Complete(model.TrainingResult{ArtifactHash: "x"}), "second completion must fail")
	assert.Error(t, model.StartTrainingRun("p", "h").Complete(model.TrainingResult{}))
}
