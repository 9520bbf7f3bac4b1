package event

import (
	"github.com/google/uuid"

	"github.com/AliSleiman0/loan-default-predictor/pkg/events"
)

const (
	// EventTypePredictionMade is emitted for every served prediction.
	EventTypePredictionMade = "lending.loan_prediction.made"

	// EventTypeModelTrained is emitted when a new artifact has been written.
	EventTypeModelTrained = "lending.model.trained"
)

// PredictionMade is published after an application has been scored.
type PredictionMade struct {
	events.BaseEvent
	PredictionID     uuid.UUID `json:"prediction_id"`
	LoanID           string    `json:"loan_id"`
	Prediction       int       `json:"prediction"`
	Probability      float64   `json:"probability"`
	Threshold        float64   `json:"threshold"`
	ModelFingerprint string    `json:"model_fingerprint"`
}

// NewPredictionMade builds the event keyed by the loan ID.
func NewPredictionMade(predictionID uuid.UUID, loanID string, prediction int, probability, threshold float64, fingerprint string) PredictionMade {
	return PredictionMade{
		BaseEvent:        events.NewBaseEvent(EventTypePredictionMade, loanID, "LoanApplication"),
		PredictionID:     predictionID,
		LoanID:           loanID,
		Prediction:       prediction,
		Probability:      probability,
		Threshold:        threshold,
		ModelFingerprint: fingerprint,
	}
}

// ModelTrained is published when training has persisted a new artifact.
type ModelTrained struct {
	events.BaseEvent
	RunID              uuid.UUID `json:"run_id"`
	Rows               int       `json:"rows"`
	Features           int       `json:"features"`
	ColumnsFingerprint string    `json:"columns_fingerprint"`
	C                  float64   `json:"C"`
	Penalty            string    `json:"penalty"`
	ValidationAUC      float64   `json:"validation_auc"`
	ArtifactHash       string    `json:"artifact_hash"`
}

// NewModelTrained builds the event keyed by the run ID.
func NewModelTrained(runID uuid.UUID, rows, features int, fingerprint string, c float64, penalty string, auc float64, artifactHash string) ModelTrained {
	return ModelTrained{
		BaseEvent:          events.NewBaseEvent(EventTypeModelTrained, runID.String(), "TrainingRun"),
		RunID:              runID,
		Rows:               rows,
		Features:           features,
		ColumnsFingerprint: fingerprint,
		C:                  c,
		Penalty:            penalty,
		ValidationAUC:      auc,
		ArtifactHash:       artifactHash,
	}
}
