package dto

import (
	"github.com/google/uuid"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
)

// TrainModelRequest is the input DTO for the TrainModel use case.
type TrainModelRequest struct {
	DataPath string `json:"data_path"`
}

// TrainModelResponse summarises a completed training run.
type TrainModelResponse struct {
	RunID         uuid.UUID                  `json:"run_id"`
	Rows          int                        `json:"rows"`
	Columns       []string                   `json:"columns"`
	Best          model.HyperParams          `json:"best_params"`
	CVAUC         float64                    `json:"cv_auc"`
	ValidationAUC float64                    `json:"validation_auc"`
	Report        model.ClassificationReport `json:"report"`
	ArtifactPath  string                     `json:"artifact_path"`
	ArtifactHash  string                     `json:"artifact_hash"`
}

// FromTrainingRun maps a completed run to the response DTO.
func FromTrainingRun(run *model.TrainingRun, columns model.CanonicalColumns) TrainModelResponse {
	return TrainModelResponse{
		RunID:         run.ID(),
		Rows:          run.Rows(),
		Columns:       columns.Names(),
		Best:          run.BestParams(),
		CVAUC:         run.CVAUC(),
		ValidationAUC: run.ValidationAUC(),
		Report:        run.Report(),
		ArtifactPath:  run.ArtifactPath(),
		ArtifactHash:  run.ArtifactHash(),
	}
}
