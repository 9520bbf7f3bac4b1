package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/pkg/events"
)

// Classifier is a fitted binary model. Rows must have NumFeatures columns in
// canonical order.
type Classifier interface {
	// PredictProba returns the positive-class probability for each row.
	PredictProba(rows [][]float64) ([]float64, error)
	NumFeatures() int
}

// FitResult is the outcome of model selection.
type FitResult struct {
	Model  Classifier
	Params model.HyperParams
	// CVScore is the mean cross-validated ROC AUC of Params.
	CVScore float64
}

// ModelTrainer selects hyper-parameters and fits a classifier.
type ModelTrainer interface {
	Train(ctx context.Context, rows [][]float64, labels []int) (FitResult, error)
}

// Bundle is the persisted pairing of a classifier with the feature contract
// it was trained against.
type Bundle struct {
	RunID    uuid.UUID
	Contract model.FeatureContract
	Model    Classifier
	// Hash is the content hash, filled in by the store.
	Hash string
}

// ArtifactStore persists and loads bundles.
type ArtifactStore interface {
	Save(ctx context.Context, bundle Bundle) (Bundle, error)
	Load(ctx context.Context) (Bundle, error)
	Location() string
}

// DatasetLoader reads labelled training data.
type DatasetLoader interface {
	Load(ctx context.Context, path string) (model.Dataset, error)
}

// PredictionRepository stores served predictions for audit.
type PredictionRepository interface {
	Save(ctx context.Context, prediction *model.Prediction) error
}

// TrainingRunRepository stores completed training runs.
type TrainingRunRepository interface {
	Save(ctx context.Context, run *model.TrainingRun) error
}

// EventPublisher publishes domain events to the messaging infrastructure.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
