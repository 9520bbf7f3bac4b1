package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/event"
	"github.com/AliSleiman0/loan-default-predictor/pkg/events"
)

// ClassMetrics are per-class precision, recall, F1 and support.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// ClassificationReport summarises validation performance.
type ClassificationReport struct {
	Classes  map[string]ClassMetrics `json:"classes"`
	Accuracy float64                 `json:"accuracy"`
}

// HyperParams identify a grid-search candidate.
type HyperParams struct {
	C       float64 `json:"C"`
	Penalty string  `json:"penalty"`
}

// TrainingRun records one end-to-end training execution.
type TrainingRun struct {
	events.EventCollector
	startedAt     time.Time
	completedAt   time.Time
	report        ClassificationReport
	datasetPath   string
	datasetHash   string
	artifactPath  string
	artifactHash  string
	fingerprint   string
	best          HyperParams
	validationAUC float64
	cvAUC         float64
	rows          int
	features      int
	id            uuid.UUID
}

// StartTrainingRun opens a run for the given dataset.
func StartTrainingRun(datasetPath, datasetHash string) *TrainingRun {
	return &TrainingRun{
		id:          uuid.New(),
		datasetPath: datasetPath,
		datasetHash: datasetHash,
		startedAt:   time.Now().UTC(),
	}
}

// TrainingResult holds what a completed fit produced.
type TrainingResult struct {
	Rows          int
	Columns       CanonicalColumns
	Best          HyperParams
	CVAUC         float64
	ValidationAUC float64
	Report        ClassificationReport
	ArtifactPath  string
	ArtifactHash  string
}

// Complete finalises the run and records a ModelTrained event.
func (r *TrainingRun) Complete(res TrainingResult) error {
	if !r.completedAt.IsZero() {
		return errors.New("training run already completed")
	}
	if res.ArtifactHash == "" {
		return errors.New("artifact hash is required")
	}

	r.rows = res.Rows
	r.features = res.Columns.Len()
	r.fingerprint = res.Columns.Fingerprint()
	r.best = res.Best
	r.cvAUC = res.CVAUC
	r.validationAUC = res.ValidationAUC
	r.report = res.Report
	r.artifactPath = res.ArtifactPath
	r.artifactHash = res.ArtifactHash
	r.completedAt = time.Now().UTC()

	r.Record(event.NewModelTrained(r.id, r.rows, r.features, r.fingerprint,
		r.best.C, r.best.Penalty, r.validationAUC, r.artifactHash))
	return nil
}

func (r *TrainingRun) ID() uuid.UUID                { return r.id }
func (r *TrainingRun) DatasetPath() string          { return r.datasetPath }
func (r *TrainingRun) DatasetHash() string          { return r.datasetHash }
func (r *TrainingRun) Rows() int                    { return r.rows }
func (r *TrainingRun) Features() int                { return r.features }
func (r *TrainingRun) ColumnsFingerprint() string   { return r.fingerprint }
func (r *TrainingRun) BestParams() HyperParams      { return r.best }
func (r *TrainingRun) CVAUC() float64               { return r.cvAUC }
func (r *TrainingRun) ValidationAUC() float64       { return r.validationAUC }
func (r *TrainingRun) Report() ClassificationReport { return r.report }
func (r *TrainingRun) ArtifactPath() string         { return r.artifactPath }
func (r *TrainingRun) ArtifactHash() string         { return r.artifactHash }
func (r *TrainingRun) StartedAt() time.Time         { return r.startedAt }
func (r *TrainingRun) CompletedAt() time.Time       { return r.completedAt }
func (r *TrainingRun) Duration() time.Duration      { return r.completedAt.Sub(r.startedAt) }
