package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AliSleiman0/loan-default-predictor/internal/application/dto"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/service"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/valueobject"
)

// TrainOptions controls the hold-out split.
type TrainOptions struct {
	TestSize float64
	Seed     uint64
}

// TrainModel turns a labelled CSV into a persisted model bundle.
type TrainModel struct {
	loader    port.DatasetLoader
	trainer   port.ModelTrainer
	store     port.ArtifactStore
	runs      port.TrainingRunRepository
	publisher port.EventPublisher
	logger    *slog.Logger
	tracer    trace.Tracer
	opts      TrainOptions
}

// NewTrainModel creates the use case. runs and publisher may be nil.
func NewTrainModel(
	loader port.DatasetLoader,
	trainer port.ModelTrainer,
	store port.ArtifactStore,
	runs port.TrainingRunRepository,
	publisher port.EventPublisher,
	opts TrainOptions,
	logger *slog.Logger,
) *TrainModel {
	return &TrainModel{
		loader:    loader,
		trainer:   trainer,
		store:     store,
		runs:      runs,
		publisher: publisher,
		logger:    logger,
		tracer:    otel.Tracer(instrumentationName),
		opts:      opts,
	}
}

// Execute runs the full training pipeline. Any error before the artifact is
// written leaves the previous artifact untouched.
func (uc *TrainModel) Execute(ctx context.Context, req dto.TrainModelRequest) (resp dto.TrainModelResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "TrainModel", trace.WithAttributes(attribute.String("dataset.path", req.DataPath)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "training failed")
		}
		span.End()
	}()

	// 1. Load.
	ds, err := uc.loader.Load(ctx, req.DataPath)
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to load dataset: %w", err)
	}
	if !ds.HasLabel {
		return dto.TrainModelResponse{}, ErrLabelColumnMissing
	}
	run := model.StartTrainingRun(req.DataPath, ds.Hash)

	// 2. Transform with statistics derived from the whole dataset.
	batch, stats, err := service.NewTransformer(service.WithLabelColumn()).Transform(ds.Records)
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to transform dataset: %w", err)
	}

	// 3. Labels.
	labels, err := extractLabels(batch)
	if err != nil {
		return dto.TrainModelResponse{}, err
	}

	// 4. Features: drop identifier and label, expand leftover categoricals.
	features := batch.Drop(model.ColLoanID, model.ColLoanStatus)
	encodings, err := service.LearnEncodings(features)
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to learn categorical encodings: %w", err)
	}
	features, err = service.ExpandCategoricals(features, encodings)
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to expand categoricals: %w", err)
	}
	if text := features.TextColumns(); len(text) > 0 {
		return dto.TrainModelResponse{}, fmt.Errorf("%w: %v", ErrNonNumericFeatures, text)
	}

	// 5. Canonical columns, in produced order.
	columns, err := model.NewCanonicalColumns(features.Names())
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to capture canonical columns: %w", err)
	}
	aligned, err := service.NewReconciler().Align(features, columns)
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("training features: %w", err)
	}
	rows, err := aligned.Matrix()
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("training features: %w", err)
	}

	// 6. Hold-out split.
	trainIdx, testIdx, err := service.StratifiedSplit(labels, uc.opts.TestSize, uc.opts.Seed)
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to split dataset: %w", err)
	}
	trainRows, trainLabels := pick(rows, labels, trainIdx)
	testRows, testLabels := pick(rows, labels, testIdx)

	uc.logger.InfoContext(ctx, "training started",
		slog.String("run_id", run.ID().String()),
		slog.Int("rows", len(rows)),
		slog.Int("features", columns.Len()),
		slog.Int("train_rows", len(trainRows)),
		slog.Int("validation_rows", len(testRows)),
	)

	// 7. Model selection.
	fit, err := uc.trainer.Train(ctx, trainRows, trainLabels)
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to train model: %w", err)
	}

	// 8. Validation.
	probs, err := fit.Model.PredictProba(testRows)
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to score validation split: %w", err)
	}
	auc, err := service.ROCAUC(testLabels, probs)
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to compute validation AUC: %w", err)
	}
	report, err := service.NewClassificationReport(testLabels, service.Classify(probs, valueobject.DefaultThreshold))
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to build classification report: %w", err)
	}
	uc.logger.InfoContext(ctx, "validation complete",
		slog.Float64("validation_auc", auc),
		slog.Float64("accuracy", report.Accuracy),
		slog.Any("classes", report.Classes),
	)

	// 9. Persist.
	bundle, err := uc.store.Save(ctx, port.Bundle{
		RunID:    run.ID(),
		Contract: model.FeatureContract{Columns: columns, Statistics: stats, Encodings: encodings},
		Model:    fit.Model,
	})
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to save model artifact: %w", err)
	}

	if err := run.Complete(model.TrainingResult{
		Rows:          len(rows),
		Columns:       columns,
		Best:          fit.Params,
		CVAUC:         fit.CVScore,
		ValidationAUC: auc,
		Report:        report,
		ArtifactPath:  uc.store.Location(),
		ArtifactHash:  bundle.Hash,
	}); err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to complete training run: %w", err)
	}

	if uc.runs != nil {
		if err := uc.runs.Save(ctx, run); err != nil {
			uc.logger.WarnContext(ctx, "failed to record training run",
				slog.String("run_id", run.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}
	if evts := run.ClearEvents(); uc.publisher != nil && len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			uc.logger.WarnContext(ctx, "failed to publish training events",
				slog.String("run_id", run.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	span.SetAttributes(
		attribute.String("run.id", run.ID().String()),
		attribute.Float64("run.validation_auc", auc),
	)
	uc.logger.InfoContext(ctx, "training complete",
		slog.String("run_id", run.ID().String()),
		slog.Float64("best_C", fit.Params.C),
		slog.String("best_penalty", fit.Params.Penalty),
		slog.Float64("cv_auc", fit.CVScore),
		slog.Float64("validation_auc", auc),
		slog.String("artifact", uc.store.Location()),
		slog.Duration("duration", run.Duration()),
	)
	return dto.FromTrainingRun(run, columns), nil
}

func extractLabels(batch model.FeatureBatch) ([]int, error) {
	col, ok := batch.Column(model.ColLoanStatus)
	if !ok {
		return nil, ErrLabelColumnMissing
	}

	labels := make([]int, len(col.Numbers))
	var unmapped int
	for i, v := range col.Numbers {
		if math.IsNaN(v) {
			unmapped++
			continue
		}
		labels[i] = int(v)
	}
	if unmapped > 0 {
		return nil, fmt.Errorf("%w: %d rows", ErrUnmappedLabel, unmapped)
	}
	return labels, nil
}

func pick(rows [][]float64, labels []int, idx []int) ([][]float64, []int) {
	r := make([][]float64, len(idx))
	l := make([]int, len(idx))
	for i, j := range idx {
		r[i] = rows[j]
		l[i] = labels[j]
	}
	return r, l
}
