package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AliSleiman0/loan-default-predictor/internal/application/dto"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/service"
)

const instrumentationName = "github.com/AliSleiman0/loan-default-predictor/internal/application/usecase"

type predictionMetrics struct {
	predictions metric.Int64Counter
	probability metric.Float64Histogram
	latency     metric.Float64Histogram
}

func newPredictionMetrics(meter metric.Meter) (predictionMetrics, error) {
	var m predictionMetrics
	var err error
	if m.predictions, err = meter.Int64Counter("loan_predictions_total",
		metric.WithDescription("Loan applications scored, by predicted class")); err != nil {
		return m, err
	}
	if m.probability, err = meter.Float64Histogram("loan_prediction_probability",
		metric.WithDescription("Approved-class probability of scored applications"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9)); err != nil {
		return m, err
	}
	if m.latency, err = meter.Float64Histogram("loan_prediction_duration_seconds",
		metric.WithDescription("Time spent scoring one application"),
		metric.WithUnit("s")); err != nil {
		return m, err
	}
	return m, nil
}

// PredictLoanStatus scores one application. Persisting the audit row and
// publishing the event are best effort: failures are logged and the
// prediction is still returned.
type PredictLoanStatus struct {
	predictor *service.Predictor
	repo      port.PredictionRepository
	publisher port.EventPublisher
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   predictionMetrics
}

// NewPredictLoanStatus creates the use case. repo and publisher may be nil.
func NewPredictLoanStatus(
	predictor *service.Predictor,
	repo port.PredictionRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) (*PredictLoanStatus, error) {
	metrics, err := newPredictionMetrics(otel.Meter(instrumentationName))
	if err != nil {
		return nil, fmt.Errorf("create prediction metrics: %w", err)
	}
	return &PredictLoanStatus{
		predictor: predictor,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		tracer:    otel.Tracer(instrumentationName),
		metrics:   metrics,
	}, nil
}

// Execute validates req, scores it and returns the class and probability.
func (uc *PredictLoanStatus) Execute(ctx context.Context, req dto.PredictLoanRequest) (dto.PredictLoanResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "PredictLoanStatus")
	defer span.End()
	start := time.Now()

	if errs := req.Validate(); len(errs) > 0 {
		err := &ValidationError{Fields: errs}
		span.SetStatus(codes.Error, "invalid application")
		return dto.PredictLoanResponse{}, err
	}

	prediction, err := uc.predictor.Predict(ctx, req.ToApplication())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prediction failed")
		return dto.PredictLoanResponse{}, fmt.Errorf("failed to predict loan status: %w", err)
	}

	class := prediction.Class()
	span.SetAttributes(
		attribute.String("loan.id", prediction.LoanID()),
		attribute.Int("prediction.class", class.Int()),
		attribute.Float64("prediction.probability", prediction.Probability()),
		attribute.String("model.fingerprint", prediction.ModelFingerprint()),
	)
	classAttr := metric.WithAttributes(attribute.String("class", class.String()))
	uc.metrics.predictions.Add(ctx, 1, classAttr)
	uc.metrics.probability.Record(ctx, prediction.Probability())

	if uc.repo != nil {
		if err := uc.repo.Save(ctx, prediction); err != nil {
			uc.logger.WarnContext(ctx, "failed to record prediction",
				slog.String("loan_id", prediction.LoanID()),
				slog.String("error", err.Error()),
			)
		}
	}
	if evts := prediction.ClearEvents(); uc.publisher != nil && len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			uc.logger.WarnContext(ctx, "failed to publish prediction events",
				slog.String("loan_id", prediction.LoanID()),
				slog.String("error", err.Error()),
			)
		}
	}

	uc.metrics.latency.Record(ctx, time.Since(start).Seconds())
	uc.logger.InfoContext(ctx, "loan application scored",
		slog.String("loan_id", prediction.LoanID()),
		slog.String("prediction_id", prediction.ID().String()),
		slog.Int("prediction", class.Int()),
		slog.Float64("probability", prediction.Probability()),
	)

	return dto.PredictLoanResponse{
		Prediction:  class.Int(),
		Probability: prediction.Probability(),
	}, nil
}
