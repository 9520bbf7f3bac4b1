package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	"github.com/AliSleiman0/loan-default-predictor/pkg/events"
)

type mockPredictionRepository struct{ mock.Mock }

func (m *mockPredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	return m.Called(ctx, p).Error(0)
}

type mockTrainingRunRepository struct{ mock.Mock }

func (m *mockTrainingRunRepository) Save(ctx context.Context, run *model.TrainingRun) error {
	return m.Called(ctx, run).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	return m.Called(ctx, evts).Error(0)
}

type mockLoader struct{ mock.Mock }

func (m *mockLoader) Load(ctx context.Context, path string) (model.Dataset, error) {
	args := m.Called(ctx, path)
	ds, _ := args.Get(0).(model.Dataset)
	return ds, args.Error(1)
}

type mockTrainer struct{ mock.Mock }

func (m *mockTrainer) Train(ctx context.Context, rows [][]float64, labels []int) (port.FitResult, error) {
	args := m.Called(ctx, rows, labels)
	res, _ := args.Get(0).(port.FitResult)
	return res, args.Error(1)
}

// fixedClassifier returns the same probability for every row.
type fixedClassifier struct {
	prob  float64
	width int
}

func (c fixedClassifier) PredictProba(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i := range out {
		out[i] = c.prob
	}
	return out, nil
}

func (c fixedClassifier) NumFeatures() int { return c.width }
