package ml

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
)

// KindLogisticRegression identifies LogisticRegression in persisted bundles.
const KindLogisticRegression = "logistic_regression"

// Penalties accepted by LogisticRegression.
const (
	PenaltyL1 = "l1"
	PenaltyL2 = "l2"
)

// SolverConfig bounds the optimiser.
type SolverConfig struct {
	MaxIter   int
	Tolerance float64
}

// DefaultSolverConfig mirrors the usual liblinear limits.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{MaxIter: 1000, Tolerance: 1e-6}
}

// LogisticRegression is a binary classifier over standardized features.
// C is the inverse regularisation strength: the objective is
// C*sum(logloss) + penalty(w), with the intercept never penalised.
type LogisticRegression struct {
	Scaler    StandardScaler `json:"scaler"`
	Weights   []float64      `json:"weights"`
	Intercept float64        `json:"intercept"`
	C         float64        `json:"c"`
	Penalty   string         `json:"penalty"`
	Iter      int            `json:"iterations"`
}

// FitLogistic trains a model by proximal gradient descent on rows and 0/1
// labels. L2 uses a plain gradient step; L1 applies soft thresholding.
func FitLogistic(ctx context.Context, rows [][]float64, labels []int, params model.HyperParams, cfg SolverConfig) (*LogisticRegression, error) {
	if len(rows) == 0 {
		return nil, errors.New("logistic: no rows")
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("logistic: %d rows for %d labels", len(rows), len(labels))
	}
	if params.C <= 0 || math.IsNaN(params.C) {
		return nil, fmt.Errorf("logistic: C must be positive, got %v", params.C)
	}
	if params.Penalty != PenaltyL1 && params.Penalty != PenaltyL2 {
		return nil, fmt.Errorf("logistic: unsupported penalty %q", params.Penalty)
	}

	for i, r := range rows {
		if len(r) != len(rows[0]) {
			return nil, fmt.Errorf("logistic: row %d has %d features, want %d", i, len(r), len(rows[0]))
		}
	}

	scaler, err := FitScaler(rows)
	if err != nil {
		return nil, err
	}
	n, d := len(rows), scaler.Width()
	x := mat.NewDense(n, d, nil)
	for i, r := range scaler.Transform(rows) {
		x.SetRow(i, r)
	}
	y := make([]float64, n)
	for i, l := range labels {
		y[i] = float64(l)
	}

	// The loss is averaged over n, so the penalty weight becomes 1/(C*n).
	// Standardized columns bound the Lipschitz constant by (d+1)/4.
	lambda := 1 / (params.C * float64(n))
	lipschitz := 0.25 * float64(d+1)
	if params.Penalty == PenaltyL2 {
		lipschitz += lambda
	}
	step := 1 / lipschitz

	w := mat.NewVecDense(d, nil)
	var b float64
	z := mat.NewVecDense(n, nil)
	resid := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(d, nil)
	prev := make([]float64, d)

	lr := &LogisticRegression{Scaler: scaler, C: params.C, Penalty: params.Penalty}
	for iter := 1; iter <= cfg.MaxIter; iter++ {
		if iter%50 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		z.MulVec(x, w)
		var gradB float64
		for i := 0; i < n; i++ {
			r := sigmoid(z.AtVec(i)+b) - y[i]
			resid.SetVec(i, r)
			gradB += r
		}
		grad.MulVec(x.T(), resid)
		grad.ScaleVec(1/float64(n), grad)
		gradB /= float64(n)

		copy(prev, w.RawVector().Data)
		if params.Penalty == PenaltyL2 {
			grad.AddScaledVec(grad, lambda, w)
		}
		w.AddScaledVec(w, -step, grad)
		b -= step * gradB
		if params.Penalty == PenaltyL1 {
			softThreshold(w.RawVector().Data, step*lambda)
		}

		lr.Iter = iter
		if floats.Distance(prev, w.RawVector().Data, math.Inf(1)) < cfg.Tolerance && math.Abs(step*gradB) < cfg.Tolerance {
			break
		}
	}

	lr.Weights = append([]float64(nil), w.RawVector().Data...)
	lr.Intercept = b
	return lr, nil
}

// NumFeatures returns the width the model was fitted on.
func (m *LogisticRegression) NumFeatures() int { return len(m.Weights) }

// Kind returns the persisted model kind.
func (m *LogisticRegression) Kind() string { return KindLogisticRegression }

// PredictProba returns the approved-class probability per row.
func (m *LogisticRegression) PredictProba(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, r := range rows {
		if len(r) != len(m.Weights) {
			return nil, fmt.Errorf("logistic: row %d has %d features, model expects %d", i, len(r), len(m.Weights))
		}
		var z float64
		for j, v := range r {
			z += (v - m.Scaler.Mean[j]) / m.Scaler.Scale[j] * m.Weights[j]
		}
		out[i] = sigmoid(z + m.Intercept)
	}
	return out, nil
}

// Validate checks that a decoded model is usable.
func (m *LogisticRegression) Validate() error {
	d := len(m.Weights)
	if d == 0 {
		return errors.New("logistic: no weights")
	}
	if len(m.Scaler.Mean) != d || len(m.Scaler.Scale) != d {
		return fmt.Errorf("logistic: scaler width %d does not match %d weights", len(m.Scaler.Mean), d)
	}
	for j := 0; j < d; j++ {
		if !finite(m.Weights[j]) || !finite(m.Scaler.Mean[j]) || !finite(m.Scaler.Scale[j]) || m.Scaler.Scale[j] == 0 {
			return fmt.Errorf("logistic: feature %d has non-finite parameters", j)
		}
	}
	if !finite(m.Intercept) {
		return errors.New("logistic: intercept is not finite")
	}
	return nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func softThreshold(w []float64, t float64) {
	for j, v := range w {
		switch {
		case v > t:
			w[j] = v - t
		case v < -t:
			w[j] = v + t
		default:
			w[j] = 0
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
