package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/valueobject"
)

// ErrArtifactMismatch means a classifier and a feature contract do not belong
// together.
var ErrArtifactMismatch = errors.New("model artifact mismatch")

// Predictor scores single applications against a trained bundle. It is
// immutable after construction and safe for concurrent use.
type Predictor struct {
	classifier  port.Classifier
	contract    model.FeatureContract
	threshold   valueobject.Threshold
	transformer *Transformer
	reconciler  *Reconciler
	fingerprint string
}

// NewPredictor pairs a classifier with its contract, refusing pairs whose
// widths differ.
func NewPredictor(classifier port.Classifier, contract model.FeatureContract, threshold valueobject.Threshold) (*Predictor, error) {
	if classifier == nil {
		return nil, fmt.Errorf("%w: no classifier", ErrArtifactMismatch)
	}
	if err := contract.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactMismatch, err)
	}
	if classifier.NumFeatures() != contract.Columns.Len() {
		return nil, fmt.Errorf("%w: model expects %d features, contract lists %d",
			ErrArtifactMismatch, classifier.NumFeatures(), contract.Columns.Len())
	}

	return &Predictor{
		classifier:  classifier,
		contract:    contract,
		threshold:   threshold,
		transformer: NewTransformer(WithStatistics(contract.Statistics)),
		reconciler:  NewReconciler(),
		fingerprint: contract.Columns.Fingerprint(),
	}, nil
}

// Features runs the inference feature path and returns the aligned row.
func (p *Predictor) Features(app model.LoanApplication) (model.FeatureBatch, error) {
	batch, _, err := p.transformer.Transform([]model.LoanApplication{app})
	if err != nil {
		return model.FeatureBatch{}, fmt.Errorf("transform application: %w", err)
	}

	batch = batch.Drop(model.ColLoanID, model.ColLoanStatus)
	batch, err = ExpandCategoricals(batch, p.contract.Encodings)
	if err != nil {
		return model.FeatureBatch{}, fmt.Errorf("expand categoricals: %w", err)
	}

	return p.reconciler.Align(batch, p.contract.Columns)
}

// Predict scores app. A probability equal to the threshold is approved.
func (p *Predictor) Predict(ctx context.Context, app model.LoanApplication) (*model.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	aligned, err := p.Features(app)
	if err != nil {
		return nil, err
	}

	rows, err := aligned.Matrix()
	if err != nil {
		return nil, fmt.Errorf("build feature matrix: %w", err)
	}

	probs, err := p.classifier.PredictProba(rows)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	if len(probs) != 1 || math.IsNaN(probs[0]) {
		return nil, fmt.Errorf("classifier returned %d usable probabilities for 1 row", len(probs))
	}

	return model.NewPrediction(app.LoanID, probs[0], p.threshold, p.fingerprint)
}

// Contract returns the feature contract the predictor applies.
func (p *Predictor) Contract() model.FeatureContract { return p.contract }

// Threshold returns the decision threshold.
func (p *Predictor) Threshold() valueobject.Threshold { return p.threshold }

// Fingerprint identifies the canonical column list in use.
func (p *Predictor) Fingerprint() string { return p.fingerprint }
