package model

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/event"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/valueobject"
	"github.com/AliSleiman0/loan-default-predictor/pkg/events"
)

// Prediction is the outcome of scoring one application.
type Prediction struct {
	events.EventCollector
	createdAt   time.Time
	loanID      string
	fingerprint string
	class       valueobject.PredictedClass
	threshold   valueobject.Threshold
	probability float64
	id          uuid.UUID
}

// NewPrediction classifies probability against threshold and records a
// PredictionMade event.
func NewPrediction(loanID string, probability float64, threshold valueobject.Threshold, fingerprint string) (*Prediction, error) {
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return nil, errors.New("probability must be within [0, 1]")
	}

	p := &Prediction{
		id:          uuid.New(),
		loanID:      loanID,
		probability: probability,
		threshold:   threshold,
		class:       threshold.Classify(probability),
		fingerprint: fingerprint,
		createdAt:   time.Now().UTC(),
	}

	p.Record(event.NewPredictionMade(p.id, loanID, p.class.Int(), probability, threshold.Value(), fingerprint))
	return p, nil
}

func (p *Prediction) ID() uuid.UUID                     { return p.id }
func (p *Prediction) LoanID() string                    { return p.loanID }
func (p *Prediction) Class() valueobject.PredictedClass { return p.class }
func (p *Prediction) Probability() float64              { return p.probability }
func (p *Prediction) Threshold() valueobject.Threshold  { return p.threshold }
func (p *Prediction) ModelFingerprint() string          { return p.fingerprint }
func (p *Prediction) CreatedAt() time.Time              { return p.createdAt }
