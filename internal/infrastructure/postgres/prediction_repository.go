package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	pkgpostgres "github.com/AliSleiman0/loan-default-predictor/pkg/postgres"
)

// PredictionRepository implements port.PredictionRepository using PostgreSQL.
type PredictionRepository struct {
	db pkgpostgres.Querier
}

var _ port.PredictionRepository = (*PredictionRepository)(nil)

// NewPredictionRepository creates a new PostgreSQL-backed prediction repository.
func NewPredictionRepository(db pkgpostgres.Querier) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Save records a served prediction. Saving the same prediction twice is a
// no-op.
func (r *PredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	query := `
		INSERT INTO loan_predictions (
			id, loan_id, predicted_class, probability,
			threshold, model_fingerprint, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		p.ID(),
		p.LoanID(),
		p.Class().Int(),
		decimal.NewFromFloat(p.Probability()),
		decimal.NewFromFloat(p.Threshold().Value()),
		p.ModelFingerprint(),
		p.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}
