package postgres

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	pkgpostgres "github.com/AliSleiman0/loan-default-predictor/pkg/postgres"
)

// TrainingRunRepository implements port.TrainingRunRepository using PostgreSQL.
type TrainingRunRepository struct {
	db pkgpostgres.TxBeginner
}

var _ port.TrainingRunRepository = (*TrainingRunRepository)(nil)

// NewTrainingRunRepository creates a new PostgreSQL-backed run repository.
func NewTrainingRunRepository(db pkgpostgres.TxBeginner) *TrainingRunRepository {
	return &TrainingRunRepository{db: db}
}

// Save persists a completed run and its per-class metrics in one transaction.
func (r *TrainingRunRepository) Save(ctx context.Context, run *model.TrainingRun) error {
	return pkgpostgres.WithTransaction(ctx, r.db, func(q pkgpostgres.Querier) error {
		best := run.BestParams()
		report := run.Report()

		_, err := q.Exec(ctx, `
			INSERT INTO training_runs (
				id, dataset_path, dataset_hash, row_count, feature_count,
				columns_fingerprint, best_c, best_penalty, cv_auc, validation_auc,
				accuracy, artifact_path, artifact_hash, started_at, completed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`,
			run.ID(),
			run.DatasetPath(),
			run.DatasetHash(),
			run.Rows(),
			run.Features(),
			run.ColumnsFingerprint(),
			decimal.NewFromFloat(best.C),
			best.Penalty,
			decimal.NewFromFloat(run.CVAUC()),
			decimal.NewFromFloat(run.ValidationAUC()),
			decimal.NewFromFloat(report.Accuracy),
			run.ArtifactPath(),
			run.ArtifactHash(),
			run.StartedAt(),
			run.CompletedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to save training run: %w", err)
		}

		classes := make([]string, 0, len(report.Classes))
		for c := range report.Classes {
			classes = append(classes, c)
		}
		slices.Sort(classes)

		for _, c := range classes {
			m := report.Classes[c]
			_, err = q.Exec(ctx,
				`INSERT INTO training_run_class_metrics (run_id, class, precision_score, recall_score, f1_score, support)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				run.ID(), c,
				decimal.NewFromFloat(m.Precision),
				decimal.NewFromFloat(m.Recall),
				decimal.NewFromFloat(m.F1),
				m.Support,
			)
			if err != nil {
				return fmt.Errorf("failed to save class metrics for %s: %w", c, err)
			}
		}
		return nil
	})
}
