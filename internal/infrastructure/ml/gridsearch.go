package ml

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/service"
)

// GridConfig describes the hyper-parameter grid and the cross-validation
// scheme.
type GridConfig struct {
	Cs        []float64
	Penalties []string
	Folds     int
	Seed      uint64
	// Workers caps concurrent fits. Zero means GOMAXPROCS.
	Workers int
	Solver  SolverConfig
}

// DefaultGridConfig is C {0.1, 1, 10} x {l1, l2} with five folds.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Cs:        []float64{0.1, 1, 10},
		Penalties: []string{PenaltyL1, PenaltyL2},
		Folds:     5,
		Seed:      42,
		Solver:    DefaultSolverConfig(),
	}
}

// GridSearch implements port.ModelTrainer with stratified k-fold
// cross-validation scored by ROC AUC.
type GridSearch struct {
	cfg    GridConfig
	logger *slog.Logger
}

// NewGridSearch validates cfg and builds a GridSearch.
func NewGridSearch(cfg GridConfig, logger *slog.Logger) (*GridSearch, error) {
	if len(cfg.Cs) == 0 || len(cfg.Penalties) == 0 {
		return nil, errors.New("grid search: empty grid")
	}
	if cfg.Folds < 2 {
		return nil, fmt.Errorf("grid search: need at least 2 folds, got %d", cfg.Folds)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Solver.MaxIter <= 0 {
		cfg.Solver = DefaultSolverConfig()
	}
	return &GridSearch{cfg: cfg, logger: logger}, nil
}

// Candidates lists the grid in evaluation order.
func (g *GridSearch) Candidates() []model.HyperParams {
	out := make([]model.HyperParams, 0, len(g.cfg.Cs)*len(g.cfg.Penalties))
	for _, c := range g.cfg.Cs {
		for _, p := range g.cfg.Penalties {
			out = append(out, model.HyperParams{C: c, Penalty: p})
		}
	}
	return out
}

// Train scores every candidate on every fold, picks the best mean AUC
// (earliest candidate on ties) and refits it on all rows.
func (g *GridSearch) Train(ctx context.Context, rows [][]float64, labels []int) (port.FitResult, error) {
	folds, err := service.StratifiedKFold(labels, g.cfg.Folds, g.cfg.Seed)
	if err != nil {
		return port.FitResult{}, fmt.Errorf("grid search: %w", err)
	}

	candidates := g.Candidates()
	scores := make([][]float64, len(candidates))
	for i := range scores {
		scores[i] = make([]float64, len(folds))
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for ci, params := range candidates {
		for fi, fold := range folds {
			eg.Go(func() error {
				auc, err := g.score(egCtx, rows, labels, fold, params)
				if err != nil {
					return fmt.Errorf("candidate C=%v penalty=%s fold %d: %w", params.C, params.Penalty, fi, err)
				}
				scores[ci][fi] = auc
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return port.FitResult{}, fmt.Errorf("grid search: %w", err)
	}

	best, bestScore := -1, -1.0
	for ci, params := range candidates {
		mean := meanOf(scores[ci])
		g.logger.DebugContext(ctx, "grid candidate scored",
			slog.Float64("C", params.C),
			slog.String("penalty", params.Penalty),
			slog.Float64("mean_auc", mean),
		)
		if mean > bestScore {
			best, bestScore = ci, mean
		}
	}

	fitted, err := FitLogistic(ctx, rows, labels, candidates[best], g.cfg.Solver)
	if err != nil {
		return port.FitResult{}, fmt.Errorf("grid search: refit best: %w", err)
	}

	g.logger.InfoContext(ctx, "grid search complete",
		slog.Float64("best_C", candidates[best].C),
		slog.String("best_penalty", candidates[best].Penalty),
		slog.Float64("cv_auc", bestScore),
		slog.Int("candidates", len(candidates)),
		slog.Int("folds", len(folds)),
	)
	return port.FitResult{Model: fitted, Params: candidates[best], CVScore: bestScore}, nil
}

func (g *GridSearch) score(ctx context.Context, rows [][]float64, labels []int, validation []int, params model.HyperParams) (float64, error) {
	trainIdx := service.Complement(len(rows), validation)
	trainRows, trainLabels := subset(rows, labels, trainIdx)
	valRows, valLabels := subset(rows, labels, validation)

	m, err := FitLogistic(ctx, trainRows, trainLabels, params, g.cfg.Solver)
	if err != nil {
		return 0, err
	}
	probs, err := m.PredictProba(valRows)
	if err != nil {
		return 0, err
	}
	return service.ROCAUC(valLabels, probs)
}

func subset(rows [][]float64, labels []int, idx []int) ([][]float64, []int) {
	r := make([][]float64, len(idx))
	l := make([]int, len(idx))
	for i, j := range idx {
		r[i] = rows[j]
		l[i] = labels[j]
	}
	return r, l
}

func meanOf(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
