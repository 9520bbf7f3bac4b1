// Command trainer fits the loan approval model from a labelled CSV and writes
// the artifact bundle approvald serves. With -schedule it retrains on a cron
// schedule until interrupted.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/AliSleiman0/loan-default-predictor/internal/application/dto"
	"github.com/AliSleiman0/loan-default-predictor/internal/application/usecase"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/artifact"
	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/config"
	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/dataset"
	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/kafka"
	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/ml"
	pgrepo "github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/postgres"
	pkgkafka "github.com/AliSleiman0/loan-default-predictor/pkg/kafka"
	"github.com/AliSleiman0/loan-default-predictor/pkg/observability"
	pkgpostgres "github.com/AliSleiman0/loan-default-predictor/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "", "training config YAML (defaults built in)")
	dataPath := flag.String("data", "", "training CSV, overrides the config")
	outPath := flag.String("out", "", "artifact path, overrides the config")
	schedule := flag.String("schedule", "", "cron expression for periodic retraining, overrides the config")
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	serving := config.Load()
	logger := observability.InitLogger(observability.LogConfig{
		Level:   serving.Log.Level,
		Format:  serving.Log.Format,
		Service: "loan-trainer",
	})

	trainCfg, err := config.LoadTrainingConfig(*configPath)
	if err != nil {
		logger.Error("invalid training configuration", "error", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		trainCfg.DataPath = *dataPath
	}
	if *outPath != "" {
		trainCfg.ArtifactPath = *outPath
	}
	if *schedule != "" {
		trainCfg.Schedule = *schedule
	}

	if err := run(ctx, serving, trainCfg, logger); err != nil {
		logger.Error("trainer failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, serving config.Config, cfg config.TrainingConfig, logger *slog.Logger) error {
	if serving.Tracing.Endpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: "loan-trainer",
			Endpoint:    serving.Tracing.Endpoint,
			Insecure:    serving.Tracing.Insecure,
			SampleRatio: serving.Tracing.SampleRatio,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	grid, err := ml.NewGridSearch(ml.GridConfig{
		Cs:        cfg.Grid.C,
		Penalties: cfg.Grid.Penalties,
		Folds:     cfg.CVFolds,
		Seed:      cfg.RandomState,
		Workers:   cfg.Workers,
		Solver:    ml.SolverConfig{MaxIter: cfg.MaxIter, Tolerance: cfg.Tolerance},
	}, logger)
	if err != nil {
		return err
	}

	var runs port.TrainingRunRepository
	if serving.DB.Enabled() {
		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := pkgpostgres.NewPool(dbCtx, serving.DB)
		dbCancel()
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		if err := pkgpostgres.RunMigrations(serving.DB.DSN(), pgrepo.Migrations, pgrepo.MigrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		runs = pgrepo.NewTrainingRunRepository(pool)
	}

	var publisher port.EventPublisher
	if serving.Kafka.Enabled() {
		producer := pkgkafka.NewProducer(serving.Kafka.Config)
		defer producer.Close()
		publisher = kafka.NewPublisher(producer, serving.Kafka.TrainingTopic, logger)
	}

	train := usecase.NewTrainModel(
		dataset.NewCSVLoader(logger),
		grid,
		artifact.NewFileStore(cfg.ArtifactPath, logger),
		runs,
		publisher,
		usecase.TrainOptions{TestSize: cfg.TestSize, Seed: cfg.RandomState},
		logger,
	)
	req := dto.TrainModelRequest{DataPath: cfg.DataPath}

	if strings.TrimSpace(cfg.Schedule) == "" {
		resp, err := train.Execute(ctx, req)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return runScheduled(ctx, cfg.Schedule, train, req, logger)
}

// runScheduled retrains at every tick of the 5-field cron expression. A
// failed run is logged and the previous artifact stays in place.
func runScheduled(ctx context.Context, expr string, train *usecase.TrainModel, req dto.TrainModelRequest, logger *slog.Logger) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	logger.Info("retraining scheduled", "cron", expr)

	for {
		now := time.Now()
		next := sched.Next(now)
		logger.Info("next training run", "at", next.Format(time.RFC3339), "in", next.Sub(now).Round(time.Second))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("scheduler stopped")
			return nil
		case <-timer.C:
		}

		resp, err := train.Execute(ctx, req)
		if err != nil {
			logger.Error("scheduled training failed", "error", err)
			continue
		}
		logger.Info("scheduled training complete",
			"run_id", resp.RunID.String(),
			"validation_auc", resp.ValidationAUC,
			"artifact_hash", resp.ArtifactHash,
		)
	}
}
