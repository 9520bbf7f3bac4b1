// Command approvald serves loan approval predictions over HTTP and gRPC
// from a trained model artifact.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/AliSleiman0/loan-default-predictor/internal/application/usecase"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/service"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/valueobject"
	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/artifact"
	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/config"
	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/kafka"
	pgrepo "github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/postgres"
	grpcPresentation "github.com/AliSleiman0/loan-default-predictor/internal/presentation/grpc"
	"github.com/AliSleiman0/loan-default-predictor/internal/presentation/rest"
	"github.com/AliSleiman0/loan-default-predictor/pkg/auth"
	pkgkafka "github.com/AliSleiman0/loan-default-predictor/pkg/kafka"
	"github.com/AliSleiman0/loan-default-predictor/pkg/observability"
	pkgpostgres "github.com/AliSleiman0/loan-default-predictor/pkg/postgres"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("approvald failed", "error", err)
		os.Exit(1)
	}
	logger.Info("approvald stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Info("starting approvald",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"artifact", cfg.ArtifactPath,
		"threshold", cfg.Threshold,
	)

	if cfg.Tracing.Endpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("initialize metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck

	// The artifact is loaded once; the predictor is shared read-only.
	bundle, err := artifact.NewFileStore(cfg.ArtifactPath, logger).Load(ctx)
	if err != nil {
		return fmt.Errorf("load model artifact: %w", err)
	}
	predictor, err := service.NewPredictor(bundle.Model, bundle.Contract, valueobject.MustThreshold(cfg.Threshold))
	if err != nil {
		return fmt.Errorf("build predictor: %w", err)
	}
	logger.Info("model artifact loaded",
		"run_id", bundle.RunID.String(),
		"content_hash", bundle.Hash,
		"features", bundle.Contract.Columns.Len(),
		"fingerprint", predictor.Fingerprint(),
	)

	checks := map[string]rest.ReadinessCheck{}

	var repo port.PredictionRepository
	if cfg.DB.Enabled() {
		pool, err := openDatabase(ctx, cfg.DB, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		repo = pgrepo.NewPredictionRepository(pool)
		checks["postgres"] = func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) }
	} else {
		logger.Info("DB_HOST not set, prediction audit disabled")
	}

	var publisher port.EventPublisher
	if cfg.Kafka.Enabled() {
		producer := pkgkafka.NewProducer(cfg.Kafka.Config)
		defer producer.Close()
		publisher = kafka.NewPublisher(producer, cfg.Kafka.PredictionTopic, logger)
	} else {
		logger.Info("KAFKA_BROKERS not set, prediction events disabled")
	}

	predictUC, err := usecase.NewPredictLoanStatus(predictor, repo, publisher, logger)
	if err != nil {
		return err
	}

	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		return err
	}
	grpcServer, err := grpcPresentation.NewServer(
		grpcPresentation.NewLoanPredictionHandler(predictUC, jwtSvc != nil, logger),
		grpcPresentation.ServerOptions{
			ServiceName:     cfg.ServiceName,
			TLSCertFile:     cfg.GRPC.TLSCertFile,
			TLSKeyFile:      cfg.GRPC.TLSKeyFile,
			TLSClientCAFile: cfg.GRPC.TLSClientCAFile,
			Reflection:      cfg.GRPC.Reflection,
			JWT:             jwtSvc,
		},
		logger,
	)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Predict:     rest.NewPredictHandler(predictUC, logger),
			Health:      rest.NewHealthHandler(cfg.ServiceName, checks, logger),
			Metrics:     metricsHandler,
			CORSOrigins: cfg.CORSOrigins,
			Limiter:     rest.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
			Logger:      logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		if err := grpcServer.ListenAndServe(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
	}

	grpcServer.GracefulStop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	return serveErr
}

func openDatabase(ctx context.Context, cfg pkgpostgres.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pkgpostgres.RunMigrations(cfg.DSN(), pgrepo.Migrations, pgrepo.MigrationsDir); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("connected to database", "host", cfg.Host, "database", cfg.Database)
	return pool, nil
}

// newJWTService returns nil when no verification key is configured.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	if !cfg.AuthEnabled() {
		return nil, nil
	}

	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer}
	switch {
	case cfg.PublicKeyPEM != "":
		jwtCfg.PublicKeyPEM = cfg.PublicKeyPEM
	case cfg.PublicKeyFile != "":
		key, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(key)
	default:
		jwtCfg.Secret = cfg.Secret
	}

	svc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize JWT service: %w", err)
	}
	return svc, nil
}
