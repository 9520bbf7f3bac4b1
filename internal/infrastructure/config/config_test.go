package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, 0.5, cfg.Threshold)
	assert.Equal(t, config.DefaultArtifactPath, cfg.ArtifactPath)
	assert.Equal(t, ":8000", cfg.HTTPAddr())
	assert.Equal(t, ":9090", cfg.GRPCAddr())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.DB.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Auth.AuthEnabled())
	assert.False(t, cfg.GRPC.Reflection)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PREDICTION_THRESHOLD", "0.65")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("GRPC_PORT", "not-a-number")

	cfg := config.Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.65, cfg.Threshold)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, ":9090", cfg.GRPCAddr(), "unparsable values fall back")
	assert.True(t, cfg.DB.Enabled())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		msg    string
	}{
		{name: "threshold above one", mutate: func(c *config.Config) { c.Threshold = 1.2 }, msg: "PREDICTION_THRESHOLD"},
		{name: "negative threshold", mutate: func(c *config.Config) { c.Threshold = -0.1 }, msg: "PREDICTION_THRESHOLD"},
		{name: "no artifact path", mutate: func(c *config.Config) { c.ArtifactPath = "" }, msg: "ARTIFACT_PATH"},
		{name: "db without password", mutate: func(c *config.Config) { c.DB.Host = "db"; c.DB.Password = "" }, msg: "DB_PASSWORD"},
		{name: "tls cert without key", mutate: func(c *config.Config) { c.GRPC.TLSCertFile = "cert.pem" }, msg: "GRPC_TLS"},
		{name: "zero rate", mutate: func(c *config.Config) { c.RateLimit.RequestsPerSecond = 0 }, msg: "rate limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Load()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.msg)
		})
	}
}

func TestLoadTrainingConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.LoadTrainingConfig("")
		require.NoError(t, err)
		assert.Equal(t, config.DefaultTrainingConfig(), cfg)
		assert.Equal(t, "data/raw/loan_train.csv", cfg.DataPath)
		assert.Equal(t, uint64(42), cfg.RandomState)
		assert.Equal(t, []float64{0.1, 1, 10}, cfg.Grid.C)
	})

	t.Run("repository file", func(t *testing.T) {
		cfg, err := config.LoadTrainingConfig(filepath.Join("..", "..", "..", "configs", "training.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultTrainingConfig(), cfg)
	})

	t.Run("yaml then env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "training.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
data_path: /data/loans.csv
test_size: 0.25
grid:
  C: [0.5]
  penalty: [l2]
schedule: "0 3 * * 1"
`), 0o600))
		t.Setenv("TRAINING_RANDOM_STATE", "7")
		t.Setenv("ARTIFACT_PATH", "/models/m.json")

		cfg, err := config.LoadTrainingConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/data/loans.csv", cfg.DataPath)
		assert.Equal(t, "/models/m.json", cfg.ArtifactPath)
		assert.Equal(t, 0.25, cfg.TestSize)
		assert.Equal(t, uint64(7), cfg.RandomState)
		assert.Equal(t, []float64{0.5}, cfg.Grid.C)
		assert.Equal(t, []string{"l2"}, cfg.Grid.Penalties)
		assert.Equal(t, 5, cfg.CVFolds, "unset keys keep defaults")
		assert.Equal(t, "0 3 * * 1", cfg.Schedule)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := config.LoadTrainingConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)

		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("grid:\n  penalty: [elasticnet]\n"), 0o600))
		_, err = config.LoadTrainingConfig(bad)
		assert.ErrorContains(t, err, "unsupported penalty")

		t.Setenv("TRAINING_TEST_SIZE", "abc")
		_, err = config.LoadTrainingConfig("")
		assert.ErrorContains(t, err, "TRAINING_TEST_SIZE")
	})
}
