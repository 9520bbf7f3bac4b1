package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults shared by the trainer and the server.
const (
	DefaultDataPath     = "data/raw/loan_train.csv"
	DefaultArtifactPath = "models/loan_model.json"
)

type GridConfig struct {
	C         []float64 `yaml:"C"`
	Penalties []string  `yaml:"penalty"`
}

// TrainingConfig drives cmd/trainer. It is read from YAML and then
// overridden by environment variables.
type TrainingConfig struct {
	DataPath     string     `yaml:"data_path"`
	ArtifactPath string     `yaml:"artifact_path"`
	TestSize     float64    `yaml:"test_size"`
	RandomState  uint64     `yaml:"random_state"`
	CVFolds      int        `yaml:"cv_folds"`
	Workers      int        `yaml:"workers"`
	MaxIter      int        `yaml:"max_iter"`
	Tolerance    float64    `yaml:"tolerance"`
	Grid         GridConfig `yaml:"grid"`
	// Schedule is a cron expression; empty means train once and exit.
	Schedule string `yaml:"schedule"`
}

// DefaultTrainingConfig reproduces the reference training setup.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		DataPath:     DefaultDataPath,
		ArtifactPath: DefaultArtifactPath,
		TestSize:     0.2,
		RandomState:  42,
		CVFolds:      5,
		MaxIter:      1000,
		Tolerance:    1e-6,
		Grid: GridConfig{
			C:         []float64{0.1, 1, 10},
			Penalties: []string{"l1", "l2"},
		},
	}
}

// LoadTrainingConfig starts from the defaults, applies the YAML file at path
// when path is non-empty, then the TRAINING_* environment overrides.
func LoadTrainingConfig(path string) (TrainingConfig, error) {
	cfg := DefaultTrainingConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return TrainingConfig{}, fmt.Errorf("read training config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return TrainingConfig{}, fmt.Errorf("parse training config %s: %w", path, err)
		}
	}

	envOverride(&cfg.DataPath, "TRAINING_DATA_PATH")
	envOverride(&cfg.ArtifactPath, "ARTIFACT_PATH")
	envOverride(&cfg.Schedule, "TRAINING_SCHEDULE")
	if v := os.Getenv("TRAINING_TEST_SIZE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return TrainingConfig{}, fmt.Errorf("TRAINING_TEST_SIZE: %w", err)
		}
		cfg.TestSize = f
	}
	if v := os.Getenv("TRAINING_RANDOM_STATE"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return TrainingConfig{}, fmt.Errorf("TRAINING_RANDOM_STATE: %w", err)
		}
		cfg.RandomState = n
	}
	cfg.Workers = getEnvInt("TRAINING_WORKERS", cfg.Workers)

	return cfg, cfg.Validate()
}

// Validate checks ranges.
func (c TrainingConfig) Validate() error {
	switch {
	case c.DataPath == "":
		return errors.New("training: data_path is required")
	case c.ArtifactPath == "":
		return errors.New("training: artifact_path is required")
	case c.TestSize <= 0 || c.TestSize >= 1:
		return fmt.Errorf("training: test_size must be within (0, 1), got %v", c.TestSize)
	case c.CVFolds < 2:
		return fmt.Errorf("training: cv_folds must be at least 2, got %d", c.CVFolds)
	case len(c.Grid.C) == 0 || len(c.Grid.Penalties) == 0:
		return errors.New("training: grid must list at least one C and one penalty")
	}
	for _, cv := range c.Grid.C {
		if cv <= 0 {
			return fmt.Errorf("training: grid C values must be positive, got %v", cv)
		}
	}
	for _, p := range c.Grid.Penalties {
		if p != "l1" && p != "l2" {
			return fmt.Errorf("training: unsupported penalty %q", p)
		}
	}
	return nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
