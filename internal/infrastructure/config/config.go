package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/valueobject"
	pkgkafka "github.com/AliSleiman0/loan-default-predictor/pkg/kafka"
	pkgpostgres "github.com/AliSleiman0/loan-default-predictor/pkg/postgres"
)

type KafkaConfig struct {
	pkgkafka.Config
	PredictionTopic string
	TrainingTopic   string
}

type LogConfig struct {
	Level  string
	Format string
}

type TracingConfig struct {
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// AuthConfig selects how gRPC bearer tokens are verified. The first of
// PublicKeyPEM, PublicKeyFile and Secret that is set wins.
type AuthConfig struct {
	PublicKeyPEM  string
	PublicKeyFile string
	Secret        string
	Issuer        string
}

// GRPCConfig enables TLS when both files are set.
type GRPCConfig struct {
	TLSCertFile     string
	TLSKeyFile      string
	TLSClientCAFile string
	Reflection      bool
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Config is the serving configuration of approvald.
type Config struct {
	ServiceName     string
	GRPCPort        int
	HTTPPort        int
	ArtifactPath    string
	Threshold       float64
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	DB              pkgpostgres.Config
	Kafka           KafkaConfig
	Log             LogConfig
	Tracing         TracingConfig
	GRPC            GRPCConfig
	Auth            AuthConfig
	RateLimit       RateLimitConfig
}

// Load reads the serving configuration from the environment.
func Load() Config {
	return Config{
		ServiceName:     getEnv("SERVICE_NAME", "loan-approval"),
		GRPCPort:        getEnvInt("GRPC_PORT", 9090),
		HTTPPort:        getEnvInt("HTTP_PORT", 8000),
		ArtifactPath:    getEnv("ARTIFACT_PATH", DefaultArtifactPath),
		Threshold:       getEnvFloat("PREDICTION_THRESHOLD", valueobject.DefaultThreshold),
		CORSOrigins:     getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		DB: pkgpostgres.Config{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "loans"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "loan_approval"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			AppName:  getEnv("DB_APP_NAME", "approvald"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 1)),
		},
		Kafka: KafkaConfig{
			Config: pkgkafka.Config{
				Brokers: getEnvList("KAFKA_BROKERS", nil),
			},
			PredictionTopic: getEnv("KAFKA_PREDICTION_TOPIC", "lending.loan_predictions"),
			TrainingTopic:   getEnv("KAFKA_TRAINING_TOPIC", "lending.model_training"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Tracing: TracingConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    getEnv("OTEL_EXPORTER_OTLP_INSECURE", "true") == "true",
			SampleRatio: getEnvFloat("OTEL_TRACES_SAMPLE_RATIO", 1),
		},
		GRPC: GRPCConfig{
			TLSCertFile:     getEnv("GRPC_TLS_CERT_FILE", ""),
			TLSKeyFile:      getEnv("GRPC_TLS_KEY_FILE", ""),
			TLSClientCAFile: getEnv("GRPC_TLS_CLIENT_CA_FILE", ""),
			Reflection:      getEnv("GRPC_REFLECTION", "false") == "true",
		},
		Auth: AuthConfig{
			PublicKeyPEM:  getEnv("JWT_PUBLIC_KEY", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			Secret:        getEnv("JWT_SECRET", ""),
			Issuer:        getEnv("JWT_ISSUER", "loan-approval"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvFloat("RATE_LIMIT_RPS", 50),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 100),
		},
	}
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	if _, err := valueobject.NewThreshold(c.Threshold); err != nil {
		return fmt.Errorf("PREDICTION_THRESHOLD: %w", err)
	}
	if c.ArtifactPath == "" {
		return fmt.Errorf("ARTIFACT_PATH must not be empty")
	}
	if c.DB.Enabled() && c.DB.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required when DB_HOST is set")
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v rps burst %d", c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
	}
	if (c.GRPC.TLSCertFile == "") != (c.GRPC.TLSKeyFile == "") {
		return fmt.Errorf("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together")
	}
	if c.GRPC.TLSClientCAFile != "" && c.GRPC.TLSCertFile == "" {
		return fmt.Errorf("GRPC_TLS_CLIENT_CA_FILE requires GRPC_TLS_CERT_FILE")
	}
	return nil
}

// AuthEnabled reports whether any JWT verification key is configured.
func (c AuthConfig) AuthEnabled() bool {
	return c.PublicKeyPEM != "" || c.PublicKeyFile != "" || c.Secret != ""
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
