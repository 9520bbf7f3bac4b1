// Package artifact persists trained model bundles as a single hashed JSON
// file.
package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/service"
	"github.com/AliSleiman0/loan-default-predictor/internal/infrastructure/ml"
	"github.com/AliSleiman0/loan-default-predictor/pkg/checksum"
)

// SchemaVersion is the bundle layout version written by this package.
const SchemaVersion = 1

var (
	// ErrArtifactCorrupt means the bundle cannot be parsed or its content
	// hash does not match.
	ErrArtifactCorrupt = errors.New("model artifact corrupt")
	// ErrArtifactNotFound means no bundle exists at the configured path.
	ErrArtifactNotFound = errors.New("model artifact not found")
)

type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Kind          string          `json:"kind"`
	CreatedAt     time.Time       `json:"created_at"`
	RunID         uuid.UUID       `json:"run_id"`
	Contract      json.RawMessage `json:"contract"`
	Model         json.RawMessage `json:"model"`
	ContentHash   string          `json:"content_hash"`
}

// FileStore implements port.ArtifactStore on the local filesystem.
type FileStore struct {
	path   string
	logger *slog.Logger
}

var _ port.ArtifactStore = (*FileStore)(nil)

// NewFileStore creates a store for the bundle at path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Location returns the bundle path.
func (s *FileStore) Location() string { return s.path }

// Save writes bundle atomically and returns it with Hash set.
func (s *FileStore) Save(ctx context.Context, bundle port.Bundle) (port.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return port.Bundle{}, err
	}
	if err := bundle.Contract.Validate(); err != nil {
		return port.Bundle{}, fmt.Errorf("save artifact: %w", err)
	}
	if bundle.Model == nil || bundle.Model.NumFeatures() != bundle.Contract.Columns.Len() {
		return port.Bundle{}, fmt.Errorf("save artifact: %w", service.ErrArtifactMismatch)
	}

	kind, modelJSON, err := ml.Encode(bundle.Model)
	if err != nil {
		return port.Bundle{}, fmt.Errorf("save artifact: %w", err)
	}
	contractJSON, err := json.Marshal(bundle.Contract)
	if err != nil {
		return port.Bundle{}, fmt.Errorf("save artifact: encode contract: %w", err)
	}

	bundle.Hash = checksum.SHA256Hex(contractJSON, modelJSON)
	env := envelope{
		SchemaVersion: SchemaVersion,
		Kind:          kind,
		CreatedAt:     time.Now().UTC(),
		RunID:         bundle.RunID,
		Contract:      contractJSON,
		Model:         modelJSON,
		ContentHash:   bundle.Hash,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return port.Bundle{}, fmt.Errorf("save artifact: %w", err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		return port.Bundle{}, fmt.Errorf("save artifact: %w", err)
	}

	s.logger.InfoContext(ctx, "model artifact saved",
		slog.String("path", s.path),
		slog.String("run_id", bundle.RunID.String()),
		slog.String("content_hash", bundle.Hash),
		slog.Int("features", bundle.Contract.Columns.Len()),
	)
	return bundle, nil
}

// Load reads and verifies the bundle. A hash mismatch or unparsable file is
// ErrArtifactCorrupt; a model whose width differs from the contract is
// service.ErrArtifactMismatch.
func (s *FileStore) Load(ctx context.Context) (port.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return port.Bundle{}, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return port.Bundle{}, fmt.Errorf("%w: %s", ErrArtifactNotFound, s.path)
	}
	if err != nil {
		return port.Bundle{}, fmt.Errorf("load artifact: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return port.Bundle{}, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	if env.SchemaVersion != SchemaVersion {
		return port.Bundle{}, fmt.Errorf("%w: unsupported schema version %d", ErrArtifactCorrupt, env.SchemaVersion)
	}
	// The file is indented; the hash covers the compact encodings.
	contractJSON, err := compact(env.Contract)
	if err != nil {
		return port.Bundle{}, fmt.Errorf("%w: contract: %v", ErrArtifactCorrupt, err)
	}
	modelJSON, err := compact(env.Model)
	if err != nil {
		return port.Bundle{}, fmt.Errorf("%w: model: %v", ErrArtifactCorrupt, err)
	}
	if got := checksum.SHA256Hex(contractJSON, modelJSON); got != env.ContentHash {
		return port.Bundle{}, fmt.Errorf("%w: content hash %s does not match recorded %s", ErrArtifactCorrupt, got, env.ContentHash)
	}

	var contract model.FeatureContract
	if err := json.Unmarshal(contractJSON, &contract); err != nil {
		return port.Bundle{}, fmt.Errorf("%w: contract: %v", ErrArtifactCorrupt, err)
	}
	if err := contract.Validate(); err != nil {
		return port.Bundle{}, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	clf, err := ml.Decode(env.Kind, modelJSON)
	if err != nil {
		return port.Bundle{}, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	if clf.NumFeatures() != contract.Columns.Len() {
		return port.Bundle{}, fmt.Errorf("%w: model has %d features, contract lists %d",
			service.ErrArtifactMismatch, clf.NumFeatures(), contract.Columns.Len())
	}

	s.logger.InfoContext(ctx, "model artifact loaded",
		slog.String("path", s.path),
		slog.String("run_id", env.RunID.String()),
		slog.String("content_hash", env.ContentHash),
		slog.Time("created_at", env.CreatedAt),
	)
	return port.Bundle{RunID: env.RunID, Contract: contract, Model: clf, Hash: env.ContentHash}, nil
}

func compact(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing section")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
