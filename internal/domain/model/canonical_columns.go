package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/AliSleiman0/loan-default-predictor/pkg/checksum"
)

// CanonicalColumns is the ordered feature list captured at training time.
// It is the single source of truth for inference-time alignment.
type CanonicalColumns struct {
	names []string
}

// NewCanonicalColumns rejects empty lists, blank names and duplicates.
func NewCanonicalColumns(names []string) (CanonicalColumns, error) {
	if len(names) == 0 {
		return CanonicalColumns{}, errors.New("canonical columns must not be empty")
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return CanonicalColumns{}, errors.New("canonical column name must not be empty")
		}
		if _, dup := seen[n]; dup {
			return CanonicalColumns{}, fmt.Errorf("duplicate canonical column %q", n)
		}
		seen[n] = struct{}{}
	}
	return CanonicalColumns{names: slices.Clone(names)}, nil
}

// Names returns a copy of the column names.
func (c CanonicalColumns) Names() []string { return slices.Clone(c.names) }

// Len returns the number of columns.
func (c CanonicalColumns) Len() int { return len(c.names) }

// Fingerprint identifies the exact ordered list.
func (c CanonicalColumns) Fingerprint() string { return checksum.Fingerprint(c.names) }

func (c CanonicalColumns) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.names)
}

func (c *CanonicalColumns) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := NewCanonicalColumns(names)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
