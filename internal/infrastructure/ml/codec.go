package ml

import (
	"encoding/json"
	"fmt"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
)

// Encode returns the persisted kind and JSON payload of a classifier.
func Encode(c port.Classifier) (string, json.RawMessage, error) {
	switch m := c.(type) {
	case *LogisticRegression:
		raw, err := json.Marshal(m)
		if err != nil {
			return "", nil, fmt.Errorf("encode %s: %w", KindLogisticRegression, err)
		}
		return KindLogisticRegression, raw, nil
	default:
		return "", nil, fmt.Errorf("encode: unsupported classifier %T", c)
	}
}

// Decode rebuilds a classifier from its kind and JSON payload.
func Decode(kind string, raw json.RawMessage) (port.Classifier, error) {
	switch kind {
	case KindLogisticRegression:
		var m LogisticRegression
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		return &m, nil
	default:
		return nil, fmt.Errorf("decode: unknown model kind %q", kind)
	}
}
