package service

import (
	"fmt"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
)

// SchemaError reports a feature column that cannot be fed to the model.
// It indicates a bug or a corrupt artifact, never bad client input.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: column %q %s", e.Column, e.Reason)
}

// Reconciler aligns a batch to a canonical column list.
type Reconciler struct{}

// NewReconciler creates a Reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Align returns a batch whose columns are exactly canonical, in canonical
// order. Missing columns are added as zeros and extra columns are dropped.
// A shared column that is text or holds NaN/Inf yields a *SchemaError.
// Align is idempotent.
func (r *Reconciler) Align(batch model.FeatureBatch, canonical model.CanonicalColumns) (model.FeatureBatch, error) {
	names := canonical.Names()
	cols := make([]model.Column, 0, len(names))

	for _, name := range names {
		col, ok := batch.Column(name)
		if !ok {
			cols = append(cols, model.NumericColumn(name, make([]float64, batch.Len())))
			continue
		}
		if col.Kind != model.KindNumeric {
			return model.FeatureBatch{}, &SchemaError{Column: name, Reason: "is not numeric"}
		}
		if col.HasNonFinite() {
			return model.FeatureBatch{}, &SchemaError{Column: name, Reason: "contains NaN or infinite values"}
		}
		cols = append(cols, col)
	}

	return model.NewFeatureBatch(batch.Len(), cols...)
}
