package valueobject

import (
	"fmt"
	"math"
)

// DefaultThreshold is the decision cut-off used when none is configured.
const DefaultThreshold = 0.5

// Threshold is the probability at or above which an application is
// predicted approved.
type Threshold struct {
	value float64
}

// NewThreshold validates that v lies in [0,1].
func NewThreshold(v float64) (Threshold, error) {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return Threshold{}, fmt.Errorf("threshold must be within [0, 1], got %v", v)
	}
	return Threshold{value: v}, nil
}

// MustThreshold is NewThreshold for constants; it panics on invalid input.
func MustThreshold(v float64) Threshold {
	t, err := NewThreshold(v)
	if err != nil {
		panic(err)
	}
	return t
}

// Value returns the raw cut-off.
func (t Threshold) Value() float64 {
	return t.value
}

// Classify maps a positive-class probability to a class. The comparison is
// inclusive: a probability equal to the threshold is approved.
func (t Threshold) Classify(probability float64) PredictedClass {
	if probability >= t.value {
		return ClassApproved
	}
	return ClassRejected
}
