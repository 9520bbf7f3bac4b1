package valueobject

import "fmt"

// PredictedClass is the binary outcome of a prediction.
type PredictedClass struct {
	value int
}

var (
	ClassRejected = PredictedClass{value: 0}
	ClassApproved = PredictedClass{value: 1}
)

// PredictedClassFromInt reconstructs a class from its 0/1 encoding.
func PredictedClassFromInt(v int) (PredictedClass, error) {
	switch v {
	case 0:
		return ClassRejected, nil
	case 1:
		return ClassApproved, nil
	default:
		return PredictedClass{}, fmt.Errorf("invalid predicted class: %d", v)
	}
}

// Int returns 1 for approved and 0 for rejected.
func (c PredictedClass) Int() int {
	return c.value
}

// LoanStatus returns the dataset label for the class ("Y" or "N").
func (c PredictedClass) LoanStatus() string {
	if c.value == 1 {
		return "Y"
	}
	return "N"
}

// String returns the string representation.
func (c PredictedClass) String() string {
	if c.value == 1 {
		return "APPROVED"
	}
	return "REJECTED"
}
