package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AliSleiman0/loan-default-predictor/internal/application/dto"
)

var (
	// ErrInvalidApplication wraps every client-side validation failure.
	ErrInvalidApplication = errors.New("invalid loan application")
	// ErrLabelColumnMissing means the training data has no Loan_Status column.
	ErrLabelColumnMissing = errors.New("training data has no Loan_Status column")
	// ErrUnmappedLabel means a Loan_Status value is neither Y nor N.
	ErrUnmappedLabel = errors.New("training data has Loan_Status values other than Y or N")
	// ErrNonNumericFeatures means text columns survived categorical expansion.
	ErrNonNumericFeatures = errors.New("non-numeric feature columns remain")
)

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields []dto.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(f.Loc, "."), f.Msg))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidApplication, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidApplication }
