package model

import (
	"errors"
	"fmt"
	"math"
)

// Statistics are the reference values the feature transformer uses for
// imputation, zero replacement and outlier capping. Training computes them
// from the full dataset; inference reuses the persisted copy.
type Statistics struct {
	LoanAmountMedian      float64 `json:"loan_amount_median"`
	LoanAmountTermMode    float64 `json:"loan_amount_term_mode"`
	CreditHistoryMode     float64 `json:"credit_history_mode"`
	GenderMode            string  `json:"gender_mode"`
	MarriedMode           string  `json:"married_mode"`
	DependentsMode        string  `json:"dependents_mode"`
	DependentsCoercedMode float64 `json:"dependents_coerced_mode"`
	LoanAmountZeroFill    float64 `json:"loan_amount_zero_fill"`
	ApplicantIncomeCap    float64 `json:"applicant_income_cap"`
	LoanAmountLower       float64 `json:"loan_amount_lower"`
	LoanAmountUpper       float64 `json:"loan_amount_upper"`
}

// Validate checks that every numeric statistic is finite and usable.
func (s Statistics) Validate() error {
	numeric := map[string]float64{
		"loan_amount_median":      s.LoanAmountMedian,
		"loan_amount_term_mode":   s.LoanAmountTermMode,
		"credit_history_mode":     s.CreditHistoryMode,
		"dependents_coerced_mode": s.DependentsCoercedMode,
		"loan_amount_zero_fill":   s.LoanAmountZeroFill,
		"applicant_income_cap":    s.ApplicantIncomeCap,
		"loan_amount_lower":       s.LoanAmountLower,
		"loan_amount_upper":       s.LoanAmountUpper,
	}
	for name, v := range numeric {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("statistic %s is not finite", name)
		}
	}
	if s.LoanAmountZeroFill == 0 {
		return errors.New("statistic loan_amount_zero_fill must be non-zero")
	}
	if s.LoanAmountLower > s.LoanAmountUpper {
		return fmt.Errorf("loan amount bounds inverted: %v > %v", s.LoanAmountLower, s.LoanAmountUpper)
	}
	return nil
}

// CategoricalEncoding records the vocabulary a leftover text column was
// expanded with. Each category becomes a 0/1 column named "<Column>_<category>".
type CategoricalEncoding struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
}

// ColumnName returns the expanded column name for category.
func (e CategoricalEncoding) ColumnName(category string) string {
	return e.Column + "_" + category
}

// FeatureContract is everything inference needs to rebuild training-time
// features: the canonical column list, the statistics and the encodings.
type FeatureContract struct {
	Columns    CanonicalColumns      `json:"columns"`
	Statistics Statistics            `json:"statistics"`
	Encodings  []CategoricalEncoding `json:"encodings,omitempty"`
}

// Validate checks internal consistency.
func (c FeatureContract) Validate() error {
	if c.Columns.Len() == 0 {
		return errors.New("contract has no canonical columns")
	}
	if err := c.Statistics.Validate(); err != nil {
		return fmt.Errorf("contract statistics: %w", err)
	}
	for _, enc := range c.Encodings {
		if enc.Column == "" {
			return errors.New("contract encoding has no column name")
		}
	}
	return nil
}
