package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
)

// PredictLoanRequest is one loan application as submitted by a client. Nil
// means the field was null or absent.
type PredictLoanRequest struct {
	LoanID            *string  `json:"Loan_ID"`
	Gender            *string  `json:"Gender"`
	Married           *string  `json:"Married"`
	Dependents        *string  `json:"Dependents"`
	Education         *string  `json:"Education"`
	SelfEmployed      *string  `json:"Self_Employed"`
	ApplicantIncome   *float64 `json:"ApplicantIncome"`
	CoapplicantIncome *float64 `json:"CoapplicantIncome"`
	LoanAmount        *float64 `json:"LoanAmount"`
	LoanAmountTerm    *float64 `json:"Loan_Amount_Term"`
	CreditHistory     *float64 `json:"Credit_History"`
	PropertyArea      *string  `json:"Property_Area"`
}

// PredictLoanResponse is the scoring result returned to clients.
type PredictLoanResponse struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type fieldSpec struct {
	name     string
	numeric  bool
	nullable bool
	allowed  []string
}

var predictFields = []fieldSpec{
	{name: model.ColLoanID},
	{name: model.ColGender},
	{name: model.ColMarried},
	{name: model.ColDependents, nullable: true, allowed: []string{"0", "1", "2", "3+"}},
	{name: model.ColEducation},
	{name: model.ColSelfEmployed},
	{name: model.ColApplicantIncome, numeric: true},
	{name: model.ColCoapplicantIncome, numeric: true},
	{name: model.ColLoanAmount, numeric: true, nullable: true},
	{name: model.ColLoanAmountTerm, numeric: true, nullable: true},
	{name: model.ColCreditHistory, numeric: true, nullable: true},
	{name: model.ColPropertyArea},
}

// DecodePredictLoanRequest parses a JSON object field by field and then
// validates it, so every problem is reported rather than just the first.
// Numeric fields also accept numeric strings. A body that is not a JSON
// object yields a single error located at "body".
func DecodePredictLoanRequest(data []byte) (PredictLoanRequest, []FieldError) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return PredictLoanRequest{}, []FieldError{{
			Loc:  []string{"body"},
			Msg:  "Input should be a valid JSON object",
			Type: "model_attributes_type",
		}}
	}

	var req PredictLoanRequest
	var errs []FieldError
	badType := make(map[string]bool)
	targets := req.targets()
	for _, f := range predictFields {
		v, ok := raw[f.name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(v, targets[f.name]); err == nil {
			continue
		}
		if f.numeric {
			if x, ok := numericString(v); ok {
				*(targets[f.name].(**float64)) = &x
				continue
			}
			errs = append(errs, fieldError(f.name, "Input should be a valid number", "float_type"))
		} else {
			errs = append(errs, fieldError(f.name, "Input should be a valid string", "string_type"))
		}
		badType[f.name] = true
	}

	for _, e := range req.Validate() {
		if !badType[e.Loc[len(e.Loc)-1]] {
			errs = append(errs, e)
		}
	}
	return req, errs
}

func numericString(v json.RawMessage) (float64, bool) {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return x, err == nil
}

// Validate checks presence, the Dependents enumeration and that numbers are
// finite. Unrecognised categories are left to the feature encoder, which
// maps them to zero.
func (r PredictLoanRequest) Validate() []FieldError {
	var errs []FieldError
	targets := r.targets()
	for _, f := range predictFields {
		switch v := targets[f.name].(type) {
		case **string:
			if *v == nil {
				if !f.nullable {
					errs = append(errs, fieldError(f.name, "Field required", "missing"))
				}
				continue
			}
			if f.allowed != nil && !slices.Contains(f.allowed, **v) {
				errs = append(errs, fieldError(f.name, fmt.Sprintf("Input should be %s", quoteList(f.allowed)), "enum"))
			}
		case **float64:
			if *v == nil {
				if !f.nullable {
					errs = append(errs, fieldError(f.name, "Field required", "missing"))
				}
				continue
			}
			if x := **v; math.IsNaN(x) || math.IsInf(x, 0) {
				errs = append(errs, fieldError(f.name, "Input should be a finite number", "finite_number"))
			}
		}
	}
	if len(errs) == 0 && !r.derivedIncomesFinite() {
		errs = append(errs, fieldError(model.ColApplicantIncome,
			"Income values are too large to derive TotalIncome and income ratios", "finite_number"))
	}
	return errs
}

// derivedIncomesFinite reports whether the income sum and ratios computed
// during feature preparation stay finite. Only called once every present
// number is known to be finite.
func (r PredictLoanRequest) derivedIncomesFinite() bool {
	applicant, coapplicant := deref(r.ApplicantIncome), deref(r.CoapplicantIncome)
	total := applicant + coapplicant
	derived := []float64{total}
	if coapplicant != 0 {
		derived = append(derived, applicant/coapplicant)
	}
	if loan := deref(r.LoanAmount); loan != 0 {
		derived = append(derived, total/loan)
	}
	for _, x := range derived {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// ToApplication converts a validated request into the domain record.
func (r PredictLoanRequest) ToApplication() model.LoanApplication {
	app := model.LoanApplication{
		Gender:            r.Gender,
		Married:           r.Married,
		Dependents:        r.Dependents,
		Education:         r.Education,
		SelfEmployed:      r.SelfEmployed,
		ApplicantIncome:   r.ApplicantIncome,
		CoapplicantIncome: r.CoapplicantIncome,
		LoanAmount:        r.LoanAmount,
		LoanAmountTerm:    r.LoanAmountTerm,
		CreditHistory:     r.CreditHistory,
		PropertyArea:      r.PropertyArea,
	}
	if r.LoanID != nil {
		app.LoanID = *r.LoanID
	}
	return app
}

func (r *PredictLoanRequest) targets() map[string]any {
	return map[string]any{
		model.ColLoanID:            &r.LoanID,
		model.ColGender:            &r.Gender,
		model.ColMarried:           &r.Married,
		model.ColDependents:        &r.Dependents,
		model.ColEducation:         &r.Education,
		model.ColSelfEmployed:      &r.SelfEmployed,
		model.ColApplicantIncome:   &r.ApplicantIncome,
		model.ColCoapplicantIncome: &r.CoapplicantIncome,
		model.ColLoanAmount:        &r.LoanAmount,
		model.ColLoanAmountTerm:    &r.LoanAmountTerm,
		model.ColCreditHistory:     &r.CreditHistory,
		model.ColPropertyArea:      &r.PropertyArea,
	}
}

func fieldError(field, msg, typ string) FieldError {
	return FieldError{Loc: []string{"body", field}, Msg: msg, Type: typ}
}

func quoteList(values []string) string {
	var b bytes.Buffer
	for i, v := range values {
		switch {
		case i == 0:
		case i == len(values)-1:
			b.WriteString(" or ")
		default:
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "'%s'", v)
	}
	return b.String()
}
