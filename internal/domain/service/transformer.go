package service

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/pkg/stats"
)

// ErrEmptyBatch is returned when Transform is given no records.
var ErrEmptyBatch = errors.New("feature transformer: empty batch")

// Fallbacks for statistics that are undefined because a column has no
// usable value in the batch.
const (
	fallbackLoanAmount     = 1.0
	fallbackLoanAmountTerm = 360.0
	fallbackCreditHistory  = 1.0
	fallbackDependents     = "0"
)

// Transformer turns raw loan applications into model-ready features.
//
// Without statistics it runs in training mode and derives every statistic
// from the batch it is given; with WithStatistics it applies the supplied
// values instead so a single inference row is treated exactly like training
// data.
type Transformer struct {
	stats     *model.Statistics
	withLabel bool
}

// TransformerOption configures a Transformer.
type TransformerOption func(*Transformer)

// WithStatistics switches the transformer to inference mode.
func WithStatistics(s model.Statistics) TransformerOption {
	return func(t *Transformer) { t.stats = &s }
}

// WithLabelColumn forces a Loan_Status output column even when no record
// carries a label, so unlabelled rows surface as NaN instead of vanishing.
func WithLabelColumn() TransformerOption {
	return func(t *Transformer) { t.withLabel = true }
}

// NewTransformer builds a Transformer.
func NewTransformer(opts ...TransformerOption) *Transformer {
	t := &Transformer{}
	for _, o := range opts {
		o(t)
	}
	return t
}

// rawColumns is the working copy of the batch, one slice per raw field.
type rawColumns struct {
	loanID        []string
	gender        []*string
	married       []*string
	dependents    []*string
	education     []*string
	selfEmployed  []*string
	applicant     []float64
	coapplicant   []float64
	loanAmount    []float64
	term          []float64
	creditHistory []float64
	propertyArea  []*string
	loanStatus    []*string
	hasLabel      bool
}

// Transform applies imputation, derived features, capping and encodings.
// It returns the feature batch and the statistics that were used, which in
// training mode are the ones computed from records. records is not modified.
func (t *Transformer) Transform(records []model.LoanApplication) (model.FeatureBatch, model.Statistics, error) {
	if len(records) == 0 {
		return model.FeatureBatch{}, model.Statistics{}, ErrEmptyBatch
	}

	raw := t.split(records)
	n := len(records)
	var st model.Statistics
	if t.stats != nil {
		st = *t.stats
	}
	training := t.stats == nil

	// Imputation.
	if training {
		st.LoanAmountMedian = medianOr(raw.loanAmount, fallbackLoanAmount)
		st.LoanAmountTermMode = floatModeOr(raw.term, fallbackLoanAmountTerm)
		st.CreditHistoryMode = floatModeOr(raw.creditHistory, fallbackCreditHistory)
		st.GenderMode = stringModeOr(raw.gender, "")
		st.MarriedMode = stringModeOr(raw.married, "")
		st.DependentsMode = stringModeOr(raw.dependents, fallbackDependents)
	}
	fillNaN(raw.loanAmount, st.LoanAmountMedian)
	fillNaN(raw.applicant, 0)
	fillNaN(raw.coapplicant, 0)
	fillNaN(raw.term, st.LoanAmountTermMode)
	fillNaN(raw.creditHistory, st.CreditHistoryMode)
	selfEmployed := fillString(raw.selfEmployed, "No")
	gender := fillString(raw.gender, st.GenderMode)
	married := fillString(raw.married, st.MarriedMode)
	dependentsText := fillString(raw.dependents, st.DependentsMode)

	// Dependents: "3+" means three or more; anything unparsable takes the
	// mode of the values that did parse.
	dependents := make([]float64, n)
	for i, d := range dependentsText {
		dependents[i] = parseDependents(d)
	}
	if training {
		st.DependentsCoercedMode = floatModeOr(dependents, 0)
	}
	fillNaN(dependents, st.DependentsCoercedMode)
	for i, d := range dependents {
		dependents[i] = math.Trunc(d)
	}

	// Derived features. Zero loan amounts are replaced before the ratio so
	// it is always finite.
	total := make([]float64, n)
	for i := range total {
		total[i] = raw.applicant[i] + raw.coapplicant[i]
	}
	if training {
		st.LoanAmountZeroFill = medianOr(raw.loanAmount, fallbackLoanAmount)
		if st.LoanAmountZeroFill == 0 {
			st.LoanAmountZeroFill = fallbackLoanAmount
		}
	}
	incomeToLoan := make([]float64, n)
	appToCoapp := make([]float64, n)
	for i := range raw.loanAmount {
		if raw.loanAmount[i] == 0 {
			raw.loanAmount[i] = st.LoanAmountZeroFill
		}
		incomeToLoan[i] = total[i] / raw.loanAmount[i]
		if raw.coapplicant[i] == 0 {
			appToCoapp[i] = raw.applicant[i]
		} else {
			appToCoapp[i] = raw.applicant[i] / raw.coapplicant[i]
		}
	}

	// Outlier capping. Capped incomes take the integer part of the cap.
	if training {
		st.ApplicantIncomeCap, _ = stats.Quantile(raw.applicant, 0.99)
		st.LoanAmountLower, st.LoanAmountUpper, _ = stats.IQRBounds(raw.loanAmount, 1.5)
	}
	for i, v := range raw.applicant {
		if v > st.ApplicantIncomeCap {
			raw.applicant[i] = math.Trunc(st.ApplicantIncomeCap)
		}
	}
	for i, v := range raw.loanAmount {
		raw.loanAmount[i] = math.Min(math.Max(v, st.LoanAmountLower), st.LoanAmountUpper)
	}

	// Property area one-hot. Unknown areas leave all three columns at zero.
	rural, semiurban, urban := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, p := range raw.propertyArea {
		if p == nil {
			continue
		}
		switch *p {
		case "Rural":
			rural[i] = 1
		case "Semiurban":
			semiurban[i] = 1
		case "Urban":
			urban[i] = 1
		}
	}

	cols := []model.Column{
		model.TextColumn(model.ColLoanID, raw.loanID),
		model.NumericColumn(model.ColGender, encodeBinary(gender, "Male", "Female")),
		model.NumericColumn(model.ColMarried, encodeBinary(married, "Yes", "No")),
		model.NumericColumn(model.ColDependents, dependents),
		model.NumericColumn(model.ColEducation, encodeBinary(derefAll(raw.education), "Graduate", "Not Graduate")),
		model.NumericColumn(model.ColSelfEmployed, encodeBinary(selfEmployed, "Yes", "No")),
		model.NumericColumn(model.ColApplicantIncome, raw.applicant),
		model.NumericColumn(model.ColCoapplicantIncome, raw.coapplicant),
		model.NumericColumn(model.ColLoanAmount, raw.loanAmount),
		model.NumericColumn(model.ColLoanAmountTerm, raw.term),
		model.NumericColumn(model.ColCreditHistory, raw.creditHistory),
	}
	if raw.hasLabel || t.withLabel {
		cols = append(cols, model.NumericColumn(model.ColLoanStatus, encodeLabels(raw.loanStatus)))
	}
	cols = append(cols,
		model.NumericColumn(model.ColTotalIncome, total),
		model.NumericColumn(model.ColIncomeToLoanRatio, incomeToLoan),
		model.NumericColumn(model.ColApplicantToCoappRatio, appToCoapp),
		model.NumericColumn(model.ColPropertyRural, rural),
		model.NumericColumn(model.ColPropertySemiurban, semiurban),
		model.NumericColumn(model.ColPropertyUrban, urban),
	)
	cols = append(cols, extraColumns(records)...)

	batch, err := model.NewFeatureBatch(n, cols...)
	if err != nil {
		return model.FeatureBatch{}, model.Statistics{}, err
	}
	return batch, st, nil
}

func (t *Transformer) split(records []model.LoanApplication) rawColumns {
	n := len(records)
	raw := rawColumns{
		loanID:        make([]string, n),
		gender:        make([]*string, n),
		married:       make([]*string, n),
		dependents:    make([]*string, n),
		education:     make([]*string, n),
		selfEmployed:  make([]*string, n),
		applicant:     make([]float64, n),
		coapplicant:   make([]float64, n),
		loanAmount:    make([]float64, n),
		term:          make([]float64, n),
		creditHistory: make([]float64, n),
		propertyArea:  make([]*string, n),
		loanStatus:    make([]*string, n),
	}
	for i, r := range records {
		raw.loanID[i] = r.LoanID
		raw.gender[i] = r.Gender
		raw.married[i] = r.Married
		raw.dependents[i] = r.Dependents
		raw.education[i] = r.Education
		raw.selfEmployed[i] = r.SelfEmployed
		raw.applicant[i] = valueOrNaN(r.ApplicantIncome)
		raw.coapplicant[i] = valueOrNaN(r.CoapplicantIncome)
		raw.loanAmount[i] = valueOrNaN(r.LoanAmount)
		raw.term[i] = valueOrNaN(r.LoanAmountTerm)
		raw.creditHistory[i] = valueOrNaN(r.CreditHistory)
		raw.propertyArea[i] = r.PropertyArea
		raw.loanStatus[i] = r.LoanStatus
		if r.LoanStatus != nil {
			raw.hasLabel = true
		}
	}
	return raw
}

// extraColumns passes unknown source columns through, sorted by name. A
// column whose present values all parse as numbers is numeric with NaN for
// gaps; anything else is text with "" for gaps.
func extraColumns(records []model.LoanApplication) []model.Column {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r.Extra {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	slices.Sort(names)

	cols := make([]model.Column, 0, len(names))
	for _, name := range names {
		texts := make([]string, len(records))
		numbers := make([]float64, len(records))
		numeric := true
		for i, r := range records {
			v, ok := r.Extra[name]
			texts[i] = v
			if !ok || v == "" {
				numbers[i] = math.NaN()
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				numeric = false
			}
			numbers[i] = f
		}
		if numeric {
			cols = append(cols, model.NumericColumn(name, numbers))
		} else {
			cols = append(cols, model.TextColumn(name, texts))
		}
	}
	return cols
}

// parseDependents matches "3+" exactly; padded variants such as " 3+" are
// unparsable and fall back to the mode like any other bad value.
func parseDependents(s string) float64 {
	if s == "3+" {
		return 3
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// encodeBinary maps positive to 1; negative, unknown and empty values to 0.
func encodeBinary(values []string, positive, negative string) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		switch v {
		case positive:
			out[i] = 1
		case negative:
			out[i] = 0
		}
	}
	return out
}

// encodeLabels maps Y to 1 and N to 0. Anything else is NaN so the caller
// can reject it.
func encodeLabels(values []*string) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		switch {
		case v != nil && *v == "Y":
			out[i] = 1
		case v != nil && *v == "N":
			out[i] = 0
		default:
			out[i] = math.NaN()
		}
	}
	return out
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func fillNaN(values []float64, fill float64) {
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = fill
		}
	}
}

func fillString(values []*string, fill string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = fill
		} else {
			out[i] = *v
		}
	}
	return out
}

func derefAll(values []*string) []string {
	return fillString(values, "")
}

func present(values []*string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func medianOr(values []float64, fallback float64) float64 {
	if m, ok := stats.Median(values); ok {
		return m
	}
	return fallback
}

func floatModeOr(values []float64, fallback float64) float64 {
	if m, ok := stats.FloatMode(values); ok {
		return m
	}
	return fallback
}

func stringModeOr(values []*string, fallback string) string {
	if m, ok := stats.Mode(present(values)); ok {
		return m
	}
	return fallback
}
