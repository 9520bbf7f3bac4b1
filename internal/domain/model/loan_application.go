package model

// Raw column names as they appear in the training CSV and the inference
// payload. They are part of the external contract.
const (
	ColLoanID            = "Loan_ID"
	ColGender            = "Gender"
	ColMarried           = "Married"
	ColDependents        = "Dependents"
	ColEducation         = "Education"
	ColSelfEmployed      = "Self_Employed"
	ColApplicantIncome   = "ApplicantIncome"
	ColCoapplicantIncome = "CoapplicantIncome"
	ColLoanAmount        = "LoanAmount"
	ColLoanAmountTerm    = "Loan_Amount_Term"
	ColCreditHistory     = "Credit_History"
	ColPropertyArea      = "Property_Area"
	ColLoanStatus        = "Loan_Status"
)

// Derived columns produced by the feature transformer.
const (
	ColTotalIncome           = "TotalIncome"
	ColIncomeToLoanRatio     = "Income_to_Loan_Ratio"
	ColApplicantToCoappRatio = "Applicant_to_Coapp_Ratio"
	ColPropertyRural         = "Property_Rural"
	ColPropertySemiurban     = "Property_Semiurban"
	ColPropertyUrban         = "Property_Urban"
)

// LoanApplication is one raw applicant record. A nil pointer means the value
// is missing. LoanStatus is only present in training data.
type LoanApplication struct {
	LoanID            string
	Gender            *string
	Married           *string
	Dependents        *string
	Education         *string
	SelfEmployed      *string
	ApplicantIncome   *float64
	CoapplicantIncome *float64
	LoanAmount        *float64
	LoanAmountTerm    *float64
	CreditHistory     *float64
	PropertyArea      *string
	LoanStatus        *string
	// Extra holds source columns outside the known schema, keyed by
	// column name. Missing keys are missing values.
	Extra map[string]string
}

// Ptr returns a pointer to v. Used to build applications in code.
func Ptr[T any](v T) *T {
	return &v
}
