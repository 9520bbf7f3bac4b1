package model

// Dataset is a loaded batch of raw records.
type Dataset struct {
	Records []LoanApplication
	// HasLabel is true when the source declared a Loan_Status column.
	HasLabel bool
	// Hash is the SHA-256 of the source file.
	Hash string
}
