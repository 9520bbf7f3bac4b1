// Package dataset reads raw loan applications from CSV files.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/port"
	"github.com/AliSleiman0/loan-default-predictor/pkg/checksum"
)

// ErrDatasetNotFound is returned when the training file does not exist.
var ErrDatasetNotFound = errors.New("dataset not found")

// Cells that read as missing, matching the usual dataframe defaults.
var missingMarkers = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "NaN": {}, "nan": {}, "NULL": {}, "null": {}, "<NA>": {}, "n/a": {}, "-NaN": {}, "-nan": {},
}

// CSVLoader implements port.DatasetLoader for comma-separated files with a
// header row.
type CSVLoader struct {
	logger *slog.Logger
}

var _ port.DatasetLoader = (*CSVLoader)(nil)

// NewCSVLoader creates a CSVLoader.
func NewCSVLoader(logger *slog.Logger) *CSVLoader {
	return &CSVLoader{logger: logger}
}

// Load reads every record in path. Numeric cells that do not parse are an
// error; unknown columns are kept in LoanApplication.Extra.
func (l *CSVLoader) Load(ctx context.Context, path string) (model.Dataset, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.Dataset{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
	}
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	ds, err := l.read(ctx, f)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("dataset %s: %w", path, err)
	}

	ds.Hash, err = checksum.FileSHA256(path)
	if err != nil {
		return model.Dataset{}, err
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("rows", len(ds.Records)),
		slog.Bool("labelled", ds.HasLabel),
		slog.String("sha256", ds.Hash),
	)
	return ds, nil
}

func (l *CSVLoader) read(ctx context.Context, r io.Reader) (model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return model.Dataset{}, errors.New("file is empty")
	}
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := index[h]; dup {
			return model.Dataset{}, fmt.Errorf("duplicate column %q", h)
		}
		index[h] = i
	}
	_, hasLabel := index[model.ColLoanStatus]

	var records []model.LoanApplication
	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return model.Dataset{}, err
			}
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}

		app, err := parseRow(header, index, row)
		if err != nil {
			return model.Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, app)
	}

	return model.Dataset{Records: records, HasLabel: hasLabel}, nil
}

func parseRow(header []string, index map[string]int, row []string) (model.LoanApplication, error) {
	text := func(col string) *string {
		i, ok := index[col]
		if !ok {
			return nil
		}
		v := strings.TrimSpace(row[i])
		if _, missing := missingMarkers[v]; missing {
			return nil
		}
		return &v
	}

	var parseErr error
	number := func(col string) *float64 {
		s := text(col)
		if s == nil || parseErr != nil {
			return nil
		}
		v, err := strconv.ParseFloat(*s, 64)
		if err != nil {
			parseErr = fmt.Errorf("column %s: %q is not a number", col, *s)
			return nil
		}
		return &v
	}

	app := model.LoanApplication{
		Gender:            text(model.ColGender),
		Married:           text(model.ColMarried),
		Dependents:        text(model.ColDependents),
		Education:         text(model.ColEducation),
		SelfEmployed:      text(model.ColSelfEmployed),
		ApplicantIncome:   number(model.ColApplicantIncome),
		CoapplicantIncome: number(model.ColCoapplicantIncome),
		LoanAmount:        number(model.ColLoanAmount),
		LoanAmountTerm:    number(model.ColLoanAmountTerm),
		CreditHistory:     number(model.ColCreditHistory),
		PropertyArea:      text(model.ColPropertyArea),
		LoanStatus:        text(model.ColLoanStatus),
	}
	if parseErr != nil {
		return model.LoanApplication{}, parseErr
	}
	if id := text(model.ColLoanID); id != nil {
		app.LoanID = *id
	}

	for _, h := range header {
		h = strings.TrimSpace(h)
		if knownColumns[h] {
			continue
		}
		if app.Extra == nil {
			app.Extra = make(map[string]string)
		}
		if v := text(h); v != nil {
			app.Extra[h] = *v
		}
	}
	return app, nil
}

var knownColumns = map[string]bool{
	model.ColLoanID: true, model.ColGender: true, model.ColMarried: true, model.ColDependents: true,
	model.ColEducation: true, model.ColSelfEmployed: true, model.ColApplicantIncome: true,
	model.ColCoapplicantIncome: true, model.ColLoanAmount: true, model.ColLoanAmountTerm: true,
	model.ColCreditHistory: true, model.ColPropertyArea: true, model.ColLoanStatus: true,
}
