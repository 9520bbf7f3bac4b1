package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/AliSleiman0/loan-default-predictor/internal/application/dto"
	"github.com/AliSleiman0/loan-default-predictor/internal/application/usecase"
)

const maxBodyBytes = 1 << 20

// LoanPredictor is the use case behind POST /predict.
type LoanPredictor interface {
	Execute(ctx context.Context, req dto.PredictLoanRequest) (dto.PredictLoanResponse, error)
}

// PredictHandler serves loan scoring over HTTP.
type PredictHandler struct {
	predict LoanPredictor
	logger  *slog.Logger
}

// NewPredictHandler creates the handler.
func NewPredictHandler(predict LoanPredictor, logger *slog.Logger) *PredictHandler {
	return &PredictHandler{predict: predict, logger: logger}
}

// RegisterRoutes attaches the prediction route to mux.
func (h *PredictHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", h.predictLoan)
}

type errorDetail struct {
	Detail any `json:"detail"`
}

func (h *PredictHandler) predictLoan(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorDetail{Detail: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorDetail{Detail: "failed to read request body"})
		return
	}

	req, fieldErrs := dto.DecodePredictLoanRequest(body)
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorDetail{Detail: fieldErrs})
		return
	}

	resp, err := h.predict.Execute(r.Context(), req)
	if err != nil {
		var verr *usecase.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorDetail{Detail: verr.Fields})
			return
		}
		h.logger.ErrorContext(r.Context(), "prediction failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorDetail{Detail: "Internal Server Error"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
