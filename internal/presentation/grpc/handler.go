package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/AliSleiman0/loan-default-predictor/internal/application/dto"
	"github.com/AliSleiman0/loan-default-predictor/internal/application/usecase"
	"github.com/AliSleiman0/loan-default-predictor/pkg/auth"
)

// LoanPredictor is the use case the handler delegates to.
type LoanPredictor interface {
	Execute(ctx context.Context, req dto.PredictLoanRequest) (dto.PredictLoanResponse, error)
}

// LoanPredictionHandler implements LoanPredictionServiceServer.
type LoanPredictionHandler struct {
	UnimplementedLoanPredictionServiceServer
	predict     LoanPredictor
	requireAuth bool
	logger      *slog.Logger
}

// NewLoanPredictionHandler creates the handler. When requireAuth is set the
// caller must hold the predictor or admin role.
func NewLoanPredictionHandler(predict LoanPredictor, requireAuth bool, logger *slog.Logger) *LoanPredictionHandler {
	return &LoanPredictionHandler{predict: predict, requireAuth: requireAuth, logger: logger}
}

// PredictLoanStatus scores one application.
func (h *LoanPredictionHandler) PredictLoanStatus(ctx context.Context, req *PredictLoanStatusRequest) (*PredictLoanStatusResponse, error) {
	if h.requireAuth {
		if err := auth.RequireRole(ctx, auth.RolePredictor, auth.RoleAdmin); err != nil {
			return nil, err
		}
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	resp, err := h.predict.Execute(ctx, toDTO(req))
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &PredictLoanStatusResponse{
		Prediction:  int32(resp.Prediction),
		Probability: resp.Probability,
	}, nil
}

func (h *LoanPredictionHandler) toStatus(ctx context.Context, err error) error {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		msgs := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			msgs = append(msgs, strings.Join(f.Loc[1:], ".")+": "+f.Msg)
		}
		return status.Error(codes.InvalidArgument, strings.Join(msgs, "; "))
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	h.logger.ErrorContext(ctx, "prediction failed", slog.String("error", err.Error()))
	return status.Error(codes.Internal, "prediction failed")
}

func toDTO(req *PredictLoanStatusRequest) dto.PredictLoanRequest {
	return dto.PredictLoanRequest{
		LoanID:            req.LoanID,
		Gender:            req.Gender,
		Married:           req.Married,
		Dependents:        req.Dependents,
		Education:         req.Education,
		SelfEmployed:      req.SelfEmployed,
		ApplicantIncome:   req.ApplicantIncome,
		CoapplicantIncome: req.CoapplicantIncome,
		LoanAmount:        req.LoanAmount,
		LoanAmountTerm:    req.LoanAmountTerm,
		CreditHistory:     req.CreditHistory,
		PropertyArea:      req.PropertyArea,
	}
}
