package grpc_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/AliSleiman0/loan-default-predictor/internal/application/dto"
	"github.com/AliSleiman0/loan-default-predictor/internal/application/usecase"
	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
	grpcapi "github.com/AliSleiman0/loan-default-predictor/internal/presentation/grpc"
	"github.com/AliSleiman0/loan-default-predictor/pkg/auth"
	"github.com/AliSleiman0/loan-default-predictor/pkg/observability"
)

type mockPredictor struct{ mock.Mock }

func (m *mockPredictor) Execute(ctx context.Context, req dto.PredictLoanRequest) (dto.PredictLoanResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dto.PredictLoanResponse), args.Error(1)
}

type harness struct {
	client grpcapi.LoanPredictionServiceClient
	conn   *grpclib.ClientConn
	jwt    *auth.JWTService
}

func startServer(t *testing.T, predictor grpcapi.LoanPredictor, withAuth bool) harness {
	t.Helper()
	logger := observability.Discard()

	var jwtSvc *auth.JWTService
	if withAuth {
		var err error
		jwtSvc, err = auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "loan-approval", Expiration: time.Hour})
		require.NoError(t, err)
	}

	handler := grpcapi.NewLoanPredictionHandler(predictor, withAuth, logger)
	srv, err := grpcapi.NewServer(handler, grpcapi.ServerOptions{ServiceName: "loan-approval", JWT: jwtSvc}, logger)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return harness{client: grpcapi.NewLoanPredictionServiceClient(conn), conn: conn, jwt: jwtSvc}
}

func (h harness) withToken(t *testing.T, roles ...string) context.Context {
	t.Helper()
	token, err := h.jwt.GenerateToken("scoring-client", roles)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func sampleRequest() *grpcapi.PredictLoanStatusRequest {
	return &grpcapi.PredictLoanStatusRequest{
		LoanID:            model.Ptr("LP001002"),
		Gender:            model.Ptr("Male"),
		Married:           model.Ptr("No"),
		Dependents:        model.Ptr("0"),
		Education:         model.Ptr("Graduate"),
		SelfEmployed:      model.Ptr("No"),
		ApplicantIncome:   model.Ptr(5849.0),
		CoapplicantIncome: model.Ptr(0.0),
		LoanAmountTerm:    model.Ptr(360.0),
		CreditHistory:     model.Ptr(1.0),
		PropertyArea:      model.Ptr("Urban"),
	}
}

func TestPredictLoanStatus_Authorized(t *testing.T) {
	predictor := &mockPredictor{}
	predictor.On("Execute", mock.Anything, mock.MatchedBy(func(req dto.PredictLoanRequest) bool {
		return *req.LoanID == "LP001002" && req.LoanAmount == nil && *req.ApplicantIncome == 5849
	})).Return(dto.PredictLoanResponse{Prediction: 1, Probability: 0.82}, nil)

	h := startServer(t, predictor, true)
	resp, err := h.client.PredictLoanStatus(h.withToken(t, auth.RolePredictor), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, int32(1), resp.Prediction)
	assert.Equal(t, 0.82, resp.Probability)
	predictor.AssertExpectations(t)
}

func TestPredictLoanStatus_AuthFailures(t *testing.T) {
	h := startServer(t, &mockPredictor{}, true)

	tests := []struct {
		name string
		ctx  context.Context
		code codes.Code
	}{
		{name: "no token", ctx: context.Background(), code: codes.Unauthenticated},
		{name: "garbage token", ctx: metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer nope"), code: codes.Unauthenticated},
		{name: "wrong role", ctx: h.withToken(t, auth.RoleAuditor), code: codes.PermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.client.PredictLoanStatus(tt.ctx, sampleRequest())
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestPredictLoanStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    codes.Code
		message string
	}{
		{
			name: "validation",
			err: &usecase.ValidationError{Fields: []dto.FieldError{
				{Loc: []string{"body", "Dependents"}, Msg: "Input should be '0', '1', '2' or '3+'", Type: "enum"},
			}},
			code:    codes.InvalidArgument,
			message: "Dependents: Input should be '0', '1', '2' or '3+'",
		},
		{name: "internal", err: errors.New("schema drift"), code: codes.Internal, message: "prediction failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predictor := &mockPredictor{}
			predictor.On("Execute", mock.Anything, mock.Anything).Return(dto.PredictLoanResponse{}, tt.err)
			h := startServer(t, predictor, false)

			_, err := h.client.PredictLoanStatus(context.Background(), sampleRequest())
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.message, st.Message())
		})
	}
}

func TestHealthCheck_SkipsAuth(t *testing.T) {
	h := startServer(t, &mockPredictor{}, true)

	resp, err := healthpb.NewHealthClient(h.conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: "loan-approval"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
