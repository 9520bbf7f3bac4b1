package grpc

// Hand-written service descriptor for loanprediction.v1.LoanPredictionService.
// Messages travel with the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	serviceName               = "loanprediction.v1.LoanPredictionService"
	predictLoanStatusFullName = "/" + serviceName + "/PredictLoanStatus"
)

// PredictLoanStatusRequest carries one application using the raw column
// names. Nil fields are missing values.
type PredictLoanStatusRequest struct {
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

// PredictLoanStatusResponse is the scored class and approval probability.
type PredictLoanStatusResponse struct {
	Prediction  int32   `json:"prediction"`
	Probability float64 `json:"probability"`
}

// LoanPredictionServiceServer is the server API for LoanPredictionService.
type LoanPredictionServiceServer interface {
	PredictLoanStatus(context.Context, *PredictLoanStatusRequest) (*PredictLoanStatusResponse, error)
	mustEmbedUnimplementedLoanPredictionServiceServer()
}

// UnimplementedLoanPredictionServiceServer provides forward-compatible defaults.
type UnimplementedLoanPredictionServiceServer struct{}

func (UnimplementedLoanPredictionServiceServer) PredictLoanStatus(context.Context, *PredictLoanStatusRequest) (*PredictLoanStatusResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PredictLoanStatus not implemented")
}
func (UnimplementedLoanPredictionServiceServer) mustEmbedUnimplementedLoanPredictionServiceServer() {}

// RegisterLoanPredictionServiceServer registers srv with s.
func RegisterLoanPredictionServiceServer(s grpclib.ServiceRegistrar, srv LoanPredictionServiceServer) {
	s.RegisterService(&_LoanPredictionService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _LoanPredictionService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LoanPredictionServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "PredictLoanStatus", Handler: _LoanPredictionService_PredictLoanStatus_Handler}, //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanPredictionService_PredictLoanStatus_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(PredictLoanStatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanPredictionServiceServer).PredictLoanStatus(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: predictLoanStatusFullName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LoanPredictionServiceServer).PredictLoanStatus(ctx, req.(*PredictLoanStatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// LoanPredictionServiceClient is the client API for LoanPredictionService.
type LoanPredictionServiceClient interface {
	PredictLoanStatus(ctx context.Context, in *PredictLoanStatusRequest, opts ...grpclib.CallOption) (*PredictLoanStatusResponse, error)
}

type loanPredictionServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewLoanPredictionServiceClient wraps cc. Calls use the JSON codec.
func NewLoanPredictionServiceClient(cc grpclib.ClientConnInterface) LoanPredictionServiceClient {
	return &loanPredictionServiceClient{cc: cc}
}

func (c *loanPredictionServiceClient) PredictLoanStatus(ctx context.Context, in *PredictLoanStatusRequest, opts ...grpclib.CallOption) (*PredictLoanStatusResponse, error) {
	out := new(PredictLoanStatusResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, predictLoanStatusFullName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
