package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/AliSleiman0/loan-default-predictor/pkg/auth"
	"github.com/AliSleiman0/loan-default-predictor/pkg/tlsutil"
)

// ServerOptions configures transport security and discovery.
type ServerOptions struct {
	ServiceName     string
	TLSCertFile     string
	TLSKeyFile      string
	// TLSClientCAFile turns on mutual TLS.
	TLSClientCAFile string
	Reflection      bool
	// JWT enables the bearer-token interceptor when non-nil.
	JWT *auth.JWTService
}

// Server wraps a gRPC server with the loan prediction handler registered.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates and configures the gRPC server.
func NewServer(handler *LoanPredictionHandler, opts ServerOptions, logger *slog.Logger) (*Server, error) {
	var serverOpts []grpc.ServerOption
	if opts.JWT != nil {
		serverOpts = append(serverOpts, grpc.UnaryInterceptor(auth.UnaryAuthInterceptor(opts.JWT, []string{
			"/grpc.health.v1.Health/Check",
			"/grpc.health.v1.Health/Watch",
		})))
	} else {
		logger.Warn("gRPC authentication not configured, accepting unauthenticated calls")
	}

	if opts.TLSCertFile != "" && opts.TLSKeyFile != "" {
		creds, err := tlsutil.ServerTLSConfig(opts.TLSCertFile, opts.TLSKeyFile, opts.TLSClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("load gRPC TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", opts.TLSCertFile, "mutual", opts.TLSClientCAFile != "")
	}

	gs := grpc.NewServer(serverOpts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(opts.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	if opts.Reflection {
		reflection.Register(gs)
	}

	RegisterLoanPredictionServiceServer(gs, handler)

	return &Server{gs: gs, health: healthSrv, logger: logger}, nil
}

// Serve accepts connections on lis until GracefulStop.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.gs.Serve(lis)
}

// ListenAndServe listens on addr and serves.
func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(lis)
}

// GracefulStop marks the service not serving and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.gs.GracefulStop()
}
