package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/bibbank/mt799-service/pkg/auth"
	"github.com/bibbank/mt799-service/pkg/tlsutil"
)

const healthService = "mt799-service"

// ServerConfig configures the gRPC server. A nil JWT disables
// authentication; an empty certificate pair serves plaintext.
type ServerConfig struct {
	Port       int
	JWT        *auth.JWTService
	CertFile   string
	KeyFile    string
	Reflection bool
}

// methodRoles lists the roles allowed to call each guarded method.
var methodRoles = auth.MethodRoles{
	MethodSubmitMessage:   {auth.RoleAdmin, auth.RoleSubmitter},
	MethodValidateMessage: {auth.RoleAdmin, auth.RoleSubmitter, auth.RoleViewer},
	MethodListMessages:    {auth.RoleAdmin, auth.RoleSubmitter, auth.RoleViewer},
}

// Server wraps the gRPC server with message service handlers.
type Server struct {
	grpcServer   *grpc.Server
	healthServer *health.Server
	port         int
	logger       *slog.Logger
}

// NewServer creates a new gRPC server with the provided handler.
func NewServer(handler *MessageHandler, cfg ServerConfig, logger *slog.Logger) (*Server, error) {
	var opts []grpc.ServerOption

	if cfg.CertFile != "" {
		creds, err := tlsutil.ServerCredentials(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("grpc tls: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}

	if cfg.JWT != nil {
		opts = append(opts, grpc.ChainUnaryInterceptor(
			auth.UnaryServerInterceptor(cfg.JWT,
				"/grpc.health.v1.Health/Check",
				"/grpc.health.v1.Health/Watch",
			),
			auth.UnaryRoleInterceptor(methodRoles),
		))
	}

	grpcServer := grpc.NewServer(opts...)
	healthServer := health.NewServer()

	healthpb.RegisterHealthServer(grpcServer, healthServer)
	RegisterMessageServiceServer(grpcServer, handler)

	if cfg.Reflection {
		reflection.Register(grpcServer)
	}

	return &Server{
		grpcServer:   grpcServer,
		healthServer: healthServer,
		port:         cfg.Port,
		logger:       logger,
	}, nil
}

// Start listens on the configured port and serves until Stop.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("gRPC server starting", "addr", listener.Addr().String())

	s.healthServer.SetServingStatus(healthService, healthpb.HealthCheckResponse_SERVING)
	s.healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	if err := s.grpcServer.Serve(listener); err != nil {
		return fmt.Errorf("gRPC server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the gRPC server.
func (s *Server) Stop() {
	s.logger.Info("stopping gRPC server")
	s.healthServer.Shutdown()
	s.grpcServer.GracefulStop()
}
