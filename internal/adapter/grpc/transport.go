package grpc

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/jlgsjlgs/HowMuchAh-backend/internal/auth"
)

// NewGRPCServer builds a gRPC server exposing the settlement service, the
// standard health service and reflection. Every settlement call is logged and
// must carry a valid bearer token.
func NewGRPCServer(server *Server, tokens *auth.TokenManager, logger *slog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger),
		AuthInterceptor(tokens, PublicMethodPrefixes...),
	))
	grpcServer := grpc.NewServer(opts...)

	RegisterSettlementServiceServer(grpcServer, server)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)

	return grpcServer, healthServer
}
