package grpc

import (
	middleware_grpc "toy-catalog/internal/middleware/grpc"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewServer builds the gRPC server that exposes health (and reflection).
func NewServer(h *HealthHandler) *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(middleware_grpc.UnaryTracingInterceptor()),
	)
	healthpb.RegisterHealthServer(server, h)
	reflection.Register(server)
	return server
}
