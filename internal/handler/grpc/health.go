package grpc

import (
	"context"
	"log/slog"
	"time"

	"toy-catalog/internal/logger"
	"toy-catalog/internal/service"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported for the catalog API.
const ServiceName = "toycatalog.Catalog"

// HealthChecker is satisfied by *service.HealthService.
type HealthChecker interface {
	Check(ctx context.Context) service.HealthStatus
}

// HealthHandler publishes the catalog's store reachability over grpc.health.v1.
type HealthHandler struct {
	*health.Server
	checker  HealthChecker
	interval time.Duration
}

func NewHealthHandler(checker HealthChecker, interval time.Duration) *HealthHandler {
	h := &HealthHandler{
		Server:   health.NewServer(),
		checker:  checker,
		interval: interval,
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Refresh runs one check and publishes the result.
func (h *HealthHandler) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if !h.checker.Check(ctx).Up() {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.set(st)
	return st
}

// Run refreshes the status every interval until ctx is done, then marks the
// server as shutting down.
func (h *HealthHandler) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	last := h.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			return
		case <-ticker.C:
			if st := h.Refresh(ctx); st != last {
				logger.Info(ctx, "Health status changed", slog.String("status", st.String()))
				last = st
			}
		}
	}
}

func (h *HealthHandler) set(st healthpb.HealthCheckResponse_ServingStatus) {
	h.SetServingStatus("", st)
	h.SetServingStatus(ServiceName, st)
}
