package grpc

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"toy-catalog/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type flippingChecker struct {
	up atomic.Bool
}

func (c *flippingChecker) Check(context.Context) service.HealthStatus {
	if c.up.Load() {
		return service.HealthStatus{Mongo: service.StatusUp}
	}
	return service.HealthStatus{Mongo: service.StatusDown}
}

func TestHealthHandler_Refresh(t *testing.T) {
	ctx := context.Background()
	checker := &flippingChecker{}
	h := NewHealthHandler(checker, time.Second)

	resp, err := h.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	checker.up.Store(true)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, h.Refresh(ctx))

	resp, err = h.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestServer_ServesHealthOverGRPC(t *testing.T) {
	checker := &flippingChecker{}
	checker.up.Store(true)
	h := NewHealthHandler(checker, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	lis := bufconn.Listen(1 << 20)
	server := NewServer(h)
	go func() { _ = server.Serve(lis) }()
	defer server.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	require.Eventually(t, func() bool {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
		return err == nil && resp.Status == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	checker.up.Store(false)
	require.Eventually(t, func() bool {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
		return err == nil && resp.Status == healthpb.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 10*time.Millisecond)
}
