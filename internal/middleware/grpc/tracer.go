package middleware_grpc

import (
	"context"
	"maps"
	"slices"
	"time"

	"toy-catalog/internal/logger"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var tracer = otel.Tracer("GrpcMiddleware")

// mdCarrier exposes incoming metadata to the text map propagator.
type mdCarrier metadata.MD

func (c mdCarrier) Get(key string) string {
	if v := metadata.MD(c).Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c mdCarrier) Set(key, value string) { metadata.MD(c).Set(key, value) }

func (c mdCarrier) Keys() []string { return slices.Collect(maps.Keys(c)) }

// UnaryTracingInterceptor continues the caller's trace, opens a server span per
// call and logs both messages.
func UnaryTracingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		ctx = otel.GetTextMapPropagator().Extract(ctx, mdCarrier(md))

		ctx, span := tracer.Start(ctx, info.FullMethod, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		logger.Debug(ctx, "GrpcMiddleware",
			logger.LogGRPCRequest(ctx, info.FullMethod, md, req, "incoming::request")...)

		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, code.String())
		}

		logger.Debug(ctx, "GrpcMiddleware",
			logger.LogGRPCResponse(info.FullMethod, code, resp, time.Since(start), "incoming::response")...)
		return resp, err
	}
}
