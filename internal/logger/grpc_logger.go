package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// MetadataAttrs keeps the same keys as HeaderAttrs, under grpc.header.*.
func MetadataAttrs(md metadata.MD) []slog.Attr {
	return headerAttrs("grpc.header.", md)
}

// messageAttrs flattens protobuf messages (health checks included) through protojson.
func messageAttrs(prefix string, m any) []slog.Attr {
	switch v := m.(type) {
	case nil:
		return nil
	case proto.Message:
		if b, err := protojson.Marshal(v); err == nil {
			a, _ := jsonAttrsWithPrefix(prefix, b)
			return a
		}
	}
	return []slog.Attr{slog.String(prefix, redactIfNeeded(prefix, fmt.Sprint(m)))}
}

// LogGRPCRequest describes an incoming call; fullMethod is "/pkg.Service/Method".
func LogGRPCRequest(ctx context.Context, fullMethod string, md metadata.MD, req any, direction string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("grpc.direction", direction),
		slog.String("grpc.method", fullMethod),
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		attrs = append(attrs, slog.String("grpc.remote", p.Addr.String()))
	}
	attrs = append(attrs, MetadataAttrs(md)...)
	return append(attrs, messageAttrs("grpc.request", req)...)
}

func LogGRPCResponse(fullMethod string, code codes.Code, resp any, took time.Duration, direction string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("grpc.direction", direction),
		slog.String("grpc.method", fullMethod),
		slog.String("grpc.code", code.String()),
		slog.Int64("duration_ms", took.Milliseconds()),
	}
	return append(attrs, messageAttrs("grpc.response", resp)...)
}
