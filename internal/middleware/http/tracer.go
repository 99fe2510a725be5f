package middleware_http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"toy-catalog/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

var tracer = otel.Tracer("HttpMiddleware")

// ResponseWriter captures status, size and body (up to logger.MaxBodyLogged).
type ResponseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	buf        bytes.Buffer
}

func (rw *ResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)

	if rw.buf.Len() < logger.MaxBodyLogged {
		toCopy := min(logger.MaxBodyLogged-rw.buf.Len(), len(b))
		rw.buf.Write(b[:toCopy])
	}
	return n, err
}

// Trace wraps handlers with an OpenTelemetry server span, continues any
// incoming trace, sets X-Trace-ID on the response and logs request and response.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path)
		defer func() {
			if rec := recover(); rec != nil {
				span.RecordError(fmt.Errorf("panic: %v", rec))
				span.SetStatus(codes.Error, "panic occurred")
				span.End()
				panic(rec)
			}
			span.End()
		}()

		attrs := logger.LogHTTPRequest(ctx, r, "incoming::request")
		logger.Info(ctx, "HTTP", attrs...)

		rw := &ResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		rw.Header().Set("X-Trace-ID", span.SpanContext().TraceID().String())

		next.ServeHTTP(rw, r.WithContext(ctx))

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				span.SetName(r.Method + " " + pattern)
				span.SetAttributes(attribute.String("http.route", pattern))
			}
		}
		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.Int("http.status_code", rw.statusCode),
			attribute.Int64("http.response_size", rw.size),
		)

		switch {
		case rw.statusCode >= 500:
			span.SetStatus(codes.Error, "internal server error")
		case rw.statusCode >= 400:
			span.SetStatus(codes.Error, "client error")
		default:
			span.SetStatus(codes.Ok, "")
		}

		attrs = logger.LogHTTPResponse(ctx, r, rw.Header(), rw.statusCode, &rw.buf, time.Since(start).Milliseconds(), "incoming::response")
		logger.Info(ctx, "HTTP", attrs...)
	})
}
