package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"
)

var (
	level    = new(slog.LevelVar)
	instance = sync.OnceValue(func() *slog.Logger {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
	})
)

// Instance is the process-wide JSON logger. Prefer the ctx helpers below in
// request paths; they add trace ids and ship the line remotely.
func Instance() *slog.Logger {
	return instance()
}

// SetLevel accepts debug, info, warn or error.
func SetLevel(name string) error {
	return level.UnmarshalText([]byte(strings.ToLower(name)))
}

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelDebug, msg, attrs)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelInfo, msg, attrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelWarn, msg, attrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelError, msg, attrs)
}

// Err is shorthand for Error with the "error" attribute set.
func Err(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	Error(ctx, msg, append(attrs, slog.String("error", err.Error()))...)
}

func emit(ctx context.Context, lvl slog.Level, msg string, attrs []slog.Attr) {
	l := Instance()
	if !l.Enabled(ctx, lvl) {
		return
	}
	attrs = enrich(ctx, attrs)
	l.LogAttrs(ctx, lvl, msg, attrs...)
	sendLog(strings.ToLower(lvl.String()), msg, attrs)
}

func enrich(ctx context.Context, attrs []slog.Attr) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return attrs
	}
	return append(attrs,
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
		slog.String("hostname", Hostname()),
	)
}
