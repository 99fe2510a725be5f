package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { _ = SetLevel("info") })

	require.NoError(t, SetLevel("DEBUG"))
	assert.True(t, Instance().Enabled(context.Background(), slog.LevelDebug))

	require.NoError(t, SetLevel("warn"))
	assert.False(t, Instance().Enabled(context.Background(), slog.LevelInfo))

	assert.Error(t, SetLevel("chatty"))
}

func TestEnrich(t *testing.T) {
	assert.Empty(t, enrich(context.Background(), nil))

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01},
		SpanID:     trace.SpanID{0x02},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	got := attrMap(enrich(ctx, []slog.Attr{slog.String("op", "x")}))
	assert.Equal(t, "x", got["op"])
	assert.Equal(t, sc.TraceID().String(), got["trace_id"])
	assert.Equal(t, sc.SpanID().String(), got["span_id"])
	assert.Equal(t, Hostname(), got["hostname"])
}
