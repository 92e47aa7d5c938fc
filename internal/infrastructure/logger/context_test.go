package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func spanContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestWithRequestIDAndUser(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	ctx := WithRequestID(context.Background(), zap.New(core), "req-42")
	ctx = WithUserID(ctx, "user-7")
	FromContext(ctx).Info("transition")

	assert.Equal(t, "req-42", GetRequestID(ctx))
	assert.Equal(t, "user-7", GetUserID(ctx))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "user-7", fields["user_id"])
}

func TestTraceCorrelation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := WithContext(spanContext(t), zap.New(core))

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(ctx))
	L(ctx).Info("traced")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
}

func TestWithTrace_NoSpan(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	WithTrace(context.Background(), zap.New(core)).Info("untraced")

	assert.Empty(t, GetTraceID(context.Background()))
	assert.NotContains(t, logs.All()[0].ContextMap(), "trace_id")
}
