package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestLogger_JSONFieldsAndTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatJSON, LevelDebug)

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.Named("view").WarnContext(ctx, "fetch matchups failed", "league_id", "123", "error", errors.New("boom"))

	var line map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "view", line["logger"])
	assert.Equal(t, "fetch matchups failed", line["msg"])
	assert.Equal(t, "123", line["league_id"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, traceID.String(), line["trace_id"])
	assert.Equal(t, spanID.String(), line["span_id"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatJSON, LevelWarn)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{in: "debug", want: LevelDebug},
		{in: " WARNING ", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "nonsense", want: LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("nil receiver")
		logger.With("k", "v").Info("nil receiver with fields")
	})
}
