// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Service: "modfloat", Version: "1.0.0"}, &buf)
	require.NoError(t, err)

	logger.Info("stat evaluated", "stat", "hp")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "failed to parse JSON: %s", buf.String())
	assert.Equal(t, "stat evaluated", entry["msg"])
	assert.Equal(t, "modfloat", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Equal(t, "hp", entry["stat"])
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Service: "modfloat", Format: "text"}, &buf)
	require.NoError(t, err)

	logger.Info("stat evaluated")

	assert.Contains(t, buf.String(), "stat evaluated")
	assert.Contains(t, buf.String(), "service=modfloat")
}

func TestSetup_RejectsUnknownFormat(t *testing.T) {
	_, err := Setup(Config{Format: "xml"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestSetup_LevelFiltersRecords(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestHandler_TraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Service: "modfloat"}, &buf)
	require.NoError(t, err)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "traced message")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
}

func TestHandler_WithAttrsKeepsIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Service: "modfloat", Version: "2"}, &buf)
	require.NoError(t, err)

	logger.With("sheet", "goblin").WithGroup("eval").Info("done", "steps", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "goblin", entry["sheet"])
	assert.Equal(t, "modfloat", entry["eval"].(map[string]any)["service"])
}
