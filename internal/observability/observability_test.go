package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"smartmart-admin/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	if NewLogger(config.LoggerConfig{Level: "debug", Format: "text"}) == nil {
		t.Error("NewLogger() returned nil")
	}
}

func TestLogger_AddsRequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LoggerConfig{Level: "info", Format: "json"})

	logger.InfoContext(WithRequestID(context.Background(), "req-42"), "orders fetched")
	logger.Info("no request")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], `"request_id":"req-42"`) {
		t.Errorf("expected request id in %s", lines[0])
	}
	if strings.Contains(lines[1], "request_id") {
		t.Errorf("unexpected request id in %s", lines[1])
	}
	if !strings.Contains(lines[1], `"service":"smartmart-admin"`) {
		t.Errorf("expected service attribute in %s", lines[1])
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := GetRequestID(ctx); got != "abc" {
		t.Errorf("GetRequestID() = %q", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID(empty) = %q", got)
	}
}

func TestStartSpan_InheritsTrace(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "GET /orders")
	_, child := StartSpan(ctx, "backend GET /admin/order/get_orders")

	if child.TraceID != parent.TraceID {
		t.Error("child span should share the parent trace id")
	}
	if child.ParentID != parent.SpanID {
		t.Error("child span should reference the parent span")
	}
}

func TestSpan_LogValue(t *testing.T) {
	_, span := StartSpan(context.Background(), "backend GET /admin/payments/summary")
	span.SetTag("http.status_code", "503")
	span.SetError(errors.New("HTTP 503"))
	span.Finish()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("backend call", "span", span)

	out := buf.String()
	for _, want := range []string{"span.operation=", "span.status=ERROR", "span.http.status_code=503", "span.duration="} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}
