package errors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestCodeOf_UnwrapsChains(t *testing.T) {
	base := NotFound("order not found")
	wrapped := fmt.Errorf("load details: %w", base)

	if got := CodeOf(wrapped); got != CodeNotFound {
		t.Errorf("CodeOf() = %s, want %s", got, CodeNotFound)
	}
	if !Is(wrapped, CodeNotFound) {
		t.Error("Is() should match wrapped AppError")
	}
	if got := CodeOf(fmt.Errorf("plain")); got != CodeInternal {
		t.Errorf("CodeOf(plain) = %s, want %s", got, CodeInternal)
	}
	if Is(nil, CodeInternal) {
		t.Error("Is(nil) should be false")
	}
}

func TestNetwork_MapsToBadGateway(t *testing.T) {
	err := NetworkWrap(fmt.Errorf("connection refused"), "backend unreachable")
	if err.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want %d", err.StatusCode, http.StatusBadGateway)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"app error", Validation("amount must be numeric"), "amount must be numeric"},
		{"with details", Network("backend request failed").WithDetails("status 503"), "backend request failed: status 503"},
		{"foreign error", fmt.Errorf("boom"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteError_WrappedAppError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	w := httptest.NewRecorder()

	WriteError(w, logger, fmt.Errorf("ctx: %w", Unauthorized("login required")), "req-1")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Error.Code != CodeUnauthorized || resp.Error.RequestID != "req-1" {
		t.Errorf("unexpected error body: %+v", resp.Error)
	}
}
