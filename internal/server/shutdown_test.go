package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"smartmart-admin/internal/config"
)

func newTestGracefulServer() *GracefulServer {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeout: time.Second}}
	return NewGracefulServer(&http.Server{Addr: "127.0.0.1:0"}, logger, cfg)
}

func TestEvery_RunsUntilShutdown(t *testing.T) {
	gs := newTestGracefulServer()

	var runs atomic.Int32
	gs.Every("tick", 5*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if runs.Load() < 2 {
		t.Fatalf("task ran %d times, want at least 2", runs.Load())
	}

	if err := gs.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if runs.Load() != stopped {
		t.Error("task kept running after shutdown")
	}
}

func TestShutdown_JoinsHookErrors(t *testing.T) {
	gs := newTestGracefulServer()

	var ran atomic.Int32
	gs.RegisterShutdownHook(func(context.Context) error {
		ran.Add(1)
		return nil
	})
	gs.RegisterShutdownHook(func(context.Context) error {
		ran.Add(1)
		return errors.New("redis close failed")
	})

	err := gs.Shutdown(context.Background())

	if ran.Load() != 2 {
		t.Errorf("ran %d hooks, want 2", ran.Load())
	}
	if err == nil || !strings.Contains(err.Error(), "redis close failed") {
		t.Errorf("error = %v, want hook failure", err)
	}
}

func TestShutdown_Twice(t *testing.T) {
	gs := newTestGracefulServer()
	gs.Every("noop", time.Hour, func(context.Context) {})

	if err := gs.Shutdown(context.Background()); err != nil {
		t.Fatalf("first shutdown: %v", err)
	}
	if err := gs.Shutdown(context.Background()); err != nil {
		t.Errorf("second shutdown: %v", err)
	}
}
