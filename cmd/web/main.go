package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"smartmart-admin/internal/backend"
	"smartmart-admin/internal/config"
	"smartmart-admin/internal/metrics"
	"smartmart-admin/internal/middleware"
	"smartmart-admin/internal/observability"
	"smartmart-admin/internal/server"
	"smartmart-admin/internal/session"
	"smartmart-admin/internal/viewmodel"
)

const (
	redisConnectTimeout = 5 * time.Second
	sweepInterval       = 10 * time.Minute
	limiterIdle         = 5 * time.Minute
)

// newDirectory picks Redis when configured, otherwise an in-process directory.
func newDirectory(ctx context.Context, cfg config.SessionConfig, logger *slog.Logger) (session.Directory, func(context.Context) error, error) {
	if cfg.RedisURL == "" {
		logger.Info("using in-memory session directory")
		return session.NewMemoryDirectory(), func(context.Context) error { return nil }, nil
	}

	ctx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()

	dir, err := session.NewRedisDirectory(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using redis session directory")
	return dir, func(context.Context) error { return dir.Close() }, nil
}

func buildHandler(logger *slog.Logger, deps server.Deps, rateLimiter *middleware.RateLimiter) http.Handler {
	srv := server.NewServer(deps, logger)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"address", cfg.Address(),
		"backend", cfg.Backend.BaseURL,
	)

	reg := metrics.NewRegistry()
	client := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Retries: cfg.Backend.Retries,
	}, logger, reg)

	dir, closeDir, err := newDirectory(context.Background(), cfg.Session, logger)
	if err != nil {
		logger.Error("failed to set up session directory", "error", err)
		os.Exit(1)
	}

	workspaces := viewmodel.NewRegistry(client, logger, reg)
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	handler := buildHandler(logger, server.Deps{
		Registry:      workspaces,
		Sessions:      session.NewManager(dir, cfg.Session.TTL, logger),
		Auth:          client,
		Catalog:       client,
		Metrics:       reg,
		SecureCookies: cfg.Session.SecureCookie,
	}, rateLimiter)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.Every("workspace-sweep", sweepInterval, func(context.Context) {
		workspaces.Sweep(cfg.Session.TTL)
	})
	gracefulServer.Every("rate-limit-sweep", limiterIdle, func(context.Context) {
		rateLimiter.Sweep(limiterIdle)
	})

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("closing session directory")
		return closeDir(ctx)
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
