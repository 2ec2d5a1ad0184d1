package viewmodel

import (
	"context"
	"errors"
	"log/slog"

	apperrors "smartmart-admin/internal/errors"
	"smartmart-admin/internal/metrics"
)

// Status is the lifecycle of the most recent fetch for a view.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// generation hands out request tokens; only the newest token may apply a
// response. Callers hold the owning controller's lock.
type generation struct {
	latest uint64
}

func (g *generation) next() uint64 {
	g.latest++
	return g.latest
}

func (g *generation) current(token uint64) bool {
	return token == g.latest
}

// deps is what every controller needs besides its backend.
type deps struct {
	logger  *slog.Logger
	metrics *metrics.Registry
}

func newDeps(logger *slog.Logger, m *metrics.Registry) deps {
	if logger == nil {
		logger = slog.Default()
	}
	return deps{logger: logger, metrics: m}
}

func (d deps) discardStale(ctx context.Context, view string, token, latest uint64) {
	d.metrics.IncStale(view)
	d.logger.DebugContext(ctx, "discarding superseded response",
		"view", view,
		"token", token,
		"latest", latest,
	)
}

// errorText is the inline message shown for a failed fetch.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled"
	}
	return apperrors.Message(err)
}
