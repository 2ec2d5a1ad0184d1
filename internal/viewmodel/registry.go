package viewmodel

import (
	"log/slog"
	"sync"
	"time"

	"smartmart-admin/internal/metrics"
)

// Backend is everything the three views read from or write to.
type Backend interface {
	OrdersBackend
	PaymentsBackend
	DashboardBackend
}

// Workspace is the view state owned by one signed-in session.
type Workspace struct {
	Orders    *OrdersController
	Payments  *PaymentsController
	Dashboard *DashboardController

	lastSeen time.Time
}

// Registry maps session IDs to their workspaces.
type Registry struct {
	backend Backend
	logger  *slog.Logger
	metrics *metrics.Registry
	now     func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(backend Backend, logger *slog.Logger, m *metrics.Registry) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		backend:    backend,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the session's workspace, creating it on first use.
func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[sessionID]
	if !ok {
		logger := r.logger.With("session_id", sessionID)
		ws = &Workspace{
			Orders:    NewOrdersController(r.backend, logger, r.metrics),
			Payments:  NewPaymentsController(r.backend, logger, r.metrics),
			Dashboard: NewDashboardController(r.backend, logger, r.metrics),
		}
		r.workspaces[sessionID] = ws
		r.metrics.SetWorkspaces(len(r.workspaces))
	}
	ws.lastSeen = r.now()
	return ws
}

// Drop discards a session's workspace, typically on logout.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.workspaces, sessionID)
	r.metrics.SetWorkspaces(len(r.workspaces))
}

// Sweep drops workspaces not touched within idle and returns how many went.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, ws := range r.workspaces {
		if ws.lastSeen.Before(cutoff) {
			delete(r.workspaces, id)
			removed++
		}
	}
	if removed > 0 {
		r.metrics.SetWorkspaces(len(r.workspaces))
		r.logger.Info("swept idle workspaces", "removed", removed, "remaining", len(r.workspaces))
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
