package handlers

import (
	"log/slog"
	"net/http"

	"smartmart-admin/internal/ui/templates"
	"smartmart-admin/internal/viewmodel"
)

// PageHandlers render full pages from the session's current view state. Fresh
// data arrives afterwards over SSE.
type PageHandlers struct {
	registry *viewmodel.Registry
	logger   *slog.Logger
}

func NewPageHandlers(registry *viewmodel.Registry, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{registry: registry, logger: logger}
}

func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ws, s, ok := workspace(h.registry, h.logger, w, r)
	if !ok {
		return
	}
	renderPage(w, r, h.logger, http.StatusOK, templates.Dashboard(s.Username, ws.Dashboard.View()))
}

func (h *PageHandlers) HandleOrders(w http.ResponseWriter, r *http.Request) {
	ws, s, ok := workspace(h.registry, h.logger, w, r)
	if !ok {
		return
	}
	renderPage(w, r, h.logger, http.StatusOK, templates.Orders(s.Username, ws.Orders.View()))
}

func (h *PageHandlers) HandlePayments(w http.ResponseWriter, r *http.Request) {
	ws, s, ok := workspace(h.registry, h.logger, w, r)
	if !ok {
		return
	}
	renderPage(w, r, h.logger, http.StatusOK, templates.Payments(s.Username, ws.Payments.View()))
}
