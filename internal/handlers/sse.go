package handlers

import (
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"smartmart-admin/internal/errors"
	"smartmart-admin/internal/ui/templates"
	"smartmart-admin/internal/viewmodel"
)

// unreadableSignals is shown when a filter request cannot be decoded; the
// current filters stay in place.
const unreadableSignals = "Could not read the filter values; filters were left unchanged"

type SSEHandlers struct {
	registry *viewmodel.Registry
	logger   *slog.Logger
}

func NewSSEHandlers(registry *viewmodel.Registry, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		registry: registry,
		logger:   logger,
	}
}

func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := workspace(h.registry, h.logger, w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)
	// per-panel errors are part of the view
	_ = ws.Dashboard.Refresh(r.Context())
	patch(r.Context(), sse, w, h.logger, templates.DashboardPanels(ws.Dashboard.View()))
}

// HandleOrders applies the filter signals sent by the page and re-renders the
// orders panel. Every valid request re-fetches, so it doubles as refresh. A
// payload that cannot be decoded leaves the filters untouched.
func (h *SSEHandlers) HandleOrders(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := workspace(h.registry, h.logger, w, r)
	if !ok {
		return
	}

	var signals templates.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.WarnContext(r.Context(), "read order signals", "error", err)
		view := ws.Orders.View()
		view.FilterError = unreadableSignals
		patch(r.Context(), datastar.NewSSE(w, r), w, h.logger, templates.OrdersPanel(view))
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := ws.Orders.Apply(r.Context(), map[viewmodel.Field]string{
		viewmodel.FieldPaymentStatus:   signals.PaymentStatus,
		viewmodel.FieldDeliveryStatus:  signals.DeliveryStatus,
		viewmodel.FieldAmountDirection: signals.AmountDirection,
		viewmodel.FieldAmountValue:     signals.AmountValue,
	}); err != nil {
		h.logger.Debug("orders filter", "error", err)
	}
	patch(r.Context(), sse, w, h.logger, templates.OrdersPanel(ws.Orders.View()))
}

func (h *SSEHandlers) HandlePayments(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := workspace(h.registry, h.logger, w, r)
	if !ok {
		return
	}

	var signals templates.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.WarnContext(r.Context(), "read payment signals", "error", err)
		view := ws.Payments.View()
		view.FilterError = unreadableSignals
		patch(r.Context(), datastar.NewSSE(w, r), w, h.logger, templates.PaymentsPanel(view))
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := ws.Payments.Apply(r.Context(), map[viewmodel.Field]string{
		viewmodel.FieldPaymentStatus: signals.PaymentStatus,
		viewmodel.FieldDateScope:     signals.DateScope,
	}); err != nil {
		h.logger.Debug("payments filter", "error", err)
	}
	patch(r.Context(), sse, w, h.logger, templates.PaymentsPanel(ws.Payments.View()))
}

func (h *SSEHandlers) HandleToggleOrder(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := workspace(h.registry, h.logger, w, r)
	if !ok {
		return
	}

	ws.Orders.ToggleExpansion(r.PathValue("id"))
	sse := datastar.NewSSE(w, r)
	patch(r.Context(), sse, w, h.logger, templates.OrdersPanel(ws.Orders.View()))
}

func (h *SSEHandlers) HandleDeliverOrder(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := workspace(h.registry, h.logger, w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)
	id := r.PathValue("id")
	changed, err := ws.Orders.MarkDelivered(r.Context(), id)
	if err == nil && !changed {
		h.logger.Debug("mark delivered skipped", "order_id", id)
	}
	patch(r.Context(), sse, w, h.logger, templates.OrdersPanel(ws.Orders.View()))
}

func (h *SSEHandlers) HandleOrderDetails(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := workspace(h.registry, h.logger, w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)
	order, err := ws.Orders.Details(r.Context(), r.PathValue("id"))
	if err != nil {
		patch(r.Context(), sse, w, h.logger, templates.OrderDetailsError(errors.Message(err)))
		return
	}
	patch(r.Context(), sse, w, h.logger, templates.OrderDetails(order))
}
