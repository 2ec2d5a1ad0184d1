package viewmodel

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"smartmart-admin/internal/metrics"
	"smartmart-admin/internal/models"
	"smartmart-admin/internal/services"
)

type OrdersBackend interface {
	ListOrders(ctx context.Context, query url.Values) ([]models.Order, error)
	OrderDetails(ctx context.Context, orderID string) (models.Order, error)
	MarkDelivered(ctx context.Context, orderID string) error
}

type OrderRow struct {
	models.Order
	Expanded   bool
	CanDeliver bool
	Delivering bool
}

// OrdersView is a point-in-time copy of the orders state, safe to render.
type OrdersView struct {
	Filter      FilterState
	Status      Status
	Error       string
	FilterError string
	ActionError string
	Rows        []OrderRow
	Total       decimal.Decimal
	Counts      map[models.DeliveryStatus]int
}

type OrdersController struct {
	backend OrdersBackend
	deps

	mu         sync.Mutex
	gen        generation
	filter     FilterState
	orders     []models.Order
	expanded   map[string]bool
	delivering map[string]bool
	status     Status
	fetchErr   error
	filterErr  error
	actionErr  error
}

func NewOrdersController(backend OrdersBackend, logger *slog.Logger, m *metrics.Registry) *OrdersController {
	return &OrdersController{
		backend:    backend,
		deps:       newDeps(logger, m),
		filter:     DefaultFilter(),
		orders:     []models.Order{},
		expanded:   make(map[string]bool),
		delivering: make(map[string]bool),
		status:     StatusIdle,
	}
}

// SetFilter changes one dimension and re-fetches. A rejected value is
// reported and never reaches the backend.
func (c *OrdersController) SetFilter(ctx context.Context, field Field, value string) error {
	return c.Apply(ctx, map[Field]string{field: value})
}

// Apply changes several dimensions at once and re-fetches a single time. A
// rejected amount is reported, but the fetch still happens when the other
// dimensions changed what the backend is asked for.
func (c *OrdersController) Apply(ctx context.Context, changes map[Field]string) error {
	c.mu.Lock()
	prev := c.filter
	next, err := c.filter.apply(changes, ScopeOrders.Fields())
	c.filter = next
	c.filterErr = err
	c.mu.Unlock()

	if err != nil && sameQuery(prev, next, ScopeOrders) {
		return err
	}
	if fetchErr := c.Refresh(ctx); fetchErr != nil {
		return fetchErr
	}
	return err
}

// Refresh fetches orders for the current filter. A response that arrives
// after a newer request was issued is dropped. On failure the previously
// accepted orders stay in place.
func (c *OrdersController) Refresh(ctx context.Context) error {
	c.mu.Lock()
	token := c.gen.next()
	query := BuildQuery(c.filter, ScopeOrders)
	c.status = StatusLoading
	c.mu.Unlock()

	orders, err := c.backend.ListOrders(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.gen.current(token) {
		c.discardStale(ctx, ScopeOrders.String(), token, c.gen.latest)
		return nil
	}
	if err != nil {
		c.status = StatusError
		c.fetchErr = err
		c.logger.WarnContext(ctx, "orders fetch failed", "error", err, "query", query.Encode())
		return err
	}

	c.orders = orders
	c.status = StatusLoaded
	c.fetchErr = nil
	return nil
}

// ToggleExpansion flips the detail row of an order and reports the new state.
func (c *OrdersController) ToggleExpansion(orderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expanded[orderID] = !c.expanded[orderID]
	if !c.expanded[orderID] {
		delete(c.expanded, orderID)
		return false
	}
	return true
}

// MarkDelivered asks the backend to mark an order delivered and reflects the
// change locally once it succeeds. Unknown, already fulfilled, or in-flight
// orders are left alone and false is returned.
func (c *OrdersController) MarkDelivered(ctx context.Context, orderID string) (bool, error) {
	c.mu.Lock()
	idx := c.indexOf(orderID)
	if idx < 0 || c.orders[idx].DeliveryStatus.Fulfilled() || c.delivering[orderID] {
		c.mu.Unlock()
		return false, nil
	}
	c.delivering[orderID] = true
	c.mu.Unlock()

	err := c.backend.MarkDelivered(ctx, orderID)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.delivering, orderID)

	if err != nil {
		c.actionErr = err
		c.logger.WarnContext(ctx, "mark delivered failed", "order_id", orderID, "error", err)
		return false, err
	}

	c.actionErr = nil
	// the list may have been replaced while the call was in flight
	if idx = c.indexOf(orderID); idx >= 0 {
		updated := c.orders[idx]
		updated.DeliveryStatus = models.DeliveryDelivered
		c.orders = slices.Clone(c.orders)
		c.orders[idx] = updated
	}
	return true, nil
}

// Details fetches the full order document, including line items.
func (c *OrdersController) Details(ctx context.Context, orderID string) (models.Order, error) {
	order, err := c.backend.OrderDetails(ctx, orderID)
	if err != nil {
		c.logger.WarnContext(ctx, "order details failed", "order_id", orderID, "error", err)
		return models.Order{}, err
	}
	return order, nil
}

func (c *OrdersController) View() OrdersView {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := filterSlice(services.Reverse(c.orders), c.filter.MatchOrder)
	rows := make([]OrderRow, 0, len(visible))
	for _, o := range visible {
		rows = append(rows, OrderRow{
			Order:      o,
			Expanded:   c.expanded[o.OrderID],
			CanDeliver: !o.DeliveryStatus.Fulfilled() && !c.delivering[o.OrderID],
			Delivering: c.delivering[o.OrderID],
		})
	}

	return OrdersView{
		Filter:      c.filter,
		Status:      c.status,
		Error:       errorText(c.fetchErr),
		FilterError: errorText(c.filterErr),
		ActionError: errorText(c.actionErr),
		Rows:        rows,
		Total:       services.OrderTotals(visible),
		Counts:      services.CountByDelivery(visible),
	}
}

func (c *OrdersController) indexOf(orderID string) int {
	return slices.IndexFunc(c.orders, func(o models.Order) bool { return o.OrderID == orderID })
}
