package viewmodel

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"smartmart-admin/internal/metrics"
	"smartmart-admin/internal/models"
)

type DashboardBackend interface {
	WeeklySales(ctx context.Context) ([]models.RevenuePoint, error)
	UserCount(ctx context.Context) (int64, error)
	DeliveredOrdersCount(ctx context.Context) (int64, error)
	TotalSales(ctx context.Context) (decimal.Decimal, error)
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
}

type Panel string

const (
	PanelWeeklySales     Panel = "weekly_sales"
	PanelUserCount       Panel = "user_count"
	PanelDeliveredOrders Panel = "delivered_orders_count"
	PanelTotalSales      Panel = "total_sales"
	PanelInventoryValue  Panel = "inventory_value"
)

var Panels = []Panel{PanelWeeklySales, PanelUserCount, PanelDeliveredOrders, PanelTotalSales, PanelInventoryValue}

type DashboardView struct {
	Status  Status
	Metrics models.DashboardMetrics
	// Errors holds the message for each panel whose last load failed.
	Errors map[Panel]string
}

// DashboardController loads each metric panel independently; one failing
// panel does not hide the others.
type DashboardController struct {
	backend DashboardBackend
	deps

	mu     sync.Mutex
	gen    generation
	data   models.DashboardMetrics
	errs   map[Panel]error
	status Status
}

func NewDashboardController(backend DashboardBackend, logger *slog.Logger, m *metrics.Registry) *DashboardController {
	return &DashboardController{
		backend: backend,
		deps:    newDeps(logger, m),
		data:    models.DashboardMetrics{WeeklySales: []models.RevenuePoint{}},
		errs:    make(map[Panel]error),
		status:  StatusIdle,
	}
}

func (c *DashboardController) Refresh(ctx context.Context) error {
	c.mu.Lock()
	token := c.gen.next()
	prev := c.data
	c.status = StatusLoading
	c.mu.Unlock()

	next := prev
	var (
		errMu sync.Mutex
		errs  = make(map[Panel]error)
	)
	record := func(p Panel, err error) {
		if err == nil {
			return
		}
		errMu.Lock()
		errs[p] = err
		errMu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		points, err := c.backend.WeeklySales(ctx)
		if err == nil {
			next.WeeklySales = points
		}
		record(PanelWeeklySales, err)
		return nil
	})
	g.Go(func() error {
		n, err := c.backend.UserCount(ctx)
		if err == nil {
			next.UserCount = n
		}
		record(PanelUserCount, err)
		return nil
	})
	g.Go(func() error {
		n, err := c.backend.DeliveredOrdersCount(ctx)
		if err == nil {
			next.DeliveredOrdersCount = n
		}
		record(PanelDeliveredOrders, err)
		return nil
	})
	g.Go(func() error {
		d, err := c.backend.TotalSales(ctx)
		if err == nil {
			next.TotalSales = d
		}
		record(PanelTotalSales, err)
		return nil
	})
	g.Go(func() error {
		d, err := c.backend.InventoryValue(ctx)
		if err == nil {
			next.InventoryValue = d
		}
		record(PanelInventoryValue, err)
		return nil
	})
	g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.gen.current(token) {
		c.discardStale(ctx, "dashboard", token, c.gen.latest)
		return nil
	}

	c.data = next
	c.errs = errs
	if len(errs) == len(Panels) {
		c.status = StatusError
	} else {
		c.status = StatusLoaded
	}
	for p, err := range errs {
		c.logger.WarnContext(ctx, "dashboard panel failed", "panel", p, "error", err)
	}

	for _, p := range Panels {
		if err := errs[p]; err != nil {
			return err
		}
	}
	return nil
}

func (c *DashboardController) View() DashboardView {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make(map[Panel]string, len(c.errs))
	for p, err := range c.errs {
		errs[p] = errorText(err)
	}
	m := c.data
	m.WeeklySales = append([]models.RevenuePoint{}, m.WeeklySales...)
	return DashboardView{Status: c.status, Metrics: m, Errors: errs}
}
