package viewmodel

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"smartmart-admin/internal/metrics"
	"smartmart-admin/internal/models"
)

var errBackendDown = errors.New("backend down")

// fakeBackend answers with canned data unless a hook overrides a call.
type fakeBackend struct {
	listOrders    func(ctx context.Context, q url.Values) ([]models.Order, error)
	orderDetails  func(ctx context.Context, id string) (models.Order, error)
	markDelivered func(ctx context.Context, id string) error

	listTransactions func(ctx context.Context, q url.Values) ([]models.Transaction, error)
	monthlyRevenue   func(ctx context.Context, q url.Values) ([]models.RevenuePoint, error)

	totalSales func(ctx context.Context) (decimal.Decimal, error)
	userCount  func(ctx context.Context) (int64, error)

	markCalls atomic.Int32
}

func (f *fakeBackend) ListOrders(ctx context.Context, q url.Values) ([]models.Order, error) {
	if f.listOrders != nil {
		return f.listOrders(ctx, q)
	}
	return []models.Order{}, nil
}

func (f *fakeBackend) OrderDetails(ctx context.Context, id string) (models.Order, error) {
	if f.orderDetails != nil {
		return f.orderDetails(ctx, id)
	}
	return models.Order{OrderID: id}, nil
}

func (f *fakeBackend) MarkDelivered(ctx context.Context, id string) error {
	f.markCalls.Add(1)
	if f.markDelivered != nil {
		return f.markDelivered(ctx, id)
	}
	return nil
}

func (f *fakeBackend) ListTransactions(ctx context.Context, q url.Values) ([]models.Transaction, error) {
	if f.listTransactions != nil {
		return f.listTransactions(ctx, q)
	}
	return []models.Transaction{}, nil
}

func (f *fakeBackend) MonthlyRevenue(ctx context.Context, q url.Values) ([]models.RevenuePoint, error) {
	if f.monthlyRevenue != nil {
		return f.monthlyRevenue(ctx, q)
	}
	return []models.RevenuePoint{{Label: "Jan", Revenue: decimal.NewFromInt(10)}}, nil
}

func (f *fakeBackend) WeeklyRevenue(context.Context, url.Values) ([]models.RevenuePoint, error) {
	return []models.RevenuePoint{{Label: "W1", Revenue: decimal.NewFromInt(5)}}, nil
}

func (f *fakeBackend) PaymentSummary(context.Context, url.Values) (models.SummaryAggregate, error) {
	return models.SummaryAggregate{TotalTransactions: 99}, nil
}

func (f *fakeBackend) WeeklySales(context.Context) ([]models.RevenuePoint, error) {
	return []models.RevenuePoint{{Label: "Mon", Revenue: decimal.NewFromInt(3)}}, nil
}

func (f *fakeBackend) UserCount(ctx context.Context) (int64, error) {
	if f.userCount != nil {
		return f.userCount(ctx)
	}
	return 7, nil
}

func (f *fakeBackend) DeliveredOrdersCount(context.Context) (int64, error) {
	return 4, nil
}

func (f *fakeBackend) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	if f.totalSales != nil {
		return f.totalSales(ctx)
	}
	return decimal.NewFromInt(1000), nil
}

func (f *fakeBackend) InventoryValue(context.Context) (decimal.Decimal, error) {
	return decimal.NewFromInt(250), nil
}

func staleCount(t *testing.T, reg *metrics.Registry, view string) float64 {
	t.Helper()
	mfs, err := reg.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "dashboard_stale_responses_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if hasLabel(m, "view", view) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}

func order(id string, payment models.PaymentStatus, delivery models.DeliveryStatus, total int64) models.Order {
	return models.Order{
		OrderID:        id,
		CustomerName:   "c-" + id,
		PaymentStatus:  payment,
		DeliveryStatus: delivery,
		TotalAmount:    decimal.NewFromInt(total),
	}
}
