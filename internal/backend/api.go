package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	apperrors "smartmart-admin/internal/errors"
	"smartmart-admin/internal/models"
	"smartmart-admin/internal/normalize"
)

const (
	pathOrders        = "/admin/order/get_orders"
	pathOrderDetails  = "/admin/order/get_order_details"
	pathMarkDelivered = "/admin/order/mark_delivered"

	pathTransactions   = "/admin/payments/transactions"
	pathMonthlyRevenue = "/admin/payments/monthly_revenue"
	pathWeeklyRevenue  = "/admin/payments/weekly_revenue"
	pathSummary        = "/admin/payments/summary"

	pathWeeklySales     = "/admin/dashboard/weekly_sales"
	pathUserCount       = "/admin/dashboard/user_count"
	pathDeliveredOrders = "/admin/dashboard/delivered_orders_count"
	pathTotalSales      = "/admin/dashboard/total_sales"
	pathInventoryValue  = "/admin/dashboard/inventory_value"

	pathLogin = "/admin/login"
)

func (c *Client) ListOrders(ctx context.Context, query url.Values) ([]models.Order, error) {
	var body any
	if err := c.do(ctx, request{method: http.MethodGet, path: pathOrders, query: query}, &body); err != nil {
		return nil, err
	}
	return normalize.Orders(records(body, "orders")), nil
}

// OrderDetails fetches the full document for one order. Line items sent
// alongside the order are folded into it before normalization.
func (c *Client) OrderDetails(ctx context.Context, orderID string) (models.Order, error) {
	var body map[string]any
	req := request{
		method: http.MethodPost,
		path:   pathOrderDetails,
		body:   map[string]string{"order_id": orderID},
	}
	if err := c.do(ctx, req, &body); err != nil {
		return models.Order{}, err
	}

	doc, ok := body["order"].(map[string]any)
	if !ok {
		if _, bare := body["order_id"]; !bare {
			return models.Order{}, apperrors.NotFound("order not found").WithDetails(orderID)
		}
		doc = body
	}
	if items, ok := body["order_items"]; ok && doc["products"] == nil && doc["items"] == nil {
		doc["order_items"] = items
	}
	return normalize.Order(doc), nil
}

func (c *Client) MarkDelivered(ctx context.Context, orderID string) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   pathMarkDelivered,
		body:   map[string]string{"order_id": orderID},
	}, nil)
}

func (c *Client) ListTransactions(ctx context.Context, query url.Values) ([]models.Transaction, error) {
	var body any
	if err := c.do(ctx, request{method: http.MethodGet, path: pathTransactions, query: query}, &body); err != nil {
		return nil, err
	}
	return normalize.Transactions(records(body, "transactions")), nil
}

func (c *Client) MonthlyRevenue(ctx context.Context, query url.Values) ([]models.RevenuePoint, error) {
	return c.revenue(ctx, pathMonthlyRevenue, query, "monthly_revenue")
}

func (c *Client) WeeklyRevenue(ctx context.Context, query url.Values) ([]models.RevenuePoint, error) {
	return c.revenue(ctx, pathWeeklyRevenue, query, "weekly_revenue")
}

func (c *Client) revenue(ctx context.Context, p string, query url.Values, wrapKey string) ([]models.RevenuePoint, error) {
	var body any
	if err := c.do(ctx, request{method: http.MethodGet, path: p, query: query}, &body); err != nil {
		return nil, err
	}
	return normalize.RevenueSeries(body, wrapKey, "revenue"), nil
}

func (c *Client) PaymentSummary(ctx context.Context, query url.Values) (models.SummaryAggregate, error) {
	var body map[string]any
	if err := c.do(ctx, request{method: http.MethodGet, path: pathSummary, query: query}, &body); err != nil {
		return models.SummaryAggregate{}, err
	}
	if inner, ok := body["summary"].(map[string]any); ok {
		body = inner
	}
	return normalize.Summary(body), nil
}

func (c *Client) WeeklySales(ctx context.Context) ([]models.RevenuePoint, error) {
	var body any
	if err := c.do(ctx, request{method: http.MethodGet, path: pathWeeklySales}, &body); err != nil {
		return nil, err
	}
	return normalize.RevenueSeries(body, "weekly_sales", "sales"), nil
}

func (c *Client) UserCount(ctx context.Context) (int64, error) {
	d, err := c.scalar(ctx, pathUserCount, "user_count", "users")
	return d.IntPart(), err
}

func (c *Client) DeliveredOrdersCount(ctx context.Context) (int64, error) {
	d, err := c.scalar(ctx, pathDeliveredOrders, "delivered_orders_count", "delivered_orders")
	return d.IntPart(), err
}

func (c *Client) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	return c.scalar(ctx, pathTotalSales, "total_sales")
}

func (c *Client) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	return c.scalar(ctx, pathInventoryValue, "inventory_value")
}

func (c *Client) scalar(ctx context.Context, p string, keys ...string) (decimal.Decimal, error) {
	var body any
	if err := c.do(ctx, request{method: http.MethodGet, path: p}, &body); err != nil {
		return decimal.Zero, err
	}
	d, ok := normalize.Scalar(body, keys...)
	if !ok {
		return decimal.Zero, apperrors.Network("unexpected backend response").WithDetails(p)
	}
	return d, nil
}

type Credentials struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials against the backend and returns the accepted username.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var body struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, request{method: http.MethodPost, path: pathLogin, body: creds}, &body); err != nil {
		return "", err
	}
	if body.Username == "" {
		return creds.Username, nil
	}
	return body.Username, nil
}

// records extracts the record list from either a bare array or an object
// wrapping it under key.
func records(body any, key string) []models.RawRecord {
	items, ok := body.([]any)
	if !ok {
		obj, isObj := body.(map[string]any)
		if !isObj {
			return nil
		}
		items, _ = obj[key].([]any)
	}

	out := make([]models.RawRecord, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}
