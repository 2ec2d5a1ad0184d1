package models

import "github.com/shopspring/decimal"

type DashboardMetrics struct {
	WeeklySales          []RevenuePoint  `json:"weekly_sales"`
	UserCount            int64           `json:"user_count"`
	DeliveredOrdersCount int64           `json:"delivered_orders_count"`
	TotalSales           decimal.Decimal `json:"total_sales"`
	InventoryValue       decimal.Decimal `json:"inventory_value"`
}
