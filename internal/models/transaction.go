package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	TransactionID   string          `json:"transaction_id"`
	OrderID         string          `json:"order_id"`
	CustomerName    string          `json:"customer_name"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMode     PaymentMode     `json:"payment_mode"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	TransactionDate time.Time       `json:"transaction_date"`
	DateText        string          `json:"transaction_date_text"`
}

// SummaryAggregate is derived from a transaction set and never edited directly.
type SummaryAggregate struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalTransactions int             `json:"total_transactions"`
	SuccessRate       decimal.Decimal `json:"success_rate"`
}

type RevenuePoint struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}
