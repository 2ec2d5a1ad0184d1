package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name" validate:"required,max=200"`
	Category    string          `json:"category" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Description string          `json:"description,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	DiscountID  string          `json:"discount_id,omitempty"`
}

const (
	StockIn  = "In Stock"
	StockLow = "Low Stock"
	StockOut = "Out of Stock"
)

func (p Product) StockStatus() string {
	switch {
	case p.Stock > 50:
		return StockIn
	case p.Stock > 20:
		return StockLow
	default:
		return StockOut
	}
}

type Discount struct {
	DiscountID     string    `json:"discount_id"`
	Code           string    `json:"code" validate:"required,max=64"`
	Name           string    `json:"name"`
	ProductBarcode string    `json:"product_barcode,omitempty"`
	Percentage     int       `json:"percentage" validate:"gte=0,lte=100"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	Status         string    `json:"status"`
}

const (
	DiscountActive  = "Active"
	DiscountExpired = "Expired"
)

// StatusAt derives Active/Expired from the end date; the end day itself still counts as active.
func (d Discount) StatusAt(now time.Time) string {
	end := d.EndDate
	if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if now.After(end) {
		return DiscountExpired
	}
	return DiscountActive
}
