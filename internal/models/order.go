package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	OrderID         string          `json:"order_id"`
	UserID          string          `json:"user_id"`
	CustomerName    string          `json:"customer_name"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	DeliveryStatus  DeliveryStatus  `json:"delivery_status"`
	PaymentMethod   string          `json:"payment_method"`
	OrderDate       time.Time       `json:"order_date"`
	DateText        string          `json:"order_date_text"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	OriginalTotal   decimal.Decimal `json:"original_total_amount"`
	TotalSavings    decimal.Decimal `json:"total_savings"`
	BillingAddress  string          `json:"billing_address,omitempty"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	Products        []ProductLine   `json:"products"`
}

type ProductLine struct {
	ProductID          string           `json:"product_id"`
	Name               string           `json:"name"`
	Quantity           int              `json:"quantity"`
	Price              decimal.Decimal  `json:"price"`
	DiscountPrice      *decimal.Decimal `json:"discount_price,omitempty"`
	DiscountPercentage *int             `json:"discount_percentage,omitempty"`
	DiscountName       string           `json:"discount_name,omitempty"`
	ItemTotal          decimal.Decimal  `json:"item_total"`
	OriginalTotal      *decimal.Decimal `json:"original_total,omitempty"`
}

// UnitPrice is the discounted price when one applies, otherwise the list price.
func (p ProductLine) UnitPrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

func (p ProductLine) HasDiscount() bool {
	return p.DiscountPrice != nil && !p.DiscountPrice.Equal(p.Price)
}

// HasSavings reports whether the order-level original amount differs from what was charged.
func (o Order) HasSavings() bool {
	return !o.OriginalTotal.IsZero() && !o.OriginalTotal.Equal(o.TotalAmount)
}

// RawRecord is a backend JSON object before normalization.
type RawRecord = map[string]any
