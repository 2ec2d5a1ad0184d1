// Package normalize maps the backend's inconsistently named JSON fields onto the
// canonical records used by the view layer.
package normalize

import (
	"fmt"
	"slices"
)

const (
	FallbackName = "Unknown"
	FallbackText = "N/A"
)

// Table maps a canonical field to the ordered list of keys the backend has been
// seen to use for it. The first present, non-null key wins.
type Table map[string][]string

var OrderTable = Table{
	"order_id":              {"order_id", "_id", "id"},
	"user_id":               {"user_id", "phone_number"},
	"customer_name":         {"customer_name", "customer"},
	"payment_status":        {"payment_status", "paymentStatus"},
	"delivery_status":       {"delivery_status", "deliveryStatus"},
	"payment_method":        {"payment_method", "paymentMethod"},
	"order_date":            {"order_date", "order_date_string", "date", "order_timestamp", "created_at"},
	"total_amount":          {"total_amount", "total"},
	"original_total_amount": {"original_total_amount", "original_total"},
	"total_savings":         {"total_savings", "savings"},
	"billing_address":       {"billing_address"},
	"delivery_address":      {"delivery_address", "shipping_address"},
	"products":              {"products", "items", "order_items"},
}

var ProductLineTable = Table{
	"product_id":          {"product_id", "id"},
	"name":                {"name", "product_name"},
	"quantity":            {"quantity", "qty"},
	"price":               {"price", "original_unit_price"},
	"discount_price":      {"discount_price", "unit_price"},
	"discount_percentage": {"discount_percentage"},
	"discount_name":       {"discount_name"},
	"item_total":          {"item_total", "total_price"},
	"original_total":      {"original_total", "original_total_price"},
}

var TransactionTable = Table{
	"transaction_id":   {"transaction_id", "id", "_id"},
	"order_id":         {"order_id", "orderId"},
	"customer_name":    {"customer_name", "customer"},
	"amount":           {"amount", "total_amount"},
	"payment_mode":     {"payment_mode", "payment_method", "mode"},
	"payment_status":   {"payment_status", "status"},
	"transaction_date": {"transaction_date", "date", "created_at"},
}

var RevenuePointTable = Table{
	"label":   {"label", "month", "week", "name", "day"},
	"revenue": {"revenue", "sales", "amount", "value"},
}

// Lookup returns the value for canonical from rec.
func (t Table) Lookup(rec map[string]any, canonical string) (any, bool) {
	for _, key := range t[canonical] {
		if v, ok := rec[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Validate checks that no backend key resolves to more than one canonical field.
func (t Table) Validate() error {
	owner := make(map[string]string)
	canonicals := make([]string, 0, len(t))
	for c := range t {
		canonicals = append(canonicals, c)
	}
	slices.Sort(canonicals)

	for _, c := range canonicals {
		if len(t[c]) == 0 {
			return fmt.Errorf("canonical field %q has no keys", c)
		}
		for _, key := range t[c] {
			if prev, dup := owner[key]; dup {
				return fmt.Errorf("key %q maps to both %q and %q", key, prev, c)
			}
			owner[key] = c
		}
	}
	return nil
}
