package normalize

import (
	"github.com/shopspring/decimal"

	"smartmart-admin/internal/models"
)

type reader struct {
	table Table
	rec   map[string]any
}

func (r reader) str(canonical, fallback string) string {
	if v, ok := r.table.Lookup(r.rec, canonical); ok {
		if s, ok := asString(v); ok {
			return s
		}
	}
	return fallback
}

func (r reader) dec(canonical string) (decimal.Decimal, bool) {
	if v, ok := r.table.Lookup(r.rec, canonical); ok {
		return asDecimal(v)
	}
	return decimal.Zero, false
}

func (r reader) amount(canonical string) decimal.Decimal {
	d, _ := r.dec(canonical)
	return d
}

// Order converts a backend order document into the canonical shape.
func Order(rec models.RawRecord) models.Order {
	r := reader{table: OrderTable, rec: rec}

	payment, _ := models.ParsePaymentStatus(r.str("payment_status", ""))
	delivery, _ := models.ParseDeliveryStatus(r.str("delivery_status", ""))

	o := models.Order{
		OrderID:         r.str("order_id", FallbackText),
		UserID:          r.str("user_id", FallbackText),
		CustomerName:    r.str("customer_name", FallbackName),
		PaymentStatus:   payment,
		DeliveryStatus:  delivery,
		PaymentMethod:   r.str("payment_method", FallbackText),
		DateText:        FallbackText,
		TotalAmount:     r.amount("total_amount"),
		OriginalTotal:   r.amount("original_total_amount"),
		TotalSavings:    r.amount("total_savings"),
		BillingAddress:  r.str("billing_address", ""),
		DeliveryAddress: r.str("delivery_address", ""),
		Products:        []models.ProductLine{},
	}

	if v, ok := OrderTable.Lookup(rec, "order_date"); ok {
		if t, text, ok := asTime(v); ok {
			o.OrderDate = t
			o.DateText = text
		}
	}

	if v, ok := OrderTable.Lookup(rec, "products"); ok {
		if lines, ok := v.([]any); ok {
			for _, line := range lines {
				if m, ok := line.(map[string]any); ok {
					o.Products = append(o.Products, ProductLine(m))
				}
			}
		}
	}

	return o
}

// ProductLine normalizes one order line and fills derived totals when absent.
func ProductLine(rec models.RawRecord) models.ProductLine {
	r := reader{table: ProductLineTable, rec: rec}

	p := models.ProductLine{
		ProductID:    r.str("product_id", FallbackText),
		Name:         r.str("name", FallbackName),
		Quantity:     1,
		Price:        r.amount("price"),
		DiscountName: r.str("discount_name", ""),
	}

	if v, ok := ProductLineTable.Lookup(rec, "quantity"); ok {
		if q, ok := asInt(v); ok && q >= 1 {
			p.Quantity = q
		}
	}
	if d, ok := r.dec("discount_price"); ok {
		p.DiscountPrice = &d
	}
	if v, ok := ProductLineTable.Lookup(rec, "discount_percentage"); ok {
		if pct, ok := asInt(v); ok && pct >= 0 && pct <= 100 {
			p.DiscountPercentage = &pct
		}
	}

	qty := decimal.NewFromInt(int64(p.Quantity))
	if total, ok := r.dec("item_total"); ok {
		p.ItemTotal = total
	} else {
		p.ItemTotal = p.UnitPrice().Mul(qty)
	}
	if orig, ok := r.dec("original_total"); ok {
		p.OriginalTotal = &orig
	} else if p.DiscountPrice != nil {
		orig := p.Price.Mul(qty)
		p.OriginalTotal = &orig
	}

	return p
}

func Transaction(rec models.RawRecord) models.Transaction {
	r := reader{table: TransactionTable, rec: rec}

	status, _ := models.ParsePaymentStatus(r.str("payment_status", ""))

	tx := models.Transaction{
		TransactionID: r.str("transaction_id", FallbackText),
		OrderID:       r.str("order_id", FallbackText),
		CustomerName:  r.str("customer_name", FallbackName),
		Amount:        r.amount("amount"),
		PaymentMode:   models.ParsePaymentMode(r.str("payment_mode", "")),
		PaymentStatus: status,
		DateText:      FallbackText,
	}

	if v, ok := TransactionTable.Lookup(rec, "transaction_date"); ok {
		if t, text, ok := asTime(v); ok {
			tx.TransactionDate = t
			tx.DateText = text
		}
	}

	return tx
}

func Orders(recs []models.RawRecord) []models.Order {
	out := make([]models.Order, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Order(rec))
	}
	return out
}

func Transactions(recs []models.RawRecord) []models.Transaction {
	out := make([]models.Transaction, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Transaction(rec))
	}
	return out
}

// RevenueSeries accepts either a bare array of points or an object wrapping one
// under any of wrapKeys (or "data").
func RevenueSeries(v any, wrapKeys ...string) []models.RevenuePoint {
	items, ok := v.([]any)
	if !ok {
		obj, isObj := v.(map[string]any)
		if !isObj {
			return []models.RevenuePoint{}
		}
		for _, key := range append(wrapKeys, "data") {
			if arr, found := obj[key].([]any); found {
				items = arr
				break
			}
		}
	}

	points := make([]models.RevenuePoint, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r := reader{table: RevenuePointTable, rec: m}
		points = append(points, models.RevenuePoint{
			Label:   r.str("label", FallbackText),
			Revenue: r.amount("revenue"),
		})
	}
	return points
}

// Scalar reads a single number that may be sent bare or inside an object under keys.
func Scalar(v any, keys ...string) (decimal.Decimal, bool) {
	if d, ok := asDecimal(v); ok {
		return d, true
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return decimal.Zero, false
	}
	for _, key := range append(keys, "value", "count", "total") {
		if raw, found := obj[key]; found {
			if d, ok := asDecimal(raw); ok {
				return d, true
			}
		}
	}
	return decimal.Zero, false
}

// Summary reads a backend-reported summary object.
func Summary(obj map[string]any) models.SummaryAggregate {
	var s models.SummaryAggregate
	if d, ok := asDecimal(obj["total_revenue"]); ok {
		s.TotalRevenue = d
	}
	if n, ok := asInt(obj["total_transactions"]); ok {
		s.TotalTransactions = n
	}
	if d, ok := asDecimal(obj["success_rate"]); ok {
		s.SuccessRate = d
	}
	return s
}
