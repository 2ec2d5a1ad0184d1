package normalize

import (
	"strings"

	"smartmart-admin/internal/models"
)

var ProductTable = Table{
	"product_id":  {"product_id", "_id", "id"},
	"name":        {"name", "product_name", "title"},
	"category":    {"category"},
	"price":       {"price", "unit_price"},
	"stock":       {"stock", "quantity", "inventory"},
	"description": {"description"},
	"barcode":     {"barcode", "product_barcode"},
	"discount_id": {"discount_id", "discountId"},
}

var DiscountTable = Table{
	"discount_id":     {"discount_id", "_id", "id"},
	"code":            {"code", "discount_code"},
	"name":            {"name", "discount_name"},
	"product_barcode": {"product_barcode", "barcode", "product"},
	"percentage":      {"percentage", "discount_percentage"},
	"start_date":      {"start_date", "startDate"},
	"end_date":        {"end_date", "endDate"},
	"status":          {"status"},
}

func Product(rec models.RawRecord) models.Product {
	r := reader{table: ProductTable, rec: rec}

	p := models.Product{
		ProductID:   r.str("product_id", FallbackText),
		Name:        r.str("name", FallbackName),
		Category:    r.str("category", FallbackText),
		Price:       r.amount("price"),
		Description: r.str("description", ""),
		Barcode:     r.str("barcode", ""),
		DiscountID:  r.str("discount_id", ""),
	}
	if v, ok := ProductTable.Lookup(rec, "stock"); ok {
		if n, ok := asInt(v); ok {
			p.Stock = n
		}
	}
	return p
}

func Discount(rec models.RawRecord) models.Discount {
	r := reader{table: DiscountTable, rec: rec}

	d := models.Discount{
		DiscountID:     r.str("discount_id", FallbackText),
		Code:           r.str("code", FallbackText),
		Name:           r.str("name", ""),
		ProductBarcode: r.str("product_barcode", ""),
		Status:         r.str("status", ""),
	}
	if v, ok := DiscountTable.Lookup(rec, "percentage"); ok {
		if n, ok := asInt(v); ok {
			d.Percentage = n
		}
	}
	if v, ok := DiscountTable.Lookup(rec, "start_date"); ok {
		d.StartDate, _, _ = asTime(v)
	}
	if v, ok := DiscountTable.Lookup(rec, "end_date"); ok {
		d.EndDate, _, _ = asTime(v)
	}
	if s := strings.TrimSpace(d.Status); s != "" {
		d.Status = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	}
	return d
}

func Products(recs []models.RawRecord) []models.Product {
	out := make([]models.Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Product(rec))
	}
	return out
}

func Discounts(recs []models.RawRecord) []models.Discount {
	out := make([]models.Discount, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Discount(rec))
	}
	return out
}
