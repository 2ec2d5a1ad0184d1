package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"smartmart-admin/internal/models"
	"smartmart-admin/internal/normalize"
	"smartmart-admin/internal/validation"
)

const (
	pathProducts      = "/admin/product/get_products"
	pathAddProduct    = "/admin/product/add_product"
	pathUpdateProduct = "/admin/product/update_product"
	pathDeleteProduct = "/admin/product/delete_product"

	pathDiscounts      = "/admin/discounts/get_discounts"
	pathAddDiscount    = "/admin/discounts/add_discount"
	pathUpdateDiscount = "/admin/discounts/update_discount"
	pathDeleteDiscount = "/admin/discounts/delete_discount"

	wireDate = "2006-01-02"
)

// productWire is the backend's write shape; prices travel as JSON numbers.
type productWire struct {
	ProductID   string      `json:"product_id,omitempty"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Price       json.Number `json:"price"`
	Stock       int         `json:"stock"`
	Description string      `json:"description,omitempty"`
	Barcode     string      `json:"barcode,omitempty"`
	DiscountID  string      `json:"discount_id,omitempty"`
}

func toProductWire(p models.Product) productWire {
	return productWire{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       json.Number(p.Price.String()),
		Stock:       p.Stock,
		Description: p.Description,
		Barcode:     p.Barcode,
		DiscountID:  p.DiscountID,
	}
}

type discountWire struct {
	DiscountID     string `json:"discount_id,omitempty"`
	Code           string `json:"code"`
	Name           string `json:"name,omitempty"`
	ProductBarcode string `json:"product_barcode,omitempty"`
	Percentage     int    `json:"percentage"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

func toDiscountWire(d models.Discount) discountWire {
	return discountWire{
		DiscountID:     d.DiscountID,
		Code:           d.Code,
		Name:           d.Name,
		ProductBarcode: d.ProductBarcode,
		Percentage:     d.Percentage,
		StartDate:      d.StartDate.Format(wireDate),
		EndDate:        d.EndDate.Format(wireDate),
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var body any
	if err := c.do(ctx, request{method: http.MethodGet, path: pathProducts}, &body); err != nil {
		return nil, err
	}
	return normalize.Products(records(body, "products")), nil
}

func (c *Client) AddProduct(ctx context.Context, p models.Product) error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodPost, path: pathAddProduct, body: toProductWire(p)}, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, p models.Product) error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodPut, path: pathUpdateProduct, body: toProductWire(p)}, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   pathDeleteProduct,
		body:   map[string]string{"product_id": productID},
	}, nil)
}

func (c *Client) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	var body any
	if err := c.do(ctx, request{method: http.MethodGet, path: pathDiscounts}, &body); err != nil {
		return nil, err
	}
	return normalize.Discounts(records(body, "discounts")), nil
}

func (c *Client) AddDiscount(ctx context.Context, d models.Discount) error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodPost, path: pathAddDiscount, body: toDiscountWire(d)}, nil)
}

func (c *Client) UpdateDiscount(ctx context.Context, d models.Discount) error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodPut, path: pathUpdateDiscount, body: toDiscountWire(d)}, nil)
}

func (c *Client) DeleteDiscount(ctx context.Context, discountID string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   pathDeleteDiscount,
		body:   map[string]string{"discount_id": discountID},
	}, nil)
}
