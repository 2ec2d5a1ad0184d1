package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"smartmart-admin/internal/errors"
	"smartmart-admin/internal/models"
	"smartmart-admin/internal/observability"
	"smartmart-admin/internal/viewmodel"
)

// Catalog is the product and discount store behind the admin forms.
type Catalog interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	AddProduct(ctx context.Context, p models.Product) error
	UpdateProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, productID string) error
	ListDiscounts(ctx context.Context) ([]models.Discount, error)
	AddDiscount(ctx context.Context, d models.Discount) error
	UpdateDiscount(ctx context.Context, d models.Discount) error
	DeleteDiscount(ctx context.Context, discountID string) error
}

const maxBodyBytes = 1 << 20

type APIHandlers struct {
	registry *viewmodel.Registry
	catalog  Catalog
	logger   *slog.Logger
	now      func() time.Time
}

func NewAPIHandlers(registry *viewmodel.Registry, catalog Catalog, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		registry: registry,
		catalog:  catalog,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

type ordersSnapshot struct {
	Status string                        `json:"status"`
	Error  string                        `json:"error,omitempty"`
	Orders []models.Order                `json:"orders"`
	Total  decimal.Decimal               `json:"total"`
	Counts map[models.DeliveryStatus]int `json:"counts"`
}

// HandleOrders returns the session's orders view, loading it on first use.
func (h *APIHandlers) HandleOrders(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := workspace(h.registry, h.logger, w, r)
	if !ok {
		return
	}

	if ws.Orders.View().Status == viewmodel.StatusIdle {
		if err := ws.Orders.Refresh(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	view := ws.Orders.View()
	orders := make([]models.Order, 0, len(view.Rows))
	for _, row := range view.Rows {
		orders = append(orders, row.Order)
	}
	errors.WriteSuccessWithHeaders(w, ordersSnapshot{
		Status: string(view.Status),
		Error:  view.Error,
		Orders: orders,
		Total:  view.Total,
		Counts: view.Counts,
	}, map[string]string{"Cache-Control": "no-store"})
}

type paymentsSummary struct {
	Status   string                  `json:"status"`
	Error    string                  `json:"error,omitempty"`
	Summary  models.SummaryAggregate `json:"summary"`
	Reported models.SummaryAggregate `json:"reported"`
}

func (h *APIHandlers) HandlePaymentSummary(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := workspace(h.registry, h.logger, w, r)
	if !ok {
		return
	}

	if ws.Payments.View().Status == viewmodel.StatusIdle {
		if err := ws.Payments.Refresh(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	view := ws.Payments.View()
	errors.WriteSuccessWithHeaders(w, paymentsSummary{
		Status:   string(view.Status),
		Error:    view.Error,
		Summary:  view.Summary,
		Reported: view.Reported,
	}, map[string]string{"Cache-Control": "no-store"})
}

type productResponse struct {
	models.Product
	StockStatus string `json:"stock_status"`
}

func (h *APIHandlers) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse{Product: p, StockStatus: p.StockStatus()})
	}
	errors.WriteSuccess(w, out)
}

func (h *APIHandlers) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeBody(w, r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	p.ProductID = ""

	if err := h.catalog.AddProduct(r.Context(), p); err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithStatus(w, http.StatusCreated, productResponse{Product: p, StockStatus: p.StockStatus()})
}

func (h *APIHandlers) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeBody(w, r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	p.ProductID = r.PathValue("id")

	if err := h.catalog.UpdateProduct(r.Context(), p); err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccess(w, productResponse{Product: p, StockStatus: p.StockStatus()})
}

func (h *APIHandlers) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccess(w, map[string]string{"deleted": id})
}

// discountRequest accepts plain YYYY-MM-DD dates as sent by date inputs.
type discountRequest struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	ProductBarcode string `json:"product_barcode"`
	Percentage     int    `json:"percentage"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

func (req discountRequest) toDiscount() (models.Discount, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return models.Discount{}, errors.ValidationWrap(err, "invalid start_date").WithDetails(req.StartDate)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return models.Discount{}, errors.ValidationWrap(err, "invalid end_date").WithDetails(req.EndDate)
	}
	return models.Discount{
		Code:           strings.TrimSpace(req.Code),
		Name:           req.Name,
		ProductBarcode: req.ProductBarcode,
		Percentage:     req.Percentage,
		StartDate:      start,
		EndDate:        end,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (h *APIHandlers) HandleListDiscounts(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.catalog.ListDiscounts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	now := h.now()
	for i := range discounts {
		discounts[i].Status = discounts[i].StatusAt(now)
	}
	errors.WriteSuccess(w, discounts)
}

func (h *APIHandlers) HandleCreateDiscount(w http.ResponseWriter, r *http.Request) {
	d, ok := h.readDiscount(w, r)
	if !ok {
		return
	}

	if err := h.catalog.AddDiscount(r.Context(), d); err != nil {
		h.fail(w, r, err)
		return
	}
	d.Status = d.StatusAt(h.now())
	errors.WriteSuccessWithStatus(w, http.StatusCreated, d)
}

func (h *APIHandlers) HandleUpdateDiscount(w http.ResponseWriter, r *http.Request) {
	d, ok := h.readDiscount(w, r)
	if !ok {
		return
	}
	d.DiscountID = r.PathValue("id")

	if err := h.catalog.UpdateDiscount(r.Context(), d); err != nil {
		h.fail(w, r, err)
		return
	}
	d.Status = d.StatusAt(h.now())
	errors.WriteSuccess(w, d)
}

func (h *APIHandlers) HandleDeleteDiscount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.catalog.DeleteDiscount(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccess(w, map[string]string{"deleted": id})
}

func (h *APIHandlers) readDiscount(w http.ResponseWriter, r *http.Request) (models.Discount, bool) {
	var req discountRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return models.Discount{}, false
	}
	d, err := req.toDiscount()
	if err != nil {
		h.fail(w, r, err)
		return models.Discount{}, false
	}
	return d, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.BadRequestWrap(err, "invalid request body")
	}
	return nil
}
