package server

import (
	"log/slog"
	"net/http"

	"smartmart-admin/internal/handlers"
	"smartmart-admin/internal/metrics"
	"smartmart-admin/internal/middleware"
	"smartmart-admin/internal/session"
	"smartmart-admin/internal/viewmodel"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Registry      *viewmodel.Registry
	Sessions      *session.Manager
	Auth          handlers.Authenticator
	Catalog       handlers.Catalog
	Metrics       *metrics.Registry
	SecureCookies bool
}

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	metrics      *metrics.Registry
	pageHandlers *handlers.PageHandlers
	authHandlers *handlers.AuthHandlers
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
	protect      middleware.Middleware
}

func NewServer(deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		metrics:      deps.Metrics,
		pageHandlers: handlers.NewPageHandlers(deps.Registry, logger),
		authHandlers: handlers.NewAuthHandlers(deps.Auth, deps.Sessions, deps.Registry, deps.SecureCookies, logger),
		apiHandlers:  handlers.NewAPIHandlers(deps.Registry, deps.Catalog, logger),
		sseHandlers:  handlers.NewSSEHandlers(deps.Registry, logger),
		protect:      middleware.RequireSession(deps.Sessions, deps.SecureCookies, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) handle(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.protect(h))
}

func (s *Server) setupRoutes() {
	// Public routes
	s.mux.HandleFunc("GET /login", s.authHandlers.HandleLoginPage)
	s.mux.HandleFunc("POST /login", s.authHandlers.HandleLogin)
	s.mux.HandleFunc("POST /logout", s.authHandlers.HandleLogout)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// Pages
	s.handle("GET /{$}", s.pageHandlers.HandleDashboard)
	s.handle("GET /orders", s.pageHandlers.HandleOrders)
	s.handle("GET /payments", s.pageHandlers.HandlePayments)

	// Datastar SSE endpoints
	s.handle("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
	s.handle("GET /sse/orders", s.sseHandlers.HandleOrders)
	s.handle("POST /sse/orders/{id}/toggle", s.sseHandlers.HandleToggleOrder)
	s.handle("POST /sse/orders/{id}/deliver", s.sseHandlers.HandleDeliverOrder)
	s.handle("GET /sse/orders/{id}/details", s.sseHandlers.HandleOrderDetails)
	s.handle("GET /sse/payments", s.sseHandlers.HandlePayments)

	// REST API endpoints
	s.handle("GET /api/orders", s.apiHandlers.HandleOrders)
	s.handle("GET /api/payments/summary", s.apiHandlers.HandlePaymentSummary)
	s.handle("GET /api/products", s.apiHandlers.HandleListProducts)
	s.handle("POST /api/products", s.apiHandlers.HandleCreateProduct)
	s.handle("PUT /api/products/{id}", s.apiHandlers.HandleUpdateProduct)
	s.handle("DELETE /api/products/{id}", s.apiHandlers.HandleDeleteProduct)
	s.handle("GET /api/discounts", s.apiHandlers.HandleListDiscounts)
	s.handle("POST /api/discounts", s.apiHandlers.HandleCreateDiscount)
	s.handle("PUT /api/discounts/{id}", s.apiHandlers.HandleUpdateDiscount)
	s.handle("DELETE /api/discounts/{id}", s.apiHandlers.HandleDeleteDiscount)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
