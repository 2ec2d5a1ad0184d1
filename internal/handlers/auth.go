package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"smartmart-admin/internal/backend"
	"smartmart-admin/internal/errors"
	"smartmart-admin/internal/session"
	"smartmart-admin/internal/ui/templates"
	"smartmart-admin/internal/validation"
	"smartmart-admin/internal/viewmodel"
)

type Authenticator interface {
	Login(ctx context.Context, creds backend.Credentials) (string, error)
}

type AuthHandlers struct {
	auth          Authenticator
	sessions      *session.Manager
	registry      *viewmodel.Registry
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandlers(auth Authenticator, sessions *session.Manager, registry *viewmodel.Registry, secureCookies bool, logger *slog.Logger) *AuthHandlers {
	return &AuthHandlers{
		auth:          auth,
		sessions:      sessions,
		registry:      registry,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// HandleLoginPage skips the form when the browser already holds a live session.
func (h *AuthHandlers) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	store := session.NewCookieStore(w, r, h.secureCookies)
	if _, err := h.sessions.Current(r.Context(), store); err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.logger, http.StatusOK, templates.Login("", ""))
}

func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderPage(w, r, h.logger, http.StatusBadRequest, templates.Login("", "Invalid form submission"))
		return
	}

	creds := backend.Credentials{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	if err := validation.Struct(creds); err != nil {
		renderPage(w, r, h.logger, http.StatusUnprocessableEntity, templates.Login(creds.Username, errors.Message(err)))
		return
	}

	username, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		status := http.StatusBadGateway
		msg := "Sign-in is unavailable right now"
		if errors.Is(err, errors.CodeUnauthorized) {
			status, msg = http.StatusUnauthorized, "Invalid username or password"
		} else {
			h.logger.Error("admin login failed", "error", err)
		}
		renderPage(w, r, h.logger, status, templates.Login(creds.Username, msg))
		return
	}

	store := session.NewCookieStore(w, r, h.secureCookies)
	if _, err := h.sessions.Login(r.Context(), store, username); err != nil {
		h.logger.Error("start session", "error", err)
		renderPage(w, r, h.logger, http.StatusServiceUnavailable, templates.Login(creds.Username, "Could not start a session"))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	store := session.NewCookieStore(w, r, h.secureCookies)
	s, err := h.sessions.Logout(r.Context(), store)
	if err != nil {
		h.logger.Error("end session", "error", err)
	}
	if s.ID != "" {
		h.registry.Drop(s.ID)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
