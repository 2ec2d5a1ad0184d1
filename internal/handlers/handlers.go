// Package handlers serves the admin pages, their Datastar SSE fragments and
// the JSON API.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"smartmart-admin/internal/errors"
	"smartmart-admin/internal/observability"
	"smartmart-admin/internal/session"
	"smartmart-admin/internal/ui/templates"
	"smartmart-admin/internal/viewmodel"
)

const renderTimeout = 10 * time.Second

// workspace resolves the signed-in session's view state. Routes using it sit
// behind the session middleware, so a miss is answered with 401.
func workspace(reg *viewmodel.Registry, logger *slog.Logger, w http.ResponseWriter, r *http.Request) (*viewmodel.Workspace, session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		errors.WriteError(w, logger, errors.Unauthorized("sign in required"), observability.GetRequestID(r.Context()))
		return nil, session.Session{}, false
	}
	return reg.Get(s.ID), s, true
}

func renderPage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, c templ.Component) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	html, err := templates.RenderString(ctx, c)
	if err != nil {
		logger.Error("render page", "error", err, "path", r.URL.Path)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write([]byte(html))
}

// patch sends c as an element patch; the element's id selects its target.
func patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, w http.ResponseWriter, logger *slog.Logger, c templ.Component) {
	html, err := templates.RenderString(ctx, c)
	if err != nil {
		logger.Error("render fragment", "error", err)
		return
	}

	if err := sse.PatchElements(html); err != nil {
		logger.Debug("patch elements", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
