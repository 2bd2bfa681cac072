package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 30 * time.Second
	failureTitle  = "Dashboard de Vendas"
)

type PageHandlers struct {
	dashboards *services.Dashboards
	logger     *slog.Logger
}

func NewPageHandlers(dashboards *services.Dashboards, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		dashboards: dashboards,
		logger:     logger,
	}
}

func navLinks(d *services.Dashboards) []templates.Link {
	variants := d.Variants()
	links := make([]templates.Link, len(variants))
	for i, v := range variants {
		links[i] = templates.Link{ID: v.ID, Title: v.Title}
	}
	return links
}

// HandleIndex serves the default dashboard at the root path only.
func (h *PageHandlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.renderFailure(w, r, "", errors.NotFound("page not found"))
		return
	}
	h.renderDashboard(w, r, h.dashboards.DefaultID())
}

func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, r.PathValue("id"))
}

func (h *PageHandlers) renderDashboard(w http.ResponseWriter, r *http.Request, id string) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	page, err := h.dashboards.Page(ctx, id)
	if err != nil {
		h.renderFailure(w, r, id, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := templates.Dashboard(page, navLinks(h.dashboards)).Render(ctx, w); err != nil {
		h.logger.Error("render dashboard",
			"variant", id,
			"error", err,
			"request_id", observability.GetRequestID(r.Context()),
		)
	}
}

// renderFailure shows a blocking error page instead of a partial
// dashboard. Unknown paths and dashboards get the not-found page.
func (h *PageHandlers) renderFailure(w http.ResponseWriter, r *http.Request, id string, err error) {
	appErr := errors.As(err)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(appErr.StatusCode)

	page := templates.LoadFailure(failureTitle, id, appErr.Message, navLinks(h.dashboards))
	if appErr.Code == errors.CodeNotFound {
		page = templates.NotFound(failureTitle, appErr.Message, navLinks(h.dashboards))
	}
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("render failure page", "error", err, "request_id", observability.GetRequestID(r.Context()))
	}
}
