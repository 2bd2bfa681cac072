package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

type APIHandlers struct {
	dashboards *services.Dashboards
	logger     *slog.Logger
}

func NewAPIHandlers(dashboards *services.Dashboards, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboards: dashboards,
		logger:     logger,
	}
}

func (h *APIHandlers) HandleDashboards(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboards.Variants())
}

// HandleDashboard returns the assembled report of one variant as JSON.
func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	rep, err := h.dashboards.Report(r.Context(), r.PathValue("id"))
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	headers := map[string]string{
		"Cache-Control": "no-cache",
	}

	errors.WriteSuccessWithHeaders(w, rep, headers)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.dashboards.Stats()

	errors.WriteSuccess(w, stats)
}

// HandleInvalidate drops cached datasets so the next render re-reads the
// files. The optional variant query parameter limits it to one dashboard.
func (h *APIHandlers) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	variant := r.URL.Query().Get("variant")

	n, err := h.dashboards.Invalidate(variant)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"variant":     variant,
		"invalidated": n,
	})
}
