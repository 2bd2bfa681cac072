package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/render"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	dashboards *services.Dashboards
	logger     *slog.Logger
}

func NewSSEHandlers(dashboards *services.Dashboards, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboards: dashboards,
		logger:     logger,
	}
}

func renderFragment(ctx context.Context, c templ.Component) (string, error) {
	var buf strings.Builder
	err := c.Render(ctx, &buf)
	return buf.String(), err
}

// pageFragments are the parts of a dashboard replaced on refresh, each
// rooted at an element with a stable id.
func pageFragments(page render.Page) []templ.Component {
	return []templ.Component{
		templates.Status(page),
		templates.Cards(page),
		templates.Charts(page),
	}
}

// HandleRefresh re-reads the variant's file and patches the status line,
// cards and charts in place.
func (h *SSEHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	requestID := observability.GetRequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	page, err := h.dashboards.Refresh(ctx, id)

	sse := datastar.NewSSE(w, r)

	if err != nil {
		h.logger.Error("refresh dashboard", "variant", id, "error", err, "request_id", requestID)
		html, renderErr := renderFragment(ctx, templates.StatusError(errors.As(err).Message))
		if renderErr != nil {
			h.logger.Error("render refresh error", "error", renderErr, "request_id", requestID)
			return
		}
		sse.PatchElements(html)
		return
	}

	for _, c := range pageFragments(page) {
		html, err := renderFragment(ctx, c)
		if err != nil {
			h.logger.Error("render dashboard fragment", "variant", id, "error", err, "request_id", requestID)
			return
		}
		sse.PatchElements(html)
	}

	signals, err := json.Marshal(map[string]any{
		"lastRefresh": page.GeneratedAt.Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err, "request_id", requestID)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
