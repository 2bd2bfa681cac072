package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

type Server struct {
	dashboards   *services.Dashboards
	mux          *http.ServeMux
	logger       *slog.Logger
	pageHandlers *handlers.PageHandlers
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
}

func NewServer(dashboards *services.Dashboards, logger *slog.Logger) *Server {
	s := &Server{
		dashboards:   dashboards,
		mux:          http.NewServeMux(),
		logger:       logger,
		pageHandlers: handlers.NewPageHandlers(dashboards, logger),
		apiHandlers:  handlers.NewAPIHandlers(dashboards, logger),
		sseHandlers:  handlers.NewSSEHandlers(dashboards, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard pages
	s.mux.HandleFunc("GET /", s.pageHandlers.HandleIndex)
	s.mux.HandleFunc("GET /dashboards/{id}", s.pageHandlers.HandleDashboard)

	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.HandleFunc("POST /admin/cache/invalidate", s.apiHandlers.HandleInvalidate)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/dashboards", s.apiHandlers.HandleDashboards)
	s.mux.HandleFunc("GET /api/dashboards/{id}", s.apiHandlers.HandleDashboard)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/dashboards/{id}/refresh", s.sseHandlers.HandleRefresh)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
