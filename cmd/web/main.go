package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"sales-dashboard/internal/cache"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

const warmUpTimeout = 30 * time.Second

// newHandler wires the dashboard routes behind the middleware chain.
func newHandler(cfg *config.Config, dashboards *services.Dashboards, logger *slog.Logger) http.Handler {
	srv := server.NewServer(dashboards, logger)
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)
	return middlewareChain(srv)
}

func main() {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
		"overview_file", cfg.Reports.Overview.File,
		"sellers_file", cfg.Reports.Sellers.File,
		"year", cfg.Reports.Year,
	)

	datasets := cache.NewDatasets(nil)
	dashboards := services.NewDashboards(datasets, services.SettingsFromConfig(cfg.Reports), logger)

	ctx, cancel := context.WithTimeout(context.Background(), warmUpTimeout)
	start := time.Now()
	if err := dashboards.WarmUp(ctx); err != nil {
		// Pages retry the load and show the failure themselves.
		logger.Warn("dashboard warm-up failed", "error", err, "duration", time.Since(start))
	} else {
		logger.Info("dashboards warmed up", "duration", time.Since(start))
	}
	cancel()

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, dashboards, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook("dataset-cache", func(ctx context.Context) error {
		logger.Info("clearing dataset cache", "entries", datasets.Clear())
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
