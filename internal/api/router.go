package api

import (
	"net/http"

	"log/slog"

	"github.com/crisisalpha/crisisalpha/internal/audit"
	"github.com/crisisalpha/crisisalpha/internal/auth"
	"github.com/crisisalpha/crisisalpha/internal/config"
	"github.com/crisisalpha/crisisalpha/internal/market"
	"github.com/crisisalpha/crisisalpha/internal/metrics"
)

// SetupRoutes configures all API routes
func SetupRoutes(mux *http.ServeMux, allocator Allocator, snapshots *market.SnapshotBuilder, recorder audit.Recorder, collector *metrics.Collector, cfg config.Config, logger *slog.Logger) {
	handler := NewHandler(allocator, snapshots, cfg, logger)
	authHandler := NewAuthHandler(cfg.Auth, logger)
	adminHandler := NewAdminHandler(recorder, logger)

	authMiddleware := auth.Middleware(cfg.Auth)

	// Allocation routes (public)
	mux.HandleFunc("/api/allocations", handler.CreateAllocationHandler)
	mux.HandleFunc("/api/allocations/report", handler.CreateReportHandler)
	mux.HandleFunc("/api/quotes", handler.GetQuotesHandler)

	// Service routes
	mux.HandleFunc("/healthz", handler.HealthHandler)
	mux.HandleFunc("/api/info", handler.InfoHandler)
	if collector != nil {
		mux.Handle("/metrics", collector.Handler())
	}

	// Admin routes
	mux.HandleFunc("/api/login", authHandler.Login)
	mux.Handle("/api/admin/inference", authMiddleware(http.HandlerFunc(adminHandler.GetInferenceLogHandler)))
}
