package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"running-page/internal/config"
	"running-page/internal/handlers"
	"running-page/internal/library"
	"running-page/internal/metrics"
	"running-page/internal/middleware"
	"running-page/internal/runtable"
	"running-page/internal/session"
	"running-page/internal/site"
	"running-page/internal/store"
	"running-page/internal/worker"
)

// collectorSource feeds the periodic size gauges
type collectorSource struct {
	sessions *session.Store
	lib      *library.Library
}

func (c collectorSource) SessionCount() int  { return c.sessions.Len() }
func (c collectorSource) ActivityCount() int { return c.lib.Len() }

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set up logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting running-page server",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", store.Describe(cfg),
		"log_level", cfg.LogLevel,
		"locale", cfg.Locale,
		"show_elevation_gain", cfg.ShowElevationGain)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open activity store
	st, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open activity store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	logger.Info("Activity store opened successfully")

	// Load the collection. An empty or failing store still serves an empty table.
	lib := library.New(st)
	if err := lib.Reload(ctx); err != nil {
		logger.Error("Initial activity load failed", "error", err)
	}

	sessions := session.NewStore(lib, runtable.Options{ShowElevation: cfg.ShowElevationGain}, cfg.SessionTTL)

	meta, err := site.FromConfig(cfg)
	if err != nil {
		logger.Error("Failed to build site metadata", "error", err)
		os.Exit(1)
	}

	tableHandler, err := handlers.NewTableHandler(sessions, lib, meta, st, cfg)
	if err != nil {
		logger.Error("Failed to create table handler", "error", err)
		os.Exit(1)
	}

	// Set up HTTP routes
	mux := http.NewServeMux()

	mux.Handle("/", middleware.WrapHandler(metrics.EndpointIndex, tableHandler.HandleIndex))
	mux.Handle("/sort", middleware.WrapHandler(metrics.EndpointSort, tableHandler.HandleSort))
	mux.Handle("/page", middleware.WrapHandler(metrics.EndpointPage, tableHandler.HandlePage))
	mux.Handle("/select", middleware.WrapHandler(metrics.EndpointSelect, tableHandler.HandleSelect))
	mux.Handle("/filter", middleware.WrapHandler(metrics.EndpointFilter, tableHandler.HandleFilter))

	// JSON API for the map view
	mux.Handle("/api/table", middleware.WrapHandler(metrics.EndpointTable, tableHandler.HandleTable))
	mux.Handle("/api/highlight", middleware.WrapHandler(metrics.EndpointHighlight, tableHandler.HandleHighlight))

	// Health check endpoint
	mux.Handle("/health", middleware.WrapHandler(metrics.EndpointHealth, tableHandler.HandleHealth))

	var root http.Handler = mux
	if meta.BasePath != "" {
		root = http.StripPrefix(meta.BasePath, mux)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start background jobs
	workerInstance := worker.NewWorker(lib, sessions, cfg)
	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()

	go func() {
		if err := workerInstance.Start(workerCtx); err != nil && err != context.Canceled {
			logger.Error("Worker failed", "error", err)
		}
	}()

	// Start size collector if metrics are enabled
	if cfg.MetricsEnabled {
		go func() {
			logger.Info("Starting metrics collector")
			metrics.StartCollector(workerCtx, collectorSource{sessions: sessions, lib: lib}, 15*time.Second)
		}()
	}

	// Start metrics server if enabled
	var metricsServer *http.Server
	if cfg.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())

		metricsAddr := fmt.Sprintf("%s:%d", cfg.MetricsHost, cfg.MetricsPort)
		metricsServer = &http.Server{
			Addr:    metricsAddr,
			Handler: metricsMux,
		}

		go func() {
			logger.Info("Metrics server listening", "addr", metricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// Start HTTP server in background
	go func() {
		logger.Info("HTTP server listening", "addr", addr, "base_path", meta.BasePath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down gracefully...")

	// Stop worker
	workerCancel()

	// Shutdown HTTP servers with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", "error", err)
		}
	}

	logger.Info("Server stopped")
}
