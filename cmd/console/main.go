package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nirmalhealthcare/clinic-console/config"
	"github.com/nirmalhealthcare/clinic-console/internal/console"
	"github.com/nirmalhealthcare/clinic-console/internal/handlers"
	"github.com/nirmalhealthcare/clinic-console/pkg/httpclient"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"github.com/nirmalhealthcare/clinic-console/pkg/profiling"
	"github.com/nirmalhealthcare/clinic-console/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting clinic console",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics(ctx.Done())

	store, closeStore, err := console.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open session store", zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("Failed to close session store", zap.Error(err))
		}
	}()

	// One HTTP client for every workspace's backend calls
	httpClient := httpclient.NewStandardClient(cfg.BackendTimeout())

	registry := console.NewRegistry(ctx, console.NewFactory(cfg, store, httpClient), cfg.WorkspaceIdleTTL())
	defer registry.Close()

	checks := map[string]handlers.ReadinessCheck{
		"session store": func(ctx context.Context) error {
			_, _, err := store.Get(ctx, cfg.Session.KeyPrefix+":healthcheck")
			return err
		},
	}

	router, err := buildRouter(ctx, cfg, registry, checks)
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		// Longer than the backend timeout so a slow backend answer still reaches the operator
		WriteTimeout:   cfg.BackendTimeout() + 15*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited", zap.Int("open_workspaces", registry.Len()))
}
