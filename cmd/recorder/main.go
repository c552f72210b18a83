// Command recorder polls a running RIT case and stores security snapshots
// and time-and-sales prints in PostgreSQL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rickgao/rit-client/internal/api"
	"github.com/rickgao/rit-client/internal/config"
	"github.com/rickgao/rit-client/internal/database"
	"github.com/rickgao/rit-client/internal/metrics"
	"github.com/rickgao/rit-client/internal/poller"
	"github.com/rickgao/rit-client/internal/version"
	"github.com/rickgao/rit-client/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/recorder.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("recorder", version.String())
		return
	}

	// A missing .env file is fine.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadWithDefaults(*configPath)
	if err == nil {
		err = cfg.ValidateRecorder()
	}
	if err != nil {
		slog.New(tint.NewHandler(os.Stderr, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	level, _ := cfg.Logging.SlogLevel()
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(logger)

	logger.Info("starting recorder",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"api_url", cfg.API.URL(),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	logger.Info("database connected")

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	clientMetrics := metrics.New(reg)

	// Create API client
	policy, _ := api.ParseRetryPolicy(cfg.API.RetryPolicy)
	apiClient := api.NewClient(
		cfg.API.URL(),
		cfg.API.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetryPolicy(policy),
		api.WithObserver(clientMetrics),
	)

	// Check the case before starting
	caseInfo, err := apiClient.GetCase(ctx)
	if err != nil {
		logger.Error("failed to reach RIT", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to case", "case", caseInfo.String())

	// Start writer
	snapshotWriter := writer.NewSnapshotWriter(writer.Config{
		BatchSize:     cfg.Writer.BatchSize,
		FlushInterval: cfg.Writer.FlushInterval,
		BufferSize:    cfg.Writer.BufferSize,
	}, pool, logger)
	if err := snapshotWriter.Start(ctx); err != nil {
		logger.Error("failed to start writer", "error", err)
		os.Exit(1)
	}

	// Start poller
	snapshotPoller := poller.New(poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.Poller.Timeout,
		Tickers:     cfg.Poller.Tickers,
		BookLimit:   cfg.Poller.BookLimit,
		TASLimit:    cfg.Poller.TASLimit,
	}, apiClient, snapshotWriter, logger)
	if err := snapshotPoller.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	stats := recorderStats{poller: snapshotPoller, writer: snapshotWriter}
	metrics.RegisterRecorder(reg, stats)

	// Start health and metrics server
	healthServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           newHealthHandler(pool, stats, reg, cfg.Metrics.Path),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Metrics.Port, "metrics_path", cfg.Metrics.Path)
		if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", "error", err)
		}
	}()

	logger.Info("recorder running",
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Poller first so nothing is handed to a stopped writer.
	if err := snapshotPoller.Stop(shutdownCtx); err != nil {
		logger.Warn("poller stop", "error", err)
	}
	if err := snapshotWriter.Stop(shutdownCtx); err != nil {
		logger.Warn("writer final flush failed", "error", err)
	}
	healthServer.Shutdown(shutdownCtx)

	logger.Info("recorder stopped",
		"snapshots", snapshotWriter.Stats().Snapshots,
		"prints", snapshotWriter.Stats().Prints,
	)
}
