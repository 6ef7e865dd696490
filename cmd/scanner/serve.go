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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/docs"
	"github.com/jdank417/GroceryBarcodeScanner/internal/catalog"
	"github.com/jdank417/GroceryBarcodeScanner/internal/config"
	"github.com/jdank417/GroceryBarcodeScanner/internal/handler"
	"github.com/jdank417/GroceryBarcodeScanner/internal/logger"
	"github.com/jdank417/GroceryBarcodeScanner/internal/lookup"
	"github.com/jdank417/GroceryBarcodeScanner/internal/metrics"
	"github.com/jdank417/GroceryBarcodeScanner/internal/queue"
	"github.com/jdank417/GroceryBarcodeScanner/internal/queue/sqs"
	"github.com/jdank417/GroceryBarcodeScanner/internal/service"
	"github.com/jdank417/GroceryBarcodeScanner/internal/suggest"
)

const serverShutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the lookup web service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, cfg.Service.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting scanner service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort),
		zap.String("store", cfg.Store.Driver))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	loc, err := cfg.Service.Location()
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Initialize event store
	repo, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open event store: %w", err)
	}
	defer closeStore(repo, log)

	if err := repo.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Optional SQS export
	var publisher queue.EventPublisher
	if cfg.SQS.QueueURL != "" {
		sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
		if err != nil {
			return fmt.Errorf("failed to create SQS client: %w", err)
		}
		publisher = sqsClient
		log.Info("Exporting persisted events to SQS", zap.String("queue_url", cfg.SQS.QueueURL))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	recorder := service.NewRecorder(repo, publisher, m, cfg.Worker, log)
	if err := m.RegisterBacklog(recorder.Backlog); err != nil {
		return err
	}

	// Item table
	items := catalog.NewStore(catalog.New(nil))
	reloader := catalog.NewReloader(items, cfg.Catalog, log)
	if err := reloader.Reload(ctx); err != nil {
		log.Warn("Serving with an empty item table until the next reload", zap.Error(err))
	}
	if err := reloader.Start(); err != nil {
		return err
	}
	defer reloader.Stop()

	cache, err := lookup.NewCache(cfg.Cache.Capacity, items, recorder, log)
	if err != nil {
		return err
	}

	lookupService := service.NewLookupService(cache, items, suggest.NewRanker(cfg.Suggest.Limit, cfg.Suggest.Cutoff), recorder, log)
	aggregator := service.NewAggregator(repo, loc, log)

	h := handler.NewHandler(handler.Services{
		Lookup:       lookupService,
		Aggregations: aggregator,
		Stats:        recorder,
		Health:       repo,
		Metrics:      metrics.Handler(registry),
	}, cfg.Admin, log)

	if err := recorder.Start(); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("API server starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		log.Info("Shutting down gracefully", zap.String("signal", sig.String()))
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("API server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down API server", zap.Error(err))
	}

	// Drain after the server stops accepting requests so late events are still persisted
	if err := recorder.Stop(context.Background()); err != nil {
		log.Error("Failed to stop event recorder", zap.Error(err))
	}

	return runErr
}
