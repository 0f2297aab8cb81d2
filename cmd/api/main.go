package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"revix/internal/alarm"
	"revix/internal/config"
	"revix/internal/dispatch"
	"revix/internal/http"
	"revix/internal/metrics"
	"revix/internal/recurrence"
	"revix/internal/service"
	"revix/internal/storage"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API schedules spaced-repetition records and keeps their reminder
// alarms in sync with the stored records.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: revix API
//   description: |
//     Next-date calculation, record completion and alarm reconciliation.
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - application/json
// produces:
//   - application/json

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	recordRepo := storage.NewRecordRepo(db)
	alarmRepo := storage.NewAlarmRepo(db)
	runRepo := storage.NewRunRepo(db)

	table := recurrence.DefaultFrequencyTable()
	if cfg.FrequencyFile != "" {
		table, err = recurrence.LoadFrequencyTable(cfg.FrequencyFile)
		if err != nil {
			log.Fatalf("Failed to load frequency table: %v", err)
		}
	}
	calc, err := recurrence.NewCalculator(table, cfg.CacheSize)
	if err != nil {
		log.Fatalf("Failed to create calculator: %v", err)
	}
	slog.Info("Frequency table loaded", "frequencies", len(table), "file", cfg.FrequencyFile)

	// Alarm delivery
	notifiers := []dispatch.Notifier{dispatch.NewLogNotifier(logger)}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, dispatch.NewWebhookNotifier(cfg.WebhookURL))
		slog.Info("Webhook notifier enabled")
	}
	gateway := dispatch.NewTimerGateway(dispatch.NewMultiNotifier(notifiers...), dispatch.WithLogger(logger))
	defer gateway.Close()

	m, err := metrics.New(nil)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	reconciler := alarm.NewReconciler(alarmRepo, gateway, runRepo, m, cfg.DispatchConcurrency)
	records := service.NewRecordService(recordRepo, reconciler, calc, cfg.Location, nil)

	// The timer gateway starts empty; restore the installed set before the first pass.
	if _, err := reconciler.Rearm(ctx); err != nil {
		slog.Warn("Failed to re-arm alarms", "error", err)
	}
	if _, err := records.Reconcile(ctx); err != nil {
		slog.Error("Initial reconcile failed", "error", err)
	}

	if cfg.RefreshInterval > 0 {
		go refresh(ctx, records, cfg.RefreshInterval)
	}

	router := http.NewRouter(&http.Deps{
		Records:        records,
		DB:             db,
		PendingAlarms:  func() int { return len(gateway.Pending()) },
		Metrics:        m,
		MetricsHandler: metrics.Handler(nil),
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", server.Addr, "timezone", cfg.Location.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}

// refresh reconciles periodically so alarms follow the calendar as days pass.
func refresh(ctx context.Context, records service.RecordService, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := records.Reconcile(ctx); err != nil {
				slog.Error("Periodic reconcile failed", "error", err)
			}
		}
	}
}
