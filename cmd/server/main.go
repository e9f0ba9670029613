// cmd/server/main.go
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

	"town-connect/internal/common/config"
	"town-connect/internal/common/database"
	"town-connect/internal/common/logger"
	"town-connect/internal/common/observability"
	"town-connect/internal/directory/catalog"
	"town-connect/internal/notify"
	"town-connect/internal/payments"
	"town-connect/internal/search"
	"town-connect/internal/server"
	"town-connect/internal/sheets"
	"town-connect/internal/tenant"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting town-connect server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("town-connect")
	defer obs.Shutdown()

	shutdownTracer, err := observability.InitTracer("town-connect", cfg.Observability.JaegerEndpoint)
	if err != nil {
		zapLog.Fatal("tracer init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry (only when the CSV cache is enabled) ---
	var rdb *database.RedisClient
	if cfg.Sheets.CacheTTL > 0 {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Tenant registry and resolver ---
	registry, err := tenant.NewRegistry(cfg.Tenants.ConfigDir, cfg.Tenants.DefaultSlug, log)
	if err != nil {
		zapLog.Fatal("tenant registry load failed", zap.Error(err))
	}
	resolver := tenant.NewResolver(registry, cfg.Tenants.ActiveTown)

	// --- Data provider chain ---
	var provider sheets.Provider
	httpProvider := sheets.NewHTTPProvider(
		config.GetDuration(cfg.Sheets.FetchTimeout), "businesses", log,
	).WithObservability(obs)
	provider = httpProvider
	if rdb != nil {
		provider = sheets.NewCachedProvider(
			httpProvider, rdb, time.Duration(cfg.Sheets.CacheTTL)*time.Second, log,
		)
	}

	catalogSvc := catalog.NewService(
		provider, time.Duration(cfg.Sheets.SnapshotMaxAge)*time.Second, log,
	)
	searchSvc := search.NewService(cfg.WhatsApp.MaxResults)

	// --- Payment ledger: Postgres is authoritative, sheet log mirrors ---
	var ledger payments.Ledger = payments.NewPostgresLedger(pg, log)
	if cfg.PayFast.LedgerSheetURL != "" {
		sheet := payments.NewSheetLedger(
			cfg.PayFast.LedgerSheetURL, config.GetDuration(cfg.Sheets.FetchTimeout), log,
		)
		ledger = payments.NewMultiLedger(ledger, log, sheet)
	}

	// --- Owner notifications ---
	var notifier notify.Notifier = notify.NoOpNotifier{}
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		notifier, err = notify.NewAWSNotifier(ctx, cfg.Notifications, log)
		if err != nil {
			zapLog.Fatal("aws notifier init failed", zap.Error(err))
		}
	}

	pingers := []server.Pinger{pg}
	if rdb != nil {
		pingers = append(pingers, rdb)
	}

	srv := server.New(cfg, log, resolver, catalogSvc, searchSvc, ledger, notifier, pingers...)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		zapLog.Error("tracer shutdown failed", zap.Error(err))
	}

	zapLog.Info("Server stopped")
}
