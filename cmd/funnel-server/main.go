// cmd/funnel-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"funnel-engine/internal/common/aws"
	"funnel-engine/internal/common/config"
	"funnel-engine/internal/common/database"
	"funnel-engine/internal/common/logger"
	"funnel-engine/internal/common/observability"
	"funnel-engine/internal/funnel/engine"
	"funnel-engine/internal/funnel/graph"
	"funnel-engine/internal/notify"
	"funnel-engine/internal/service"
	"funnel-engine/internal/store"
	"funnel-engine/internal/transport/httpapi"
	"funnel-engine/internal/webhook"
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
			delay *= 2
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

	zapLog.Info("Starting funnel server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// The question graph is static; a dangling edge is a deploy error.
	funnelGraph, err := graph.Default()
	if err != nil {
		zapLog.Fatal("question graph failed validation", zap.Error(err))
	}
	zapLog.Info("Question graph validated", zap.Int("nodes", funnelGraph.Size()))

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

	sessions := store.NewPostgresStore(pg, log)
	if err := sessions.Migrate(ctx); err != nil {
		zapLog.Fatal("session schema migration failed", zap.Error(err))
	}

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	runCache := store.NewRunCache(rdb, cfg.Database.Redis.RunStateTTL(), log)

	dispatcher := webhook.NewDispatcher(cfg.Webhook.URL, cfg.Webhook.RequestTimeout(), log)

	// --- Lead alerts (optional) ---
	var notifier service.CompletionNotifier
	if cfg.Alerts.Email.Enabled || cfg.Alerts.SMS.Enabled {
		var sesClient *aws.SESClient
		var snsClient *aws.SNSClient
		if cfg.Alerts.Email.Enabled {
			sesClient, err = aws.NewSESClient(ctx, cfg.Alerts.AWS.Region)
			if err != nil {
				zapLog.Fatal("SES client initialization failed", zap.Error(err))
			}
		}
		if cfg.Alerts.SMS.Enabled {
			snsClient, err = aws.NewSNSClient(ctx, cfg.Alerts.AWS.Region)
			if err != nil {
				zapLog.Fatal("SNS client initialization failed", zap.Error(err))
			}
		}
		notifier = notify.NewLeadAlertNotifier(cfg.Alerts, sesClient, snsClient, log)
		zapLog.Info("Lead alerts enabled", zap.String("minTier", cfg.Alerts.MinTier))
	}

	svc := service.New(engine.New(funnelGraph), sessions, runCache, dispatcher, notifier, obs, log)
	server := httpapi.NewServer(cfg.Server, svc, log)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		zapLog.Fatal("http server failed", zap.Error(err))
	case sig := <-stop:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Funnel server stopped")
}
