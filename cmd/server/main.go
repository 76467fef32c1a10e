// Command server runs both pipeline stages behind one HTTP server for local
// development: POST Lambda-shaped SQS/SNS events to /api/v1/relay and
// /api/v1/dispatch.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/notifyhub/decision-notifier/internal/api"
	"github.com/notifyhub/decision-notifier/internal/config"
	"github.com/notifyhub/decision-notifier/internal/domain"
	"github.com/notifyhub/decision-notifier/internal/logging"
	"github.com/notifyhub/decision-notifier/internal/metrics"
	"github.com/notifyhub/decision-notifier/internal/provider"
	"github.com/notifyhub/decision-notifier/internal/publisher"
	"github.com/notifyhub/decision-notifier/internal/ratelimiter"
	"github.com/notifyhub/decision-notifier/internal/service"
	"github.com/notifyhub/decision-notifier/internal/worker"
)

func main() {
	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	if err := cfg.ValidateRelay(); err != nil {
		logger.Fatal("invalid relay config", zap.Error(err))
	}
	if err := cfg.ValidateDispatcher(); err != nil {
		logger.Fatal("invalid dispatcher config", zap.Error(err))
	}

	// ---- outbound clients ----
	ctx := context.Background()
	pub, closePub, err := publisher.FromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build publisher", zap.Error(err))
	}
	defer closePub()

	sender, err := provider.FromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to build email sender", zap.Error(err))
	}

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	limiter := ratelimiter.New(cfg.RateLimit)
	mode := worker.ParseFailureMode(cfg.FailureMode)

	relay := service.NewRelayService(pub, limiter,
		worker.NewPool(cfg.RecordConcurrency, mode, m.StageHooks(domain.StageRelay)), logger)
	relay.OnBatch(func(n int) { m.ObserveBatch(domain.StageRelay, n) })

	dispatch := service.NewDispatchService(sender, cfg.MailFrom, limiter,
		worker.NewPool(cfg.RecordConcurrency, mode, m.StageHooks(domain.StageDispatch)), logger)
	dispatch.OnBatch(func(n int) { m.ObserveBatch(domain.StageDispatch, n) })

	// ---- HTTP server ----
	router := api.NewRouter(relay, dispatch, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("publish_transport", cfg.PublishTransport),
			zap.String("email_transport", cfg.EmailTransport),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// In-flight batches finish before Shutdown returns.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}
