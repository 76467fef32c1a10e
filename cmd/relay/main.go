// Command relay is the Lambda function consuming the decision queue and
// republishing each event to the notification topic.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/notifyhub/decision-notifier/internal/config"
	"github.com/notifyhub/decision-notifier/internal/logging"
	"github.com/notifyhub/decision-notifier/internal/publisher"
	"github.com/notifyhub/decision-notifier/internal/ratelimiter"
	"github.com/notifyhub/decision-notifier/internal/service"
	"github.com/notifyhub/decision-notifier/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}

	if err := cfg.ValidateRelay(); err != nil {
		logger.Fatal("invalid relay config", zap.Error(err))
	}

	// Built once per execution environment and reused by every invocation.
	pub, closePub, err := publisher.FromConfig(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to build publisher", zap.Error(err))
	}

	svc := service.NewRelayService(
		pub,
		ratelimiter.New(cfg.RateLimit),
		worker.NewPool(cfg.RecordConcurrency, worker.ParseFailureMode(cfg.FailureMode), worker.Hooks{}),
		logger,
	)

	logger.Info("relay ready",
		zap.String("transport", cfg.PublishTransport),
		zap.Int("concurrency", cfg.RecordConcurrency),
		zap.String("failure_mode", cfg.FailureMode),
	)
	// Start never returns, so the publisher is drained on SIGTERM.
	lambda.StartWithOptions(svc.HandleSQSEvent, lambda.WithEnableSIGTERM(func() {
		logger.Info("relay shutting down")
		closePub()
		_ = logger.Sync()
	}))
}
