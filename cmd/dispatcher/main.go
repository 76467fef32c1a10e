// Command dispatcher is the Lambda function subscribed to the notification
// topic, sending one email per delivered decision.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/notifyhub/decision-notifier/internal/config"
	"github.com/notifyhub/decision-notifier/internal/logging"
	"github.com/notifyhub/decision-notifier/internal/provider"
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

	if err := cfg.ValidateDispatcher(); err != nil {
		logger.Fatal("invalid dispatcher config", zap.Error(err))
	}

	sender, err := provider.FromConfig(context.Background(), cfg)
	if err != nil {
		logger.Fatal("failed to build email sender", zap.Error(err))
	}

	svc := service.NewDispatchService(
		sender,
		cfg.MailFrom,
		ratelimiter.New(cfg.RateLimit),
		worker.NewPool(cfg.RecordConcurrency, worker.ParseFailureMode(cfg.FailureMode), worker.Hooks{}),
		logger,
	)

	logger.Info("dispatcher ready",
		zap.String("transport", cfg.EmailTransport),
		zap.String("source", cfg.DispatchSource),
		zap.Int("concurrency", cfg.RecordConcurrency),
	)

	// The function is either subscribed to the topic directly or reads a
	// queue subscribed to it.
	flush := lambda.WithEnableSIGTERM(func() { _ = logger.Sync() })
	if cfg.DispatchSource == config.SourceSQS {
		lambda.StartWithOptions(svc.HandleSQSEvent, flush)
		return
	}
	lambda.StartWithOptions(svc.HandleSNSEvent, flush)
}
