package service

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"

	"github.com/notifyhub/decision-notifier/internal/api/middleware"
	"github.com/notifyhub/decision-notifier/internal/domain"
)

// withInvocation tags the logger with the Lambda request id, or with the
// HTTP correlation id when invoked through the local harness.
func withInvocation(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return logger.With(zap.String("aws_request_id", lc.AwsRequestID))
	}
	if id := middleware.GetCorrelationID(ctx); id != "" {
		return logger.With(zap.String("correlation_id", id))
	}
	return logger
}

func eventFields(messageID string, ev *domain.DecisionEvent) []zap.Field {
	fields := []zap.Field{
		zap.String("message_id", messageID),
		zap.String("id_application", ev.IDApplication.String()),
		zap.String("decision", ev.Decision),
	}
	if ev.CorrelationID != "" {
		fields = append(fields, zap.String("event_correlation_id", ev.CorrelationID))
	}
	if ev.EventID != "" {
		fields = append(fields, zap.String("event_id", ev.EventID))
	}
	return fields
}
