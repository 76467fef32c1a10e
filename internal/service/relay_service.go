package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/notifyhub/decision-notifier/internal/domain"
	"github.com/notifyhub/decision-notifier/internal/publisher"
	"github.com/notifyhub/decision-notifier/internal/ratelimiter"
	"github.com/notifyhub/decision-notifier/internal/render"
	"github.com/notifyhub/decision-notifier/internal/worker"
)

// RelayService consumes queued decision events, renders each one and
// republishes it to the notification topic, one publish per record.
type RelayService struct {
	pub     publisher.Publisher
	limiter *ratelimiter.StageLimiters
	pool    *worker.Pool
	logger  *zap.Logger
	onBatch func(n int)
}

func NewRelayService(
	pub publisher.Publisher,
	limiter *ratelimiter.StageLimiters,
	pool *worker.Pool,
	logger *zap.Logger,
) *RelayService {
	return &RelayService{
		pub: pub, limiter: limiter, pool: pool,
		logger:  logger.With(zap.String("stage", string(domain.StageRelay))),
		onBatch: func(int) {},
	}
}

// OnBatch registers a callback observing the size of every inbound batch.
func (s *RelayService) OnBatch(fn func(n int)) { s.onBatch = fn }

// HandleSQSEvent relays every record of the batch and reports the ones that
// must be redelivered. The returned error is always nil: per-record failures
// travel in BatchItemFailures so the queue retries only those messages.
func (s *RelayService) HandleSQSEvent(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	s.onBatch(len(ev.Records))
	log := withInvocation(ctx, s.logger)

	ids := make([]string, len(ev.Records))
	for i, r := range ev.Records {
		ids[i] = r.MessageId
	}

	report := s.pool.Run(ctx, ids, func(ctx context.Context, i int) error {
		r := ev.Records[i]
		return s.Relay(ctx, r.MessageId, []byte(r.Body))
	})

	resp := events.SQSEventResponse{BatchItemFailures: []events.SQSBatchItemFailure{}}
	for _, o := range report.Outcomes {
		if !o.Failed() {
			continue
		}
		resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: o.ID})
		log.Warn("record not relayed",
			zap.String("message_id", o.ID),
			zap.String("reason", domain.Reason(o.Error())),
			zap.Error(o.Error()),
		)
	}

	log.Info("batch relayed",
		zap.Int("records", len(ev.Records)),
		zap.Int("published", report.Succeeded()),
		zap.Int("failed", len(resp.BatchItemFailures)),
	)
	return resp, nil
}

// Relay decodes one serialized DecisionEvent and publishes it.
// messageID is the queue's id for the record, used as the FIFO
// deduplication id when the event carries none.
func (s *RelayService) Relay(ctx context.Context, messageID string, body []byte) error {
	ev, err := domain.DecodeDecision(body)
	if err != nil {
		return err
	}
	log := s.logger.With(eventFields(messageID, ev)...)

	payload, err := ev.Payload()
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", domain.ErrMalformedPayload, err)
	}

	n := render.Render(ev, render.StyleOmitEmpty)
	dedup := ev.EventID
	if dedup == "" {
		dedup = messageID
	}

	if err := s.limiter.Wait(ctx, domain.StageRelay); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublishFailure, err)
	}

	topicMsgID, err := s.pub.Publish(ctx, publisher.Message{
		Subject:         n.Subject,
		Body:            n.Body,
		Payload:         payload,
		GroupID:         "application-" + ev.IDApplication.String(),
		DeduplicationID: dedup,
		Attributes:      map[string]string{"decision": ev.Decision},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublishFailure, err)
	}

	log.Info("decision published", zap.String("topic_message_id", topicMsgID))
	return nil
}
