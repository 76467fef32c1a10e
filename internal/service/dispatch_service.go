package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/notifyhub/decision-notifier/internal/domain"
	"github.com/notifyhub/decision-notifier/internal/provider"
	"github.com/notifyhub/decision-notifier/internal/ratelimiter"
	"github.com/notifyhub/decision-notifier/internal/render"
	"github.com/notifyhub/decision-notifier/internal/worker"
)

// DispatchResult is the outcome of one topic-delivered batch.
type DispatchResult struct {
	Records int      `json:"records"`
	Sent    int      `json:"sent"`
	Failed  []string `json:"failed,omitempty"`
}

// DispatchService turns topic-delivered notification payloads into emails,
// one send per record.
type DispatchService struct {
	sender  provider.Sender
	from    string
	limiter *ratelimiter.StageLimiters
	pool    *worker.Pool
	logger  *zap.Logger
	onBatch func(n int)
}

func NewDispatchService(
	sender provider.Sender,
	from string,
	limiter *ratelimiter.StageLimiters,
	pool *worker.Pool,
	logger *zap.Logger,
) *DispatchService {
	return &DispatchService{
		sender: sender, from: from, limiter: limiter, pool: pool,
		logger:  logger.With(zap.String("stage", string(domain.StageDispatch))),
		onBatch: func(int) {},
	}
}

// OnBatch registers a callback observing the size of every inbound batch.
func (s *DispatchService) OnBatch(fn func(n int)) { s.onBatch = fn }

// HandleSNSEvent dispatches every record delivered directly by the topic.
// SNS has no partial-batch contract, so any failure is also returned as an
// error to make the invoker retry the delivery.
func (s *DispatchService) HandleSNSEvent(ctx context.Context, ev events.SNSEvent) (DispatchResult, error) {
	s.onBatch(len(ev.Records))

	ids := make([]string, len(ev.Records))
	for i, r := range ev.Records {
		ids[i] = r.SNS.MessageID
	}

	report := s.pool.Run(ctx, ids, func(ctx context.Context, i int) error {
		r := ev.Records[i]
		if r.SNS.Message == "" {
			return domain.ErrEnvelope
		}
		return s.Dispatch(ctx, r.SNS.MessageID, []byte(r.SNS.Message))
	})

	res := s.summarize(ctx, report)
	return res, report.Err()
}

// HandleSQSEvent dispatches records of a queue subscribed to the topic.
// Bodies are either SNS notification envelopes or, with raw message
// delivery enabled, the payload itself.
func (s *DispatchService) HandleSQSEvent(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	s.onBatch(len(ev.Records))

	ids := make([]string, len(ev.Records))
	for i, r := range ev.Records {
		ids[i] = r.MessageId
	}

	report := s.pool.Run(ctx, ids, func(ctx context.Context, i int) error {
		r := ev.Records[i]
		content, err := unwrapEnvelope([]byte(r.Body))
		if err != nil {
			return err
		}
		return s.Dispatch(ctx, r.MessageId, content)
	})

	s.summarize(ctx, report)
	resp := events.SQSEventResponse{BatchItemFailures: []events.SQSBatchItemFailure{}}
	for _, id := range report.FailedIDs() {
		resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: id})
	}
	return resp, nil
}

// Dispatch decodes one notification payload and sends the email.
func (s *DispatchService) Dispatch(ctx context.Context, messageID string, content []byte) error {
	ev, err := domain.DecodeDecision(content)
	if err != nil {
		return err
	}
	if err := ev.ValidateForDelivery(); err != nil {
		return err
	}
	log := s.logger.With(eventFields(messageID, ev)...)

	n := render.Render(ev, render.StyleInline)

	if err := s.limiter.Wait(ctx, domain.StageDispatch); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSendFailure, err)
	}

	mailID, err := s.sender.Send(ctx, provider.Email{
		To:      ev.Email,
		From:    s.from,
		Subject: n.Subject,
		Body:    n.Body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSendFailure, err)
	}

	log.Info("decision email sent", zap.String("provider_msg_id", mailID))
	return nil
}

func (s *DispatchService) summarize(ctx context.Context, report worker.Report) DispatchResult {
	log := withInvocation(ctx, s.logger)
	res := DispatchResult{
		Records: len(report.Outcomes),
		Sent:    report.Succeeded(),
		Failed:  report.FailedIDs(),
	}
	for _, o := range report.Outcomes {
		if o.Failed() {
			log.Warn("record not dispatched",
				zap.String("message_id", o.ID),
				zap.String("reason", domain.Reason(o.Error())),
				zap.Error(o.Error()),
			)
		}
	}
	log.Info("batch dispatched",
		zap.Int("records", res.Records),
		zap.Int("sent", res.Sent),
		zap.Int("failed", len(res.Failed)),
	)
	return res
}

// snsEnvelope is the JSON document SNS writes into a subscribed queue when
// raw message delivery is off.
type snsEnvelope struct {
	Type      string  `json:"Type"`
	MessageID string  `json:"MessageId"`
	Message   *string `json:"Message"`
}

// unwrapEnvelope returns the nested message content of an SNS envelope, or
// body unchanged when it is not an envelope.
func unwrapEnvelope(body []byte) ([]byte, error) {
	var env snsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if env.Type == "" {
		return body, nil
	}
	if env.Message == nil || *env.Message == "" {
		return nil, domain.ErrEnvelope
	}
	return []byte(*env.Message), nil
}
