package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSConn is the subset of *nats.Conn used here.
type NATSConn interface {
	PublishMsg(m *nats.Msg) error
}

// NATSPublisher publishes the payload to a NATS subject. The rendered
// subject travels as a header; Nats-Msg-Id lets JetStream streams drop
// duplicates.
type NATSPublisher struct {
	conn    NATSConn
	subject string
}

func NewNATSPublisher(conn NATSConn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

// ConnectNATS opens a long-lived connection with reconnects enabled.
func ConnectNATS(url string, logger *zap.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("decision-relay"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return conn, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m := nats.NewMsg(p.subject)
	m.Data = msg.Payload
	m.Header.Set("Subject", msg.Subject)
	m.Header.Set("Content-Type", "application/json")
	if msg.DeduplicationID != "" {
		m.Header.Set(nats.MsgIdHdr, msg.DeduplicationID)
	}
	for k, v := range msg.Attributes {
		m.Header.Set(k, v)
	}

	if err := p.conn.PublishMsg(m); err != nil {
		return "", fmt.Errorf("nats publish: %w", err)
	}
	return msg.DeduplicationID, nil
}

var _ Publisher = (*NATSPublisher)(nil)
