package publisher

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"github.com/notifyhub/decision-notifier/internal/cloud"
	"github.com/notifyhub/decision-notifier/internal/config"
)

// FromConfig builds the configured Publisher. The returned close function
// releases the underlying connection and is never nil.
func FromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Publisher, func(), error) {
	switch cfg.PublishTransport {
	case config.TransportSNS:
		awsCfg, err := cloud.LoadAWS(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
			o.BaseEndpoint = cloud.Endpoint(cfg)
		})
		return NewSNSPublisher(client, cfg.TopicARN, cfg.TopicFIFO), func() {}, nil

	case config.TransportNATS:
		conn, err := ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewNATSPublisher(conn, cfg.NATSSubject), func() {
			if err := conn.Drain(); err != nil {
				logger.Warn("nats drain failed", zap.Error(err))
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown publish transport %q", cfg.PublishTransport)
	}
}
