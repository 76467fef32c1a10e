package provider

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ses"

	"github.com/notifyhub/decision-notifier/internal/cloud"
	"github.com/notifyhub/decision-notifier/internal/config"
)

// FromConfig builds the configured email Sender.
func FromConfig(ctx context.Context, cfg *config.Config) (Sender, error) {
	switch cfg.EmailTransport {
	case config.TransportSES:
		awsCfg, err := cloud.LoadAWS(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client := ses.NewFromConfig(awsCfg, func(o *ses.Options) {
			o.BaseEndpoint = cloud.Endpoint(cfg)
		})
		return NewSESSender(client, cfg.SESConfigSet), nil

	case config.TransportSMTP:
		return NewSMTPSender(SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUsername,
			Password:   cfg.SMTPPassword,
			Encryption: cfg.SMTPEncryption,
		})

	default:
		return nil, fmt.Errorf("unknown email transport %q", cfg.EmailTransport)
	}
}
