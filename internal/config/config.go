package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	TransportSNS  = "sns"
	TransportNATS = "nats"
	TransportSES  = "ses"
	TransportSMTP = "smtp"

	SourceSNS = "sns"
	SourceSQS = "sqs"

	FailureModeAbort    = "abort"
	FailureModeContinue = "continue"
)

// Config holds all runtime configuration loaded from environment variables.
// It is read once at process start and never mutated afterwards.
type Config struct {
	// Cloud
	AWSRegion   string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSEndpoint string `envconfig:"AWS_ENDPOINT_URL"`

	// Topic (relay stage)
	PublishTransport string `envconfig:"PUBLISH_TRANSPORT" default:"sns"`
	TopicARN         string `envconfig:"SNS_TOPIC_ARN"`
	TopicFIFO        bool   `envconfig:"SNS_TOPIC_FIFO" default:"false"`
	NATSURL          string `envconfig:"NATS_URL" default:"nats://127.0.0.1:4222"`
	NATSSubject      string `envconfig:"NATS_SUBJECT" default:"decisions.notifications"`

	// Email (dispatch stage)
	EmailTransport string `envconfig:"EMAIL_TRANSPORT" default:"ses"`
	MailFrom       string `envconfig:"MAIL_FROM"`
	SESConfigSet   string `envconfig:"SES_CONFIGURATION_SET"`
	SMTPHost       string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"25"`
	SMTPUsername   string `envconfig:"SMTP_USERNAME"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	SMTPEncryption string `envconfig:"SMTP_ENCRYPTION" default:"none"`
	DispatchSource string `envconfig:"DISPATCH_SOURCE" default:"sns"`

	// Batch processing
	RecordConcurrency int    `envconfig:"RECORD_CONCURRENCY" default:"1"`
	FailureMode       string `envconfig:"FAILURE_MODE" default:"abort"`

	// Outbound calls per second per stage; 0 disables limiting.
	RateLimit int `envconfig:"OUTBOUND_RATE_LIMIT" default:"0"`

	// Local HTTP harness
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.RecordConcurrency < 1 {
		return nil, fmt.Errorf("RECORD_CONCURRENCY must be at least 1, got %d", c.RecordConcurrency)
	}
	if c.RateLimit < 0 {
		return nil, fmt.Errorf("OUTBOUND_RATE_LIMIT must not be negative, got %d", c.RateLimit)
	}
	switch c.FailureMode {
	case FailureModeAbort, FailureModeContinue:
	default:
		return nil, fmt.Errorf("FAILURE_MODE must be %q or %q, got %q", FailureModeAbort, FailureModeContinue, c.FailureMode)
	}
	return &c, nil
}

// ValidateRelay checks the settings the relay stage needs.
func (c *Config) ValidateRelay() error {
	switch c.PublishTransport {
	case TransportSNS:
		if c.TopicARN == "" {
			return errors.New("SNS_TOPIC_ARN is required")
		}
	case TransportNATS:
		if c.NATSSubject == "" {
			return errors.New("NATS_SUBJECT is required")
		}
	default:
		return fmt.Errorf("unknown PUBLISH_TRANSPORT %q", c.PublishTransport)
	}
	return nil
}

// ValidateDispatcher checks the settings the dispatch stage needs.
func (c *Config) ValidateDispatcher() error {
	if c.MailFrom == "" {
		return errors.New("MAIL_FROM is required")
	}
	switch c.EmailTransport {
	case TransportSES:
	case TransportSMTP:
		if c.SMTPHost == "" {
			return errors.New("SMTP_HOST is required")
		}
	default:
		return fmt.Errorf("unknown EMAIL_TRANSPORT %q", c.EmailTransport)
	}
	switch c.DispatchSource {
	case SourceSNS, SourceSQS:
	default:
		return fmt.Errorf("unknown DISPATCH_SOURCE %q", c.DispatchSource)
	}
	return nil
}
