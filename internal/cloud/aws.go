package cloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/notifyhub/decision-notifier/internal/config"
)

// LoadAWS resolves the shared AWS configuration once per process.
// Credentials come from the default chain (Lambda execution role, env, profile).
func LoadAWS(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// Endpoint returns a pointer for a service BaseEndpoint override, or nil when
// no override is configured.
func Endpoint(cfg *config.Config) *string {
	if cfg.AWSEndpoint == "" {
		return nil
	}
	return aws.String(cfg.AWSEndpoint)
}
