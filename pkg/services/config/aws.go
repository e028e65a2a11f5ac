package config

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
)

const (
	DefaultRegion = "us-east-1" // Default region if not specified in AWS profile
)

// LoadAWSConfig builds the SDK config shared by every checker and the report sink.
func LoadAWSConfig(ctx context.Context, cfg AWSConfig) (awssdk.Config, error) {
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = retry.DefaultMaxAttempts
	}

	opts := []func(*config.LoadOptions) error{
		config.WithDefaultRegion(region),
		config.WithRetryer(func() awssdk.Retryer {
			return retry.NewStandard(func(o *retry.StandardOptions) {
				o.MaxAttempts = maxAttempts
			})
		}),
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	// Test the credentials
	if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
		return awssdk.Config{}, fmt.Errorf("invalid AWS credentials for profile %q: %w", cfg.Profile, err)
	}

	return awsCfg, nil
}
