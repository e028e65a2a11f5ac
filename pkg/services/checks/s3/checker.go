package s3

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/de-tools/grc-scanner/pkg/services/checks"
	"github.com/rs/zerolog"
)

const (
	errNoEncryption        = "ServerSideEncryptionConfigurationNotFoundError"
	errNoPublicAccessBlock = "NoSuchPublicAccessBlockConfiguration"
)

// Client is the subset of the S3 API the checker reads
type Client interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketEncryption(ctx context.Context, params *s3.GetBucketEncryptionInput, optFns ...func(*s3.Options)) (*s3.GetBucketEncryptionOutput, error)
	GetPublicAccessBlock(ctx context.Context, params *s3.GetPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.GetPublicAccessBlockOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	GetBucketLogging(ctx context.Context, params *s3.GetBucketLoggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketLoggingOutput, error)
}

// verdict is the outcome of one bucket check before it becomes a finding
type verdict struct {
	status  domain.Status
	details string
}

type s3Checker struct {
	client Client
	now    func() time.Time
}

func New(cfg aws.Config) checks.Checker {
	return NewChecker(s3.NewFromConfig(cfg))
}

func NewChecker(client Client) *s3Checker {
	return &s3Checker{
		client: client,
		now:    time.Now,
	}
}

func (c *s3Checker) Name() string {
	return checks.CheckerS3
}

func (c *s3Checker) Run(ctx context.Context) (*domain.CheckerReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("checker", c.Name()).Logger()

	output, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	logger.Info().Int("buckets", len(output.Buckets)).Msg("buckets discovered")
	if len(output.Buckets) == 0 {
		return nil, nil
	}

	report := &domain.CheckerReport{
		Checker:  c.Name(),
		ScanTime: c.now(),
		Findings: make([]domain.Finding, 0, len(output.Buckets)*4),
	}
	for _, bucket := range output.Buckets {
		name := aws.ToString(bucket.Name)
		findings := c.checkBucket(ctx, name)
		for _, f := range findings {
			logger.Debug().
				Str("bucket", name).
				Str("control", f.ControlID).
				Str("status", string(f.Status)).
				Msg(f.Details)
		}
		report.Findings = append(report.Findings, findings...)
	}

	total := len(output.Buckets)
	report.Resources = &total
	return report, nil
}

func (c *s3Checker) checkBucket(ctx context.Context, bucket string) []domain.Finding {
	steps := []struct {
		control domain.Control
		check   func(context.Context, string) verdict
	}{
		{checks.ControlBucketEncryption, c.checkEncryption},
		{checks.ControlPublicAccessBlock, c.checkPublicAccess},
		{checks.ControlBucketVersioning, c.checkVersioning},
		{checks.ControlAccessLogging, c.checkLogging},
	}

	findings := make([]domain.Finding, 0, len(steps))
	for _, step := range steps {
		v := step.check(ctx, bucket)
		findings = append(findings, step.control.ResourceFinding(bucket, bucket, v.status, v.details, c.now()))
	}
	return findings
}

func (c *s3Checker) checkEncryption(ctx context.Context, bucket string) verdict {
	_, err := c.client.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{Bucket: aws.String(bucket)})
	switch {
	case err == nil:
		return verdict{domain.StatusPassed, "Encryption enabled"}
	case checks.IsErrorCode(err, errNoEncryption):
		return verdict{domain.StatusFailed, "No encryption configured"}
	default:
		return verdict{domain.StatusError, fmt.Sprintf("Error checking encryption: %s", errorText(err))}
	}
}

func (c *s3Checker) checkPublicAccess(ctx context.Context, bucket string) verdict {
	output, err := c.client.GetPublicAccessBlock(ctx, &s3.GetPublicAccessBlockInput{Bucket: aws.String(bucket)})
	if err != nil {
		if checks.IsErrorCode(err, errNoPublicAccessBlock) {
			return verdict{domain.StatusFailed, "No public access block configured (RISK!)"}
		}
		return verdict{domain.StatusError, fmt.Sprintf("Error: %s", errorText(err))}
	}

	issues := publicAccessIssues(output.PublicAccessBlockConfiguration)
	if len(issues) == 0 {
		return verdict{domain.StatusPassed, "All public access blocked"}
	}
	return verdict{domain.StatusFailed, fmt.Sprintf("Issues: %s", strings.Join(issues, ", "))}
}

func publicAccessIssues(cfg *types.PublicAccessBlockConfiguration) []string {
	if cfg == nil {
		cfg = &types.PublicAccessBlockConfiguration{}
	}
	settings := []struct {
		name    string
		enabled *bool
	}{
		{"BlockPublicAcls", cfg.BlockPublicAcls},
		{"IgnorePublicAcls", cfg.IgnorePublicAcls},
		{"BlockPublicPolicy", cfg.BlockPublicPolicy},
		{"RestrictPublicBuckets", cfg.RestrictPublicBuckets},
	}

	var issues []string
	for _, s := range settings {
		if !aws.ToBool(s.enabled) {
			issues = append(issues, s.name+"=False")
		}
	}
	return issues
}

func (c *s3Checker) checkVersioning(ctx context.Context, bucket string) verdict {
	output, err := c.client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: aws.String(bucket)})
	if err != nil {
		return verdict{domain.StatusError, fmt.Sprintf("Error: %s", errorText(err))}
	}

	status := string(output.Status)
	if status == "" {
		status = "Disabled"
	}
	if output.Status == types.BucketVersioningStatusEnabled {
		return verdict{domain.StatusPassed, "Versioning enabled"}
	}
	return verdict{domain.StatusWarning, fmt.Sprintf("Versioning is %s", status)}
}

func (c *s3Checker) checkLogging(ctx context.Context, bucket string) verdict {
	output, err := c.client.GetBucketLogging(ctx, &s3.GetBucketLoggingInput{Bucket: aws.String(bucket)})
	if err != nil {
		return verdict{domain.StatusError, fmt.Sprintf("Error: %s", errorText(err))}
	}

	if output.LoggingEnabled == nil {
		return verdict{domain.StatusWarning, "No logging configured"}
	}
	target := aws.ToString(output.LoggingEnabled.TargetBucket)
	if target == "" {
		target = "unknown"
	}
	return verdict{domain.StatusPassed, fmt.Sprintf("Logging to %s", target)}
}

// errorText prefers the AWS error code over the full error chain.
func errorText(err error) string {
	if code := checks.ErrorCode(err); code != "" {
		return code
	}
	return err.Error()
}
