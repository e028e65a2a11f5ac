package cloudtrail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail/types"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/de-tools/grc-scanner/pkg/services/checks"
	"github.com/rs/zerolog"
)

// Client is the subset of the CloudTrail API the checker reads
type Client interface {
	DescribeTrails(ctx context.Context, params *cloudtrail.DescribeTrailsInput, optFns ...func(*cloudtrail.Options)) (*cloudtrail.DescribeTrailsOutput, error)
	GetTrailStatus(ctx context.Context, params *cloudtrail.GetTrailStatusInput, optFns ...func(*cloudtrail.Options)) (*cloudtrail.GetTrailStatusOutput, error)
}

// errorFrameworks is the reduced mapping used when trails cannot be read at all.
var errorFrameworks = []string{checks.FrameworkSOC2, checks.FrameworkISO27001, checks.FrameworkNISTCSF}

type trailChecker struct {
	client Client
	now    func() time.Time
}

func New(cfg aws.Config) checks.Checker {
	return NewChecker(cloudtrail.NewFromConfig(cfg))
}

func NewChecker(client Client) *trailChecker {
	return &trailChecker{
		client: client,
		now:    time.Now,
	}
}

func (c *trailChecker) Name() string {
	return checks.CheckerCloudTrail
}

func (c *trailChecker) Run(ctx context.Context) (*domain.CheckerReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("checker", c.Name()).Logger()

	findings, err := c.checkTrails(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to evaluate trails")
		f := checks.ControlTrailEnabled.Finding(
			domain.StatusError,
			fmt.Sprintf("Error checking CloudTrail: %s", err),
			c.now(),
		)
		f.Frameworks = append([]string(nil), errorFrameworks...)
		findings = []domain.Finding{f}
	}

	for _, f := range findings {
		logger.Debug().
			Str("control", f.ControlID).
			Str("status", string(f.Status)).
			Msg(f.Details)
	}

	return &domain.CheckerReport{
		Checker:  c.Name(),
		ScanTime: c.now(),
		Findings: findings,
	}, nil
}

func (c *trailChecker) checkTrails(ctx context.Context) ([]domain.Finding, error) {
	output, err := c.client.DescribeTrails(ctx, &cloudtrail.DescribeTrailsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe trails: %w", err)
	}

	if len(output.TrailList) == 0 {
		return []domain.Finding{checks.ControlTrailEnabled.Finding(
			domain.StatusFailed,
			"No CloudTrail trails exist - audit logging is disabled",
			c.now(),
		)}, nil
	}

	findings := make([]domain.Finding, 0, len(output.TrailList))
	for _, trail := range output.TrailList {
		f, err := c.checkTrail(ctx, trail)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}
	return findings, nil
}

func (c *trailChecker) checkTrail(ctx context.Context, trail types.Trail) (domain.Finding, error) {
	name := aws.ToString(trail.Name)

	status, err := c.client.GetTrailStatus(ctx, &cloudtrail.GetTrailStatusInput{Name: trail.TrailARN})
	if err != nil {
		return domain.Finding{}, fmt.Errorf("failed to get status of trail %s: %w", name, err)
	}
	logging := aws.ToBool(status.IsLogging)

	var issues []string
	if !logging {
		issues = append(issues, "Trail is not logging")
	}
	if !aws.ToBool(trail.IsMultiRegionTrail) {
		issues = append(issues, "Not multi-region")
	}
	if !aws.ToBool(trail.LogFileValidationEnabled) {
		issues = append(issues, "Log file validation disabled")
	}

	var verdict domain.Status
	details := fmt.Sprintf("Issues: %s", strings.Join(issues, ", "))
	switch {
	case len(issues) == 0:
		verdict = domain.StatusPassed
		details = "CloudTrail is enabled and properly configured"
	case !logging:
		verdict = domain.StatusFailed
	default:
		verdict = domain.StatusWarning
	}

	return checks.ControlTrailConfiguration.ResourceFinding(name, name, verdict, details, c.now()), nil
}
