package iam

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/de-tools/grc-scanner/pkg/services/checks"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
)

const (
	rootAccountUser      = "<root_account>"
	minimumPasswordChars = 14
)

// Client is the subset of the IAM API the checker reads
type Client interface {
	iam.ListUsersAPIClient
	GetAccountSummary(ctx context.Context, params *iam.GetAccountSummaryInput, optFns ...func(*iam.Options)) (*iam.GetAccountSummaryOutput, error)
	GenerateCredentialReport(ctx context.Context, params *iam.GenerateCredentialReportInput, optFns ...func(*iam.Options)) (*iam.GenerateCredentialReportOutput, error)
	GetCredentialReport(ctx context.Context, params *iam.GetCredentialReportInput, optFns ...func(*iam.Options)) (*iam.GetCredentialReportOutput, error)
	GetLoginProfile(ctx context.Context, params *iam.GetLoginProfileInput, optFns ...func(*iam.Options)) (*iam.GetLoginProfileOutput, error)
	ListMFADevices(ctx context.Context, params *iam.ListMFADevicesInput, optFns ...func(*iam.Options)) (*iam.ListMFADevicesOutput, error)
	GetAccountPasswordPolicy(ctx context.Context, params *iam.GetAccountPasswordPolicyInput, optFns ...func(*iam.Options)) (*iam.GetAccountPasswordPolicyOutput, error)
}

type credentialReportRow struct {
	User             string `csv:"user"`
	PasswordLastUsed string `csv:"password_last_used"`
}

type iamChecker struct {
	client Client
	now    func() time.Time
}

func New(cfg aws.Config) checks.Checker {
	return NewChecker(iam.NewFromConfig(cfg))
}

func NewChecker(client Client) *iamChecker {
	return &iamChecker{
		client: client,
		now:    time.Now,
	}
}

func (c *iamChecker) Name() string {
	return checks.CheckerIAM
}

func (c *iamChecker) Run(ctx context.Context) (*domain.CheckerReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("checker", c.Name()).Logger()

	steps := []struct {
		control domain.Control
		run     func(context.Context) (*domain.Finding, error)
	}{
		{checks.ControlRootMFA, c.checkRootMFA},
		{checks.ControlRootUsage, c.checkRootUsage},
		{checks.ControlUserMFA, c.checkConsoleUsersMFA},
		{checks.ControlPasswordPolicy, c.checkPasswordPolicy},
	}

	report := &domain.CheckerReport{
		Checker:  c.Name(),
		ScanTime: c.now(),
		Findings: []domain.Finding{},
	}
	for _, step := range steps {
		finding, err := step.run(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("control", step.control.ID).Msg("check skipped")
			continue
		}
		if finding == nil {
			continue
		}
		logger.Debug().
			Str("control", finding.ControlID).
			Str("status", string(finding.Status)).
			Msg(finding.Details)
		report.Findings = append(report.Findings, *finding)
	}
	return report, nil
}

func (c *iamChecker) checkRootMFA(ctx context.Context) (*domain.Finding, error) {
	summary, err := c.client.GetAccountSummary(ctx, &iam.GetAccountSummaryInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get account summary: %w", err)
	}

	if summary.SummaryMap["AccountMFAEnabled"] > 0 {
		f := checks.ControlRootMFA.Finding(domain.StatusPassed, "Root account has MFA enabled", c.now())
		return &f, nil
	}
	f := checks.ControlRootMFA.Finding(domain.StatusFailed, "Root account does not have MFA enabled - HIGH RISK", c.now())
	return &f, nil
}

func (c *iamChecker) checkRootUsage(ctx context.Context) (*domain.Finding, error) {
	// The report may already exist or still be generating; reading it decides the outcome.
	_, _ = c.client.GenerateCredentialReport(ctx, &iam.GenerateCredentialReportInput{})

	output, err := c.client.GetCredentialReport(ctx, &iam.GetCredentialReportInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get credential report: %w", err)
	}

	var rows []credentialReportRow
	if err := gocsv.UnmarshalBytes(output.Content, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse credential report: %w", err)
	}

	for _, row := range rows {
		if row.User != rootAccountUser {
			continue
		}
		if row.PasswordLastUsed == "N/A" || row.PasswordLastUsed == "no_information" {
			f := checks.ControlRootUsage.Finding(domain.StatusPassed, "Root account shows no recent usage", c.now())
			return &f, nil
		}
		f := checks.ControlRootUsage.Finding(
			domain.StatusWarning,
			fmt.Sprintf("Root account was used on %s", row.PasswordLastUsed),
			c.now(),
		)
		return &f, nil
	}
	return nil, nil
}

func (c *iamChecker) checkConsoleUsersMFA(ctx context.Context) (*domain.Finding, error) {
	var risky []string

	paginator := iam.NewListUsersPaginator(c.client, &iam.ListUsersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		for _, user := range page.Users {
			name := aws.ToString(user.UserName)

			hasConsole, err := c.hasLoginProfile(ctx, name)
			if err != nil {
				return nil, err
			}
			if !hasConsole {
				continue
			}

			devices, err := c.client.ListMFADevices(ctx, &iam.ListMFADevicesInput{UserName: user.UserName})
			if err != nil {
				return nil, fmt.Errorf("failed to list MFA devices for %s: %w", name, err)
			}
			if len(devices.MFADevices) == 0 {
				risky = append(risky, name)
			}
		}
	}

	if len(risky) == 0 {
		f := checks.ControlUserMFA.Finding(domain.StatusPassed, "All IAM users with console access have MFA", c.now())
		return &f, nil
	}
	f := checks.ControlUserMFA.Finding(
		domain.StatusFailed,
		fmt.Sprintf("%d users without MFA: %s", len(risky), strings.Join(risky, ", ")),
		c.now(),
	)
	return &f, nil
}

func (c *iamChecker) hasLoginProfile(ctx context.Context, user string) (bool, error) {
	_, err := c.client.GetLoginProfile(ctx, &iam.GetLoginProfileInput{UserName: aws.String(user)})
	if err == nil {
		return true, nil
	}
	var notFound *types.NoSuchEntityException
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to get login profile for %s: %w", user, err)
}

func (c *iamChecker) checkPasswordPolicy(ctx context.Context) (*domain.Finding, error) {
	output, err := c.client.GetAccountPasswordPolicy(ctx, &iam.GetAccountPasswordPolicyInput{})
	if err != nil {
		var notFound *types.NoSuchEntityException
		if errors.As(err, &notFound) {
			f := checks.ControlPasswordPolicy.Finding(domain.StatusFailed, "No account password policy exists", c.now())
			return &f, nil
		}
		return nil, fmt.Errorf("failed to get password policy: %w", err)
	}
	if output.PasswordPolicy == nil {
		f := checks.ControlPasswordPolicy.Finding(domain.StatusFailed, "No account password policy exists", c.now())
		return &f, nil
	}

	issues := passwordPolicyIssues(*output.PasswordPolicy)
	if len(issues) == 0 {
		f := checks.ControlPasswordPolicy.Finding(domain.StatusPassed, "Password policy meets security standards", c.now())
		return &f, nil
	}
	f := checks.ControlPasswordPolicy.Finding(
		domain.StatusWarning,
		fmt.Sprintf("Issues: %s", strings.Join(issues, ", ")),
		c.now(),
	)
	return &f, nil
}

func passwordPolicyIssues(policy types.PasswordPolicy) []string {
	var issues []string
	if aws.ToInt32(policy.MinimumPasswordLength) < minimumPasswordChars {
		issues = append(issues, fmt.Sprintf("Password length < %d characters", minimumPasswordChars))
	}
	if !policy.RequireUppercaseCharacters {
		issues = append(issues, "Uppercase characters not required")
	}
	if !policy.RequireLowercaseCharacters {
		issues = append(issues, "Lowercase characters not required")
	}
	if !policy.RequireNumbers {
		issues = append(issues, "Numbers not required")
	}
	if !policy.RequireSymbols {
		issues = append(issues, "Symbols not required")
	}
	return issues
}
