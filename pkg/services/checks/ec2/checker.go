package ec2

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/de-tools/grc-scanner/pkg/services/checks"
	"github.com/rs/zerolog"
)

const (
	anywhereIPv4 = "0.0.0.0/0"
	anywhereIPv6 = "::/0"
)

// Client is the subset of the EC2 API the checker reads
type Client interface {
	ec2.DescribeSecurityGroupsAPIClient
}

// openRule is a permission that reaches every address
type openRule struct {
	direction string
	protocol  string
	portRange string
	source    string
}

type ec2Checker struct {
	client Client
	now    func() time.Time
}

func New(cfg aws.Config) checks.Checker {
	return NewChecker(ec2.NewFromConfig(cfg))
}

func NewChecker(client Client) *ec2Checker {
	return &ec2Checker{
		client: client,
		now:    time.Now,
	}
}

func (c *ec2Checker) Name() string {
	return checks.CheckerEC2
}

func (c *ec2Checker) Run(ctx context.Context) (*domain.CheckerReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("checker", c.Name()).Logger()

	var groups []types.SecurityGroup
	paginator := ec2.NewDescribeSecurityGroupsPaginator(c.client, &ec2.DescribeSecurityGroupsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe security groups: %w", err)
		}
		groups = append(groups, page.SecurityGroups...)
	}

	logger.Info().Int("security_groups", len(groups)).Msg("security groups discovered")
	if len(groups) == 0 {
		return nil, nil
	}

	report := &domain.CheckerReport{
		Checker:  c.Name(),
		ScanTime: c.now(),
		Findings: make([]domain.Finding, 0, len(groups)*2),
	}
	for _, sg := range groups {
		findings := c.checkGroup(logger, sg)
		for _, f := range findings {
			logger.Debug().
				Str("resource", f.Resource).
				Str("control", f.ControlID).
				Str("status", string(f.Status)).
				Msg(f.Details)
		}
		report.Findings = append(report.Findings, findings...)
	}

	total := len(groups)
	report.Resources = &total
	return report, nil
}

func (c *ec2Checker) checkGroup(logger zerolog.Logger, sg types.SecurityGroup) []domain.Finding {
	id := aws.ToString(sg.GroupId)
	resource := fmt.Sprintf("%s (%s)", aws.ToString(sg.GroupName), id)

	inbound := openRules(sg.IpPermissions, "inbound")
	outbound := openRules(sg.IpPermissionsEgress, "outbound")
	for _, rules := range [][]openRule{inbound, outbound} {
		for _, r := range rules {
			logger.Debug().
				Str("resource", resource).
				Str("direction", r.direction).
				Str("protocol", r.protocol).
				Str("ports", r.portRange).
				Str("source", r.source).
				Msg("rule open to anywhere")
		}
	}

	var findings []domain.Finding
	if len(inbound) == 0 {
		findings = append(findings, checks.ControlInboundRules.ResourceFinding(
			id, resource, domain.StatusPassed, "No rules allow access from 0.0.0.0/0", c.now()))
	} else {
		ports := make([]string, 0, len(inbound))
		for _, r := range inbound {
			ports = append(ports, r.portRange)
		}
		findings = append(findings, checks.ControlInboundRules.ResourceFinding(
			id, resource, domain.StatusFailed,
			fmt.Sprintf("%d rules allow access from anywhere: %s", len(inbound), strings.Join(ports, ", ")),
			c.now()))
	}

	if len(outbound) == 0 {
		findings = append(findings, checks.ControlOutboundRules.ResourceFinding(
			id, resource, domain.StatusPassed, "Outbound traffic is controlled", c.now()))
	} else {
		findings = append(findings, checks.ControlOutboundRules.ResourceFinding(
			id, resource, domain.StatusWarning,
			fmt.Sprintf("%d rules allow traffic to anywhere", len(outbound)),
			c.now()))
	}
	return findings
}

// openRules returns one entry per IPv4 or IPv6 range that covers every address.
func openRules(permissions []types.IpPermission, direction string) []openRule {
	var rules []openRule
	for _, p := range permissions {
		portRange := portOrAll(p.FromPort) + "-" + portOrAll(p.ToPort)
		protocol := aws.ToString(p.IpProtocol)
		if protocol == "" {
			protocol = "All"
		}

		for _, r := range p.IpRanges {
			if aws.ToString(r.CidrIp) == anywhereIPv4 {
				rules = append(rules, openRule{direction, protocol, portRange, "0.0.0.0/0 (anywhere)"})
			}
		}
		for _, r := range p.Ipv6Ranges {
			if aws.ToString(r.CidrIpv6) == anywhereIPv6 {
				rules = append(rules, openRule{direction, protocol, portRange, "::/0 (anywhere IPv6)"})
			}
		}
	}
	return rules
}

func portOrAll(port *int32) string {
	if port == nil {
		return "All"
	}
	return strconv.Itoa(int(*port))
}
