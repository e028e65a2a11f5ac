package ec2

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) DescribeSecurityGroups(ctx context.Context, params *ec2.DescribeSecurityGroupsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
	args := m.Called(ctx, aws.ToString(params.NextToken))
	out, _ := args.Get(0).(*ec2.DescribeSecurityGroupsOutput)
	return out, args.Error(1)
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestChecker(client Client) *ec2Checker {
	c := NewChecker(client)
	c.now = func() time.Time { return fixedNow }
	return c
}

func openIngress(from, to int32) types.IpPermission {
	return types.IpPermission{
		IpProtocol: aws.String("tcp"),
		FromPort:   aws.Int32(from),
		ToPort:     aws.Int32(to),
		IpRanges:   []types.IpRange{{CidrIp: aws.String("0.0.0.0/0")}},
	}
}

func allEgress() types.IpPermission {
	return types.IpPermission{
		IpProtocol: aws.String("-1"),
		IpRanges:   []types.IpRange{{CidrIp: aws.String("0.0.0.0/0")}},
		Ipv6Ranges: []types.Ipv6Range{{CidrIpv6: aws.String("::/0")}},
	}
}

func TestRun_PaginatesAndClassifiesGroups(t *testing.T) {
	client := new(MockClient)
	client.On("DescribeSecurityGroups", mock.Anything, "").Return(&ec2.DescribeSecurityGroupsOutput{
		SecurityGroups: []types.SecurityGroup{{
			GroupId:             aws.String("sg-web"),
			GroupName:           aws.String("web"),
			IpPermissions:       []types.IpPermission{openIngress(22, 22), openIngress(443, 443)},
			IpPermissionsEgress: []types.IpPermission{allEgress()},
		}},
		NextToken: aws.String("page-2"),
	}, nil)
	client.On("DescribeSecurityGroups", mock.Anything, "page-2").Return(&ec2.DescribeSecurityGroupsOutput{
		SecurityGroups: []types.SecurityGroup{{
			GroupId:   aws.String("sg-db"),
			GroupName: aws.String("db"),
			IpPermissions: []types.IpPermission{{
				IpProtocol: aws.String("tcp"),
				FromPort:   aws.Int32(5432),
				ToPort:     aws.Int32(5432),
				IpRanges:   []types.IpRange{{CidrIp: aws.String("10.0.0.0/16")}},
			}},
		}},
	}, nil)

	report, err := newTestChecker(client).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)
	require.NotNil(t, report.Resources)
	assert.Equal(t, 2, *report.Resources)
	require.Len(t, report.Findings, 4)

	web := report.Findings[:2]
	assert.Equal(t, "EC2-SG-001-sg-web", web[0].ControlID)
	assert.Equal(t, "web (sg-web)", web[0].Resource)
	assert.Equal(t, domain.StatusFailed, web[0].Status)
	assert.Equal(t, "2 rules allow access from anywhere: 22-22, 443-443", web[0].Details)
	assert.Equal(t, "EC2-SG-002-sg-web", web[1].ControlID)
	assert.Equal(t, domain.StatusWarning, web[1].Status)
	assert.Equal(t, "2 rules allow traffic to anywhere", web[1].Details)

	db := report.Findings[2:]
	assert.Equal(t, domain.StatusPassed, db[0].Status)
	assert.Equal(t, "No rules allow access from 0.0.0.0/0", db[0].Details)
	assert.Equal(t, domain.StatusPassed, db[1].Status)
	assert.Equal(t, "Outbound traffic is controlled", db[1].Details)
	client.AssertExpectations(t)
}

func TestRun_NoGroupsYieldsNoReport(t *testing.T) {
	client := new(MockClient)
	client.On("DescribeSecurityGroups", mock.Anything, "").Return(&ec2.DescribeSecurityGroupsOutput{}, nil)

	report, err := newTestChecker(client).Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestRun_DescribeFailureIsReturned(t *testing.T) {
	client := new(MockClient)
	client.On("DescribeSecurityGroups", mock.Anything, "").Return(nil, errors.New("unauthorized"))

	report, err := newTestChecker(client).Run(context.Background())
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestOpenRules_MissingPortsReadAsAll(t *testing.T) {
	rules := openRules([]types.IpPermission{allEgress()}, "outbound")
	require.Len(t, rules, 2)
	assert.Equal(t, "All-All", rules[0].portRange)
	assert.Equal(t, "-1", rules[0].protocol)
	assert.Equal(t, "0.0.0.0/0 (anywhere)", rules[0].source)
	assert.Equal(t, "::/0 (anywhere IPv6)", rules[1].source)
}

func TestRun_LogsEachOpenRule(t *testing.T) {
	client := new(MockClient)
	client.On("DescribeSecurityGroups", mock.Anything, "").Return(&ec2.DescribeSecurityGroupsOutput{
		SecurityGroups: []types.SecurityGroup{{
			GroupId:             aws.String("sg-web"),
			GroupName:           aws.String("web"),
			IpPermissions:       []types.IpPermission{openIngress(22, 22)},
			IpPermissionsEgress: []types.IpPermission{allEgress()},
		}},
	}, nil)

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).Level(zerolog.DebugLevel).WithContext(context.Background())

	_, err := newTestChecker(client).Run(ctx)
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, `"direction":"inbound","protocol":"tcp","ports":"22-22","source":"0.0.0.0/0 (anywhere)"`)
	assert.Contains(t, logs, `"direction":"outbound","protocol":"-1","ports":"All-All","source":"::/0 (anywhere IPv6)"`)
}
