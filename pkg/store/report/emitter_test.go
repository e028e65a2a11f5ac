package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/grc-scanner/pkg/models/api"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/de-tools/grc-scanner/pkg/services/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPutObject struct {
	mock.Mock
}

func (m *MockPutObject) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

type failingSink struct {
	primary bool
}

func (f failingSink) Name() string  { return "failing" }
func (f failingSink) Primary() bool { return f.primary }
func (f failingSink) Write(context.Context, *Document) (string, error) {
	return "", errors.New("disk full")
}

var scanTime = time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)

func sampleReport() *domain.Report {
	f := domain.Finding{
		ControlID:        "IAM-001",
		ControlName:      "MFA Enforcement",
		Status:           domain.StatusPassed,
		Frameworks:       []string{"SOC 2"},
		PrimaryFramework: "SOC 2",
		Details:          "Root account has MFA enabled",
		Timestamp:        scanTime,
	}
	return &domain.Report{
		Metadata: domain.ScanMetadata{ScanTime: scanTime, ScannerVersion: domain.ScannerVersion},
		Summary: domain.ExecutiveSummary{
			OverallScore: 87.5,
			TotalChecks:  1,
			Passed:       1,
			RiskLevel:    domain.RiskLow,
		},
		Findings: []domain.Finding{f},
		CheckerReports: map[string]*domain.CheckerReport{
			"iam": {Checker: "iam", ScanTime: scanTime, Findings: []domain.Finding{f}},
			"s3":  nil,
		},
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "reports/compliance-20240301-123045.json", ObjectKey("reports", scanTime))
	assert.Equal(t, "compliance-20240301-123045.json", ObjectKey("", scanTime))
}

func TestEmit_S3Sink(t *testing.T) {
	client := new(MockPutObject)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, err := io.ReadAll(in.Body)
		if err != nil {
			return false
		}
		var decoded api.Report
		if err := json.Unmarshal(body, &decoded); err != nil {
			return false
		}
		return aws.ToString(in.Bucket) == "grc-compliance-reports" &&
			aws.ToString(in.Key) == "reports/compliance-20240301-123045.json" &&
			aws.ToString(in.ContentType) == "application/json" &&
			in.Metadata["scan-time"] == "2024-03-01T12:30:45Z" &&
			in.Metadata["overall-score"] == "87.5" &&
			in.Metadata["critical-findings"] == "0" &&
			decoded.ExecutiveSummary.RiskLevel == "LOW"
	})).Return(&s3.PutObjectOutput{}, nil)

	sink, err := NewS3Sink(client, "grc-compliance-reports")
	require.NoError(t, err)
	emitter, err := NewEmitter("reports", sink)
	require.NoError(t, err)

	result, err := emitter.Emit(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "s3://grc-compliance-reports/reports/compliance-20240301-123045.json", result.Location)
	require.Len(t, result.Outcomes, 1)
	assert.True(t, result.Outcomes[0].Primary)
	assert.Empty(t, result.Failed())
	client.AssertExpectations(t)
}

func TestEmit_PrimaryFailureIsReturned(t *testing.T) {
	client := new(MockPutObject)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("AccessDenied"))

	dir := t.TempDir()
	sink, err := NewS3Sink(client, "reports-bucket")
	require.NoError(t, err)
	emitter, err := NewEmitter("reports", sink, NewFileSink(dir))
	require.NoError(t, err)

	result, err := emitter.Emit(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write report to s3")
	assert.Contains(t, err.Error(), "AccessDenied")

	require.NotNil(t, result)
	require.Len(t, result.Failed(), 1)
	assert.Equal(t, "s3", result.Failed()[0].Sink)
	assert.FileExists(t, filepath.Join(dir, "reports", "compliance-20240301-123045.json"))
}

func TestEmit_OptionalFailureIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	emitter, err := NewEmitter("reports", failingSink{}, NewFileSink(dir), NewCheckerFilesSink(dir))
	require.NoError(t, err)

	result, err := emitter.Emit(context.Background(), sampleReport())
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 3)
	assert.Len(t, result.Failed(), 1)
	assert.Equal(t, filepath.Join(dir, "reports", "compliance-20240301-123045.json"), result.Location)

	data, err := os.ReadFile(filepath.Join(dir, "iam_compliance_report.json"))
	require.NoError(t, err)
	var iam api.CheckerReport
	require.NoError(t, json.Unmarshal(data, &iam))
	assert.Equal(t, 1, iam.TotalChecks)
	assert.Equal(t, 100.0, iam.ComplianceScore)

	assert.NoFileExists(t, filepath.Join(dir, "s3_compliance_report.json"))
}

func TestNewEmitter_RequiresSink(t *testing.T) {
	_, err := NewEmitter("reports")
	assert.EqualError(t, err, "at least one sink must be provided")

	_, err = NewS3Sink(new(MockPutObject), "")
	assert.EqualError(t, err, "report bucket cannot be empty")
}

func TestDefaultSinks(t *testing.T) {
	cfg := config.ReportConfig{Bucket: "reports-bucket", LocalDir: t.TempDir(), Local: true}

	t.Run("local run", func(t *testing.T) {
		t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
		os.Unsetenv("AWS_LAMBDA_FUNCTION_NAME")

		sinks, err := DefaultSinks(new(MockPutObject), cfg)
		require.NoError(t, err)
		names := make([]string, 0, len(sinks))
		for _, s := range sinks {
			names = append(names, s.Name())
		}
		assert.Equal(t, []string{"s3", "file", "checker-files"}, names)
	})

	t.Run("inside lambda", func(t *testing.T) {
		t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "grc-scanner")

		sinks, err := DefaultSinks(new(MockPutObject), cfg)
		require.NoError(t, err)
		require.Len(t, sinks, 1)
		assert.True(t, sinks[0].Primary())
	})
}
