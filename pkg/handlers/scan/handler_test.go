package scan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/de-tools/grc-scanner/pkg/models/api"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/de-tools/grc-scanner/pkg/store/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) Scan(ctx context.Context, meta domain.ScanMetadata) (*domain.Report, error) {
	args := m.Called(ctx, meta)
	r, _ := args.Get(0).(*domain.Report)
	return r, args.Error(1)
}

type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) Emit(ctx context.Context, r *domain.Report) (*report.Result, error) {
	args := m.Called(ctx, r)
	res, _ := args.Get(0).(*report.Result)
	return res, args.Error(1)
}

type staticAccount string

func (s staticAccount) AccountID(context.Context) string { return string(s) }

var scanTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestHandler(scanner Scanner, emitter Emitter) *Handler {
	h := NewHandler(scanner, emitter, staticAccount("123456789012"), "us-east-1")
	h.now = func() time.Time { return scanTime }
	h.newID = func() string { return "generated-id" }
	return h
}

func scannedReport(meta domain.ScanMetadata) *domain.Report {
	return &domain.Report{
		Metadata: meta,
		Summary: domain.ExecutiveSummary{
			OverallScore: 75,
			TotalChecks:  4,
			Passed:       3,
			Failed:       1,
			RiskLevel:    domain.RiskMedium,
		},
		CriticalFindings: []domain.CriticalFinding{{Severity: domain.SeverityHigh}},
	}
}

func TestHandleLambda_Success(t *testing.T) {
	scanner := new(MockScanner)
	emitter := new(MockEmitter)

	expectedMeta := domain.ScanMetadata{
		ScanTime:    scanTime,
		ExecutionID: "req-123",
		AccountID:   "123456789012",
		Region:      "eu-west-1",
	}
	r := scannedReport(expectedMeta)
	scanner.On("Scan", mock.Anything, expectedMeta).Return(r, nil)
	emitter.On("Emit", mock.Anything, r).Return(&report.Result{
		Location: "s3://grc-compliance-reports/reports/compliance-20240301-120000.json",
	}, nil)

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{
		AwsRequestID:       "req-123",
		InvokedFunctionArn: "arn:aws:lambda:eu-west-1:123456789012:function:grc-scanner",
	})

	resp, err := newTestHandler(scanner, emitter).HandleLambda(ctx, json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.ScanSuccess
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "Compliance scan completed successfully", body.Message)
	assert.Equal(t, 75.0, body.OverallScore)
	assert.Equal(t, 4, body.TotalChecks)
	assert.Equal(t, 1, body.CriticalFindings)
	assert.Equal(t, "s3://grc-compliance-reports/reports/compliance-20240301-120000.json", body.ReportLocation)
	assert.Equal(t, scanTime, body.ScanTime)

	scanner.AssertExpectations(t)
	emitter.AssertExpectations(t)
}

func TestHandleLambda_PrimarySinkFailure(t *testing.T) {
	scanner := new(MockScanner)
	emitter := new(MockEmitter)

	scanner.On("Scan", mock.Anything, mock.Anything).Return(scannedReport(domain.ScanMetadata{}), nil)
	emitter.On("Emit", mock.Anything, mock.Anything).
		Return(&report.Result{}, errors.New("failed to write report to s3: AccessDenied"))

	resp, err := newTestHandler(scanner, emitter).HandleLambda(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body api.ScanFailure
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "Compliance scan failed", body.Message)
	assert.Contains(t, body.Error, "AccessDenied")
}

func TestExecute_DefaultsOutsideLambda(t *testing.T) {
	scanner := new(MockScanner)
	emitter := new(MockEmitter)

	scanner.On("Scan", mock.Anything, mock.MatchedBy(func(meta domain.ScanMetadata) bool {
		return meta.ExecutionID == "generated-id" && meta.Region == "us-east-1"
	})).Return(scannedReport(domain.ScanMetadata{}), nil)
	emitter.On("Emit", mock.Anything, mock.Anything).Return(&report.Result{Location: "./reports/x.json"}, nil)

	outcome, err := newTestHandler(scanner, emitter).Execute(context.Background(), Invocation{})
	require.NoError(t, err)
	assert.Equal(t, "./reports/x.json", outcome.Result.Location)
	scanner.AssertExpectations(t)
}

func TestExecute_ScanTimeInUTC(t *testing.T) {
	scanner := new(MockScanner)
	emitter := new(MockEmitter)

	local := time.Date(2024, 3, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	scanner.On("Scan", mock.Anything, mock.MatchedBy(func(meta domain.ScanMetadata) bool {
		return meta.ScanTime.Location() == time.UTC && meta.ScanTime.Equal(scanTime) && meta.ScanTime.Hour() == 12
	})).Return(scannedReport(domain.ScanMetadata{}), nil)
	emitter.On("Emit", mock.Anything, mock.Anything).Return(&report.Result{}, nil)

	h := newTestHandler(scanner, emitter)
	h.now = func() time.Time { return local }

	_, err := h.Execute(context.Background(), Invocation{})
	require.NoError(t, err)
	scanner.AssertExpectations(t)
}

func TestExecute_ScanFailure(t *testing.T) {
	scanner := new(MockScanner)
	emitter := new(MockEmitter)
	scanner.On("Scan", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	outcome, err := newTestHandler(scanner, emitter).Execute(context.Background(), Invocation{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, outcome)
	emitter.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestRunScan_HTTP(t *testing.T) {
	scanner := new(MockScanner)
	emitter := new(MockEmitter)
	scanner.On("Scan", mock.Anything, mock.MatchedBy(func(meta domain.ScanMetadata) bool {
		return meta.ExecutionID == "http-req-1"
	})).Return(scannedReport(domain.ScanMetadata{}), nil)
	emitter.On("Emit", mock.Anything, mock.Anything).Return(&report.Result{Location: "s3://b/k"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", nil)
	req.Header.Set("X-Request-Id", "http-req-1")
	rec := httptest.NewRecorder()

	newTestHandler(scanner, emitter).RunScan(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"report_location": "s3://b/k"`)
}

func TestListControls(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(new(MockScanner), new(MockEmitter)).
		ListControls(rec, httptest.NewRequest(http.MethodGet, "/api/v1/controls", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var controls []api.Control
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &controls))
	require.NotEmpty(t, controls)
	assert.Equal(t, "IAM-001", controls[0].ID)
	assert.Equal(t, "iam", controls[0].Checker)
}
