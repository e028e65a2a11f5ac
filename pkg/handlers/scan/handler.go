package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/de-tools/grc-scanner/pkg/adapters"
	"github.com/de-tools/grc-scanner/pkg/models/api"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/de-tools/grc-scanner/pkg/services/checks"
	"github.com/de-tools/grc-scanner/pkg/services/identity"
	"github.com/de-tools/grc-scanner/pkg/store/report"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const failureMessage = "Compliance scan failed"

type Scanner interface {
	Scan(ctx context.Context, meta domain.ScanMetadata) (*domain.Report, error)
}

type Emitter interface {
	Emit(ctx context.Context, r *domain.Report) (*report.Result, error)
}

type AccountResolver interface {
	AccountID(ctx context.Context) string
}

// Invocation carries what the calling surface knows about the run
type Invocation struct {
	ExecutionID string
	Region      string
}

// Outcome is a completed scan together with where its report went
type Outcome struct {
	Report *domain.Report
	Result *report.Result
}

// Handler runs scans on behalf of the Lambda, HTTP and CLI surfaces
type Handler struct {
	scanner  Scanner
	emitter  Emitter
	accounts AccountResolver
	region   string
	now      func() time.Time
	newID    func() string
}

func NewHandler(scanner Scanner, emitter Emitter, accounts AccountResolver, region string) *Handler {
	return &Handler{
		scanner:  scanner,
		emitter:  emitter,
		accounts: accounts,
		region:   region,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Execute runs one scan and persists its report. The outcome is returned even when a primary
// sink fails so callers can still inspect the report.
func (h *Handler) Execute(ctx context.Context, inv Invocation) (*Outcome, error) {
	if inv.ExecutionID == "" {
		inv.ExecutionID = h.newID()
	}
	if inv.Region == "" {
		inv.Region = h.region
	}

	logger := zerolog.Ctx(ctx).With().Str("execution_id", inv.ExecutionID).Logger()
	ctx = logger.WithContext(ctx)

	meta := domain.ScanMetadata{
		ScanTime:    h.now().UTC(),
		ExecutionID: inv.ExecutionID,
		AccountID:   h.accounts.AccountID(ctx),
		Region:      inv.Region,
	}

	r, err := h.scanner.Scan(ctx, meta)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	result, err := h.emitter.Emit(ctx, r)
	outcome := &Outcome{Report: r, Result: result}
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

// Respond runs a scan and renders the status code and body shared by every surface.
func (h *Handler) Respond(ctx context.Context, inv Invocation) api.ScanResponse {
	logger := zerolog.Ctx(ctx)

	outcome, err := h.Execute(ctx, inv)
	if err != nil {
		logger.Error().Err(err).Msg("compliance scan failed")
		return render(ctx, http.StatusInternalServerError, api.ScanFailure{
			Message: failureMessage,
			Error:   err.Error(),
		})
	}

	return render(ctx, http.StatusOK, adapters.MapDomainReportToScanSuccess(outcome.Report, outcome.Result.Location))
}

// HandleLambda is the Lambda entry point; the event payload is ignored.
func (h *Handler) HandleLambda(ctx context.Context, _ json.RawMessage) (api.ScanResponse, error) {
	var inv Invocation
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		inv.ExecutionID = lc.AwsRequestID
		inv.Region = identity.RegionFromARN(lc.InvokedFunctionArn, h.region)
	}
	return h.Respond(ctx, inv), nil
}

func (h *Handler) RunScan(w http.ResponseWriter, r *http.Request) {
	resp := h.Respond(r.Context(), Invocation{ExecutionID: r.Header.Get("X-Request-Id")})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write([]byte(resp.Body)); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write scan response")
	}
}

func (h *Handler) ListControls(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(adapters.MapDomainControlsToAPI(checks.Catalog()))
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode controls")
	}
}

func render(ctx context.Context, status int, body any) api.ScanResponse {
	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode scan response")
		return api.ScanResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       fmt.Sprintf(`{"message":%q,"error":%q}`, failureMessage, err.Error()),
		}
	}
	return api.ScanResponse{StatusCode: status, Body: string(data)}
}
