package report

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/de-tools/grc-scanner/pkg/adapters"
	"github.com/de-tools/grc-scanner/pkg/models/api"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/rs/zerolog"
)

const keyTimeLayout = "20060102-150405"

// Document is a serialized report ready to be handed to sinks
type Document struct {
	Key      string
	Body     []byte
	Metadata map[string]string
	Report   api.Report
}

// Sink persists a report document somewhere
type Sink interface {
	Name() string
	// Primary sinks fail the scan when they cannot be written.
	Primary() bool
	Write(ctx context.Context, doc *Document) (string, error)
}

// Outcome records what happened at one sink
type Outcome struct {
	Sink     string
	Primary  bool
	Location string
	Err      error
}

type Result struct {
	Key      string
	Location string
	Outcomes []Outcome
}

// Emitter fans a report out to its sinks
type Emitter struct {
	prefix string
	sinks  []Sink
}

func NewEmitter(prefix string, sinks ...Sink) (*Emitter, error) {
	if len(sinks) == 0 {
		return nil, fmt.Errorf("at least one sink must be provided")
	}
	return &Emitter{prefix: prefix, sinks: sinks}, nil
}

// ObjectKey names the combined report for a scan, e.g. reports/compliance-20240301-120000.json.
func ObjectKey(prefix string, scanTime time.Time) string {
	return path.Join(prefix, fmt.Sprintf("compliance-%s.json", scanTime.UTC().Format(keyTimeLayout)))
}

func (e *Emitter) Build(r *domain.Report) (*Document, error) {
	out := adapters.MapDomainReportToAPI(r)
	body, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}

	return &Document{
		Key:  ObjectKey(e.prefix, r.Metadata.ScanTime),
		Body: body,
		Metadata: map[string]string{
			"scan-time":         r.Metadata.ScanTime.UTC().Format(time.RFC3339),
			"overall-score":     strconv.FormatFloat(r.Summary.OverallScore, 'f', -1, 64),
			"critical-findings": strconv.Itoa(len(r.CriticalFindings)),
		},
		Report: out,
	}, nil
}

// Emit writes the report to every sink. Optional sink failures are only logged; the first
// primary failure is returned alongside the full result.
func (e *Emitter) Emit(ctx context.Context, r *domain.Report) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	doc, err := e.Build(r)
	if err != nil {
		return nil, err
	}

	result := &Result{Key: doc.Key}
	var primaryErr error
	for _, sink := range e.sinks {
		location, err := sink.Write(ctx, doc)
		result.Outcomes = append(result.Outcomes, Outcome{
			Sink:     sink.Name(),
			Primary:  sink.Primary(),
			Location: location,
			Err:      err,
		})

		switch {
		case err != nil && sink.Primary():
			logger.Error().Err(err).Str("sink", sink.Name()).Msg("failed to write report")
			if primaryErr == nil {
				primaryErr = fmt.Errorf("failed to write report to %s: %w", sink.Name(), err)
			}
		case err != nil:
			logger.Warn().Err(err).Str("sink", sink.Name()).Msg("optional report sink unavailable")
		default:
			logger.Info().Str("sink", sink.Name()).Str("location", location).Msg("report saved")
		}
	}

	result.Location = result.location()
	return result, primaryErr
}

// location prefers a successful primary sink, then any successful sink.
func (r *Result) location() string {
	for _, o := range r.Outcomes {
		if o.Primary && o.Err == nil {
			return o.Location
		}
	}
	for _, o := range r.Outcomes {
		if o.Err == nil && o.Location != "" {
			return o.Location
		}
	}
	return ""
}

// Failed lists the outcomes that did not succeed.
func (r *Result) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
