package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/de-tools/grc-scanner/pkg/services/checks"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Parallel runs checkers concurrently; output is still merged in checker order.
	Parallel bool
}

// Scanner runs a fixed sequence of checkers and assembles the combined report
type Scanner struct {
	checkers []checks.Checker
	opts     Options
	now      func() time.Time
}

func NewScanner(opts Options, checkers ...checks.Checker) (*Scanner, error) {
	seen := make(map[string]struct{}, len(checkers))
	for _, c := range checkers {
		name := c.Name()
		if _, exists := seen[name]; exists {
			return nil, fmt.Errorf("duplicate checker: %s", name)
		}
		seen[name] = struct{}{}
	}

	if len(checkers) == 0 {
		return nil, fmt.Errorf("at least one checker must be provided")
	}

	return &Scanner{
		checkers: checkers,
		opts:     opts,
		now:      time.Now,
	}, nil
}

// Checkers returns the checker names in merge order.
func (s *Scanner) Checkers() []string {
	names := make([]string, 0, len(s.checkers))
	for _, c := range s.checkers {
		names = append(names, c.Name())
	}
	return names
}

// Scan runs every checker and builds the report. A failing checker is logged and treated as
// absent; only context cancellation aborts the scan.
func (s *Scanner) Scan(ctx context.Context, meta domain.ScanMetadata) (*domain.Report, error) {
	logger := zerolog.Ctx(ctx)

	if meta.ScanTime.IsZero() {
		meta.ScanTime = s.now().UTC()
	}
	meta.ScannerVersion = domain.ScannerVersion

	logger.Info().
		Str("execution_id", meta.ExecutionID).
		Bool("parallel", s.opts.Parallel).
		Strs("checkers", s.Checkers()).
		Msg("starting compliance scan")

	var (
		reports []*domain.CheckerReport
		err     error
	)
	if s.opts.Parallel {
		reports, err = s.runParallel(ctx)
	} else {
		reports, err = s.runSequential(ctx)
	}
	if err != nil {
		return nil, err
	}

	findings := Aggregate(ctx, reports)
	report := &domain.Report{
		Metadata:         meta,
		Summary:          Summarize(findings),
		FrameworkScores:  ScoreFrameworks(findings),
		CriticalFindings: ClassifyCritical(findings),
		Findings:         findings,
		CheckerReports:   make(map[string]*domain.CheckerReport, len(s.checkers)),
	}
	for i, c := range s.checkers {
		report.CheckerReports[c.Name()] = reports[i]
	}

	logger.Info().
		Float64("overall_score", report.Summary.OverallScore).
		Int("total_checks", report.Summary.TotalChecks).
		Int("passed", report.Summary.Passed).
		Int("failed", report.Summary.Failed).
		Int("warnings", report.Summary.Warnings).
		Int("critical_findings", len(report.CriticalFindings)).
		Str("risk_level", string(report.Summary.RiskLevel)).
		Msg("compliance scan finished")
	for _, fw := range report.FrameworkScores {
		logger.Info().
			Str("framework", fw.Name).
			Float64("score", fw.Score).
			Int("passed", fw.Passed).
			Int("total", fw.Total).
			Msg("framework score")
	}

	return report, nil
}

func (s *Scanner) runSequential(ctx context.Context) ([]*domain.CheckerReport, error) {
	reports := make([]*domain.CheckerReport, len(s.checkers))
	for i, c := range s.checkers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan aborted: %w", err)
		}
		reports[i] = s.runChecker(ctx, c)
	}
	return reports, nil
}

func (s *Scanner) runParallel(ctx context.Context) ([]*domain.CheckerReport, error) {
	reports := make([]*domain.CheckerReport, len(s.checkers))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range s.checkers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = s.runChecker(gctx, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}
	return reports, nil
}

func (s *Scanner) runChecker(ctx context.Context, c checks.Checker) *domain.CheckerReport {
	logger := zerolog.Ctx(ctx).With().Str("checker", c.Name()).Logger()

	start := time.Now()
	report, err := c.Run(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("checker failed, continuing without its report")
		return nil
	}
	if report == nil {
		logger.Info().Msg("checker found nothing to evaluate")
		return nil
	}

	counts := report.Counts()
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("total_checks", counts.Total).
		Int("passed", counts.Passed).
		Int("failed", counts.Failed).
		Int("warnings", counts.Warnings).
		Int("errors", counts.Errors).
		Float64("score", counts.Score()).
		Msg("checker finished")
	return report
}
