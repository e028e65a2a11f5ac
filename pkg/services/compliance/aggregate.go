package compliance

import (
	"context"

	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Aggregate flattens checker reports into one finding list. Reports are taken in the order
// given and absent (nil) reports are skipped; findings keep their order within a report.
func Aggregate(ctx context.Context, reports []*domain.CheckerReport) []domain.Finding {
	logger := zerolog.Ctx(ctx)

	findings := make([]domain.Finding, 0)
	for i, r := range reports {
		if r == nil {
			logger.Debug().Int("position", i).Msg("skipping absent checker report")
			continue
		}
		for _, f := range r.Findings {
			findings = append(findings, normalize(ctx, r.Checker, f))
		}
	}
	return findings
}

// normalize enforces the finding invariants: a known status and a non-empty,
// duplicate-free framework list.
func normalize(ctx context.Context, checker string, f domain.Finding) domain.Finding {
	if !f.Status.Valid() {
		zerolog.Ctx(ctx).Warn().
			Str("checker", checker).
			Str("control", f.ControlID).
			Str("status", string(f.Status)).
			Msg("unknown finding status, recording as error")
		f.Status = domain.StatusError
	}

	frameworks := make([]string, 0, len(f.Frameworks))
	seen := make(map[string]struct{}, len(f.Frameworks))
	for _, name := range f.Frameworks {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		frameworks = append(frameworks, name)
	}

	if len(frameworks) == 0 {
		if f.PrimaryFramework != "" {
			frameworks = append(frameworks, f.PrimaryFramework)
		} else {
			frameworks = append(frameworks, domain.UnknownFramework)
		}
	}
	f.Frameworks = frameworks

	if f.PrimaryFramework == "" {
		f.PrimaryFramework = frameworks[0]
	}
	return f
}
