package compliance

import (
	"strings"

	"github.com/de-tools/grc-scanner/pkg/models/domain"
)

var criticalKeywords = []string{
	"public access",
	"no encryption",
	"root account",
	"no mfa",
	"password policy",
	"0.0.0.0/0",
	"cloudtrail",
}

// ClassifyCritical picks the failed findings and bands them by severity. High findings come
// first; each band keeps the input order.
func ClassifyCritical(findings []domain.Finding) []domain.CriticalFinding {
	var high, medium []domain.CriticalFinding
	for _, f := range findings {
		if f.Status != domain.StatusFailed {
			continue
		}
		severity := SeverityOf(f.Details)
		cf := domain.CriticalFinding{Finding: f, Severity: severity}
		if severity == domain.SeverityHigh {
			high = append(high, cf)
		} else {
			medium = append(medium, cf)
		}
	}

	return append(append(make([]domain.CriticalFinding, 0, len(high)+len(medium)), high...), medium...)
}

func SeverityOf(details string) domain.Severity {
	lower := strings.ToLower(details)
	for _, keyword := range criticalKeywords {
		if strings.Contains(lower, keyword) {
			return domain.SeverityHigh
		}
	}
	return domain.SeverityMedium
}
