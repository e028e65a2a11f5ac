package compliance

import "github.com/de-tools/grc-scanner/pkg/models/domain"

func Summarize(findings []domain.Finding) domain.ExecutiveSummary {
	counts := domain.CountStatuses(findings)
	score := counts.Score()

	return domain.ExecutiveSummary{
		OverallScore: score,
		TotalChecks:  counts.Total,
		Passed:       counts.Passed,
		Failed:       counts.Failed,
		Warnings:     counts.Warnings,
		RiskLevel:    domain.RiskLevelForScore(score),
	}
}
