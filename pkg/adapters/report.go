package adapters

import (
	"github.com/de-tools/grc-scanner/pkg/models/api"
	"github.com/de-tools/grc-scanner/pkg/models/domain"
	"github.com/de-tools/grc-scanner/pkg/services/checks"
)

// criticalResourceFallback is shown for critical findings that are not tied to a resource.
const criticalResourceFallback = "N/A"

func MapDomainFindingToAPI(f domain.Finding) api.Finding {
	return api.Finding{
		ControlID:   f.ControlID,
		ControlName: f.ControlName,
		Status:      string(f.Status),
		Frameworks:  append([]string{}, f.Frameworks...),
		Framework:   f.PrimaryFramework,
		Details:     f.Details,
		Resource:    f.Resource,
		Timestamp:   f.Timestamp,
	}
}

func MapDomainFindingsToAPI(findings []domain.Finding) []api.Finding {
	result := make([]api.Finding, 0, len(findings))
	for _, f := range findings {
		result = append(result, MapDomainFindingToAPI(f))
	}
	return result
}

func MapDomainCriticalFindingToAPI(cf domain.CriticalFinding) api.CriticalFinding {
	return api.CriticalFinding{
		Severity:    string(cf.Severity),
		ControlID:   cf.ControlID,
		ControlName: cf.ControlName,
		Framework:   cf.PrimaryFramework,
		Frameworks:  append([]string{}, cf.Frameworks...),
		Details:     cf.Details,
		Resource:    cf.ResourceOrDefault(criticalResourceFallback),
		Timestamp:   cf.Timestamp,
	}
}

func MapDomainFrameworkTallyToAPI(t domain.FrameworkTally) api.FrameworkScore {
	return api.FrameworkScore{
		Name:     t.Name,
		Total:    t.Total,
		Passed:   t.Passed,
		Failed:   t.Failed,
		Warnings: t.Warnings,
		Score:    t.Score,
	}
}

// MapDomainCheckerReportToAPI returns nil for an absent report so it serializes as null.
func MapDomainCheckerReportToAPI(r *domain.CheckerReport) *api.CheckerReport {
	if r == nil {
		return nil
	}

	counts := r.Counts()
	out := &api.CheckerReport{
		ScanTime:        r.ScanTime,
		TotalChecks:     counts.Total,
		Passed:          counts.Passed,
		Failed:          counts.Failed,
		Warnings:        counts.Warnings,
		Errors:          counts.Errors,
		ComplianceScore: counts.Score(),
		Controls:        MapDomainFindingsToAPI(r.Findings),
	}

	if r.Resources != nil {
		total := *r.Resources
		switch r.Checker {
		case checks.CheckerS3:
			out.TotalBuckets = &total
		case checks.CheckerEC2:
			out.TotalSecurityGroups = &total
		}
	}
	return out
}

func MapDomainReportToAPI(r *domain.Report) api.Report {
	scores := make([]api.FrameworkScore, 0, len(r.FrameworkScores))
	for _, t := range r.FrameworkScores {
		scores = append(scores, MapDomainFrameworkTallyToAPI(t))
	}

	critical := make([]api.CriticalFinding, 0, len(r.CriticalFindings))
	for _, cf := range r.CriticalFindings {
		critical = append(critical, MapDomainCriticalFindingToAPI(cf))
	}

	individual := make(map[string]*api.CheckerReport, len(checks.DefaultOrder))
	for _, name := range checks.DefaultOrder {
		individual[name] = nil
	}
	for name, cr := range r.CheckerReports {
		individual[name] = MapDomainCheckerReportToAPI(cr)
	}

	return api.Report{
		ScanMetadata: api.ScanMetadata{
			ScanTime:       r.Metadata.ScanTime,
			ScannerVersion: r.Metadata.ScannerVersion,
			ExecutionID:    r.Metadata.ExecutionID,
			AWSAccount:     r.Metadata.AccountID,
			AWSRegion:      r.Metadata.Region,
		},
		ExecutiveSummary: api.ExecutiveSummary{
			OverallScore: r.Summary.OverallScore,
			TotalChecks:  r.Summary.TotalChecks,
			Passed:       r.Summary.Passed,
			Failed:       r.Summary.Failed,
			Warnings:     r.Summary.Warnings,
			RiskLevel:    string(r.Summary.RiskLevel),
		},
		FrameworkScores:   scores,
		CriticalFindings:  critical,
		DetailedControls:  MapDomainFindingsToAPI(r.Findings),
		IndividualReports: individual,
	}
}

func MapDomainReportToScanSuccess(r *domain.Report, location string) api.ScanSuccess {
	return api.ScanSuccess{
		Message:          "Compliance scan completed successfully",
		OverallScore:     r.Summary.OverallScore,
		TotalChecks:      r.Summary.TotalChecks,
		Passed:           r.Summary.Passed,
		Failed:           r.Summary.Failed,
		Warnings:         r.Summary.Warnings,
		CriticalFindings: len(r.CriticalFindings),
		ReportLocation:   location,
		ScanTime:         r.Metadata.ScanTime,
	}
}

func MapDomainControlToAPI(c domain.Control) api.Control {
	return api.Control{
		ID:         c.ID,
		Name:       c.Name,
		Checker:    c.Checker,
		Frameworks: append([]string{}, c.Frameworks...),
		Framework:  c.PrimaryFramework,
	}
}

func MapDomainControlsToAPI(controls []domain.Control) []api.Control {
	result := make([]api.Control, 0, len(controls))
	for _, c := range controls {
		result = append(result, MapDomainControlToAPI(c))
	}
	return result
}
