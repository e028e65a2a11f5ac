package api

import "time"

type Finding struct {
	ControlID   string    `json:"control_id"`
	ControlName string    `json:"control_name"`
	Status      string    `json:"status"`
	Frameworks  []string  `json:"frameworks"`
	Framework   string    `json:"framework"`
	Details     string    `json:"details"`
	Resource    string    `json:"resource,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type CriticalFinding struct {
	Severity    string    `json:"severity"`
	ControlID   string    `json:"control_id"`
	ControlName string    `json:"control_name"`
	Framework   string    `json:"framework"`
	Frameworks  []string  `json:"frameworks"`
	Details     string    `json:"details"`
	Resource    string    `json:"resource"`
	Timestamp   time.Time `json:"timestamp"`
}

type FrameworkScore struct {
	Name     string  `json:"name"`
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Warnings int     `json:"warnings"`
	Score    float64 `json:"score"`
}

type ScanMetadata struct {
	ScanTime       time.Time `json:"scan_time"`
	ScannerVersion string    `json:"scanner_version"`
	ExecutionID    string    `json:"execution_id"`
	AWSAccount     string    `json:"aws_account"`
	AWSRegion      string    `json:"aws_region"`
}

type ExecutiveSummary struct {
	OverallScore float64 `json:"overall_score"`
	TotalChecks  int     `json:"total_checks"`
	Passed       int     `json:"passed"`
	Failed       int     `json:"failed"`
	Warnings     int     `json:"warnings"`
	RiskLevel    string  `json:"risk_level"`
}

type CheckerReport struct {
	ScanTime            time.Time `json:"scan_time"`
	TotalBuckets        *int      `json:"total_buckets,omitempty"`
	TotalSecurityGroups *int      `json:"total_security_groups,omitempty"`
	TotalChecks         int       `json:"total_checks"`
	Passed              int       `json:"passed"`
	Failed              int       `json:"failed"`
	Warnings            int       `json:"warnings"`
	Errors              int       `json:"errors"`
	ComplianceScore     float64   `json:"compliance_score"`
	Controls            []Finding `json:"controls"`
}

// Report is the persisted compliance document
type Report struct {
	ScanMetadata      ScanMetadata              `json:"scan_metadata"`
	ExecutiveSummary  ExecutiveSummary          `json:"executive_summary"`
	FrameworkScores   []FrameworkScore          `json:"framework_scores"`
	CriticalFindings  []CriticalFinding         `json:"critical_findings"`
	DetailedControls  []Finding                 `json:"detailed_controls"`
	IndividualReports map[string]*CheckerReport `json:"individual_reports"`
}
