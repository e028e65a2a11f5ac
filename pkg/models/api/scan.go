package api

import "time"

// ScanResponse is what every invocation surface answers with
type ScanResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type ScanSuccess struct {
	Message          string    `json:"message"`
	OverallScore     float64   `json:"overall_score"`
	TotalChecks      int       `json:"total_checks"`
	Passed           int       `json:"passed"`
	Failed           int       `json:"failed"`
	Warnings         int       `json:"warnings"`
	CriticalFindings int       `json:"critical_findings"`
	ReportLocation   string    `json:"report_location"`
	ScanTime         time.Time `json:"scan_time"`
}

type ScanFailure struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type Control struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Checker    string   `json:"checker"`
	Frameworks []string `json:"frameworks"`
	Framework  string   `json:"framework"`
}
