package domain

import (
	"math"
	"time"
)

const ScannerVersion = "2.0"

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskLevelForScore buckets an overall score: >= 80 is LOW, >= 60 is MEDIUM, anything else HIGH.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Percentage computes part/total*100 rounded half to even at two decimals. A zero total yields 0.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.RoundToEven(float64(part)/float64(total)*100*100) / 100
}

type ScanMetadata struct {
	ScanTime       time.Time
	ScannerVersion string
	ExecutionID    string
	AccountID      string
	Region         string
}

type ExecutiveSummary struct {
	OverallScore float64
	TotalChecks  int
	Passed       int
	Failed       int
	Warnings     int
	RiskLevel    RiskLevel
}

// Report is the combined result of one scan run
type Report struct {
	Metadata         ScanMetadata
	Summary          ExecutiveSummary
	FrameworkScores  []FrameworkTally
	CriticalFindings []CriticalFinding
	Findings         []Finding
	// CheckerReports is keyed by checker name; a nil value marks a checker that produced nothing.
	CheckerReports map[string]*CheckerReport
}
