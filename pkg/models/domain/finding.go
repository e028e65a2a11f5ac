package domain

import "time"

type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Valid reports whether s is one of the four verdicts a check may produce.
func (s Status) Valid() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusWarning, StatusError:
		return true
	default:
		return false
	}
}

// UnknownFramework collects findings that arrive without any framework mapping.
const UnknownFramework = "Unknown"

// Finding is one evaluated control instance with its verdict
type Finding struct {
	ControlID        string
	ControlName      string
	Status           Status
	Frameworks       []string
	PrimaryFramework string
	Details          string
	Resource         string // empty for account-wide checks
	Timestamp        time.Time
}

// ResourceOrDefault returns the checked resource, or fallback for account-wide findings.
func (f Finding) ResourceOrDefault(fallback string) string {
	if f.Resource == "" {
		return fallback
	}
	return f.Resource
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// CriticalFinding is a failed finding annotated with its severity band
type CriticalFinding struct {
	Finding
	Severity Severity
}

type FrameworkTally struct {
	Name     string
	Total    int
	Passed   int
	Failed   int
	Warnings int
	Score    float64
}
