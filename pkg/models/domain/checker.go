package domain

import "time"

// CheckerReport is the raw output of a single checker run
type CheckerReport struct {
	Checker  string
	ScanTime time.Time
	Findings []Finding
	// Resources counts the scanned resources for per-resource checkers (buckets, security groups).
	Resources *int
}

// Counts tallies findings of a checker report by status.
func (r *CheckerReport) Counts() StatusCounts {
	return CountStatuses(r.Findings)
}

type StatusCounts struct {
	Total    int
	Passed   int
	Failed   int
	Warnings int
	Errors   int
}

func CountStatuses(findings []Finding) StatusCounts {
	c := StatusCounts{Total: len(findings)}
	for _, f := range findings {
		switch f.Status {
		case StatusPassed:
			c.Passed++
		case StatusFailed:
			c.Failed++
		case StatusWarning:
			c.Warnings++
		case StatusError:
			c.Errors++
		}
	}
	return c
}

// Score returns the pass percentage rounded to two decimals, 0 when there is nothing to score.
func (c StatusCounts) Score() float64 {
	return Percentage(c.Passed, c.Total)
}
