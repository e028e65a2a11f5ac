package compliance

import (
	"sort"

	"github.com/de-tools/grc-scanner/pkg/models/domain"
)

// ScoreFrameworks fans every finding out to its frameworks and ranks the resulting tallies by
// score, highest first. Frameworks with equal scores keep the order in which they were first seen.
// Error findings count toward a framework's total only.
func ScoreFrameworks(findings []domain.Finding) []domain.FrameworkTally {
	var order []string
	tallies := make(map[string]*domain.FrameworkTally)

	for _, f := range findings {
		for _, name := range f.Frameworks {
			t, ok := tallies[name]
			if !ok {
				t = &domain.FrameworkTally{Name: name}
				tallies[name] = t
				order = append(order, name)
			}

			t.Total++
			switch f.Status {
			case domain.StatusPassed:
				t.Passed++
			case domain.StatusFailed:
				t.Failed++
			case domain.StatusWarning:
				t.Warnings++
			}
		}
	}

	result := make([]domain.FrameworkTally, 0, len(order))
	for _, name := range order {
		t := tallies[name]
		t.Score = domain.Percentage(t.Passed, t.Total)
		result = append(result, *t)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}
