package rules

import (
	"github.com/auramed/clinical-rules-api/rules/entities"
)

// CheckInteractions looks up every unordered pair of distinct input
// medications in the interaction table. Matching is case-insensitive and
// whitespace-trimmed; unknown drugs are ignored silently; duplicate input
// names and reordering never change the match set. O(n²) over the input,
// which stays small in practice.
func (e *Evaluator) CheckInteractions(medications []string) entities.InteractionReport {
	report := entities.InteractionReport{
		Medications: medications,
		Matches:     make([]entities.InteractionRule, 0),
	}

	// Canonical distinct names, input order preserved.
	seen := make(map[string]bool, len(medications))
	distinct := make([]string, 0, len(medications))
	for _, med := range medications {
		name := canonicalDrug(med)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		distinct = append(distinct, name)
	}

	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			if rule, ok := e.pairRules[pairKey(distinct[i], distinct[j])]; ok {
				report.Matches = append(report.Matches, rule)
			}
		}
	}

	report.Count = len(report.Matches)
	return report
}
