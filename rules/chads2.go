package rules

import (
	"fmt"
	"strconv"

	"github.com/auramed/clinical-rules-api/rules/entities"
)

// ComputeChads2 computes the CHADS2 stroke-risk score from the five binary
// risk factors. Integer arithmetic only; the score is exactly the sum of
// the per-factor weights over the flags set true. Components follow the
// factor order of the table (CHF, HTN, Age, Diabetes, Stroke/TIA).
func (e *Evaluator) ComputeChads2(factors entities.RiskFactors) entities.Chads2Result {
	table := e.set.Chads2

	score := 0
	components := make([]string, 0, len(table.Factors))
	for _, factor := range table.Factors {
		if !factorPresent(factors, factor.Key) {
			continue
		}
		score += factor.Points
		components = append(components, fmt.Sprintf("%s (+%d)", factor.Label, factor.Points))
	}

	return entities.Chads2Result{
		Score:            score,
		MaxScore:         table.MaxScore,
		RiskLevel:        riskLevelFor(table.Tiers, score),
		AnnualStrokeRisk: table.StrokeRates[strconv.Itoa(score)],
		Components:       components,
	}
}

// factorPresent maps a table factor key onto the matching RiskFactors
// flag. Unknown keys never score; the loader rejects them anyway.
func factorPresent(factors entities.RiskFactors, key string) bool {
	switch key {
	case "congestive_heart_failure":
		return factors.CongestiveHeartFailure
	case "hypertension":
		return factors.Hypertension
	case "age_75_plus":
		return factors.Age75Plus
	case "diabetes":
		return factors.Diabetes
	case "stroke_tia":
		return factors.StrokeTIA
	}
	return false
}

// riskLevelFor picks the first tier whose ceiling covers the score. Tiers
// are validated to be ascending and to cover the maximum score.
func riskLevelFor(tiers []entities.Chads2Tier, score int) string {
	for _, tier := range tiers {
		if score <= tier.MaxScore {
			return tier.Level
		}
	}
	if len(tiers) > 0 {
		return tiers[len(tiers)-1].Level
	}
	return ""
}
