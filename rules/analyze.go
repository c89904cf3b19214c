package rules

import (
	"strings"

	"github.com/auramed/clinical-rules-api/rules/entities"
)

// chads2Triggers are the transcript terms that make a stroke-risk score
// part of the combined analysis.
var chads2Triggers = []string{
	"atrial fibrillation",
	"afib",
	"stroke risk",
	"chads2",
}

// Analyze runs the full clinical tool set over one transcript: SOAP
// extraction always, CHADS2 scoring when a trigger term appears (scored
// from the caller-supplied factors), and an interaction check over the
// covered drugs the transcript mentions. Direct dispatch, no state.
func (e *Evaluator) Analyze(transcript string, factors entities.RiskFactors) entities.AnalysisResult {
	result := entities.AnalysisResult{
		SoapNote: e.ExtractSoap(transcript),
	}

	lower := strings.ToLower(transcript)

	for _, trigger := range chads2Triggers {
		if strings.Contains(lower, trigger) {
			chads2 := e.ComputeChads2(factors)
			result.Chads2 = &chads2
			break
		}
	}

	var mentioned []string
	for _, drug := range e.knownDrugs {
		if strings.Contains(lower, drug) {
			mentioned = append(mentioned, drug)
		}
	}
	if len(mentioned) > 0 {
		report := e.CheckInteractions(mentioned)
		result.Interactions = &report
		result.MentionedDrugs = mentioned
	}

	return result
}
