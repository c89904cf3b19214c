package rules

import (
	"reflect"
	"testing"

	"github.com/auramed/clinical-rules-api/rules/entities"
)

func TestAnalyzeChads2Trigger(t *testing.T) {
	eval := testEvaluator(t)

	tests := []struct {
		name       string
		transcript string
		wantScored bool
	}{
		{
			name:       "atrial fibrillation triggers scoring",
			transcript: "Patient reports palpitations. History of atrial fibrillation.",
			wantScored: true,
		},
		{
			name:       "trigger match is case insensitive",
			transcript: "Known AFib, rate controlled.",
			wantScored: true,
		},
		{
			name:       "stroke risk phrase triggers scoring",
			transcript: "Discussed stroke risk with the patient.",
			wantScored: true,
		},
		{
			name:       "no trigger means no score",
			transcript: "Patient reports a mild headache.",
			wantScored: false,
		},
	}

	factors := entities.RiskFactors{Hypertension: true}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := eval.Analyze(tt.transcript, factors)

			if tt.wantScored {
				if result.Chads2 == nil {
					t.Fatal("Chads2 = nil, want a score")
				}
				if result.Chads2.Score != 1 {
					t.Errorf("Chads2.Score = %d, want 1", result.Chads2.Score)
				}
			} else if result.Chads2 != nil {
				t.Errorf("Chads2 = %+v, want nil", result.Chads2)
			}
		})
	}
}

func TestAnalyzeMentionedDrugs(t *testing.T) {
	eval := testEvaluator(t)

	result := eval.Analyze("Patient takes warfarin and aspirin daily.", entities.RiskFactors{})

	want := []string{"aspirin", "warfarin"}
	if !reflect.DeepEqual(result.MentionedDrugs, want) {
		t.Errorf("MentionedDrugs = %v, want %v", result.MentionedDrugs, want)
	}
	if result.Interactions == nil {
		t.Fatal("Interactions = nil, want a report")
	}
	if result.Interactions.Count != 1 {
		t.Errorf("Interactions.Count = %d, want 1", result.Interactions.Count)
	}
}

func TestAnalyzeNoDrugsMentioned(t *testing.T) {
	eval := testEvaluator(t)

	result := eval.Analyze("Patient reports feeling well.", entities.RiskFactors{})

	if result.Interactions != nil {
		t.Errorf("Interactions = %+v, want nil", result.Interactions)
	}
	if result.MentionedDrugs != nil {
		t.Errorf("MentionedDrugs = %v, want nil", result.MentionedDrugs)
	}
}

func TestAnalyzeAlwaysExtractsSoap(t *testing.T) {
	eval := testEvaluator(t)

	result := eval.Analyze("Patient reports dizziness.", entities.RiskFactors{})

	if result.SoapNote.Subjective == "" {
		t.Error("SoapNote.Subjective is empty, want the transcript segment")
	}
	if result.SoapNote.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.SoapNote.Confidence)
	}
}

func TestAnalyzeEmptyTranscript(t *testing.T) {
	eval := testEvaluator(t)

	result := eval.Analyze("", entities.RiskFactors{})

	if result.Chads2 != nil || result.Interactions != nil || result.MentionedDrugs != nil {
		t.Errorf("expected only an empty SOAP note, got %+v", result)
	}
}
