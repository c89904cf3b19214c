package rules

import (
	"strings"

	"github.com/auramed/clinical-rules-api/rules/entities"
)

// defaultSection is the bucket for segments that match no keyword set.
const defaultSection = "subjective"

// ExtractSoap partitions a free-text transcript into SOAP sections by
// keyword match. Segments are sentences and lines in document order; the
// first section whose keyword set matches wins, checked in table order
// (S, O, A, P). Segments matching nothing land in Subjective. Confidence
// is the fraction of segments that matched a keyword set. This is a
// keyword heuristic, nothing more.
func (e *Evaluator) ExtractSoap(transcript string) entities.SoapNote {
	segments := splitSegments(transcript)
	if len(segments) == 0 {
		return entities.SoapNote{}
	}

	buckets := make(map[string][]string, 4)
	matched := 0
	for _, segment := range segments {
		lower := strings.ToLower(segment)

		section := defaultSection
		for _, candidate := range e.set.SoapKeywords.Sections {
			if containsAny(lower, candidate.Keywords) {
				section = candidate.Section
				matched++
				break
			}
		}
		buckets[section] = append(buckets[section], segment)
	}

	return entities.SoapNote{
		Subjective: strings.Join(buckets["subjective"], " "),
		Objective:  strings.Join(buckets["objective"], " "),
		Assessment: strings.Join(buckets["assessment"], " "),
		Plan:       strings.Join(buckets["plan"], " "),
		Confidence: float64(matched) / float64(len(segments)),
	}
}

// splitSegments splits a transcript into trimmed, non-empty segments on
// line breaks and sentence boundaries, preserving document order.
func splitSegments(transcript string) []string {
	var segments []string
	for _, line := range strings.Split(transcript, "\n") {
		for _, sentence := range strings.Split(line, ". ") {
			sentence = strings.TrimSpace(sentence)
			if sentence != "" {
				segments = append(segments, sentence)
			}
		}
	}
	return segments
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
