package entities

// AnalysisResult is the combined output of a full transcript analysis:
// SOAP extraction always runs; the CHADS2 score is included when the
// transcript mentions a stroke-risk trigger term; the interaction report
// is included when covered drugs are mentioned.
type AnalysisResult struct {
	SoapNote       SoapNote           `json:"soap_note"`
	Chads2         *Chads2Result      `json:"chads2_score,omitempty"`
	Interactions   *InteractionReport `json:"drug_interactions,omitempty"`
	MentionedDrugs []string           `json:"mentioned_drugs,omitempty"`
}
