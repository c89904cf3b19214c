package entities

// SoapNote holds the transcript text partitioned into the four SOAP
// sections. Confidence is the fraction of input segments that matched a
// section keyword set, in [0,1]. This comes from keyword matching, not
// language understanding.
type SoapNote struct {
	Subjective string  `json:"subjective"`
	Objective  string  `json:"objective"`
	Assessment string  `json:"assessment"`
	Plan       string  `json:"plan"`
	Confidence float64 `json:"confidence"`
}

// SoapSection is one keyword bucket of the extractor table. Sections keep
// their file order, which is the match priority (first match wins).
type SoapSection struct {
	Section  string   `json:"section"`
	Keywords []string `json:"keywords"`
}

// SoapKeywordTable holds the per-section keyword sets.
type SoapKeywordTable struct {
	Sections []SoapSection `json:"sections"`
}
