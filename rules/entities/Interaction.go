package entities

// InteractionRule describes one known adverse drug pair. Drugs holds the
// two names in canonical (folded, sorted) form; the pair is unordered.
type InteractionRule struct {
	Drugs          []string `json:"drugs"`
	Effect         string   `json:"interaction"`
	Severity       string   `json:"severity"`
	Recommendation string   `json:"recommendation"`
}

// InteractionReport is the result of checking a medication list against
// the interaction table. Count is the number of distinct rules matched,
// not the number of pairs checked.
type InteractionReport struct {
	Medications []string          `json:"medications"`
	Matches     []InteractionRule `json:"interactions"`
	Count       int               `json:"count"`
}
