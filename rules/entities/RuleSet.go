package entities

// RuleSet bundles the three static rule tables. A RuleSet is immutable
// once published to the rule store; reloads build a fresh one and swap.
type RuleSet struct {
	Interactions []InteractionRule `json:"interactions"`
	Chads2       Chads2Table       `json:"chads2"`
	SoapKeywords SoapKeywordTable  `json:"soap_keywords"`
}
