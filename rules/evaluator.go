package rules

import (
	"sort"

	"github.com/auramed/clinical-rules-api/interfaces"
	"github.com/auramed/clinical-rules-api/rules/entities"
)

// Compile-time check to ensure Evaluator implements the Evaluator contract
var _ interfaces.Evaluator = (*Evaluator)(nil)

// Evaluator evaluates the clinical rule tables. Lookup indexes are built
// once at construction; the evaluator is immutable afterwards and safe for
// concurrent use without locking.
type Evaluator struct {
	set        *entities.RuleSet
	pairRules  map[string]entities.InteractionRule
	knownDrugs []string
}

// NewEvaluator builds an evaluator over an already-canonicalized rule set.
func NewEvaluator(set *entities.RuleSet) *Evaluator {
	pairRules := make(map[string]entities.InteractionRule, len(set.Interactions))
	drugSet := make(map[string]bool, 2*len(set.Interactions))

	for _, rule := range set.Interactions {
		pairRules[pairKey(rule.Drugs[0], rule.Drugs[1])] = rule
		drugSet[rule.Drugs[0]] = true
		drugSet[rule.Drugs[1]] = true
	}

	knownDrugs := make([]string, 0, len(drugSet))
	for drug := range drugSet {
		knownDrugs = append(knownDrugs, drug)
	}
	sort.Strings(knownDrugs)

	return &Evaluator{
		set:        set,
		pairRules:  pairRules,
		knownDrugs: knownDrugs,
	}
}

// RuleSet returns the tables backing this evaluator.
func (e *Evaluator) RuleSet() *entities.RuleSet {
	return e.set
}

// KnownDrugs returns the sorted canonical names of every drug covered by
// the interaction table.
func (e *Evaluator) KnownDrugs() []string {
	return e.knownDrugs
}
