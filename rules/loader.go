// Package rules loads the static clinical rule tables and evaluates them:
// CHADS2 scoring, drug-interaction lookup and SOAP keyword extraction.
// Tables ship embedded in the binary; an override directory can supply
// updated JSON files that are picked up on the reload schedule.
package rules

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/auramed/clinical-rules-api/interfaces"
	"github.com/auramed/clinical-rules-api/rules/entities"
)

//go:embed tables/*.json
var defaultTables embed.FS

const (
	interactionsFile = "interactions.json"
	chads2File       = "chads2.json"
	soapKeywordsFile = "soap_keywords.json"
)

// Compile-time check to ensure TableLoader implements RuleLoader
var _ interfaces.RuleLoader = (*TableLoader)(nil)

// TableLoader reads rule tables from an override directory when one is
// configured, falling back to the embedded defaults file by file.
type TableLoader struct {
	overrideDir string
}

// NewTableLoader creates a loader. An empty overrideDir means embedded
// tables only.
func NewTableLoader(overrideDir string) *TableLoader {
	return &TableLoader{overrideDir: overrideDir}
}

// LoadRules parses and validates all three tables and returns a ready
// evaluator. On any error the caller keeps whatever evaluator it already
// has; a partial rule set is never published.
func (l *TableLoader) LoadRules() (interfaces.Evaluator, error) {
	set := &entities.RuleSet{}

	var interactions struct {
		Rules []entities.InteractionRule `json:"rules"`
	}
	if err := l.readTable(interactionsFile, &interactions); err != nil {
		return nil, fmt.Errorf("loading interaction table: %w", err)
	}
	set.Interactions = interactions.Rules

	if err := l.readTable(chads2File, &set.Chads2); err != nil {
		return nil, fmt.Errorf("loading chads2 table: %w", err)
	}

	if err := l.readTable(soapKeywordsFile, &set.SoapKeywords); err != nil {
		return nil, fmt.Errorf("loading soap keyword table: %w", err)
	}

	if err := canonicalizeRuleSet(set); err != nil {
		return nil, fmt.Errorf("rule table validation failed: %w", err)
	}

	return NewEvaluator(set), nil
}

// readTable unmarshals one table, preferring the override directory. A
// missing override file is not an error; a present but unreadable or
// malformed one is, so a bad drop-in never silently falls back.
func (l *TableLoader) readTable(name string, v any) error {
	if l.overrideDir != "" {
		path := filepath.Join(l.overrideDir, name)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, v); err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
			return nil
		case !os.IsNotExist(err):
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}

	data, err := defaultTables.ReadFile("tables/" + name)
	if err != nil {
		return fmt.Errorf("reading embedded table %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing embedded table %s: %w", name, err)
	}
	return nil
}

// riskFactorKeys are the only factor keys the scorer understands.
var riskFactorKeys = map[string]bool{
	"congestive_heart_failure": true,
	"hypertension":             true,
	"age_75_plus":              true,
	"diabetes":                 true,
	"stroke_tia":               true,
}

var validSeverities = map[string]bool{
	entities.RiskLow:      true,
	entities.RiskModerate: true,
	entities.RiskHigh:     true,
}

// canonicalizeRuleSet validates every table and normalizes drug names and
// keywords in place.
func canonicalizeRuleSet(set *entities.RuleSet) error {
	if err := canonicalizeInteractions(set.Interactions); err != nil {
		return err
	}
	if err := validateChads2(&set.Chads2); err != nil {
		return err
	}
	return canonicalizeSoapKeywords(&set.SoapKeywords)
}

func canonicalizeInteractions(rules []entities.InteractionRule) error {
	seen := make(map[string]bool, len(rules))
	for i := range rules {
		rule := &rules[i]
		if len(rule.Drugs) != 2 {
			return fmt.Errorf("interaction rule %d: expected 2 drugs, got %d", i, len(rule.Drugs))
		}
		a, b := canonicalDrug(rule.Drugs[0]), canonicalDrug(rule.Drugs[1])
		if a == "" || b == "" {
			return fmt.Errorf("interaction rule %d: empty drug name", i)
		}
		if a == b {
			return fmt.Errorf("interaction rule %d: drug paired with itself: %s", i, a)
		}
		if a > b {
			a, b = b, a
		}
		rule.Drugs[0], rule.Drugs[1] = a, b

		key := pairKey(a, b)
		if seen[key] {
			return fmt.Errorf("interaction rule %d: duplicate pair %s", i, key)
		}
		seen[key] = true

		if !validSeverities[rule.Severity] {
			return fmt.Errorf("interaction rule %d: unknown severity %q", i, rule.Severity)
		}
		if rule.Effect == "" {
			return fmt.Errorf("interaction rule %d: missing interaction description", i)
		}
	}
	return nil
}

func validateChads2(table *entities.Chads2Table) error {
	if len(table.Factors) == 0 {
		return fmt.Errorf("chads2 table has no factors")
	}

	pointSum := 0
	seen := make(map[string]bool, len(table.Factors))
	for _, factor := range table.Factors {
		if !riskFactorKeys[factor.Key] {
			return fmt.Errorf("chads2 factor has unknown key %q", factor.Key)
		}
		if seen[factor.Key] {
			return fmt.Errorf("chads2 factor %q listed twice", factor.Key)
		}
		seen[factor.Key] = true
		if factor.Points <= 0 {
			return fmt.Errorf("chads2 factor %q has non-positive points", factor.Key)
		}
		if factor.Label == "" {
			return fmt.Errorf("chads2 factor %q has no label", factor.Key)
		}
		pointSum += factor.Points
	}
	if pointSum != table.MaxScore {
		return fmt.Errorf("chads2 factor points sum to %d, max_score is %d", pointSum, table.MaxScore)
	}

	if len(table.Tiers) == 0 {
		return fmt.Errorf("chads2 table has no risk tiers")
	}
	prev := -1
	for _, tier := range table.Tiers {
		if tier.MaxScore <= prev {
			return fmt.Errorf("chads2 risk tiers not in ascending order at max_score %d", tier.MaxScore)
		}
		prev = tier.MaxScore
		if tier.Level == "" {
			return fmt.Errorf("chads2 risk tier %d has no level", tier.MaxScore)
		}
	}
	if prev != table.MaxScore {
		return fmt.Errorf("chads2 risk tiers end at %d, max_score is %d", prev, table.MaxScore)
	}

	for score := 0; score <= table.MaxScore; score++ {
		if _, ok := table.StrokeRates[strconv.Itoa(score)]; !ok {
			return fmt.Errorf("chads2 table missing stroke rate for score %d", score)
		}
	}
	return nil
}

// soapSectionNames are the only section names the extractor understands.
var soapSectionNames = map[string]bool{
	"subjective": true,
	"objective":  true,
	"assessment": true,
	"plan":       true,
}

func canonicalizeSoapKeywords(table *entities.SoapKeywordTable) error {
	if len(table.Sections) == 0 {
		return fmt.Errorf("soap keyword table has no sections")
	}
	seen := make(map[string]bool, len(table.Sections))
	for i := range table.Sections {
		section := &table.Sections[i]
		if !soapSectionNames[section.Section] {
			return fmt.Errorf("soap keyword table has unknown section %q", section.Section)
		}
		if seen[section.Section] {
			return fmt.Errorf("soap section %q listed twice", section.Section)
		}
		seen[section.Section] = true
		if len(section.Keywords) == 0 {
			return fmt.Errorf("soap section %q has no keywords", section.Section)
		}
		for j, keyword := range section.Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" {
				return fmt.Errorf("soap section %q has an empty keyword", section.Section)
			}
			section.Keywords[j] = keyword
		}
	}
	return nil
}
