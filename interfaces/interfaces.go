// Package interfaces defines core abstractions for the clinical rules API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"time"

	"github.com/auramed/clinical-rules-api/rules/entities"
)

// Evaluator defines the contract for the three clinical rule engines plus
// the combined transcript analysis. All methods are pure: identical input
// yields identical output, no shared mutable state, safe for concurrent use.
type Evaluator interface {
	// ComputeChads2 scores the five binary risk factors. It always
	// returns a result; absent factors score as zero.
	ComputeChads2(factors entities.RiskFactors) entities.Chads2Result

	// CheckInteractions matches every unordered pair of distinct input
	// medications against the interaction table. Unknown drugs are
	// ignored; duplicates and reordering do not change the match set.
	CheckInteractions(medications []string) entities.InteractionReport

	// ExtractSoap partitions a transcript into SOAP sections by keyword
	// match. Empty input yields an empty note with confidence 0.
	ExtractSoap(transcript string) entities.SoapNote

	// Analyze runs SOAP extraction and, when triggered by transcript
	// content, the CHADS2 scorer and interaction checker.
	Analyze(transcript string, factors entities.RiskFactors) entities.AnalysisResult

	// RuleSet returns the immutable tables backing this evaluator.
	RuleSet() *entities.RuleSet
}

// RuleLoader defines the contract for loading and validating rule tables.
// Implementations read from embedded defaults or an override directory and
// return a ready-to-serve evaluator.
type RuleLoader interface {
	LoadRules() (Evaluator, error)
}

// RuleStore defines the contract for rule storage. It provides thread-safe
// access to the current evaluator with atomic swaps for zero-downtime
// reloads.
type RuleStore interface {
	// GetEvaluator returns the current evaluator, or nil before the
	// first successful load.
	GetEvaluator() Evaluator
	GetLastLoaded() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// UpdateRules atomically publishes a new evaluator.
	UpdateRules(eval Evaluator)

	// BeginUpdate marks the start of a reload. Returns false if another
	// reload is in progress.
	BeginUpdate() bool
	EndUpdate()
}

// Scheduler defines the contract for scheduled rule reloads and staleness
// monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// NextReload returns the next scheduled rule reload time
	NextReload() time.Time
}

// InputValidator defines the contract for boundary validation of caller
// input. Violations are reported as typed invalid-input errors; the rule
// engines themselves never reject input.
type InputValidator interface {
	ValidateTranscript(transcript string) error
	ValidateMedications(medications []string) error
}
