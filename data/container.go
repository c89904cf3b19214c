// Package data provides thread-safe storage for the active clinical rule
// evaluator. The RulesContainer swaps whole evaluators atomically so rule
// reloads never block or partially expose in-flight requests.
package data

import (
	"sync/atomic"
	"time"

	"github.com/auramed/clinical-rules-api/interfaces"
	"github.com/auramed/clinical-rules-api/logging"
)

// Compile-time check to ensure RulesContainer implements RuleStore
var _ interfaces.RuleStore = (*RulesContainer)(nil)

// RulesContainer holds the current evaluator behind atomic pointers for
// zero-downtime rule reloads.
type RulesContainer struct {
	evaluator       atomic.Value // interfaces.Evaluator
	lastLoaded      atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewRulesContainer creates an empty container. GetEvaluator returns nil
// until the first UpdateRules.
func NewRulesContainer() *RulesContainer {
	rc := &RulesContainer{}
	rc.lastLoaded.Store(time.Time{})
	rc.serverStartTime.Store(time.Time{})
	return rc
}

// GetEvaluator returns the current evaluator, or nil before the first
// successful rule load.
func (rc *RulesContainer) GetEvaluator() interfaces.Evaluator {
	if v := rc.evaluator.Load(); v != nil {
		if eval, ok := v.(interfaces.Evaluator); ok {
			return eval
		}
	}

	logging.Warn("Rule evaluator is not loaded")
	return nil
}

// GetLastLoaded returns the timestamp of the last successful rule load.
func (rc *RulesContainer) GetLastLoaded() time.Time {
	if v := rc.lastLoaded.Load(); v != nil {
		if lastLoaded, ok := v.(time.Time); ok {
			return lastLoaded
		}
	}

	logging.Warn("Could not get the last loaded value")
	return time.Time{}
}

// IsUpdating returns true if a rule reload is currently in progress.
func (rc *RulesContainer) IsUpdating() bool {
	return rc.updating.Load()
}

// SetServerStartTime sets the server start time.
func (rc *RulesContainer) SetServerStartTime(startTime time.Time) {
	rc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time.
func (rc *RulesContainer) GetServerStartTime() time.Time {
	if v := rc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateRules atomically publishes a new evaluator.
func (rc *RulesContainer) UpdateRules(eval interfaces.Evaluator) {
	rc.evaluator.Store(eval)
	rc.lastLoaded.Store(time.Now())
}

// BeginUpdate marks the start of a rule reload.
// Returns true if the reload can proceed, false if another is in progress.
func (rc *RulesContainer) BeginUpdate() bool {
	return rc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a rule reload.
func (rc *RulesContainer) EndUpdate() {
	rc.updating.Store(false)
}
