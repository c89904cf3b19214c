// Package health provides health checking for the clinical rules API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/auramed/clinical-rules-api/interfaces"
)

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface.
type HealthCheckerImpl struct {
	ruleStore interfaces.RuleStore
}

// NewHealthChecker creates a new health checker with injected dependencies.
func NewHealthChecker(ruleStore interfaces.RuleStore) *HealthCheckerImpl {
	return &HealthCheckerImpl{ruleStore: ruleStore}
}

// HealthCheck reports rule-set availability and age. Rule tables are
// reloaded daily from the override directory; a set older than 48h means
// the scheduler is stuck.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	eval := h.ruleStore.GetEvaluator()
	lastLoaded := h.ruleStore.GetLastLoaded()
	isUpdating := h.ruleStore.IsUpdating()

	rulesAge := time.Since(lastLoaded)

	var interactionCount, soapSectionCount, chads2FactorCount int
	if eval != nil {
		set := eval.RuleSet()
		interactionCount = len(set.Interactions)
		soapSectionCount = len(set.SoapKeywords.Sections)
		chads2FactorCount = len(set.Chads2.Factors)
	}

	switch {
	case eval == nil || interactionCount == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case rulesAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_loaded":       lastLoaded.Format(time.RFC3339),
		"rules_age_hours":   math.Round(rulesAge.Hours()*10) / 10,
		"interaction_rules": interactionCount,
		"chads2_factors":    chads2FactorCount,
		"soap_sections":     soapSectionCount,
		"is_updating":       isUpdating,
	}

	return status, data, httpStatus
}

// NextReload returns the next scheduled rule reload time (06:00 daily).
func (h *HealthCheckerImpl) NextReload() time.Time {
	now := time.Now()

	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	if now.Before(sixAM) {
		return sixAM
	}
	return sixAM.AddDate(0, 0, 1)
}
