// Package scheduler provides scheduled rule table reloads and staleness
// monitoring for the clinical rules API. It coordinates reloads with the
// rule store so a failed load never replaces a serving rule set.
package scheduler

import (
	"fmt"
	"time"

	"github.com/auramed/clinical-rules-api/interfaces"
	"github.com/auramed/clinical-rules-api/logging"
	"github.com/auramed/clinical-rules-api/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements the Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles rule reloads and staleness monitoring using dependency injection
type Scheduler struct {
	ruleStore interfaces.RuleStore
	loader    interfaces.RuleLoader
	scheduler *gocron.Scheduler
	stopCh    chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(ruleStore interfaces.RuleStore, loader interfaces.RuleLoader) *Scheduler {
	return &Scheduler{
		ruleStore: ruleStore,
		loader:    loader,
		scheduler: gocron.NewScheduler(time.Local),
		stopCh:    make(chan struct{}),
	}
}

// Start performs the initial rule load and schedules daily reloads.
// The initial load is fatal on failure; scheduled reload failures keep
// the previous rule set.
func (s *Scheduler) Start() error {
	if err := s.reloadRules(); err != nil {
		logging.Error("Failed to perform initial rule load", "error", err)
		return fmt.Errorf("initial rule load failed: %w", err)
	}

	// Reload rule tables at 06:00 daily
	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.reloadRules(); err != nil {
			logging.Error("Failed to reload rules, keeping previous rule set", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule rule reloads", "error", err)
		return fmt.Errorf("failed to schedule rule reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.scheduler.Stop()
}

// reloadRules loads and validates the rule tables and swaps them in
// atomically on success.
func (s *Scheduler) reloadRules() error {
	// Prevent concurrent reloads
	if !s.ruleStore.BeginUpdate() {
		logging.Info("Rule reload already in progress, skipping...")
		return nil
	}
	defer s.ruleStore.EndUpdate()

	start := time.Now()

	eval, err := s.loader.LoadRules()
	if err != nil {
		metrics.RuleReloadsTotal.WithLabelValues("error").Inc()
		return err
	}

	s.ruleStore.UpdateRules(eval)
	metrics.RuleReloadsTotal.WithLabelValues("success").Inc()

	set := eval.RuleSet()
	metrics.RuleTableEntries.WithLabelValues("interactions").Set(float64(len(set.Interactions)))
	metrics.RuleTableEntries.WithLabelValues("chads2_factors").Set(float64(len(set.Chads2.Factors)))
	metrics.RuleTableEntries.WithLabelValues("soap_sections").Set(float64(len(set.SoapKeywords.Sections)))

	logging.Info("Rule tables loaded",
		"duration", time.Since(start).String(),
		"interaction_rules", len(set.Interactions),
		"chads2_factors", len(set.Chads2.Factors),
		"soap_sections", len(set.SoapKeywords.Sections))

	return nil
}

// startStalenessMonitoring warns when the rule set has not been refreshed
// in over 25 hours, which means the daily reload is not running.
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				lastLoaded := s.ruleStore.GetLastLoaded()
				if time.Since(lastLoaded) > 25*time.Hour {
					logging.Warn("Rule tables haven't been reloaded in over 25 hours")
				}
			}
		}
	}()
}
