// Package handlers provides HTTP request handlers for the clinical rules
// API endpoints: SOAP note extraction, CHADS2 scoring, drug-interaction
// checking, combined transcript analysis, rule-table introspection and
// health checks, with input validation and JSON response formatting.
package handlers

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/auramed/clinical-rules-api/interfaces"
	"github.com/auramed/clinical-rules-api/logging"
	"github.com/auramed/clinical-rules-api/metrics"
	"github.com/auramed/clinical-rules-api/rules/entities"
	"github.com/auramed/clinical-rules-api/validation"
)

// Minimum response size to consider compression (1KB)
const compressionThreshold = 1024

// HTTPHandlerImpl serves the API endpoints with injected dependencies.
type HTTPHandlerImpl struct {
	ruleStore     interfaces.RuleStore
	validator     interfaces.InputValidator
	healthChecker interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies.
func NewHTTPHandler(ruleStore interfaces.RuleStore, validator interfaces.InputValidator,
	healthChecker interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		ruleStore:     ruleStore,
		validator:     validator,
		healthChecker: healthChecker,
	}
}

// RespondWithJSON writes a JSON response, gzip-compressed when the client
// accepts it and the payload is large enough to be worth it.
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	shouldCompress := len(data) >= compressionThreshold &&
		strings.Contains(strings.ToLower(r.Header.Get("Accept-Encoding")), "gzip")

	if shouldCompress {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(code)
		gz := gzip.NewWriter(w)
		defer gz.Close()
		gz.Write(data)
		return
	}

	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response.
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, r, code, errorResponse)
}

// decodeBody decodes a JSON request body strictly: unknown fields and
// wrong types are caller errors, not defaults. An empty body decodes to
// the zero value.
func decodeBody(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// evaluator returns the current evaluator or writes a 503 when rules are
// not loaded yet.
func (h *HTTPHandlerImpl) evaluator(w http.ResponseWriter, r *http.Request) interfaces.Evaluator {
	eval := h.ruleStore.GetEvaluator()
	if eval == nil {
		h.RespondWithError(w, r, http.StatusServiceUnavailable, "Rule tables are not loaded")
	}
	return eval
}

// handleValidationError maps validator failures to 400 responses.
func (h *HTTPHandlerImpl) handleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *validation.InvalidInputError
	if errors.As(err, &invalid) {
		h.RespondWithError(w, r, http.StatusBadRequest, invalid.Error())
		return
	}
	h.RespondWithError(w, r, http.StatusBadRequest, err.Error())
}

type transcriptRequest struct {
	Transcript string `json:"transcript"`
}

type medicationsRequest struct {
	Medications []string `json:"medications"`
}

type analyzeRequest struct {
	Transcript  string               `json:"transcript"`
	RiskFactors entities.RiskFactors `json:"risk_factors"`
}

// ExtractSoapNotes extracts a SOAP note from a clinical transcript.
func (h *HTTPHandlerImpl) ExtractSoapNotes(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.validator.ValidateTranscript(req.Transcript); err != nil {
		logging.Warn("Rejected transcript input", "error", err)
		h.handleValidationError(w, r, err)
		return
	}

	eval := h.evaluator(w, r)
	if eval == nil {
		return
	}

	note := eval.ExtractSoap(req.Transcript)
	metrics.RuleEvaluationsTotal.WithLabelValues("soap").Inc()

	h.RespondWithJSON(w, r, http.StatusOK, note)
}

// ComputeChads2Score computes the CHADS2 stroke-risk score. Absent factor
// fields score as false; non-boolean values are rejected at the boundary.
func (h *HTTPHandlerImpl) ComputeChads2Score(w http.ResponseWriter, r *http.Request) {
	var factors entities.RiskFactors
	if err := decodeBody(r, &factors); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	eval := h.evaluator(w, r)
	if eval == nil {
		return
	}

	result := eval.ComputeChads2(factors)
	metrics.RuleEvaluationsTotal.WithLabelValues("chads2").Inc()

	h.RespondWithJSON(w, r, http.StatusOK, result)
}

// CheckDrugInteractions checks a medication list against the interaction
// table. Unknown drugs and empty lists are fine; malformed names are not.
func (h *HTTPHandlerImpl) CheckDrugInteractions(w http.ResponseWriter, r *http.Request) {
	var req medicationsRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.validator.ValidateMedications(req.Medications); err != nil {
		logging.Warn("Rejected medications input", "error", err)
		h.handleValidationError(w, r, err)
		return
	}

	eval := h.evaluator(w, r)
	if eval == nil {
		return
	}

	report := eval.CheckInteractions(req.Medications)
	metrics.RuleEvaluationsTotal.WithLabelValues("interactions").Inc()

	h.RespondWithJSON(w, r, http.StatusOK, report)
}

// AnalyzeTranscript runs the combined analysis: SOAP extraction always,
// CHADS2 scoring and interaction checking when the transcript calls for
// them.
func (h *HTTPHandlerImpl) AnalyzeTranscript(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.validator.ValidateTranscript(req.Transcript); err != nil {
		logging.Warn("Rejected transcript input", "error", err)
		h.handleValidationError(w, r, err)
		return
	}

	eval := h.evaluator(w, r)
	if eval == nil {
		return
	}

	result := eval.Analyze(req.Transcript, req.RiskFactors)
	metrics.RuleEvaluationsTotal.WithLabelValues("analyze").Inc()

	h.RespondWithJSON(w, r, http.StatusOK, result)
}

// ServeInteractionRules returns the covered interaction rules.
func (h *HTTPHandlerImpl) ServeInteractionRules(w http.ResponseWriter, r *http.Request) {
	eval := h.evaluator(w, r)
	if eval == nil {
		return
	}

	h.RespondWithJSON(w, r, http.StatusOK, eval.RuleSet().Interactions)
}

// ServeSoapKeywords returns the keyword sets the extractor matches on.
func (h *HTTPHandlerImpl) ServeSoapKeywords(w http.ResponseWriter, r *http.Request) {
	eval := h.evaluator(w, r)
	if eval == nil {
		return
	}

	h.RespondWithJSON(w, r, http.StatusOK, eval.RuleSet().SoapKeywords)
}

// HealthCheck returns server health information.
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.healthChecker.HealthCheck()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.ruleStore.GetServerStartTime())

	response := map[string]any{
		"status":         status,
		"uptime_seconds": uptime.Seconds(),
		"next_reload":    h.healthChecker.NextReload().Format(time.RFC3339),
		"data":           data,
		"system": map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"alloc_mb":   int(m.Alloc / 1024 / 1024),
			"num_gc":     m.NumGC,
		},
	}

	h.RespondWithJSON(w, r, httpStatus, response)
}
