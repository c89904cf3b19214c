package handlers

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auramed/clinical-rules-api/health"
	"github.com/auramed/clinical-rules-api/interfaces"
	"github.com/auramed/clinical-rules-api/rules"
	"github.com/auramed/clinical-rules-api/rules/entities"
	"github.com/auramed/clinical-rules-api/validation"
)

// mockRuleStore is a minimal RuleStore for handler tests.
type mockRuleStore struct {
	eval       interfaces.Evaluator
	lastLoaded time.Time
	updating   bool
	startTime  time.Time
}

func (m *mockRuleStore) GetEvaluator() interfaces.Evaluator { return m.eval }
func (m *mockRuleStore) GetLastLoaded() time.Time           { return m.lastLoaded }
func (m *mockRuleStore) IsUpdating() bool                   { return m.updating }
func (m *mockRuleStore) GetServerStartTime() time.Time      { return m.startTime }
func (m *mockRuleStore) BeginUpdate() bool                  { return !m.updating }
func (m *mockRuleStore) EndUpdate()                         { m.updating = false }

func (m *mockRuleStore) UpdateRules(eval interfaces.Evaluator) {
	m.eval = eval
	m.lastLoaded = time.Now()
}

func loadedStore(t *testing.T) *mockRuleStore {
	t.Helper()

	eval, err := rules.NewTableLoader("").LoadRules()
	if err != nil {
		t.Fatalf("loading embedded rules: %v", err)
	}
	return &mockRuleStore{
		eval:       eval,
		lastLoaded: time.Now(),
		startTime:  time.Now(),
	}
}

func newTestHandler(t *testing.T, store interfaces.RuleStore) *HTTPHandlerImpl {
	t.Helper()
	return NewHTTPHandler(store, validation.NewInputValidator(), health.NewHealthChecker(store))
}

func postJSON(handlerFunc http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handlerFunc(rr, req)
	return rr
}

func TestExtractSoapNotes(t *testing.T) {
	handler := newTestHandler(t, loadedStore(t))

	t.Run("valid transcript", func(t *testing.T) {
		rr := postJSON(handler.ExtractSoapNotes,
			`{"transcript": "Patient reports chest pain. Plan: admit for monitoring."}`)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", rr.Code, rr.Body.String())
		}

		var note entities.SoapNote
		if err := json.Unmarshal(rr.Body.Bytes(), &note); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if note.Subjective == "" {
			t.Error("Subjective is empty")
		}
		if note.Plan == "" {
			t.Error("Plan is empty")
		}
		if note.Confidence != 1.0 {
			t.Errorf("Confidence = %v, want 1.0", note.Confidence)
		}
	})

	t.Run("empty body yields empty note", func(t *testing.T) {
		rr := postJSON(handler.ExtractSoapNotes, "")

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var note entities.SoapNote
		if err := json.Unmarshal(rr.Body.Bytes(), &note); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if note.Confidence != 0.0 {
			t.Errorf("Confidence = %v, want 0.0", note.Confidence)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		rr := postJSON(handler.ExtractSoapNotes, `{"transcript": `)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := postJSON(handler.ExtractSoapNotes, `{"transcript": "ok", "note": "extra"}`)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("rejected transcript", func(t *testing.T) {
		rr := postJSON(handler.ExtractSoapNotes, `{"transcript": "<script>alert(1)</script>"}`)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}

		var errResp map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &errResp); err != nil {
			t.Fatalf("decoding error response: %v", err)
		}
		if errResp["error"] != "Bad Request" {
			t.Errorf("error = %v, want Bad Request", errResp["error"])
		}
		if errResp["code"] != float64(http.StatusBadRequest) {
			t.Errorf("code = %v, want 400", errResp["code"])
		}
		if msg, _ := errResp["message"].(string); !strings.Contains(msg, "transcript") {
			t.Errorf("message = %q, want it to name the transcript field", msg)
		}
	})
}

func TestComputeChads2Score(t *testing.T) {
	handler := newTestHandler(t, loadedStore(t))

	t.Run("two factors", func(t *testing.T) {
		rr := postJSON(handler.ComputeChads2Score, `{"hypertension": true, "stroke_tia": true}`)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", rr.Code, rr.Body.String())
		}

		var result entities.Chads2Result
		if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if result.Score != 3 {
			t.Errorf("Score = %d, want 3", result.Score)
		}
		if result.RiskLevel != entities.RiskHigh {
			t.Errorf("RiskLevel = %q, want High", result.RiskLevel)
		}
		if result.AnnualStrokeRisk != 5.9 {
			t.Errorf("AnnualStrokeRisk = %v, want 5.9", result.AnnualStrokeRisk)
		}
	})

	t.Run("empty body scores zero", func(t *testing.T) {
		rr := postJSON(handler.ComputeChads2Score, "")

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var result entities.Chads2Result
		if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if result.Score != 0 || result.RiskLevel != entities.RiskLow {
			t.Errorf("got score %d level %q, want 0 Low", result.Score, result.RiskLevel)
		}
	})

	t.Run("non-boolean factor", func(t *testing.T) {
		rr := postJSON(handler.ComputeChads2Score, `{"hypertension": "yes"}`)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("unknown factor field", func(t *testing.T) {
		rr := postJSON(handler.ComputeChads2Score, `{"smoking": true}`)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}

func TestCheckDrugInteractions(t *testing.T) {
	handler := newTestHandler(t, loadedStore(t))

	t.Run("known interaction", func(t *testing.T) {
		rr := postJSON(handler.CheckDrugInteractions, `{"medications": ["Warfarin", "Aspirin"]}`)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", rr.Code, rr.Body.String())
		}

		var report entities.InteractionReport
		if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if report.Count != 1 {
			t.Errorf("Count = %d, want 1", report.Count)
		}
		if len(report.Matches) != 1 {
			t.Fatalf("len(Matches) = %d, want 1", len(report.Matches))
		}
		if report.Matches[0].Severity != entities.RiskHigh {
			t.Errorf("Severity = %q, want High", report.Matches[0].Severity)
		}
	})

	t.Run("empty body yields empty report", func(t *testing.T) {
		rr := postJSON(handler.CheckDrugInteractions, "")

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var report entities.InteractionReport
		if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if report.Count != 0 {
			t.Errorf("Count = %d, want 0", report.Count)
		}
	})

	t.Run("malformed medication name", func(t *testing.T) {
		rr := postJSON(handler.CheckDrugInteractions, `{"medications": ["aspirin<script>"]}`)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}

func TestAnalyzeTranscript(t *testing.T) {
	handler := newTestHandler(t, loadedStore(t))

	body := `{
		"transcript": "Patient with atrial fibrillation reports dizziness. Takes warfarin and aspirin daily.",
		"risk_factors": {"hypertension": true}
	}`
	rr := postJSON(handler.AnalyzeTranscript, body)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rr.Code, rr.Body.String())
	}

	var result entities.AnalysisResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Chads2 == nil {
		t.Fatal("Chads2 = nil, want a score for an afib transcript")
	}
	if result.Chads2.Score != 1 {
		t.Errorf("Chads2.Score = %d, want 1", result.Chads2.Score)
	}
	if result.Interactions == nil {
		t.Fatal("Interactions = nil, want a report for mentioned drugs")
	}
	if result.Interactions.Count != 1 {
		t.Errorf("Interactions.Count = %d, want 1", result.Interactions.Count)
	}
	if len(result.MentionedDrugs) != 2 {
		t.Errorf("MentionedDrugs = %v, want warfarin and aspirin", result.MentionedDrugs)
	}
}

func TestRuleIntrospection(t *testing.T) {
	handler := newTestHandler(t, loadedStore(t))

	t.Run("interaction rules", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rules/interactions", nil)
		rr := httptest.NewRecorder()
		handler.ServeInteractionRules(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var ruleList []entities.InteractionRule
		if err := json.Unmarshal(rr.Body.Bytes(), &ruleList); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if len(ruleList) == 0 {
			t.Error("no interaction rules returned")
		}
	})

	t.Run("soap keywords", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rules/soap-keywords", nil)
		rr := httptest.NewRecorder()
		handler.ServeSoapKeywords(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var table entities.SoapKeywordTable
		if err := json.Unmarshal(rr.Body.Bytes(), &table); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if len(table.Sections) != 4 {
			t.Errorf("len(Sections) = %d, want 4", len(table.Sections))
		}
	})
}

func TestHandlersBeforeRulesLoaded(t *testing.T) {
	handler := newTestHandler(t, &mockRuleStore{})

	endpoints := map[string]http.HandlerFunc{
		"soap":         handler.ExtractSoapNotes,
		"chads2":       handler.ComputeChads2Score,
		"interactions": handler.CheckDrugInteractions,
		"analyze":      handler.AnalyzeTranscript,
		"rules":        handler.ServeInteractionRules,
	}

	for name, endpoint := range endpoints {
		t.Run(name, func(t *testing.T) {
			rr := postJSON(endpoint, `{}`)
			if rr.Code != http.StatusServiceUnavailable {
				t.Errorf("status = %d, want 503 before the first rule load", rr.Code)
			}
		})
	}
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		handler := newTestHandler(t, loadedStore(t))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		handler.HealthCheck(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}

		var response map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if _, ok := response["next_reload"]; !ok {
			t.Error("response missing next_reload")
		}
	})

	t.Run("unhealthy before first load", func(t *testing.T) {
		handler := newTestHandler(t, &mockRuleStore{})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		handler.HealthCheck(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rr.Code)
		}
	})
}

func TestRespondWithJSONCompression(t *testing.T) {
	handler := newTestHandler(t, loadedStore(t))

	large := map[string]string{"data": strings.Repeat("x", 2*compressionThreshold)}

	t.Run("compresses large payloads", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rr := httptest.NewRecorder()

		handler.RespondWithJSON(rr, req, http.StatusOK, large)

		if rr.Header().Get("Content-Encoding") != "gzip" {
			t.Fatal("expected gzip Content-Encoding")
		}

		gz, err := gzip.NewReader(rr.Body)
		if err != nil {
			t.Fatalf("opening gzip body: %v", err)
		}
		defer gz.Close()
		decoded, err := io.ReadAll(gz)
		if err != nil {
			t.Fatalf("reading gzip body: %v", err)
		}
		if !strings.Contains(string(decoded), "data") {
			t.Error("decompressed body missing payload")
		}
	})

	t.Run("skips compression for small payloads", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rr := httptest.NewRecorder()

		handler.RespondWithJSON(rr, req, http.StatusOK, map[string]string{"ok": "yes"})

		if rr.Header().Get("Content-Encoding") == "gzip" {
			t.Error("small payload should not be compressed")
		}
	})

	t.Run("skips compression when client does not accept it", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		handler.RespondWithJSON(rr, req, http.StatusOK, large)

		if rr.Header().Get("Content-Encoding") == "gzip" {
			t.Error("response compressed without Accept-Encoding: gzip")
		}
	})
}
