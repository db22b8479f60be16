package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/veracityhq/claimcheck/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChecker struct {
	lastText  string
	lastDebug bool
	report    *model.Report
}

func (s *stubChecker) Check(_ context.Context, text string, debug bool) *model.Report {
	s.lastText = text
	s.lastDebug = debug
	return s.report
}

type stubSearcher struct {
	hits []model.SearchHit
	err  error
}

func (s *stubSearcher) Search(_ context.Context, _ string) ([]model.SearchHit, error) {
	return s.hits, s.err
}

func newTestServer(checker *stubChecker, searcher *stubSearcher) *gin.Engine {
	srv := New(checker, searcher, model.ServerConfig{
		CORSOrigins: []string{"http://localhost:3000"},
	})
	return srv.Router()
}

func TestServer_Check(t *testing.T) {
	checker := &stubChecker{report: &model.Report{
		CheckedOn: "2026-03-01T12:00:00Z",
		Claims: []model.ClaimResult{
			{Text: "The tower was completed in 1889", Verdict: model.LabelSupported, Confidence: 0.9},
		},
		LatencyS: 1.23,
	}}
	router := newTestServer(checker, &stubSearcher{})

	body := `{"llm_output": "The tower was completed in 1889.", "debug": true}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if checker.lastText != "The tower was completed in 1889." {
		t.Errorf("Checker received wrong text: %q", checker.lastText)
	}
	if !checker.lastDebug {
		t.Error("Debug flag not passed through")
	}

	var report model.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Response is not a report: %v", err)
	}
	if len(report.Claims) != 1 || report.Claims[0].Verdict != model.LabelSupported {
		t.Errorf("Unexpected report payload: %+v", report)
	}
}

func TestServer_Check_BadRequests(t *testing.T) {
	router := newTestServer(&stubChecker{report: &model.Report{}}, &stubSearcher{})

	bodies := []string{
		`not json`,
		`{}`,
		`{"llm_output": "   "}`,
	}
	for _, body := range bodies {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for body %q, got %d", body, w.Code)
		}
	}
}

func TestServer_Search(t *testing.T) {
	long := strings.Repeat("x", 400)
	searcher := &stubSearcher{hits: []model.SearchHit{
		{URL: "https://example.com/a", Title: "A", Content: long, Engine: "bing"},
	}}
	router := newTestServer(&stubChecker{report: &model.Report{}}, searcher)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?q=eiffel+tower", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Results []model.SearchHit `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(resp.Results))
	}
	if len(resp.Results[0].Content) != 250 {
		t.Errorf("Expected snippet slimmed to 250, got %d", len(resp.Results[0].Content))
	}
}

func TestServer_Search_MissingQuery(t *testing.T) {
	router := newTestServer(&stubChecker{report: &model.Report{}}, &stubSearcher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without q, got %d", w.Code)
	}
}

func TestServer_Search_BackendError(t *testing.T) {
	router := newTestServer(&stubChecker{report: &model.Report{}},
		&stubSearcher{err: errors.New("searx down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?q=x", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 on backend failure, got %d", w.Code)
	}
}

func TestServer_Healthz(t *testing.T) {
	router := newTestServer(&stubChecker{report: &model.Report{}}, &stubSearcher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from healthz, got %d", w.Code)
	}
}

func TestServer_CORS(t *testing.T) {
	router := newTestServer(&stubChecker{report: &model.Report{}}, &stubSearcher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/check", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Unexpected allow-origin header: %q", got)
	}

	// Unlisted origins get no CORS headers
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no allow-origin for an unlisted origin, got %q", got)
	}
}
