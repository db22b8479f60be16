package ml

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/veracityhq/claimcheck/internal/model"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"mismatched lengths", []float32{1, 2}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		if got := CosineSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: CosineSimilarity = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseEntailmentReply(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		label      model.Label
		confidence float64
		wantErr    bool
	}{
		{
			name:       "clean json",
			content:    `{"label": "supported", "confidence": 0.85}`,
			label:      model.LabelSupported,
			confidence: 0.85,
		},
		{
			name:       "surrounding prose",
			content:    "Here is my judgment:\n{\"label\": \"contradicted\", \"confidence\": 0.7}\nHope that helps.",
			label:      model.LabelContradicted,
			confidence: 0.7,
		},
		{
			name:       "uppercase label",
			content:    `{"label": "UNCLEAR", "confidence": 0.4}`,
			label:      model.LabelUnclear,
			confidence: 0.4,
		},
		{
			name:       "confidence above one clamps",
			content:    `{"label": "supported", "confidence": 1.7}`,
			label:      model.LabelSupported,
			confidence: 1,
		},
		{
			name:       "negative confidence clamps",
			content:    `{"label": "supported", "confidence": -0.3}`,
			label:      model.LabelSupported,
			confidence: 0,
		},
		{
			name:    "unknown label",
			content: `{"label": "definitely", "confidence": 0.9}`,
			wantErr: true,
		},
		{
			name:    "no json at all",
			content: "I cannot answer that.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		label, confidence, err := parseEntailmentReply(tt.content)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error, got (%q, %v)", tt.name, label, confidence)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if label != tt.label || confidence != tt.confidence {
			t.Errorf("%s: got (%q, %v), want (%q, %v)", tt.name, label, confidence, tt.label, tt.confidence)
		}
	}
}

func TestInferenceProvider_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		vectors := make([][]float32, len(req.Inputs))
		for i := range vectors {
			vectors[i] = []float32{float32(i), 1}
		}
		_ = json.NewEncoder(w).Encode(vectors)
	}))
	defer srv.Close()

	p, err := NewInferenceProvider(model.MLConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewInferenceProvider failed: %v", err)
	}

	vectors, err := p.Embed(context.Background(), []string{"claim", "passage"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("Expected 2 vectors, got %d", len(vectors))
	}
	if vectors[1][0] != 1 {
		t.Errorf("Vectors out of input order: %v", vectors)
	}
}

func TestInferenceProvider_Classify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req nliRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Premise == "" || req.Hypothesis == "" {
			t.Error("Expected premise and hypothesis in the request")
		}
		_ = json.NewEncoder(w).Encode(nliResponse{Label: "entailment", Score: 0.88})
	}))
	defer srv.Close()

	p, err := NewInferenceProvider(model.MLConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewInferenceProvider failed: %v", err)
	}

	label, score, err := p.Classify(context.Background(), "the claim", "the passage")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if label != model.LabelSupported {
		t.Errorf("Expected the NLI entailment label mapped to supported, got %q", label)
	}
	if score != 0.88 {
		t.Errorf("Expected score 0.88, got %v", score)
	}
}

func TestInferenceProvider_Classify_UnknownLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(nliResponse{Label: "maybe", Score: 0.5})
	}))
	defer srv.Close()

	p, _ := NewInferenceProvider(model.MLConfig{BaseURL: srv.URL})
	if _, _, err := p.Classify(context.Background(), "c", "p"); err == nil {
		t.Error("Expected an error for an unknown NLI label")
	}
}

func TestNewHTTPReranker_DisabledWithoutEndpoint(t *testing.T) {
	if r := NewHTTPReranker(model.MLConfig{}); r != nil {
		t.Error("Expected nil reranker when no endpoint is configured")
	}
}

func TestHTTPReranker_Score(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Texts) != 2 {
			t.Errorf("Expected 2 texts, got %d", len(req.Texts))
		}
		// Out-of-order results must be reassembled by index
		_ = json.NewEncoder(w).Encode([]rerankResult{
			{Index: 1, Score: 0.2},
			{Index: 0, Score: 0.9},
		})
	}))
	defer srv.Close()

	r := NewHTTPReranker(model.MLConfig{RerankURL: srv.URL})
	scores, err := r.Score(context.Background(), "query", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if scores[0] != 0.9 || scores[1] != 0.2 {
		t.Errorf("Scores not in input order: %v", scores)
	}
}

func TestHTTPReranker_Score_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]rerankResult{{Index: 0, Score: 0.5}})
	}))
	defer srv.Close()

	r := NewHTTPReranker(model.MLConfig{RerankURL: srv.URL})
	if _, err := r.Score(context.Background(), "query", []string{"a", "b"}); err == nil {
		t.Error("Expected an error when the score count mismatches")
	}
}

func TestFactory_UnknownProvider(t *testing.T) {
	if _, err := New(model.MLConfig{Provider: "quantum"}); err == nil {
		t.Error("Expected an error for an unknown provider")
	}
}

func TestFactory_InferenceDefault(t *testing.T) {
	caps, err := New(model.MLConfig{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if caps.Embedder == nil || caps.Entailment == nil {
		t.Error("Expected embedder and entailment capabilities")
	}
	if caps.Reranker != nil {
		t.Error("Expected no reranker without a configured endpoint")
	}
}
