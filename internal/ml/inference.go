package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/veracityhq/claimcheck/internal/model"
	"github.com/veracityhq/claimcheck/internal/util"
)

// InferenceProvider talks to a self-hosted text-inference service exposing
// /embed and /nli endpoints (text-embeddings-inference style JSON)
type InferenceProvider struct {
	baseURL    string
	httpClient *http.Client
	nliModel   string
}

// NewInferenceProvider creates a provider for a local inference service
func NewInferenceProvider(cfg model.MLConfig) (*InferenceProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8501"
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &InferenceProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
		nliModel: cfg.EntailmentModel,
	}, nil
}

type embedRequest struct {
	Inputs []string `json:"inputs"`
}

// Embed returns one vector per input text
func (p *InferenceProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var vectors [][]float32
	if err := p.post(ctx, "/embed", embedRequest{Inputs: texts}, &vectors); err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d inputs", len(vectors), len(texts))
	}
	return vectors, nil
}

type nliRequest struct {
	Model      string `json:"model,omitempty"`
	Premise    string `json:"premise"`
	Hypothesis string `json:"hypothesis"`
}

type nliResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify asks the NLI endpoint whether the passage (premise) entails the
// claim (hypothesis)
func (p *InferenceProvider) Classify(ctx context.Context, claim, passage string) (model.Label, float64, error) {
	var resp nliResponse
	err := p.post(ctx, "/nli", nliRequest{
		Model:      p.nliModel,
		Premise:    passage,
		Hypothesis: claim,
	}, &resp)
	if err != nil {
		return "", 0, err
	}

	label := model.Label(strings.ToLower(strings.TrimSpace(resp.Label)))
	switch label {
	case model.LabelSupported, model.LabelContradicted, model.LabelUnclear:
	case "entailment":
		label = model.LabelSupported
	case "contradiction":
		label = model.LabelContradicted
	case "neutral":
		label = model.LabelUnclear
	default:
		return "", 0, fmt.Errorf("nli: unknown label %q", resp.Label)
	}

	score := resp.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return label, score, nil
}

func (p *InferenceProvider) post(ctx context.Context, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8_000_000))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference %s: status %d: %s", path, resp.StatusCode, truncateBody(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncateBody(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
