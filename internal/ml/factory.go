package ml

import (
	"fmt"
	"strings"

	"github.com/veracityhq/claimcheck/internal/model"
)

// Capabilities bundles the process-wide ML capability instances. Reranker is
// nil when no cross-encoder service is configured; Stage B then degrades to
// the recall-stage scores.
type Capabilities struct {
	Embedder   Embedder
	Entailment Entailment
	Reranker   Reranker
}

// New creates the capability instances for the configured provider.
// Called once at startup, before the first request.
func New(cfg model.MLConfig) (*Capabilities, error) {
	var (
		embedder   Embedder
		entailment Entailment
	)

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		p, err := NewOpenAIProvider(cfg)
		if err != nil {
			return nil, err
		}
		embedder, entailment = p, p

	case "inference", "":
		p, err := NewInferenceProvider(cfg)
		if err != nil {
			return nil, err
		}
		embedder, entailment = p, p

	case "ollama":
		p, err := NewOllamaProvider(cfg)
		if err != nil {
			return nil, err
		}
		embedder, entailment = p, p

	default:
		return nil, fmt.Errorf("unknown ml provider: %s (supported: openai, inference, ollama)", cfg.Provider)
	}

	caps := &Capabilities{
		Embedder:   embedder,
		Entailment: entailment,
	}
	if reranker := NewHTTPReranker(cfg); reranker != nil {
		caps.Reranker = reranker
	}
	return caps, nil
}
