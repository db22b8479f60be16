// Package ml models the external scoring capabilities (embedding,
// cross-encoder reranking, entailment classification) as interfaces with
// explicit failure modes. Providers are process-wide instances created once at
// startup; errors surface to callers, which degrade rather than abort.
package ml

import (
	"context"
	"math"

	"github.com/veracityhq/claimcheck/internal/model"
)

// Embedder produces dense vectors for cosine similarity
type Embedder interface {
	// Embed returns one vector per input text, in input order
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Reranker is the precision capability: pairwise (query, passage) relevance.
// Callers substitute their recall-stage scores when it fails.
type Reranker interface {
	// Score returns one relevance score per passage, in input order
	Score(ctx context.Context, query string, passages []string) ([]float64, error)
}

// Entailment classifies a (claim, passage) pair into a 3-way label with a
// confidence in [0,1]
type Entailment interface {
	Classify(ctx context.Context, claim, passage string) (model.Label, float64, error)
}

// CosineSimilarity computes cosine similarity between two vectors.
// Returns 0 for mismatched or zero-magnitude inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
