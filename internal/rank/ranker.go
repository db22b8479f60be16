package rank

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/veracityhq/claimcheck/internal/ml"
)

const (
	lexicalWeight  = 0.6
	semanticWeight = 0.4
)

// Candidate is one surviving paragraph with its context window
type Candidate struct {
	Paragraph string  // The paragraph itself
	Window    string  // Paragraph plus immediate neighbors, word-budgeted
	Index     int     // Position on the page
	Score     float64 // Final ranking score (Stage B, or fused Stage A on degradation)
}

// Ranker performs two-stage passage ranking for one page
type Ranker struct {
	embedder      ml.Embedder
	reranker      ml.Reranker // nil disables Stage B
	recallTopN    int
	precisionTopM int
	windowWords   int
}

// NewRanker creates a ranker. reranker may be nil.
func NewRanker(embedder ml.Embedder, reranker ml.Reranker, recallTopN, precisionTopM, windowWords int) *Ranker {
	if recallTopN <= 0 {
		recallTopN = 10
	}
	if precisionTopM <= 0 {
		precisionTopM = 3
	}
	if windowWords <= 0 {
		windowWords = 450
	}
	return &Ranker{
		embedder:      embedder,
		reranker:      reranker,
		recallTopN:    recallTopN,
		precisionTopM: precisionTopM,
		windowWords:   windowWords,
	}
}

// Rank narrows a page's paragraphs to at most precisionTopM candidates.
// Empty input yields an empty shortlist; the caller falls back to snippets.
// Scoring failures degrade per stage and never produce an error.
func (r *Ranker) Rank(ctx context.Context, claim string, paragraphs []string) []Candidate {
	if len(paragraphs) == 0 {
		return nil
	}

	fused := r.fusedScores(ctx, claim, paragraphs)

	// Stage A: keep the recall shortlist by fused score
	order := sortedIndices(fused)
	if len(order) > r.recallTopN {
		order = order[:r.recallTopN]
	}

	// Stage B: re-score the shortlist with the precision capability, reusing
	// Stage A scores if it is unavailable or fails
	final := make([]float64, len(order))
	for i, idx := range order {
		final[i] = fused[idx]
	}
	if r.reranker != nil {
		shortlist := make([]string, len(order))
		for i, idx := range order {
			shortlist[i] = paragraphs[idx]
		}
		if scores, err := r.reranker.Score(ctx, claim, shortlist); err != nil {
			fmt.Fprintf(os.Stderr, "warning: rerank failed, using recall scores: %v\n", err)
		} else if len(scores) != len(order) {
			fmt.Fprintf(os.Stderr, "warning: rerank returned %d scores for %d passages, using recall scores\n",
				len(scores), len(order))
		} else {
			final = scores
		}
	}

	keep := sortedIndices(final)
	if len(keep) > r.precisionTopM {
		keep = keep[:r.precisionTopM]
	}

	candidates := make([]Candidate, 0, len(keep))
	for _, pos := range keep {
		idx := order[pos]
		candidates = append(candidates, Candidate{
			Paragraph: paragraphs[idx],
			Window:    r.window(paragraphs, idx),
			Index:     idx,
			Score:     final[pos],
		})
	}
	return candidates
}

// fusedScores computes 0.6*normalizedLexical + 0.4*semantic per paragraph.
// A zero lexical max normalizes by 1, so the fused score degrades to the
// semantic term alone; an embedding failure degrades to lexical alone.
func (r *Ranker) fusedScores(ctx context.Context, claim string, paragraphs []string) []float64 {
	lexical := BM25Scores(claim, paragraphs)

	maxLex := 0.0
	for _, s := range lexical {
		if s > maxLex {
			maxLex = s
		}
	}
	if maxLex <= 0 {
		maxLex = 1
	}

	semantic := make([]float64, len(paragraphs))
	if r.embedder != nil {
		inputs := append([]string{claim}, paragraphs...)
		if vectors, err := r.embedder.Embed(ctx, inputs); err != nil {
			fmt.Fprintf(os.Stderr, "warning: embedding failed, using lexical scores only: %v\n", err)
		} else {
			claimVec := vectors[0]
			for i := range paragraphs {
				semantic[i] = ml.CosineSimilarity(claimVec, vectors[i+1])
			}
		}
	}

	fused := make([]float64, len(paragraphs))
	for i := range paragraphs {
		fused[i] = lexicalWeight*(lexical[i]/maxLex) + semanticWeight*semantic[i]
	}
	return fused
}

// window builds the paragraph plus its immediate neighbors, truncated to the
// word budget so the claim text still fits in the classifier's input limit
func (r *Ranker) window(paragraphs []string, idx int) string {
	parts := make([]string, 0, 3)
	if idx > 0 {
		parts = append(parts, paragraphs[idx-1])
	}
	parts = append(parts, paragraphs[idx])
	if idx+1 < len(paragraphs) {
		parts = append(parts, paragraphs[idx+1])
	}

	words := strings.Fields(strings.Join(parts, " "))
	if len(words) > r.windowWords {
		// Keep the target paragraph's opening visible: trim from the front
		// only as far as the preceding neighbor extends.
		lead := 0
		if idx > 0 {
			lead = len(strings.Fields(paragraphs[idx-1]))
		}
		excess := len(words) - r.windowWords
		if excess > lead {
			words = words[lead : lead+r.windowWords]
		} else {
			words = words[excess : excess+r.windowWords]
		}
	}
	return strings.Join(words, " ")
}

// sortedIndices returns index positions ordered by descending score,
// ties broken by original order
func sortedIndices(scores []float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	return idx
}
