// Package pipeline sequences claim extraction, decomposition, retrieval,
// ranking, entailment, and aggregation into one verification pass.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/veracityhq/claimcheck/internal/fetch"
	"github.com/veracityhq/claimcheck/internal/ml"
	"github.com/veracityhq/claimcheck/internal/model"
	"github.com/veracityhq/claimcheck/internal/rank"
	"github.com/veracityhq/claimcheck/internal/search"
	"github.com/veracityhq/claimcheck/internal/verify"
)

const truncatedQueryChars = 128

// PageFetcher retrieves cleaned page text. Errors mean "no usable text";
// the retriever falls back to the search snippet.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Retriever gathers entailment votes for one sub-claim: query variants, URL
// dedup, page fetch with snippet fallback, two-stage ranking, classification,
// and a trusted-domain second pass when the primary pass yields nothing.
type Retriever struct {
	searcher   search.Searcher
	fetcher    PageFetcher
	ranker     *rank.Ranker
	entailment ml.Entailment
	cfg        model.RetrievalConfig
	verbose    bool
}

// NewRetriever creates a retriever
func NewRetriever(searcher search.Searcher, fetcher PageFetcher, ranker *rank.Ranker, entailment ml.Entailment, cfg model.RetrievalConfig, verbose bool) *Retriever {
	if cfg.MaxQueries <= 0 {
		cfg.MaxQueries = 4
	}
	if cfg.MinParagraphWords <= 0 {
		cfg.MinParagraphWords = 12
	}
	return &Retriever{
		searcher:   searcher,
		fetcher:    fetcher,
		ranker:     ranker,
		entailment: entailment,
		cfg:        cfg,
		verbose:    verbose,
	}
}

// Gather collects all votes for one sub-claim. It never returns an error:
// every stage failure degrades to fewer votes. The URL dedup set is scoped to
// this call, so sibling sub-claims may revisit the same pages.
func (r *Retriever) Gather(ctx context.Context, subClaim string) ([]model.Vote, model.TraceEntry) {
	trace := model.TraceEntry{SubClaim: subClaim}
	seen := make(map[string]bool)

	var votes []model.Vote
	for _, query := range r.queryVariants(subClaim) {
		trace.Queries = append(trace.Queries, query)
		votes = append(votes, r.runQuery(ctx, subClaim, query, seen, nil, &trace)...)
	}

	// The trusted-domain pass trades recall breadth for near-guaranteed
	// availability: generic search can silently return nothing scrapable for
	// obscure claims. It runs only after every primary variant produced zero
	// votes.
	if len(votes) == 0 && r.cfg.FallbackDomain != "" {
		trace.Fallback = true
		accept := func(url string) bool {
			return verify.Domain(url) == r.cfg.FallbackDomain ||
				strings.HasSuffix(verify.Domain(url), "."+r.cfg.FallbackDomain)
		}
		for _, query := range r.fallbackVariants(subClaim) {
			trace.Queries = append(trace.Queries, query)
			votes = append(votes, r.runQuery(ctx, subClaim, query, seen, accept, &trace)...)
		}
	}

	tallyVotes(votes, &trace)
	return votes, trace
}

// queryVariants builds up to MaxQueries primary variants: the exact-quoted
// sub-claim, a truncated form, and two light tense paraphrases
func (r *Retriever) queryVariants(subClaim string) []string {
	variants := []string{fmt.Sprintf("%q", subClaim)}

	if truncated := truncate(subClaim, truncatedQueryChars); truncated != subClaim {
		variants = append(variants, truncated)
	} else {
		variants = append(variants, subClaim)
	}

	if swapped := swapWord(subClaim, "is", "was"); swapped != "" {
		variants = append(variants, swapped)
	}
	if swapped := swapWord(subClaim, "was", "is"); swapped != "" {
		variants = append(variants, swapped)
	}

	variants = dedupeStrings(variants)
	if len(variants) > r.cfg.MaxQueries {
		variants = variants[:r.cfg.MaxQueries]
	}
	return variants
}

// fallbackVariants restricts quoted and truncated forms to the trusted domain
func (r *Retriever) fallbackVariants(subClaim string) []string {
	site := "site:" + r.cfg.FallbackDomain
	return dedupeStrings([]string{
		fmt.Sprintf("%s %q", site, subClaim),
		site + " " + truncate(subClaim, truncatedQueryChars),
	})
}

// runQuery searches one variant and turns each surviving URL into votes.
// accept, when non-nil, filters URLs (the trusted-domain pass).
func (r *Retriever) runQuery(ctx context.Context, subClaim, query string, seen map[string]bool, accept func(string) bool, trace *model.TraceEntry) []model.Vote {
	hits, err := r.searcher.Search(ctx, query)
	if err != nil {
		// Transport failure: zero results, never fatal
		fmt.Fprintf(os.Stderr, "warning: search failed for %q: %v\n", query, err)
		return nil
	}

	var votes []model.Vote
	for _, hit := range hits {
		if hit.URL == "" || seen[hit.URL] {
			continue
		}
		seen[hit.URL] = true

		if accept != nil && !accept(hit.URL) {
			continue
		}
		trace.URLs = append(trace.URLs, hit.URL)

		paragraphs := r.paragraphsFor(ctx, hit)
		if len(paragraphs) == 0 {
			continue
		}

		for _, candidate := range r.ranker.Rank(ctx, subClaim, paragraphs) {
			label, confidence, err := r.entailment.Classify(ctx, subClaim, candidate.Window)
			if err != nil {
				// Scoring failure on one passage contributes zero votes
				fmt.Fprintf(os.Stderr, "warning: entailment failed for %s: %v\n", hit.URL, err)
				continue
			}
			votes = append(votes, model.Vote{
				URL:        hit.URL,
				Passage:    candidate.Window,
				Label:      label,
				Confidence: confidence,
			})
		}
	}
	return votes
}

// paragraphsFor extracts a page's paragraphs, falling back to the search
// snippet when extraction fails or yields nothing usable
func (r *Retriever) paragraphsFor(ctx context.Context, hit model.SearchHit) []string {
	text, err := r.fetcher.Fetch(ctx, hit.URL)
	if err == nil {
		if paragraphs := fetch.Paragraphs(text, r.cfg.MinParagraphWords); len(paragraphs) > 0 {
			return paragraphs
		}
	} else if r.verbose {
		fmt.Fprintf(os.Stderr, "fetch failed for %s: %v\n", hit.URL, err)
	}

	snippet := strings.TrimSpace(hit.Content)
	if len(strings.Fields(snippet)) >= r.cfg.MinParagraphWords {
		return []string{snippet}
	}
	return nil
}

func tallyVotes(votes []model.Vote, trace *model.TraceEntry) {
	trace.Candidates = len(votes)
	for _, v := range votes {
		switch v.Label {
		case model.LabelSupported:
			trace.Supported++
		case model.LabelContradicted:
			trace.Contradicted++
		default:
			trace.Unclear++
		}
	}

	top := len(votes)
	if top > 3 {
		top = 3
	}
	trace.TopEvidence = append([]model.Vote(nil), votes[:top]...)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) > maxChars {
		return strings.TrimSpace(string(runes[:maxChars]))
	}
	return s
}

// swapWord replaces whole-word occurrences of from with to; returns "" when
// the claim does not contain the word
func swapWord(claim, from, to string) string {
	fields := strings.Fields(claim)
	found := false
	for i, f := range fields {
		if strings.EqualFold(f, from) {
			fields[i] = to
			found = true
		}
	}
	if !found {
		return ""
	}
	return strings.Join(fields, " ")
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range in {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
