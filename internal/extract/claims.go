// Package extract turns raw text into claims and splits compound claims into
// independently verifiable sub-claims.
package extract

import (
	"strings"

	"github.com/veracityhq/claimcheck/internal/model"
	"github.com/veracityhq/claimcheck/internal/nlp"
)

const minClaimWords = 3

// ClaimExtractor extracts claim-like sentences from free text
type ClaimExtractor struct {
	analyzer      nlp.Analyzer
	maxInputChars int
}

// NewClaimExtractor creates a claim extractor backed by the given analyzer
func NewClaimExtractor(analyzer nlp.Analyzer, maxInputChars int) *ClaimExtractor {
	if maxInputChars <= 0 {
		maxInputChars = 280
	}
	return &ClaimExtractor{
		analyzer:      analyzer,
		maxInputChars: maxInputChars,
	}
}

// Extract returns between 1 and cap claims for any non-empty input.
// Three passes are tried in order; the first non-empty pass wins:
//  1. sentences with a verb and a salient entity or numeric token
//  2. sentences with a verb and at least three words
//  3. the whole input, truncated
func (e *ClaimExtractor) Extract(text string, cap int) []model.Claim {
	if cap <= 0 {
		cap = 8
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	sentences := e.analyzer.Sentences(trimmed)

	var claims []model.Claim
	for i, sentence := range sentences {
		a := e.analyzer.Analyze(sentence)
		if a.HasVerb && (a.HasEntity || a.HasNumeric) {
			claims = append(claims, model.Claim{
				Text:      cleanCandidate(sentence),
				Heuristic: "entity+verb",
				Sentence:  i,
			})
		}
	}

	if len(claims) == 0 {
		for i, sentence := range sentences {
			a := e.analyzer.Analyze(sentence)
			if a.HasVerb && len(a.Tokens) >= minClaimWords {
				claims = append(claims, model.Claim{
					Text:      cleanCandidate(sentence),
					Heuristic: "relaxed",
					Sentence:  i,
				})
			}
		}
	}

	if len(claims) == 0 {
		claims = append(claims, model.Claim{
			Text:      cleanCandidate(truncateRunes(trimmed, e.maxInputChars)),
			Heuristic: "fallback",
		})
	}

	claims = dedupeClaims(dropShort(claims))

	// The fallback pass guarantees the pipeline is never empty-handed, even
	// when every candidate was dropped for being too short.
	if len(claims) == 0 {
		claims = []model.Claim{{
			Text:      cleanCandidate(truncateRunes(trimmed, e.maxInputChars)),
			Heuristic: "fallback",
		}}
	}

	if len(claims) > cap {
		claims = claims[:cap]
	}

	return claims
}

// truncateRunes caps a string at maxRunes without splitting a multi-byte rune
func truncateRunes(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) > maxRunes {
		return strings.TrimSpace(string(runes[:maxRunes]))
	}
	return s
}

// cleanCandidate strips newlines and surrounding punctuation
func cleanCandidate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " \t\"'`•-–—*")
}

func dropShort(claims []model.Claim) []model.Claim {
	var kept []model.Claim
	for _, c := range claims {
		if len(strings.Fields(c.Text)) >= minClaimWords {
			kept = append(kept, c)
		}
	}
	return kept
}

// dedupeClaims removes duplicates while preserving first-seen order
func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool)
	var unique []model.Claim

	for _, claim := range claims {
		key := strings.ToLower(strings.TrimSpace(claim.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
