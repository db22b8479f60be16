package extract

import (
	"strings"

	"github.com/veracityhq/claimcheck/internal/model"
	"github.com/veracityhq/claimcheck/internal/nlp"
)

const minChunkWords = 4

// Decomposer splits compound claims into independently verifiable sub-claims
type Decomposer struct {
	analyzer nlp.Analyzer
}

// NewDecomposer creates a decomposer backed by the given analyzer
func NewDecomposer(analyzer nlp.Analyzer) *Decomposer {
	return &Decomposer{analyzer: analyzer}
}

// Decompose returns at least one sub-claim for any claim. Clause boundaries
// (coordinating conjunctions, commas, semicolons) flush the running buffer as
// a sub-claim when it holds at least four words; if no valid chunk emerges,
// the claim itself is returned unchanged.
func (d *Decomposer) Decompose(claim model.Claim) []model.SubClaim {
	a := d.analyzer.Analyze(claim.Text)

	var chunks []string
	var buffer []string

	for _, tok := range a.Tokens {
		word := strings.ToLower(strings.Trim(tok.Text, ".,;:!?\"'"))

		if tok.ClauseBoundary {
			// A conjunction belongs to neither chunk; a trailing comma or
			// semicolon stays attached to the word that carried it.
			if !isBareConjunction(word) {
				buffer = append(buffer, strings.TrimRight(tok.Text, ",;"))
			}
			if len(buffer) >= minChunkWords {
				chunks = append(chunks, strings.Join(buffer, " "))
				buffer = nil
			}
			continue
		}

		buffer = append(buffer, tok.Text)
	}

	if len(buffer) >= minChunkWords {
		chunks = append(chunks, strings.Join(buffer, " "))
	}

	if len(chunks) == 0 {
		return []model.SubClaim{{Text: claim.Text}}
	}

	subs := make([]model.SubClaim, 0, len(chunks))
	for _, chunk := range chunks {
		subs = append(subs, model.SubClaim{Text: strings.TrimSpace(chunk)})
	}
	return subs
}

func isBareConjunction(word string) bool {
	switch word {
	case "and", "but", "or", "nor", "yet", "so":
		return true
	}
	return false
}
