// Package nlp provides the text-analysis capability used by claim extraction
// and decomposition: sentence segmentation, verb/entity/number detection, and
// clause-boundary tokens. The heuristic implementation is pure and
// deterministic; a richer backend can be substituted behind the Analyzer
// interface without touching the pipeline.
package nlp

import (
	"regexp"
	"strings"
	"unicode"
)

// Analyzer is the text-analysis capability consumed by the extract package
type Analyzer interface {
	// Sentences splits text into sentence strings, preserving order
	Sentences(text string) []string

	// Analyze inspects one sentence and reports its token-level features
	Analyze(sentence string) Analysis
}

// Analysis describes one sentence
type Analysis struct {
	Tokens     []Token
	HasVerb    bool // Contains a verb or auxiliary
	HasEntity  bool // Contains a salient named-entity-like span
	HasNumeric bool // Contains a numeric or date token
}

// Token is one whitespace-delimited token of a sentence
type Token struct {
	Text           string
	ClauseBoundary bool // Coordinating conjunction or trailing , ; boundary
}

// Heuristic is the default rule-based Analyzer
type Heuristic struct{}

// NewHeuristic creates the default analyzer
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

var auxiliaries = map[string]bool{
	"is": true, "was": true, "are": true, "were": true, "be": true,
	"been": true, "being": true, "am": true,
	"has": true, "have": true, "had": true,
	"do": true, "does": true, "did": true,
	"will": true, "would": true, "shall": true, "should": true,
	"can": true, "could": true, "may": true, "might": true, "must": true,
}

var irregularVerbs = map[string]bool{
	"became": true, "began": true, "built": true, "came": true, "chose": true,
	"fell": true, "found": true, "gave": true, "grew": true, "held": true,
	"knew": true, "led": true, "left": true, "lost": true, "made": true,
	"met": true, "ran": true, "rose": true, "said": true, "saw": true,
	"sold": true, "spent": true, "stood": true, "took": true, "went": true,
	"won": true, "wrote": true, "says": true, "makes": true, "holds": true,
	"remains": true, "lies": true, "sits": true, "contains": true,
	"includes": true, "means": true, "becomes": true,
}

var conjunctions = map[string]bool{
	"and": true, "but": true, "or": true, "nor": true, "yet": true, "so": true,
}

var months = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
}

var numericRe = regexp.MustCompile(`\d`)

// Sentences splits text on sentence terminators, guarding against splitting
// inside abbreviations by requiring trailing whitespace after the terminator
func (h *Heuristic) Sentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t' {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// Analyze reports token features for one sentence
func (h *Heuristic) Analyze(sentence string) Analysis {
	fields := strings.Fields(sentence)
	analysis := Analysis{Tokens: make([]Token, 0, len(fields))}

	for i, field := range fields {
		word := strings.ToLower(strings.Trim(field, ".,;:!?\"'()[]"))

		boundary := conjunctions[word] ||
			strings.HasSuffix(field, ",") ||
			strings.HasSuffix(field, ";")

		analysis.Tokens = append(analysis.Tokens, Token{
			Text:           field,
			ClauseBoundary: boundary,
		})

		if isVerbLike(word) {
			analysis.HasVerb = true
		}
		if numericRe.MatchString(field) || months[word] {
			analysis.HasNumeric = true
		}
		if i > 0 && isCapitalizedSpan(field) {
			analysis.HasEntity = true
		}
	}

	// A capitalized multi-word span starting the sentence still counts as an
	// entity when the second word is also capitalized ("Eiffel Tower was...").
	if !analysis.HasEntity && len(fields) >= 2 &&
		isCapitalizedSpan(fields[0]) && isCapitalizedSpan(fields[1]) {
		analysis.HasEntity = true
	}

	return analysis
}

func isVerbLike(word string) bool {
	if auxiliaries[word] || irregularVerbs[word] {
		return true
	}
	if len(word) > 4 && (strings.HasSuffix(word, "ed") || strings.HasSuffix(word, "ing")) {
		return true
	}
	return false
}

func isCapitalizedSpan(field string) bool {
	trimmed := strings.Trim(field, ".,;:!?\"'()[]")
	if trimmed == "" {
		return false
	}
	runes := []rune(trimmed)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	// All-caps tokens like "NASA" and mixed like "McDonald" both qualify;
	// single capital letters ("A", "I") do not.
	return len(runes) > 1
}
