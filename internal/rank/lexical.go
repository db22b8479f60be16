// Package rank narrows a page's paragraphs to the handful worth classifying:
// a cheap lexical+semantic recall stage followed by an optional cross-encoder
// precision stage.
package rank

import (
	"math"
	"strings"
)

// BM25 parameters, standard Okapi defaults
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// BM25Scores computes one Okapi BM25 score per paragraph, treating each
// paragraph as a document and the claim as the query. Lexical scoring is
// precise for rare proper nouns and numbers that embeddings under-weight.
func BM25Scores(query string, paragraphs []string) []float64 {
	if len(paragraphs) == 0 {
		return nil
	}

	docs := make([][]string, len(paragraphs))
	totalLen := 0
	for i, p := range paragraphs {
		docs[i] = tokenize(p)
		totalLen += len(docs[i])
	}
	avgLen := float64(totalLen) / float64(len(docs))
	if avgLen == 0 {
		avgLen = 1
	}

	// Document frequency per term
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range doc {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	n := float64(len(docs))
	queryTerms := tokenize(query)

	scores := make([]float64, len(docs))
	for i, doc := range docs {
		tf := make(map[string]int)
		for _, term := range doc {
			tf[term]++
		}

		docLen := float64(len(doc))
		var score float64
		for _, term := range queryTerms {
			freq := float64(tf[term])
			if freq == 0 {
				continue
			}
			idf := math.Log(1 + (n-float64(df[term])+0.5)/(float64(df[term])+0.5))
			score += idf * (freq * (bm25K1 + 1)) /
				(freq + bm25K1*(1-bm25B+bm25B*docLen/avgLen))
		}
		scores[i] = score
	}

	return scores
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.Trim(f, ".,;:!?\"'()[]{}"); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
