package rank

import (
	"testing"
)

func TestBM25Scores_RelevantParagraphWins(t *testing.T) {
	query := "The Eiffel Tower was completed in 1889"
	paragraphs := []string{
		"Cats are popular pets and they sleep most of the day in warm places.",
		"The Eiffel Tower was completed in 1889 and opened for the Exposition Universelle.",
	}

	scores := BM25Scores(query, paragraphs)
	if len(scores) != 2 {
		t.Fatalf("Expected 2 scores, got %d", len(scores))
	}
	if scores[1] <= scores[0] {
		t.Errorf("Expected the relevant paragraph to score strictly higher: got %v", scores)
	}
}

func TestBM25Scores_EmptyInput(t *testing.T) {
	if scores := BM25Scores("anything", nil); scores != nil {
		t.Errorf("Expected nil scores for no paragraphs, got %v", scores)
	}
}

func TestBM25Scores_NoOverlapIsZero(t *testing.T) {
	scores := BM25Scores("quantum chromodynamics", []string{
		"a paragraph about gardening tips and tomato plants",
	})
	if scores[0] != 0 {
		t.Errorf("Expected zero score with no term overlap, got %v", scores[0])
	}
}

func TestTokenize_StripsPunctuation(t *testing.T) {
	tokens := tokenize(`The tower, (completed in 1889), is "famous".`)
	for _, tok := range tokens {
		switch tok {
		case "tower,", "(completed", "1889),", `"famous".`:
			t.Errorf("Punctuation survived tokenization: %q", tok)
		}
	}
}
