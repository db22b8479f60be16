package model

// SearchHit is one raw result from the search capability for a single query variant.
// Hits are transient and deduplicated by URL within one sub-claim's retrieval.
type SearchHit struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Engine  string `json:"engine,omitempty"`
	Content string `json:"content,omitempty"` // Result snippet from the engine
}

// Label is the 3-way entailment outcome for one (sub-claim, passage) pair
type Label string

const (
	LabelSupported    Label = "supported"
	LabelContradicted Label = "contradicted"
	LabelUnclear      Label = "unclear"
)

// Vote is one entailment judgment contributing evidence for a sub-claim.
// Confidence is always in [0,1]. Votes are never mutated after creation.
type Vote struct {
	URL        string  `json:"url"`
	Passage    string  `json:"passage"` // The context window the classifier saw
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}
