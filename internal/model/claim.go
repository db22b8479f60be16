package model

// Claim represents a checkable factual assertion extracted from the input text
type Claim struct {
	Text      string `json:"text"`                // The claim sentence itself
	Heuristic string `json:"heuristic,omitempty"` // Which extraction pass matched ("entity+verb", "relaxed", "fallback")
	Sentence  int    `json:"sentence,omitempty"`  // Sentence index in the input (0-based)
}

// SubClaim is an independently verifiable clause of a Claim.
// It may equal its parent claim verbatim when decomposition finds no clause boundary.
type SubClaim struct {
	Text  string `json:"text"`
	Claim int    `json:"claim"` // Index of the parent claim in the request
}
