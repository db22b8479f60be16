package model

// Citation points at the passage that backs a verdict
type Citation struct {
	URL     string `json:"url"`
	Snippet string `json:"snippet"` // Capped at 350 characters
}

// Verdict is the aggregate decision for one sub-claim, derived purely from
// that sub-claim's vote list. A citation is never fabricated without a
// backing vote.
type Verdict struct {
	Label      Label     `json:"label"`
	Confidence float64   `json:"confidence"`
	Citation   *Citation `json:"citation"`
}

// ClaimResult pairs a verified sub-claim with its verdict
type ClaimResult struct {
	Text       string    `json:"text"`
	Verdict    Label     `json:"verdict"`
	Confidence float64   `json:"confidence"`
	Citation   *Citation `json:"citation"`
}

// TraceEntry records diagnostic detail for one sub-claim's processing.
// The trace reports on the pipeline; it never influences the verdict.
type TraceEntry struct {
	SubClaim     string   `json:"sub_claim"`
	Queries      []string `json:"queries"`
	URLs         []string `json:"urls"`
	Candidates   int      `json:"candidates"` // Total votes gathered, unclear included
	Supported    int      `json:"supported"`
	Contradicted int      `json:"contradicted"`
	Unclear      int      `json:"unclear"`
	Fallback     bool     `json:"fallback"` // Whether the trusted-domain pass ran
	TopEvidence  []Vote   `json:"top_evidence,omitempty"`
}

// Report is the complete verification response for one input text
type Report struct {
	CheckedOn string        `json:"checked_on"` // ISO8601 UTC timestamp
	Claims    []ClaimResult `json:"claims"`
	LatencyS  float64       `json:"latency_s"`
	Debug     []TraceEntry  `json:"debug,omitempty"`
}
