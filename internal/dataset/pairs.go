// Package dataset converts labeled claim/evidence corpora into the pairwise
// JSONL format the offline reranker training consumes. It interacts with the
// core only through the artifact the precision capability later loads.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Pair is one reranker training record
type Pair struct {
	Text1 string `json:"text1"` // Claim text
	Text2 string `json:"text2"` // Passage text
	Label int    `json:"label"` // 1 relevant, 0 irrelevant
}

// sourceRecord is one line of a HoVer-style labeled corpus
type sourceRecord struct {
	Claim            string            `json:"claim"`
	Query            string            `json:"query"`
	PositivePassages []json.RawMessage `json:"positive_passages"`
	NegativePassages []json.RawMessage `json:"negative_passages"`
}

// Stats summarizes a conversion run
type Stats struct {
	Items     int
	Positives int
	Negatives int
	Skipped   int
}

// Convert reads HoVer-style JSONL and writes one pair line per
// (claim, passage) combination
func Convert(in io.Reader, out io.Writer) (Stats, error) {
	var stats Stats

	encoder := json.NewEncoder(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		stats.Items++

		var rec sourceRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			stats.Skipped++
			continue
		}

		claim := strings.TrimSpace(rec.Claim)
		if claim == "" {
			claim = strings.TrimSpace(rec.Query)
		}
		if claim == "" {
			stats.Skipped++
			continue
		}

		for _, raw := range rec.PositivePassages {
			if text := passageText(raw); text != "" {
				if err := encoder.Encode(Pair{Text1: claim, Text2: text, Label: 1}); err != nil {
					return stats, fmt.Errorf("write pair: %w", err)
				}
				stats.Positives++
			}
		}
		for _, raw := range rec.NegativePassages {
			if text := passageText(raw); text != "" {
				if err := encoder.Encode(Pair{Text1: claim, Text2: text, Label: 0}); err != nil {
					return stats, fmt.Errorf("write pair: %w", err)
				}
				stats.Negatives++
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scan input: %w", err)
	}
	return stats, nil
}

// passageText accepts either a bare string or an object with a text-like key
func passageText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, key := range []string{"text", "passage", "evidence", "snippet"} {
		if v, ok := obj[key]; ok {
			if err := json.Unmarshal(v, &s); err == nil && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// ConvertFile converts in-path JSONL to out-path pair JSONL
func ConvertFile(inPath, outPath string) (Stats, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Stats{}, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(outPath)
	if err != nil {
		return Stats{}, fmt.Errorf("create output: %w", err)
	}

	stats, convErr := Convert(in, out)
	if closeErr := out.Close(); closeErr != nil && convErr == nil {
		convErr = fmt.Errorf("close output: %w", closeErr)
	}
	return stats, convErr
}

// LoadPairs reads pair records back, validating labels; limit <= 0 means all
func LoadPairs(path string, limit int) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pairs: %w", err)
	}
	defer func() { _ = f.Close() }()

	var pairs []Pair
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p Pair
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			continue
		}
		if p.Text1 == "" || p.Text2 == "" || (p.Label != 0 && p.Label != 1) {
			continue
		}
		pairs = append(pairs, p)
		if limit > 0 && len(pairs) >= limit {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan pairs: %w", err)
	}
	return pairs, nil
}
