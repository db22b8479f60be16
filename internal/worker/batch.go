package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/veracityhq/claimcheck/internal/model"
)

// Checker verifies one input text
type Checker interface {
	Check(ctx context.Context, text string, debug bool) *model.Report
}

// CheckJob verifies one text through the pipeline
type CheckJob struct {
	Index   int
	Text    string
	Checker Checker
	Debug   bool
}

// Execute runs the verification
func (j *CheckJob) Execute(ctx context.Context) Result {
	return &CheckResult{
		Index:  j.Index,
		Text:   j.Text,
		Report: j.Checker.Check(ctx, j.Text, j.Debug),
	}
}

// CheckResult is the outcome of one batch entry
type CheckResult struct {
	Index  int
	Text   string
	Report *model.Report
	Err    error
}

// GetError returns the job error, if any
func (r *CheckResult) GetError() error {
	return r.Err
}

// BatchProcessor verifies many texts concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessTexts verifies each text and returns results in input order
func (b *BatchProcessor) ProcessTexts(ctx context.Context, texts []string, debug bool) []*CheckResult {
	if len(texts) == 0 {
		return []*CheckResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for i, text := range texts {
		pool.Submit(&CheckJob{
			Index:   i,
			Text:    text,
			Checker: b.checker,
			Debug:   debug,
		})
	}

	results := pool.Wait()

	ordered := make([]*CheckResult, len(texts))
	for _, result := range results {
		cr := result.(*CheckResult)
		ordered[cr.Index] = cr
	}
	return ordered
}

// ProcessFile reads input texts from a file (one per line) and verifies them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, debug bool) ([]*CheckResult, error) {
	texts, err := ReadTextsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}
	return b.ProcessTexts(ctx, texts, debug), nil
}

// ReadTextsFromFile reads one input text per line, skipping blanks and
// #-prefixed comments
func ReadTextsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var texts []string

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		texts = append(texts, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return texts, nil
}
