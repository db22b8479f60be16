package pipeline

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/veracityhq/claimcheck/internal/extract"
	"github.com/veracityhq/claimcheck/internal/ml"
	"github.com/veracityhq/claimcheck/internal/model"
	"github.com/veracityhq/claimcheck/internal/nlp"
	"github.com/veracityhq/claimcheck/internal/rank"
	"github.com/veracityhq/claimcheck/internal/search"
	"github.com/veracityhq/claimcheck/internal/verify"
)

// Pipeline orchestrates the complete verification pass for one input text
type Pipeline struct {
	extractor  *extract.ClaimExtractor
	decomposer *extract.Decomposer
	retriever  *Retriever
	aggregator *verify.Aggregator
	maxClaims  int
	workers    int
	nowFunc    func() time.Time // Injectable for tests
}

// New creates a pipeline from configuration and capability instances
func New(cfg *model.Config, searcher search.Searcher, fetcher PageFetcher, caps *ml.Capabilities) *Pipeline {
	analyzer := nlp.NewHeuristic()

	ranker := rank.NewRanker(
		caps.Embedder,
		caps.Reranker,
		cfg.Retrieval.RecallTopN,
		cfg.Retrieval.PrecisionTopM,
		cfg.Retrieval.WindowWords,
	)

	workers := cfg.Concurrency.SubClaimWorkers
	if workers <= 0 {
		workers = 1
	}
	maxClaims := cfg.Extract.MaxClaims
	if maxClaims <= 0 {
		maxClaims = 8
	}

	return &Pipeline{
		extractor:  extract.NewClaimExtractor(analyzer, cfg.Extract.MaxInputChars),
		decomposer: extract.NewDecomposer(analyzer),
		retriever:  NewRetriever(searcher, fetcher, ranker, caps.Entailment, cfg.Retrieval, cfg.Output.Verbose),
		aggregator: verify.NewAggregator(cfg.Decision),
		maxClaims:  maxClaims,
		workers:    workers,
		nowFunc:    time.Now,
	}
}

type subResult struct {
	result model.ClaimResult
	trace  model.TraceEntry
}

// Check verifies one input text and assembles the complete report. No
// sub-claim failure aborts its siblings; every extracted sub-claim appears in
// the report. The debug trace never influences a verdict.
func (p *Pipeline) Check(ctx context.Context, text string, debug bool) *model.Report {
	start := p.nowFunc()

	claims := p.extractor.Extract(text, p.maxClaims)

	var subs []model.SubClaim
	for i, claim := range claims {
		for _, sub := range p.decomposer.Decompose(claim) {
			sub.Claim = i
			subs = append(subs, sub)
		}
	}

	results := make([]subResult, len(subs))

	// Fan out across sub-claims with bounded concurrency. Each task owns its
	// own vote list, dedup set, and trace entry; results land at a fixed
	// index, so output order is deterministic.
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.workers)

	for i, sub := range subs {
		wg.Add(1)
		go func(idx int, sc model.SubClaim) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = subResult{
					result: model.ClaimResult{
						Text:    sc.Text,
						Verdict: model.LabelUnclear,
					},
					trace: model.TraceEntry{SubClaim: sc.Text},
				}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			votes, trace := p.retriever.Gather(ctx, sc.Text)
			verdict, _ := p.aggregator.Decide(votes)

			results[idx] = subResult{
				result: model.ClaimResult{
					Text:       sc.Text,
					Verdict:    verdict.Label,
					Confidence: verdict.Confidence,
					Citation:   verdict.Citation,
				},
				trace: trace,
			}
		}(i, sub)
	}
	wg.Wait()

	report := &model.Report{
		CheckedOn: p.nowFunc().UTC().Format("2006-01-02T15:04:05Z"),
		Claims:    make([]model.ClaimResult, 0, len(results)),
		LatencyS:  roundLatency(p.nowFunc().Sub(start)),
	}
	for _, r := range results {
		report.Claims = append(report.Claims, r.result)
		if debug {
			report.Debug = append(report.Debug, r.trace)
		}
	}
	return report
}

func roundLatency(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
