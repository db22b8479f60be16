package cli

import (
	"fmt"
	"time"

	"github.com/veracityhq/claimcheck/internal/cache"
	"github.com/veracityhq/claimcheck/internal/fetch"
	"github.com/veracityhq/claimcheck/internal/ml"
	"github.com/veracityhq/claimcheck/internal/model"
	"github.com/veracityhq/claimcheck/internal/pipeline"
	"github.com/veracityhq/claimcheck/internal/search"
)

// buildPipeline assembles the verification pipeline with process-wide
// capability instances, initialized once before the first request
func buildPipeline(cfg *model.Config) (*pipeline.Pipeline, search.Searcher, error) {
	caps, err := ml.New(cfg.ML)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize ml capabilities: %w", err)
	}

	var pageCache cache.Cache
	if cfg.Cache.Enabled {
		ttl := cfg.Cache.TTL
		if ttl == 0 {
			ttl = 10 * time.Minute
		}
		pageCache = cache.NewMemory(ttl, ttl)
	}

	fetcher := fetch.NewFetcher(cfg.HTTP, cfg.RateLimit, pageCache, cfg.Cache.TTL)
	searcher := search.NewClient(cfg.Search, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)

	return pipeline.New(cfg, searcher, fetcher, caps), searcher, nil
}
