// Package search talks to a SearxNG-compatible metasearch endpoint.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/veracityhq/claimcheck/internal/model"
	"github.com/veracityhq/claimcheck/internal/util"
)

// Searcher is the search capability consumed by the retriever
type Searcher interface {
	// Search returns up to the configured number of hits for one query.
	// Transport failures surface as errors; callers treat them as zero results.
	Search(ctx context.Context, query string) ([]model.SearchHit, error)
}

// Client queries a SearxNG JSON endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
	maxResults int
	language   string
}

// NewClient creates a search client from configuration
func NewClient(cfg model.SearchConfig, httpProxy, httpsProxy, noProxy string) *Client {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		endpoint: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
			},
		},
		maxResults: maxResults,
		language:   cfg.Language,
	}
}

type searxResponse struct {
	Results []searxResult `json:"results"`
}

type searxResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Engine  string `json:"engine"`
}

// Search issues one query and returns slim hits, capped per call
func (c *Client) Search(ctx context.Context, query string) ([]model.SearchHit, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	if c.language != "" {
		params.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4_000_000))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var parsed searxResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]model.SearchHit, 0, c.maxResults)
	for _, r := range parsed.Results {
		if r.URL == "" {
			continue
		}
		hits = append(hits, model.SearchHit{
			URL:     r.URL,
			Title:   r.Title,
			Engine:  r.Engine,
			Content: r.Content,
		})
		if len(hits) >= c.maxResults {
			break
		}
	}

	return hits, nil
}

// SlimHits truncates hit snippets for the debug passthrough endpoint
func SlimHits(hits []model.SearchHit, maxRunes int) []model.SearchHit {
	slim := make([]model.SearchHit, len(hits))
	for i, h := range hits {
		content := h.Content
		if runes := []rune(content); len(runes) > maxRunes {
			content = string(runes[:maxRunes])
		}
		slim[i] = model.SearchHit{
			URL:     h.URL,
			Title:   h.Title,
			Engine:  h.Engine,
			Content: content,
		}
	}
	return slim
}
