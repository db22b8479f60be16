// Package fetch retrieves web pages and reduces them to clean paragraph text.
// A failed or disallowed fetch yields an error the caller downgrades to a
// snippet fallback; it is never fatal to the surrounding pipeline.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/veracityhq/claimcheck/internal/cache"
	"github.com/veracityhq/claimcheck/internal/model"
	"github.com/veracityhq/claimcheck/internal/util"
)

// Fetcher downloads pages and extracts their visible text
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	limiter    *Limiter
	pageCache  cache.Cache
	cacheTTL   time.Duration
}

// NewFetcher creates a fetcher from configuration. A nil pageCache disables caching.
func NewFetcher(cfg model.HTTPConfig, rl model.RateLimitConfig, pageCache cache.Cache, cacheTTL time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiter:   NewLimiter(rl.RequestsPerSecond, rl.Burst),
		pageCache: pageCache,
		cacheTTL:  cacheTTL,
	}
}

// Fetch retrieves a page and returns its cleaned text: visible text with
// block boundaries preserved as blank lines. Returns an error when the page
// is unreachable, disallowed, or yields no text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.pageCache != nil {
		if cached, found := f.pageCache.Get(cache.Key(rawURL)); found {
			return string(cached), nil
		}
	}

	if !f.robots.Allowed(ctx, rawURL) {
		return "", fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	text, err := ExtractText(string(body))
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no extractable text: %s", rawURL)
	}

	if f.pageCache != nil {
		_ = f.pageCache.Set(cache.Key(rawURL), []byte(text), f.cacheTTL)
	}

	return text, nil
}

// blockTags mark element boundaries that become paragraph breaks
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"li": true, "br": true, "tr": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// ExtractText extracts visible text from HTML, preserving block structure as
// blank lines so paragraphs can be recovered downstream
func ExtractText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "footer", "header":
				return
			}
			if blockTags[n.Data] {
				buf.WriteString("\n\n")
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return buf.String(), nil
}

// Paragraphs splits cleaned text on blank lines and keeps fragments with at
// least minWords words
func Paragraphs(text string, minWords int) []string {
	var paragraphs []string
	for _, chunk := range strings.Split(text, "\n\n") {
		para := strings.Join(strings.Fields(chunk), " ")
		if para == "" {
			continue
		}
		if len(strings.Fields(para)) >= minWords {
			paragraphs = append(paragraphs, para)
		}
	}
	return paragraphs
}
