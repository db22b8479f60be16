package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/veracityhq/claimcheck/internal/cache"
	"github.com/veracityhq/claimcheck/internal/model"
)

func newTestFetcher(pageCache cache.Cache) *Fetcher {
	return NewFetcher(model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "claimcheck-test/1.0",
		MaxBodyBytes: 1 << 20,
	}, model.RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             10,
	}, pageCache, time.Minute)
}

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			http.NotFound(w, r)
		case "/page":
			if ua := r.Header.Get("User-Agent"); ua != "claimcheck-test/1.0" {
				t.Errorf("Unexpected User-Agent: %q", ua)
			}
			_, _ = w.Write([]byte(`<html><body>
				<script>ignore();</script>
				<p>The tower was completed in 1889.</p>
				<p>It stands in central Paris.</p>
			</body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := newTestFetcher(nil)
	text, err := f.Fetch(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.Contains(text, "completed in 1889") {
		t.Errorf("Expected page text extracted, got %q", text)
	}
	if strings.Contains(text, "ignore()") {
		t.Errorf("Script content leaked into the text: %q", text)
	}
}

func TestFetcher_Fetch_RobotsDisallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
		default:
			_, _ = w.Write([]byte("<p>secret content here</p>"))
		}
	}))
	defer srv.Close()

	f := newTestFetcher(nil)
	if _, err := f.Fetch(context.Background(), srv.URL+"/private/page"); err == nil {
		t.Error("Expected a robots.txt denial error")
	}
}

func TestFetcher_Fetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := newTestFetcher(nil)
	if _, err := f.Fetch(context.Background(), srv.URL+"/page"); err == nil {
		t.Error("Expected an error for a 403 response")
	}
}

func TestFetcher_Fetch_CacheHit(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		requests++
		_, _ = w.Write([]byte("<p>cached page body text</p>"))
	}))
	defer srv.Close()

	f := newTestFetcher(cache.NewMemory(time.Minute, 5*time.Minute))
	url := srv.URL + "/page"

	first, err := f.Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	second, err := f.Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}

	if requests != 1 {
		t.Errorf("Expected exactly one page request, got %d", requests)
	}
	if first != second {
		t.Errorf("Cache returned different text: %q vs %q", first, second)
	}
}

func TestExtractText_BlockBoundaries(t *testing.T) {
	text, err := ExtractText("<div><p>first paragraph here</p><p>second paragraph here</p></div>")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	paragraphs := Paragraphs(text, 1)
	if len(paragraphs) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %d: %v", len(paragraphs), paragraphs)
	}
	if paragraphs[0] != "first paragraph here" {
		t.Errorf("Unexpected first paragraph: %q", paragraphs[0])
	}
}

func TestExtractText_SkipsChrome(t *testing.T) {
	text, err := ExtractText(`<html><body>
		<nav>site navigation links</nav>
		<header>page header</header>
		<p>the actual article body</p>
		<footer>copyright footer</footer>
	</body></html>`)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	for _, chrome := range []string{"navigation", "page header", "copyright"} {
		if strings.Contains(text, chrome) {
			t.Errorf("Chrome text %q leaked into output", chrome)
		}
	}
	if !strings.Contains(text, "the actual article body") {
		t.Errorf("Article body missing from output: %q", text)
	}
}

func TestParagraphs_MinWords(t *testing.T) {
	text := "one two three\n\na longer paragraph with at least twelve words in it to pass the filter easily\n\nshort"
	paragraphs := Paragraphs(text, 12)

	if len(paragraphs) != 1 {
		t.Fatalf("Expected only the long paragraph, got %d: %v", len(paragraphs), paragraphs)
	}
	if !strings.HasPrefix(paragraphs[0], "a longer paragraph") {
		t.Errorf("Unexpected surviving paragraph: %q", paragraphs[0])
	}
}
