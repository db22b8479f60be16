package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/veracityhq/claimcheck/internal/model"
)

func newTestClient(endpoint string, maxResults int) *Client {
	return NewClient(model.SearchConfig{
		URL:        endpoint,
		Timeout:    5 * time.Second,
		MaxResults: maxResults,
		Language:   "en",
	}, "", "", "")
}

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("Expected format=json, got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "eiffel tower 1889" {
			t.Errorf("Unexpected query: %q", got)
		}
		if got := r.URL.Query().Get("language"); got != "en" {
			t.Errorf("Expected language=en, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"url":"https://en.wikipedia.org/wiki/Eiffel_Tower","title":"Eiffel Tower","content":"Completed in 1889.","engine":"wikipedia"},
			{"url":"","title":"no url","content":"dropped"},
			{"url":"https://example.com/a","title":"A","content":"some text","engine":"bing"}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	hits, err := c.Search(context.Background(), "eiffel tower 1889")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits (empty URL dropped), got %d", len(hits))
	}
	if hits[0].URL != "https://en.wikipedia.org/wiki/Eiffel_Tower" {
		t.Errorf("Unexpected first hit URL: %q", hits[0].URL)
	}
	if hits[0].Engine != "wikipedia" {
		t.Errorf("Unexpected engine: %q", hits[0].Engine)
	}
}

func TestClient_Search_CapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[
			{"url":"https://a.example/1"},
			{"url":"https://a.example/2"},
			{"url":"https://a.example/3"}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 2)
	hits, err := c.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("Expected hits capped at 2, got %d", len(hits))
	}
}

func TestClient_Search_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	if _, err := c.Search(context.Background(), "q"); err == nil {
		t.Error("Expected an error for a non-200 response")
	}
}

func TestClient_Search_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	if _, err := c.Search(context.Background(), "q"); err == nil {
		t.Error("Expected a decode error for non-JSON body")
	}
}

func TestSlimHits(t *testing.T) {
	hits := []model.SearchHit{
		{URL: "https://a.example/1", Content: strings.Repeat("x", 300)},
		{URL: "https://a.example/2", Content: "short"},
	}

	slim := SlimHits(hits, 250)
	if len(slim[0].Content) != 250 {
		t.Errorf("Expected content truncated to 250, got %d", len(slim[0].Content))
	}
	if slim[1].Content != "short" {
		t.Errorf("Short content must pass through, got %q", slim[1].Content)
	}
	if hits[0].Content == slim[0].Content {
		t.Error("Expected the original hit left untouched")
	}
}
