package verify

import "testing"

func TestTrust_IsTrusted(t *testing.T) {
	trust := NewTrust([]string{"wikipedia.org", "gov", "edu", "reuters.com"}, 1.15)

	tests := []struct {
		url     string
		trusted bool
	}{
		{"https://en.wikipedia.org/wiki/Eiffel_Tower", true},
		{"https://wikipedia.org/", true},
		{"https://www.reuters.com/article/1", true},
		{"https://www.census.gov/data", true},
		{"https://cs.stanford.edu/papers", true},
		{"https://notwikipedia.org/wiki", false},
		{"https://example.com/page", false},
		{"https://reuters.com.evil.net/fake", false},
	}

	for _, tt := range tests {
		if got := trust.IsTrusted(tt.url); got != tt.trusted {
			t.Errorf("IsTrusted(%q) = %v, want %v", tt.url, got, tt.trusted)
		}
	}
}

func TestTrust_Weight(t *testing.T) {
	trust := NewTrust([]string{"wikipedia.org"}, 1.15)

	if w := trust.Weight("https://en.wikipedia.org/wiki/Paris"); w != 1.15 {
		t.Errorf("Expected boost 1.15 for a trusted domain, got %v", w)
	}
	if w := trust.Weight("https://blog.example.com/post"); w != 1.0 {
		t.Errorf("Expected weight 1.0 for an untrusted domain, got %v", w)
	}
}

func TestTrust_DefaultBoost(t *testing.T) {
	trust := NewTrust([]string{"wikipedia.org"}, 0)

	if w := trust.Weight("https://en.wikipedia.org/"); w != 1.15 {
		t.Errorf("Expected the default boost when configured <= 0, got %v", w)
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		url  string
		host string
	}{
		{"https://En.Wikipedia.org/wiki/X", "en.wikipedia.org"},
		{"http://example.com:8080/page", "example.com"},
		{"not a url at all %%%", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Domain(tt.url); got != tt.host {
			t.Errorf("Domain(%q) = %q, want %q", tt.url, got, tt.host)
		}
	}
}
