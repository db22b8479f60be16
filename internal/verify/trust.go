// Package verify fuses per-passage entailment votes into one verdict using
// domain-trust weighting, distinct-source consensus, and a confidence margin.
package verify

import (
	"net/url"
	"strings"
)

// Trust classifies source domains and weights vote confidence. Domains on the
// allow-list (reference encyclopedias, government/academic suffixes, wire
// services) receive a multiplicative confidence boost.
type Trust struct {
	domains []string
	boost   float64
}

// NewTrust creates a trust classifier from the configured allow-list
func NewTrust(domains []string, boost float64) *Trust {
	if boost <= 0 {
		boost = 1.15
	}
	return &Trust{domains: domains, boost: boost}
}

// Weight returns the confidence multiplier for a source URL
func (t *Trust) Weight(rawURL string) float64 {
	if t.IsTrusted(rawURL) {
		return t.boost
	}
	return 1.0
}

// IsTrusted reports whether the URL's host is on the allow-list.
// Matching is by suffix, so "wikipedia.org" covers "en.wikipedia.org" and a
// bare "gov" or "edu" entry covers those TLDs.
func (t *Trust) IsTrusted(rawURL string) bool {
	host := Domain(rawURL)
	if host == "" {
		return false
	}

	for _, domain := range t.domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// Domain extracts the host (without port) from a URL for distinct-source
// counting
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := parsed.Host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return strings.ToLower(host)
}
