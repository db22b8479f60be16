// Package util holds small shared helpers for outbound HTTP clients.
package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the proxy selector shared by the search, fetch, and ml
// HTTP clients. Explicit proxy URLs win; otherwise the standard environment
// variables apply.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
