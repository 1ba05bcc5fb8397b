package prodcrawl

import (
	"net/url"
	"strings"
)

// NormalizeURL returns the canonical form used for deduplication.
//
// Scheme and host are lowercased, default ports and the fragment are
// dropped, and an empty path becomes "/". Path case, trailing slashes and
// the query string are preserved because servers may treat them as
// distinct resources.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", Errorf(EINVALID, "URL must be absolute: %q", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	switch {
	case u.Scheme == "http" && u.Port() == "80",
		u.Scheme == "https" && u.Port() == "443":
		u.Host = u.Hostname()
	}
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// Origin returns scheme://host[:port] of an absolute URL.
func Origin(rawURL string) (string, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}
	u, _ := url.Parse(normalized)
	return u.Scheme + "://" + u.Host, nil
}

// ValidateSeed checks that a seed URL is an absolute http(s) URL.
func ValidateSeed(seed string) error {
	if strings.TrimSpace(seed) == "" {
		return Errorf(EINVALID, "seed URL required")
	}
	normalized, err := NormalizeURL(seed)
	if err != nil {
		return err
	}
	u, _ := url.Parse(normalized)
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "seed URL must use http or https: %q", seed)
	}
	return nil
}

// Scope decides which discovered URLs belong to the crawled site.
type Scope string

// Supported scopes.
const (
	// ScopeOrigin keeps URLs whose scheme and host equal the crawl origin.
	ScopeOrigin Scope = "origin"

	// ScopeSubstring keeps URLs whose text contains the crawl origin anywhere.
	// It also admits unrelated hosts such as https://shop.example.evil.net
	// when the origin is https://shop.example.
	ScopeSubstring Scope = "substring"
)

// Validate returns an error for unknown scopes.
func (s Scope) Validate() error {
	switch s {
	case ScopeOrigin, ScopeSubstring:
		return nil
	}
	return Errorf(EINVALID, "unknown scope %q (want %q or %q)", s, ScopeOrigin, ScopeSubstring)
}

// Contains reports whether the normalized URL is within scope of origin.
func (s Scope) Contains(origin, normalizedURL string) bool {
	if s == ScopeSubstring {
		return strings.Contains(normalizedURL, origin)
	}
	o, err := Origin(normalizedURL)
	if err != nil {
		return false
	}
	return o == origin
}
