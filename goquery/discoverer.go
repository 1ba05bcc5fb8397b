package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prodcrawl"
)

var _ prodcrawl.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer extracts same-site links from anchors.
type LinkDiscoverer struct {
	scope prodcrawl.Scope
}

// NewLinkDiscoverer creates a LinkDiscoverer that keeps links within scope.
// An empty scope means prodcrawl.ScopeOrigin.
func NewLinkDiscoverer(scope prodcrawl.Scope) *LinkDiscoverer {
	if scope == "" {
		scope = prodcrawl.ScopeOrigin
	}
	return &LinkDiscoverer{scope: scope}
}

// DiscoverLinks returns the unique in-scope URLs of all a[href] elements in
// document order. Only root-relative ("/...") and absolute ("http...")
// hrefs are considered; they are resolved against origin and normalized.
func (d *LinkDiscoverer) DiscoverLinks(html string, origin string) ([]string, error) {
	base, err := url.Parse(origin)
	if err != nil || !base.IsAbs() {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "invalid origin: %q", origin)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if !strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "http") {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if !d.scope.Contains(origin, resolved) {
			return
		}
		if seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL resolves href against base and returns the normalized result.
// Returns empty string if the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	normalized, err := prodcrawl.NormalizeURL(base.ResolveReference(ref).String())
	if err != nil {
		return ""
	}
	return normalized
}
