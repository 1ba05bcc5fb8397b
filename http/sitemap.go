package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/prodcrawl"
)

// maxSitemaps bounds how many sitemap documents one discovery may read.
const maxSitemaps = 50

// Ensure SitemapService implements prodcrawl.SitemapService.
var _ prodcrawl.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from /sitemap.xml via HTTP.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client, userAgent string) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = prodcrawl.DefaultUserAgent
	}
	return &SitemapService{client: client, userAgent: userAgent}
}

// DiscoverURLs reads /sitemap.xml at the root of baseURL and returns the
// unique page URLs it lists, following sitemap indexes.
// Returns an empty slice (not nil) if the site has no sitemap.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "invalid base URL: %q", baseURL)
	}
	root := base.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()

	seenSitemaps := make(map[string]bool)
	urls, err := s.processSitemap(ctx, root, seenSitemaps)
	if prodcrawl.ErrorCode(err) == prodcrawl.ENOTFOUND {
		return []string{}, nil
	} else if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(urls))
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	return unique, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and sitemapindex.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] || len(seen) >= maxSitemaps {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		var all []string
		for _, loc := range locs(root, "sitemap") {
			urls, err := s.processSitemap(ctx, loc, seen)
			if prodcrawl.ErrorCode(err) == prodcrawl.ENOTFOUND {
				continue
			} else if err != nil {
				return nil, err
			}
			all = append(all, urls...)
		}
		return all, nil
	}
	return locs(root, "url"), nil
}

// locs returns the trimmed <loc> text of every child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if err := checkStatus(resp.StatusCode, targetURL); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp.Body, nil
}
