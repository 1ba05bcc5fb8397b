package prodcrawl

import "context"

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the page URLs listed in the site's sitemap.
	// Sitemap indexes are resolved recursively. A site without a sitemap
	// yields an empty slice and no error.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
