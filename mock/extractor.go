package mock

import "github.com/fwojciec/prodcrawl"

var _ prodcrawl.ProductExtractor = (*ProductExtractor)(nil)

// ProductExtractor is a mock implementation of prodcrawl.ProductExtractor.
type ProductExtractor struct {
	ExtractFn func(html, url string) (*prodcrawl.Product, error)
}

func (e *ProductExtractor) Extract(html, url string) (*prodcrawl.Product, error) {
	return e.ExtractFn(html, url)
}

var _ prodcrawl.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer is a mock implementation of prodcrawl.LinkDiscoverer.
type LinkDiscoverer struct {
	DiscoverLinksFn func(html, origin string) ([]string, error)
}

func (d *LinkDiscoverer) DiscoverLinks(html, origin string) ([]string, error) {
	return d.DiscoverLinksFn(html, origin)
}
