package prodcrawl

// ProductExtractor pulls product attributes out of a page.
type ProductExtractor interface {
	// Extract applies each field's selector chain to the document and
	// returns the record for url. Missing attributes are left empty; an
	// error is returned only when the document cannot be parsed at all.
	Extract(html string, url string) (*Product, error)
}

// LinkDiscoverer finds crawlable links in a page.
type LinkDiscoverer interface {
	// DiscoverLinks returns the unique, normalized, in-scope URLs linked
	// from the document, resolved against the crawl origin.
	DiscoverLinks(html string, origin string) ([]string, error)
}
