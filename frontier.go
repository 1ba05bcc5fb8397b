package prodcrawl

// URLFrontier is the queue of targets waiting to be crawled.
type URLFrontier interface {
	// Push appends a target to the queue.
	// Returns false if a target with the same URL is already queued.
	Push(target Target) bool

	// Pop removes and returns the oldest target.
	// Returns false if the frontier is empty.
	Pop() (Target, bool)

	// Len returns the number of queued targets.
	Len() int
}

// VisitedSet records URLs fetched during one crawl run.
type VisitedSet interface {
	// Visit marks the URL as visited.
	// Returns false if it was already visited; the check and insert are atomic.
	Visit(url string) bool

	// Has returns true if the URL has been visited.
	Has(url string) bool

	// Len returns the number of visited URLs.
	Len() int
}
