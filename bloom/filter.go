// Package bloom provides a fixed-memory visited set backed by a Bloom filter.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/prodcrawl"
)

// Default sizing used when the crawl does not specify one.
const (
	DefaultExpectedURLs      = 100000
	DefaultFalsePositiveRate = 0.001
)

var _ prodcrawl.VisitedSet = (*Filter)(nil)

// Filter is an approximate visited set. A false positive reports an unseen
// URL as visited, so the crawler skips it; a visited URL is never reported
// as unseen. It is safe for concurrent use.
type Filter struct {
	mu    sync.Mutex
	f     *bloom.BloomFilter
	count int
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Visit marks the URL as visited. Returns false if the filter reports it
// as already present.
func (f *Filter) Visit(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.f.TestAndAddString(url) {
		return false
	}
	f.count++
	return true
}

// Has returns true if the URL might have been visited.
func (f *Filter) Has(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(url)
}

// Len returns the number of successful Visit calls.
func (f *Filter) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}
