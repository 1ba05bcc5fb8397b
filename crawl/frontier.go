package crawl

import (
	"sync"

	"github.com/fwojciec/prodcrawl"
)

// Compile-time interface verification.
var (
	_ prodcrawl.URLFrontier = (*Frontier)(nil)
	_ prodcrawl.VisitedSet  = (*VisitedSet)(nil)
)

// Frontier is an in-memory FIFO queue of crawl targets.
// A URL already waiting in the queue is not queued a second time.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu     sync.Mutex
	queue  []prodcrawl.Target
	head   int
	queued map[string]struct{}
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{queued: make(map[string]struct{})}
}

// Push appends a target to the tail of the queue.
// Returns false if a target with the same URL is already queued.
func (f *Frontier) Push(target prodcrawl.Target) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.queued[target.URL]; ok {
		return false
	}
	f.queued[target.URL] = struct{}{}
	f.queue = append(f.queue, target)
	return true
}

// Pop removes and returns the oldest target.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (prodcrawl.Target, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.head == len(f.queue) {
		return prodcrawl.Target{}, false
	}
	target := f.queue[f.head]
	f.queue[f.head] = prodcrawl.Target{}
	f.head++
	delete(f.queued, target.URL)

	// Reclaim the consumed prefix once it dominates the slice.
	if f.head >= 64 && f.head*2 >= len(f.queue) {
		n := copy(f.queue, f.queue[f.head:])
		f.queue = f.queue[:n]
		f.head = 0
	}
	return target, true
}

// Len returns the number of queued targets.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) - f.head
}

// VisitedSet is an exact in-memory set of visited URLs.
// It is safe for concurrent use by multiple goroutines.
type VisitedSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewVisitedSet creates an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{urls: make(map[string]struct{})}
}

// Visit marks url as visited. Returns false if it was already visited.
func (s *VisitedSet) Visit(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}

// Has returns true if url has been visited.
func (s *VisitedSet) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.urls[url]
	return ok
}

// Len returns the number of visited URLs.
func (s *VisitedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}
