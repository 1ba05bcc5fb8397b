package mock

import "github.com/fwojciec/prodcrawl"

var _ prodcrawl.VisitedSet = (*VisitedSet)(nil)

// VisitedSet is a mock implementation of prodcrawl.VisitedSet.
type VisitedSet struct {
	VisitFn func(url string) bool
	HasFn   func(url string) bool
	LenFn   func() int
}

func (s *VisitedSet) Visit(url string) bool {
	return s.VisitFn(url)
}

func (s *VisitedSet) Has(url string) bool {
	return s.HasFn(url)
}

func (s *VisitedSet) Len() int {
	return s.LenFn()
}
