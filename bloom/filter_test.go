package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/prodcrawl/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_VisitAndHas(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// URL not yet visited should return false
	assert.False(t, f.Has("https://example.com/page1"))

	assert.True(t, f.Visit("https://example.com/page1"))
	assert.True(t, f.Has("https://example.com/page1"))

	// Different URL should still return false
	assert.False(t, f.Has("https://example.com/page2"))
}

func TestFilter_VisitIsIdempotent(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	url := "https://example.com/page1"

	assert.True(t, f.Visit(url))
	countAfterFirst := f.EstimatedCount()

	// Visiting the same URL again should not change the filter
	assert.False(t, f.Visit(url))
	assert.False(t, f.Visit(url))

	assert.Equal(t, countAfterFirst, f.EstimatedCount())
	assert.Equal(t, 1, f.Len())
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// Empty filter should have count near 0
	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Visit("https://example.com/page1")
	f.Visit("https://example.com/page2")
	f.Visit("https://example.com/page3")

	// Estimated count should be approximately 3
	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
	assert.Equal(t, 3, f.Len())
}

func TestFilter_ConcurrentVisit(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Visit("https://example.com/a") {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Visit(fmt.Sprintf("https://example.com/added/%d", i))
	}

	// Test with 10k URLs that were NOT visited
	falsePositives := 0
	for i := range testProbes {
		url := fmt.Sprintf("https://example.com/notadded/%d", i)
		if f.Has(url) {
			falsePositives++
		}
	}

	// False positive rate should be approximately 1%
	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
