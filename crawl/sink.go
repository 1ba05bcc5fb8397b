package crawl

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/prodcrawl"
)

var (
	_ prodcrawl.Sink = (*ChanSink)(nil)
	_ prodcrawl.Sink = MultiSink(nil)
)

// ChanSink hands emitted products to another goroutine over a channel.
//
// The consumer ranges over Products. The producer side calls Close once the
// crawl has returned, whether or not it completed.
type ChanSink struct {
	ch        chan *prodcrawl.Product
	closeOnce sync.Once
	completed atomic.Bool
}

// NewChanSink creates a ChanSink with the given channel buffer size.
func NewChanSink(buffer int) *ChanSink {
	return &ChanSink{ch: make(chan *prodcrawl.Product, buffer)}
}

// Products returns the channel of emitted products. It is closed by Close.
func (s *ChanSink) Products() <-chan *prodcrawl.Product {
	return s.ch
}

// Emit sends the product to the consumer, blocking until it is received or
// ctx is done.
func (s *ChanSink) Emit(ctx context.Context, product *prodcrawl.Product) error {
	select {
	case s.ch <- product:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Complete records that the crawl finished on its own.
func (s *ChanSink) Complete(_ context.Context) error {
	s.completed.Store(true)
	return nil
}

// Completed reports whether Complete was called.
func (s *ChanSink) Completed() bool {
	return s.completed.Load()
}

// Close closes the products channel. It is safe to call more than once.
func (s *ChanSink) Close() {
	s.closeOnce.Do(func() { close(s.ch) })
}

// MultiSink forwards every call to each sink in order.
type MultiSink []prodcrawl.Sink

// Emit delivers the product to each sink, stopping at the first error.
func (m MultiSink) Emit(ctx context.Context, product *prodcrawl.Product) error {
	for _, s := range m {
		if err := s.Emit(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// Complete signals every sink and joins their errors.
func (m MultiSink) Complete(ctx context.Context) error {
	var errs []error
	for _, s := range m {
		if err := s.Complete(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
