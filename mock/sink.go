package mock

import (
	"context"

	"github.com/fwojciec/prodcrawl"
)

var _ prodcrawl.Sink = (*Sink)(nil)

// Sink is a mock implementation of prodcrawl.Sink.
type Sink struct {
	EmitFn     func(ctx context.Context, product *prodcrawl.Product) error
	CompleteFn func(ctx context.Context) error
}

func (s *Sink) Emit(ctx context.Context, product *prodcrawl.Product) error {
	return s.EmitFn(ctx, product)
}

func (s *Sink) Complete(ctx context.Context) error {
	return s.CompleteFn(ctx)
}
