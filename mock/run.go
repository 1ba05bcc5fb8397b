package mock

import (
	"context"

	"github.com/fwojciec/prodcrawl"
)

var _ prodcrawl.RunService = (*RunService)(nil)

// RunService is a mock implementation of prodcrawl.RunService.
type RunService struct {
	CreateRunFn           func(ctx context.Context, run *prodcrawl.Run) error
	FinishRunFn           func(ctx context.Context, id string, status prodcrawl.RunStatus) error
	FindRunsFn            func(ctx context.Context, filter prodcrawl.RunFilter) ([]*prodcrawl.Run, error)
	CreateProductFn       func(ctx context.Context, runID string, product *prodcrawl.Product) error
	FindProductsFn        func(ctx context.Context, runID string) ([]*prodcrawl.Product, error)
	FindChangedProductsFn func(ctx context.Context, runID, sinceRunID string) ([]*prodcrawl.Product, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *prodcrawl.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, id string, status prodcrawl.RunStatus) error {
	return s.FinishRunFn(ctx, id, status)
}

func (s *RunService) FindRuns(ctx context.Context, filter prodcrawl.RunFilter) ([]*prodcrawl.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) CreateProduct(ctx context.Context, runID string, product *prodcrawl.Product) error {
	return s.CreateProductFn(ctx, runID, product)
}

func (s *RunService) FindProducts(ctx context.Context, runID string) ([]*prodcrawl.Product, error) {
	return s.FindProductsFn(ctx, runID)
}

func (s *RunService) FindChangedProducts(ctx context.Context, runID, sinceRunID string) ([]*prodcrawl.Product, error) {
	return s.FindChangedProductsFn(ctx, runID, sinceRunID)
}
