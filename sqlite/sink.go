package sqlite

import (
	"context"

	"github.com/fwojciec/prodcrawl"
)

var _ prodcrawl.Sink = (*Sink)(nil)

// Sink stores emitted products under one run.
type Sink struct {
	runs  prodcrawl.RunService
	runID string
}

// NewSink returns a Sink writing to the run with the given ID.
func NewSink(runs prodcrawl.RunService, runID string) *Sink {
	return &Sink{runs: runs, runID: runID}
}

// RunID returns the ID of the run the sink writes to.
func (s *Sink) RunID() string {
	return s.runID
}

// Emit stores the product.
func (s *Sink) Emit(ctx context.Context, product *prodcrawl.Product) error {
	return s.runs.CreateProduct(ctx, s.runID, product)
}

// Complete marks the run completed.
func (s *Sink) Complete(ctx context.Context) error {
	return s.runs.FinishRun(ctx, s.runID, prodcrawl.RunCompleted)
}

// Finish records a run that ended without completing.
func (s *Sink) Finish(ctx context.Context, status prodcrawl.RunStatus) error {
	return s.runs.FinishRun(ctx, s.runID, status)
}
