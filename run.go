package prodcrawl

import (
	"context"
	"time"
)

// RunStatus describes how a crawl run ended.
type RunStatus string

// Run statuses.
const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunStopped   RunStatus = "stopped"
	RunFailed    RunStatus = "failed"
)

// Run is the stored metadata of one crawl run.
type Run struct {
	ID         string    `json:"id"`
	SeedURL    string    `json:"seedUrl"`
	MaxDepth   int       `json:"maxDepth"`
	Status     RunStatus `json:"status"`
	Products   int       `json:"products"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SeedURL == "" {
		return Errorf(EINVALID, "run seed URL required")
	}
	if r.MaxDepth < 0 {
		return Errorf(EINVALID, "run max depth must not be negative")
	}
	return nil
}

// RunService manages stored crawl runs and their products.
type RunService interface {
	// CreateRun stores a new run in the running state.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun records the final status of a run.
	// Returns ENOTFOUND if the run does not exist and ECONFLICT if it has
	// already finished.
	FinishRun(ctx context.Context, id string, status RunStatus) error

	// FindRuns returns runs, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// CreateProduct stores a product for a run.
	CreateProduct(ctx context.Context, runID string, product *Product) error

	// FindProducts returns the products of a run in emit order.
	// Returns ENOTFOUND if the run does not exist.
	FindProducts(ctx context.Context, runID string) ([]*Product, error)

	// FindChangedProducts returns the products of runID that have no
	// identical record (same URL and field values) in sinceRunID.
	// Returns ENOTFOUND if either run does not exist.
	FindChangedProducts(ctx context.Context, runID, sinceRunID string) ([]*Product, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID *string `json:"id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
