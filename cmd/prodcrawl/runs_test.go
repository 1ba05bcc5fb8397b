package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/prodcrawl"
	main "github.com/fwojciec/prodcrawl/cmd/prodcrawl"
	"github.com/fwojciec/prodcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with ID, status, and seed", func(t *testing.T) {
		t.Parallel()

		var gotFilter prodcrawl.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, filter prodcrawl.RunFilter) ([]*prodcrawl.Run, error) {
				gotFilter = filter
				return []*prodcrawl.Run{
					{
						ID:        "run-2",
						SeedURL:   "https://shop.example/",
						MaxDepth:  3,
						Status:    prodcrawl.RunStopped,
						Products:  4,
						StartedAt: time.Date(2025, 1, 16, 11, 0, 0, 0, time.UTC),
					},
					{
						ID:        "run-1",
						SeedURL:   "https://store.example/",
						MaxDepth:  1,
						Status:    prodcrawl.RunCompleted,
						Products:  12,
						StartedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Runs:   runs,
		}

		err := (&main.RunsCmd{Limit: 5}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 5, gotFilter.Limit)

		output := stdout.String()
		assert.Contains(t, output, "run-2")
		assert.Contains(t, output, "stopped")
		assert.Contains(t, output, "https://shop.example/")
		assert.Contains(t, output, "12 products")
		assert.Less(t, bytes.Index(stdout.Bytes(), []byte("run-2")), bytes.Index(stdout.Bytes(), []byte("run-1")))
		assert.Empty(t, stderr.String())
	})

	t.Run("shows message when no runs exist", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, _ prodcrawl.RunFilter) ([]*prodcrawl.Run, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		err := (&main.RunsCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No runs found")
	})

	t.Run("returns error when lookup fails", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, _ prodcrawl.RunFilter) ([]*prodcrawl.Run, error) {
				return nil, errors.New("disk I/O error")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Runs:   runs,
		}

		err := (&main.RunsCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}
