package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/prodcrawl"
	"github.com/fwojciec/prodcrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink(t *testing.T) {
	t.Parallel()

	t.Run("stores products and completes the run", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		svc := sqlite.NewRunService(setupTestDB(t))
		run := createRun(t, svc, "https://shop.example/")
		sink := sqlite.NewSink(svc, run.ID)

		require.NoError(t, sink.Emit(ctx, &prodcrawl.Product{URL: "https://shop.example/a", Name: "A"}))
		require.NoError(t, sink.Complete(ctx))

		runs, err := svc.FindRuns(ctx, prodcrawl.RunFilter{ID: &run.ID})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, prodcrawl.RunCompleted, runs[0].Status)
		assert.Equal(t, 1, runs[0].Products)
		assert.Equal(t, run.ID, sink.RunID())
	})

	t.Run("finish records a stopped run", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		svc := sqlite.NewRunService(setupTestDB(t))
		run := createRun(t, svc, "https://shop.example/")
		sink := sqlite.NewSink(svc, run.ID)

		require.NoError(t, sink.Finish(ctx, prodcrawl.RunStopped))

		runs, err := svc.FindRuns(ctx, prodcrawl.RunFilter{ID: &run.ID})
		require.NoError(t, err)
		assert.Equal(t, prodcrawl.RunStopped, runs[0].Status)
	})
}
