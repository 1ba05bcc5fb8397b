package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/prodcrawl"
	"github.com/fwojciec/prodcrawl/mock"
	prodslog "github.com/fwojciec/prodcrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSink(t *testing.T) {
	t.Parallel()

	t.Run("logs emit and delegates", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var got *prodcrawl.Product
		inner := &mock.Sink{
			EmitFn: func(_ context.Context, p *prodcrawl.Product) error {
				got = p
				return nil
			},
		}

		sink := prodslog.NewLoggingSink(inner, newLogger(&buf, slog.LevelDebug))
		p := &prodcrawl.Product{URL: "https://shop.example/p/1", Name: "Widget"}
		require.NoError(t, sink.Emit(context.Background(), p))

		assert.Same(t, p, got)
		output := buf.String()
		assert.Contains(t, output, "msg=emit")
		assert.Contains(t, output, "url=https://shop.example/p/1")
		assert.Contains(t, output, "product_name=Widget")
	})

	t.Run("logs complete errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Sink{
			CompleteFn: func(_ context.Context) error {
				return errors.New("sync failed")
			},
		}

		sink := prodslog.NewLoggingSink(inner, newLogger(&buf, slog.LevelInfo))
		err := sink.Complete(context.Background())

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "msg=complete")
		assert.Contains(t, output, "err=\"sync failed\"")
	})
}
