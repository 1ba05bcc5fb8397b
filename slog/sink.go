package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prodcrawl"
)

var _ prodcrawl.Sink = (*LoggingSink)(nil)

// LoggingSink wraps a Sink with logging.
type LoggingSink struct {
	next   prodcrawl.Sink
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink.
func NewLoggingSink(next prodcrawl.Sink, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, logger: logger}
}

// Emit delegates to the wrapped sink and logs the product.
func (s *LoggingSink) Emit(ctx context.Context, product *prodcrawl.Product) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("emit",
			"url", product.URL,
			"product_name", product.Name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Emit(ctx, product)
}

// Complete delegates to the wrapped sink and logs the call.
func (s *LoggingSink) Complete(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("complete",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Complete(ctx)
}
