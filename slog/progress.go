package slog

import (
	"log/slog"

	"github.com/fwojciec/prodcrawl/crawl"
)

// maxURLLen bounds URLs in progress records; longer ones keep their end.
const maxURLLen = 120

// ProgressLogger returns a crawl.ProgressFunc that logs every event.
// Visits are logged at debug level, retries and failures at warn level.
func ProgressLogger(logger *slog.Logger) crawl.ProgressFunc {
	return func(e crawl.ProgressEvent) {
		url := crawl.TruncateURL(e.URL, maxURLLen)
		switch e.Type {
		case crawl.ProgressVisited:
			logger.Debug("visit", "url", url, "depth", e.Depth, "visited", e.Visited, "queued", e.Queued)
		case crawl.ProgressEmitted:
			logger.Debug("product", "url", url, "product_name", e.Product.Name)
		case crawl.ProgressRetrying:
			logger.Warn("retry", "url", url, "attempt", e.Attempt, "err", e.Error)
		case crawl.ProgressFailed:
			logger.Warn("page failed", "url", url, "depth", e.Depth, "err", e.Error)
		case crawl.ProgressFinished:
			logger.Info("crawl finished", "visited", e.Visited, "queued", e.Queued)
		}
	}
}
