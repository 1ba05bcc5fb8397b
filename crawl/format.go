package crawl

import (
	"fmt"
	"time"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatSummary renders a one-line summary of a finished run.
func FormatSummary(r *Result, elapsed time.Duration) string {
	state := "completed"
	if r.Stopped {
		state = "stopped"
	}
	return fmt.Sprintf("%s: %d pages visited, %d products, %d failed in %s",
		state, r.Visited, r.Emitted, r.Failed, elapsed.Round(time.Millisecond))
}
