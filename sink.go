package prodcrawl

import "context"

// Sink is the output port of a crawl. The crawler calls Emit from its own
// goroutine; implementations handle any handoff to other goroutines.
type Sink interface {
	// Emit delivers one product record.
	Emit(ctx context.Context, product *Product) error

	// Complete is called once when the crawl ran out of work on its own.
	// It is not called when the crawl was stopped or canceled.
	Complete(ctx context.Context) error
}
