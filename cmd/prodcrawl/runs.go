package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/prodcrawl"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, prodcrawl.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'prodcrawl crawl --db' to record one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %-9s  %s  %4d products  depth %d  %s\n",
			r.ID, r.Status, r.StartedAt.Local().Format(time.DateTime), r.Products, r.MaxDepth, r.SeedURL)
	}

	return nil
}
