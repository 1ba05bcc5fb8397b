package main

import (
	"fmt"

	"github.com/fwojciec/prodcrawl"
)

// Run executes the products command.
func (c *ProductsCmd) Run(deps *Dependencies) error {
	var products []*prodcrawl.Product
	var err error
	if c.ChangedSince != "" {
		products, err = deps.Runs.FindChangedProducts(deps.Ctx, c.RunID, c.ChangedSince)
	} else {
		products, err = deps.Runs.FindProducts(deps.Ctx, c.RunID)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
		return err
	}

	if len(products) == 0 {
		if c.ChangedSince != "" {
			fmt.Fprintf(deps.Stderr, "Run %s has no changes since run %s.\n", c.RunID, c.ChangedSince)
		} else {
			fmt.Fprintf(deps.Stderr, "Run %s has no products.\n", c.RunID)
		}
		return nil
	}

	printRow(deps.Stdout, prodcrawl.Columns())
	for _, p := range products {
		printRow(deps.Stdout, p.Values())
	}

	return nil
}
