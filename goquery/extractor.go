// Package goquery implements product extraction and link discovery on top
// of github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/prodcrawl"
)

var _ prodcrawl.ProductExtractor = (*Extractor)(nil)

// Extractor extracts product fields using prioritized CSS selector chains.
type Extractor struct {
	rules prodcrawl.SelectorRules
}

// NewExtractor creates an Extractor for the given rules.
// The rules are copied; later changes by the caller have no effect.
func NewExtractor(rules prodcrawl.SelectorRules) *Extractor {
	return &Extractor{rules: rules.Clone()}
}

// Extract parses html and fills each field from the first element matched
// by its selector chain. Selectors are tried in order; the first selector
// that matches anything wins, even if the element's text is empty.
func (e *Extractor) Extract(html string, url string) (*prodcrawl.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	product := &prodcrawl.Product{URL: url}
	for _, field := range prodcrawl.Fields {
		for _, selector := range e.rules[field] {
			sel := doc.Find(selector).First()
			if sel.Length() == 0 {
				continue
			}
			product.Set(field, normalizeText(sel.Text()))
			break
		}
	}
	return product, nil
}

// normalizeText collapses runs of whitespace and trims the ends.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ValidateRules checks that every selector compiles.
func ValidateRules(rules prodcrawl.SelectorRules) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	for field, chain := range rules {
		for _, selector := range chain {
			if _, err := cascadia.Compile(selector); err != nil {
				return prodcrawl.Errorf(prodcrawl.EINVALID, "invalid selector %q for field %q: %v", selector, field, err)
			}
		}
	}
	return nil
}
