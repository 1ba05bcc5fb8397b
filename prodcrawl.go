// Package prodcrawl crawls a single web site from a seed URL and extracts
// structured product attributes (name, price, category, SKU, stock) from
// every visited page.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package prodcrawl
