// Package main provides the entry point for the confport CLI.
//
// confport exports pages from a Confluence wiki, rewrites their
// cross-references, inlines images, sanitizes the markup, and writes the
// result to disk or publishes it to a BookStack instance.
//
// Usage:
//
//	confport export <page-url-or-id>
//	confport export --recurse --depth 2 <page-url-or-id>
//
// See --help for all available options.
package main

// main is the entry point for confport.
func main() {
	Execute()
}
