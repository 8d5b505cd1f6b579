// Package report renders crawl summaries in text, JSON, and Markdown.
//
// The summary is derived from the aggregate ExportResult: pages visited,
// links rewritten, asset counters, and per-page detail rows. Text targets
// terminals, JSON targets tool integration, and Markdown targets
// documentation and sharing.
package report
