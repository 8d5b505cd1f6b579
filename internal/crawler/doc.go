// Package crawler drives the breadth-first export crawl.
//
// # Architecture
//
// The Exporter maintains a FIFO frontier of (pageID, depth, originURL) items
// seeded with the root page at depth 0. Each dequeued page runs the full
// per-document pipeline exactly once; newly discovered linked pages enter
// the frontier at depth+1 while that stays within the configured bound.
//
// # Invariants
//
//   - Each page ID is processed at most once: the first discovery wins even
//     when the same page is reachable over multiple paths.
//   - Crawl order across documents is strictly frontier order, so the visit
//     sequence is deterministic given deterministic link discovery.
//   - A document-level failure (fetch error, empty export) aborts the whole
//     run; there is no partial continuation past a failed document.
package crawler
