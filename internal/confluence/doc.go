// Package confluence provides the read-only client for the source wiki.
//
// # Architecture
//
// The Client wraps the source system's authenticated JSON API and exposes
// exactly the three operations the pipeline needs: fetching a page with its
// exported HTML, fetching just a title, and fetching binary assets.
//
// # Caching
//
// Page and title lookups are memoized per ID for the lifetime of the client,
// and concurrent lookups for the same ID are coalesced into one underlying
// request via singleflight. The caches are append-only; a cached document is
// never mutated or evicted.
//
// # Failure model
//
// Transient transport failures (connect timeout, socket reset, DNS failure)
// are retried with exponential backoff up to a configurable attempt cap.
// Non-2xx responses are never retried; they surface immediately as a
// *StatusError carrying the status code and a truncated body excerpt.
package confluence
