// Package transform implements the per-document HTML transformation passes:
// reference resolution, link humanization, image inlining, and sanitization.
//
// # Architecture
//
// Each pass is a function over a mutable goquery document tree plus a small
// context (the document's own ID, the source base URL). Passes communicate
// through the ProtectedIDs set: the reference resolver records which element
// IDs incoming links depend on, and the sanitizer preserves exactly those.
//
// Design decision: We operate on one shared tree per document rather than
// re-parsing between passes because:
//  1. Passes build on each other's rewrites (humanized links feed resolution)
//  2. Parsing is the most expensive step for large exports
//  3. A single tree gives a natural place to enforce the wrapper invariant
//
// # Concurrency
//
// goquery trees are not safe for concurrent mutation. Passes that fan out
// network calls (inlining, humanization) therefore collect targets first,
// fetch concurrently under an errgroup limit, and apply all mutations
// sequentially afterwards. A pass returns only when its fan-out has fully
// completed, so the aggregate result is deterministic even though the fetch
// interleaving is not.
package transform
