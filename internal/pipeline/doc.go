// Package pipeline runs the per-document transform steps in sequence.
//
// Each visited page flows through the same ordered steps: image inlining,
// link humanization, reference resolution, linked-ID collection, and
// sanitization. Steps share state through the Page value: the mutable
// document tree, the protected-ID set handed from the resolver to the
// sanitizer, and the accumulating PageResult.
//
// Design decision: We use a step interface instead of direct function calls
// because:
// 1. Steps carry their own configuration (concurrency bounds, size caps)
// 2. A Name() method gives consistent structured logging per step
// 3. Optional steps (inlining can be disabled) drop out without special cases
package pipeline
