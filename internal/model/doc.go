// Package model defines the data structures shared across the export
// pipeline: source documents, per-page transform results, and the aggregate
// export result consumed by the report writers.
//
// Design decision: Models live in a separate package rather than next to the
// code that produces them because:
//  1. They are shared between the crawler, pipeline, export, and report packages
//  2. Keeping them dependency-free avoids import cycles
//  3. It separates data from behavior, which keeps the transform passes testable
package model
