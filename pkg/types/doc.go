// Package types defines the shared domain types for the project catalog:
// ecosystem classification, sort keys, and the record/page shapes returned
// by the query surface.
//
// These types are intentionally dependency-free so that both the indexing
// pipeline and external callers (CLI, GUI shells) can share them.
package types
