// Package scanner orchestrates the indexing pipeline: for each configured
// root it walks the tree, detects project boundaries, aggregates metrics,
// and upserts results into the catalog.
//
// A directory is claimed the moment detection succeeds, and its subtree is
// pruned from further detection within that root's walk, so nested markers
// (vendored sub-projects, embedded examples) never register independently.
// Dry runs claim and count identically but log findings instead of writing.
package scanner
