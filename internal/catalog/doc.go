// Package catalog provides SQLite-based persistence for the project index.
//
// The catalog manages:
//   - projects: one row per detected project, keyed by absolute path
//   - metrics: byte size, file count, last-edit time, total lines of code
//   - vcs_info: last commit time, branch, remote URL
//   - loc_lang: per-language code-line breakdown
//
// Upserts are idempotent: re-indexing a path updates its row in place and
// returns the same identifier. Metric and VCS rows are replaced wholesale
// on every scan; there is no historical retention and no field-level merge.
//
// Listing and querying join projects with metrics; sorting on a nullable
// metric column always places null rows last, in both directions, via a
// CASE prefix (SQLite has no NULLS LAST).
//
// # Build Tags
//
// Two driver configurations, selected the same way for every build:
//
// Pure Go (default):
//
//   - Uses modernc.org/sqlite
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build ./...
//
// CGO (cgo_sqlite tag):
//
//   - Uses github.com/mattn/go-sqlite3
//
//     CGO_ENABLED=1 go build -tags "cgo_sqlite" ./...
package catalog
