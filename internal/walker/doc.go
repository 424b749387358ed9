// Package walker implements the ignore-aware directory traversal used by
// both project discovery and metrics aggregation.
//
// Ignore sources, each independently optional, combine by logical OR:
//
//   - hidden entries (leading dot)
//   - global ignore names from configuration, matched against directory
//     names only (glob patterns allowed)
//   - supplementary ignore files (app-level and legacy), gitignore grammar
//   - .gitignore files found along the descent, scoped to their directory
//
// Exclusion prunes descent: an ignored directory's subtree is never read,
// bounding cost on large dependency and build trees. Unreadable entries are
// logged as warnings and skipped so one bad subtree cannot abort a scan.
package walker
