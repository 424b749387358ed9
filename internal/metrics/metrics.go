// Package metrics aggregates lightweight per-project measurements: total
// byte size, file count, and most recent modification time, optionally
// enriched by injectable line-counting and VCS collaborators.
package metrics

import (
	"io/fs"

	"github.com/dshills/projcat/internal/config"
	"github.com/dshills/projcat/internal/walker"
	"github.com/dshills/projcat/pkg/types"
)

// Summary holds the walk-derived metrics for one project. Nil fields mean
// the value is absent by policy (size) or undeterminable (lastEdited when
// the project has no files). FilesCount is always present.
type Summary struct {
	SizeBytes    *int64
	FilesCount   *int64
	LastEditedAt *int64
}

// LineCounter is the optional line-counting collaborator. Absence (the
// no-op implementation) leaves every loc field null; it is never required
// for correctness of the core metrics.
type LineCounter interface {
	Count(dir string) (total int64, breakdown []types.LanguageCount, err error)
}

// RepoReader is the optional VCS metadata collaborator. It resolves the
// nearest enclosing repository, which need not be rooted at dir.
type RepoReader interface {
	Read(dir string) types.VCSInfo
}

// Collaborators bundles the optional enrichment capabilities. Zero-value
// fields are replaced by no-ops, preserving absent-field behavior without
// build variants.
type Collaborators struct {
	LOC LineCounter
	VCS RepoReader
}

// NopLineCounter reports no line counts.
type NopLineCounter struct{}

func (NopLineCounter) Count(string) (int64, []types.LanguageCount, error) {
	return 0, nil, nil
}

// NopRepoReader reports no repository metadata.
type NopRepoReader struct{}

func (NopRepoReader) Read(string) types.VCSInfo { return types.VCSInfo{} }

// Normalize fills missing collaborators with no-ops.
func (c Collaborators) Normalize() Collaborators {
	if c.LOC == nil {
		c.LOC = NopLineCounter{}
	}
	if c.VCS == nil {
		c.VCS = NopRepoReader{}
	}
	return c
}

// Aggregate walks the project subtree with the same ignore layering as
// discovery, summing file sizes and counting files while tracking the
// maximum modification time. Individual stat failures are tolerated: the
// file simply does not contribute. Size is computed only under the exact
// size mode.
func Aggregate(w *walker.Walker, dir string, mode config.SizeMode) Summary {
	var (
		totalSize   int64
		filesCount  int64
		latestMtime int64
	)

	_ = w.Walk(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		filesCount++
		totalSize += info.Size()
		if mtime := info.ModTime().Unix(); mtime > latestMtime {
			latestMtime = mtime
		}
		return nil
	})

	s := Summary{FilesCount: &filesCount}
	if mode == config.SizeModeExact {
		s.SizeBytes = &totalSize
	}
	if latestMtime > 0 {
		s.LastEditedAt = &latestMtime
	}
	return s
}

// SupersedeLastEdited replaces the walk-derived last-edited time with the
// repository's last commit time when the commit is more recent. Commit time
// is the stronger recency signal.
func (s *Summary) SupersedeLastEdited(info types.VCSInfo) {
	if info.LastCommitAt == nil {
		return
	}
	if s.LastEditedAt == nil || *info.LastCommitAt > *s.LastEditedAt {
		s.LastEditedAt = info.LastCommitAt
	}
}
