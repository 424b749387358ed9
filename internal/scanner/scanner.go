package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/projcat/internal/catalog"
	"github.com/dshills/projcat/internal/config"
	"github.com/dshills/projcat/internal/detect"
	"github.com/dshills/projcat/internal/metrics"
	"github.com/dshills/projcat/internal/walker"
)

// Options controls a single scan invocation.
type Options struct {
	// DryRun performs detection and metrics and logs findings without
	// touching the catalog.
	DryRun bool

	// IgnoreFiles overrides the supplementary ignore file locations.
	// Nil means the well-known app and legacy paths.
	IgnoreFiles []string
}

// Scan walks every configured root, detects projects, aggregates their
// metrics, and upserts them into the catalog. Roots fan out across workers
// bounded by the configured concurrency; each root keeps its own claim
// scope, so no two workers ever process the same subtree. Returns the total
// number of projects detected (dry runs included). A missing root is a
// warning, not an error; a catalog write failure aborts the scan, leaving
// earlier writes committed.
func Scan(ctx context.Context, store *catalog.Store, cfg *config.Config, collab metrics.Collaborators, opts Options) (int, error) {
	collab = collab.Normalize()

	ignoreFiles := opts.IgnoreFiles
	if ignoreFiles == nil {
		ignoreFiles = DefaultIgnoreFiles()
	}
	w := walker.New(cfg.GlobalIgnores, ignoreFiles...)

	workers := cfg.Concurrency
	if workers <= 0 {
		workers = 1
	}

	var total atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, root := range cfg.Roots {
		root := root
		g.Go(func() error {
			n, err := scanRoot(gctx, store, w, cfg, collab, opts, root)
			total.Add(int64(n))
			return err
		})
	}

	err := g.Wait()
	return int(total.Load()), err
}

// scanRoot runs the pipeline over one root: walk, claim-prune, detect,
// aggregate, upsert.
func scanRoot(ctx context.Context, store *catalog.Store, w *walker.Walker, cfg *config.Config, collab metrics.Collaborators, opts Options, root string) (int, error) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		logrus.WithField("root", root).Warn("root does not exist; skipping")
		return 0, nil
	}

	// Directories claimed by earlier detections in this root's walk.
	// Each root is an independent claim scope.
	var claimed []string
	count := 0

	err := w.Walk(root, func(path string, d fs.DirEntry, _ error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if underClaimed(claimed, path) {
			return fs.SkipDir
		}

		projectType, ok := detect.Detect(path)
		if !ok {
			return nil
		}

		// Claimed on detection, before any persistence decision, so dry
		// runs prune identically to real scans.
		claimed = append(claimed, path)
		count++

		name := filepath.Base(path)
		isVCS := detect.IsVersionControlled(path)

		summary := metrics.Aggregate(w, path, cfg.SizeMode)

		var locTotal *int64
		total, langs, locErr := collab.LOC.Count(path)
		if locErr != nil {
			logrus.WithError(locErr).WithField("path", path).Warn("line count failed")
		} else if langs != nil {
			locTotal = &total
		}

		vcsInfo := collab.VCS.Read(path)
		summary.SupersedeLastEdited(vcsInfo)

		if opts.DryRun {
			logrus.WithFields(logrus.Fields{
				"name":        name,
				"path":        path,
				"type":        projectType.String(),
				"git":         isVCS,
				"size":        derefOr(summary.SizeBytes),
				"files":       derefOr(summary.FilesCount),
				"last_edited": derefOr(summary.LastEditedAt),
			}).Info("found project")
			return fs.SkipDir
		}

		typeStr := projectType.String()
		id, err := store.UpsertProject(ctx, name, path, &typeStr, isVCS)
		if err != nil {
			return fmt.Errorf("failed to upsert project %s: %w", path, err)
		}
		if err := store.UpsertMetrics(ctx, id, summary.SizeBytes, summary.FilesCount, summary.LastEditedAt, locTotal); err != nil {
			return fmt.Errorf("failed to upsert metrics for %s: %w", path, err)
		}
		// Wholesale, like metrics: a repository whose metadata became
		// unobtainable clears its previous row. Only the no-op reader skips
		// the write, so catalogs built without the capability carry no
		// all-null rows.
		if _, nop := collab.VCS.(metrics.NopRepoReader); !nop {
			if err := store.UpsertVCSInfo(ctx, id, vcsInfo); err != nil {
				return fmt.Errorf("failed to upsert vcs info for %s: %w", path, err)
			}
		}
		if langs != nil {
			if err := store.ReplaceLanguageBreakdown(ctx, id, langs); err != nil {
				return fmt.Errorf("failed to replace language breakdown for %s: %w", path, err)
			}
		}

		return fs.SkipDir
	})
	return count, err
}

func underClaimed(claimed []string, path string) bool {
	for _, root := range claimed {
		if path == root || strings.HasPrefix(path, root+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

// DefaultIgnoreFiles returns the well-known supplementary ignore file
// locations (app-level, then legacy). Callers building walkers that must
// see the same tree as a scan use the same set.
func DefaultIgnoreFiles() []string {
	var files []string
	if app, err := config.AppIgnorePath(); err == nil {
		files = append(files, app)
	}
	files = append(files, config.LegacyIgnorePath())
	return files
}

func derefOr(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
