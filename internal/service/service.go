// Package service exposes the scan/list/query command surface shared by
// the CLI and any GUI shell. Callers outside the pipeline go through this
// package only.
package service

import (
	"context"

	"github.com/dshills/projcat/internal/catalog"
	"github.com/dshills/projcat/internal/config"
	"github.com/dshills/projcat/internal/metrics"
	"github.com/dshills/projcat/internal/scanner"
	"github.com/dshills/projcat/pkg/types"
)

// Service binds a catalog store and configuration to the pipeline
// operations. The store handle is owned by the caller and scoped around
// each command invocation; Service never opens or closes it.
type Service struct {
	store  *catalog.Store
	cfg    *config.Config
	collab metrics.Collaborators
}

// New creates a Service. Collaborators default to no-ops when unset.
func New(store *catalog.Store, cfg *config.Config, collab metrics.Collaborators) *Service {
	return &Service{store: store, cfg: cfg, collab: collab.Normalize()}
}

// Scan indexes the configured roots, or the given override roots when
// non-empty, and returns the number of projects detected. With dryRun set
// the catalog is left untouched.
func (s *Service) Scan(ctx context.Context, roots []string, dryRun bool) (int, error) {
	cfg := *s.cfg
	if len(roots) > 0 {
		expanded := make([]string, len(roots))
		for i, r := range roots {
			expanded[i] = config.ExpandTilde(r)
		}
		cfg.Roots = expanded
	}
	return scanner.Scan(ctx, s.store, &cfg, s.collab, scanner.Options{DryRun: dryRun})
}

// List returns up to limit catalog records ordered by sortKey.
func (s *Service) List(ctx context.Context, sortKey types.SortKey, limit int) ([]types.ProjectRecord, error) {
	return s.store.ListProjects(ctx, sortKey, limit)
}

// Query returns one page of records matching search, with the total match
// count for pagination.
func (s *Service) Query(ctx context.Context, search string, sortKey types.SortKey, ascending bool, page, pageSize int) (types.ProjectPage, error) {
	totalCount, err := s.store.CountProjects(ctx, search)
	if err != nil {
		return types.ProjectPage{}, err
	}
	items, err := s.store.QueryProjects(ctx, search, sortKey, ascending, page, pageSize)
	if err != nil {
		return types.ProjectPage{}, err
	}
	return types.ProjectPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}, nil
}
