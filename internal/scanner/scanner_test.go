package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/projcat/internal/catalog"
	"github.com/dshills/projcat/internal/config"
	"github.com/dshills/projcat/internal/metrics"
	"github.com/dshills/projcat/pkg/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(roots ...string) *config.Config {
	cfg := config.Default()
	cfg.Roots = roots
	return cfg
}

// Empty, non-nil, so tests never pick up the developer's real ignore files.
var noIgnoreFiles = Options{IgnoreFiles: []string{}}

func openTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestScan_DetectsAndPersists(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "my-node", "package.json"), "{}")
	writeFile(t, filepath.Join(root, "my-node", "index.js"), "console.log(1)\n")
	writeFile(t, filepath.Join(root, "notes", "README.md"), "plain dir\n")

	store := openTestStore(t)
	ctx := context.Background()

	n, err := Scan(ctx, store, testConfig(root), metrics.Collaborators{}, noIgnoreFiles)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec, err := store.GetProjectByPath(ctx, filepath.Join(root, "my-node"))
	require.NoError(t, err)
	assert.Equal(t, "my-node", rec.Name)
	require.NotNil(t, rec.Type)
	assert.Equal(t, "node", *rec.Type)
	assert.False(t, rec.IsVCS)
	require.NotNil(t, rec.SizeBytes)
	assert.Greater(t, *rec.SizeBytes, int64(0))
	require.NotNil(t, rec.FilesCount)
	assert.Equal(t, int64(2), *rec.FilesCount)
	require.NotNil(t, rec.LastEditedAt)
	// No line counter wired, so loc stays unknown.
	assert.Nil(t, rec.LOC)
}

func TestScan_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc", "go.mod"), "module svc\n")

	store := openTestStore(t)
	ctx := context.Background()

	n, err := Scan(ctx, store, testConfig(root), metrics.Collaborators{},
		Options{DryRun: true, IgnoreFiles: []string{}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := store.CountProjects(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestScan_ClaimPrunesNestedProjects(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tool", "Cargo.toml"), "[package]\n")
	// A nested manifest under a claimed project must not become its own row.
	writeFile(t, filepath.Join(root, "tool", "web", "package.json"), "{}")

	store := openTestStore(t)
	ctx := context.Background()

	n, err := Scan(ctx, store, testConfig(root), metrics.Collaborators{}, noIgnoreFiles)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec, err := store.GetProjectByPath(ctx, filepath.Join(root, "tool"))
	require.NoError(t, err)
	require.NotNil(t, rec.Type)
	assert.Equal(t, "rust", *rec.Type)

	// The nested claimed file still counts toward the parent's metrics.
	require.NotNil(t, rec.FilesCount)
	assert.Equal(t, int64(2), *rec.FilesCount)

	_, err = store.GetProjectByPath(ctx, filepath.Join(root, "tool", "web"))
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestScan_SiblingProjectsBothDetected(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "api", "go.mod"), "module api\n")
	writeFile(t, filepath.Join(root, "web", "package.json"), "{}")

	store := openTestStore(t)

	n, err := Scan(context.Background(), store, testConfig(root), metrics.Collaborators{}, noIgnoreFiles)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestScan_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc", "go.mod"), "module svc\n")

	store := openTestStore(t)
	ctx := context.Background()
	cfg := testConfig(root)

	_, err := Scan(ctx, store, cfg, metrics.Collaborators{}, noIgnoreFiles)
	require.NoError(t, err)
	_, err = Scan(ctx, store, cfg, metrics.Collaborators{}, noIgnoreFiles)
	require.NoError(t, err)

	count, err := store.CountProjects(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestScan_MissingRootIsTolerated(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc", "go.mod"), "module svc\n")

	store := openTestStore(t)
	cfg := testConfig(filepath.Join(root, "does-not-exist"), root)

	n, err := Scan(context.Background(), store, cfg, metrics.Collaborators{}, noIgnoreFiles)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestScan_MultipleRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeFile(t, filepath.Join(rootA, "svc", "go.mod"), "module svc\n")
	writeFile(t, filepath.Join(rootB, "app", "package.json"), "{}")

	store := openTestStore(t)
	cfg := testConfig(rootA, rootB)
	cfg.Concurrency = 2

	n, err := Scan(context.Background(), store, cfg, metrics.Collaborators{}, noIgnoreFiles)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestScan_GlobalIgnoresHideProjects(t *testing.T) {
	root := t.TempDir()
	// A vendored project under node_modules is infrastructure, not a project.
	writeFile(t, filepath.Join(root, "app", "package.json"), "{}")
	writeFile(t, filepath.Join(root, "app", "node_modules", "dep", "package.json"), "{}")

	store := openTestStore(t)

	n, err := Scan(context.Background(), store, testConfig(root), metrics.Collaborators{}, noIgnoreFiles)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestScan_RootItselfCanBeAProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module top\n")
	writeFile(t, filepath.Join(root, "nested", "package.json"), "{}")

	store := openTestStore(t)
	ctx := context.Background()

	n, err := Scan(ctx, store, testConfig(root), metrics.Collaborators{}, noIgnoreFiles)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec, err := store.GetProjectByPath(ctx, root)
	require.NoError(t, err)
	require.NotNil(t, rec.Type)
	assert.Equal(t, "go", *rec.Type)
}

// staticRepoReader always reports the same metadata, standing in for a
// repository whose state we control across scans.
type staticRepoReader struct {
	info types.VCSInfo
}

func (r staticRepoReader) Read(string) types.VCSInfo { return r.info }

func TestScan_VCSInfoClearedWhenUnobtainable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc", "go.mod"), "module svc\n")

	store := openTestStore(t)
	ctx := context.Background()
	cfg := testConfig(root)

	branch := "main"
	commitAt := int64(1700000000)
	withMeta := metrics.Collaborators{VCS: staticRepoReader{types.VCSInfo{
		Branch:       &branch,
		LastCommitAt: &commitAt,
	}}}
	_, err := Scan(ctx, store, cfg, withMeta, noIgnoreFiles)
	require.NoError(t, err)

	rec, err := store.GetProjectByPath(ctx, filepath.Join(root, "svc"))
	require.NoError(t, err)

	info, err := store.GetVCSInfo(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, info.Branch)
	assert.Equal(t, "main", *info.Branch)
	require.NotNil(t, info.LastCommitAt)
	assert.Equal(t, commitAt, *info.LastCommitAt)

	// The repository metadata becomes unobtainable (e.g. .git removed);
	// a rescan replaces the row wholesale, clearing every field.
	withoutMeta := metrics.Collaborators{VCS: staticRepoReader{}}
	_, err = Scan(ctx, store, cfg, withoutMeta, noIgnoreFiles)
	require.NoError(t, err)

	info, err = store.GetVCSInfo(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, info.Branch)
	assert.Nil(t, info.LastCommitAt)
	assert.Nil(t, info.RemoteURL)
	assert.True(t, info.Empty())
}

func TestScan_NopReaderWritesNoVCSRow(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc", "go.mod"), "module svc\n")

	store := openTestStore(t)
	ctx := context.Background()

	_, err := Scan(ctx, store, testConfig(root), metrics.Collaborators{}, noIgnoreFiles)
	require.NoError(t, err)

	rec, err := store.GetProjectByPath(ctx, filepath.Join(root, "svc"))
	require.NoError(t, err)

	info, err := store.GetVCSInfo(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, info.Empty())
}

func TestDefaultIgnoreFiles(t *testing.T) {
	files := DefaultIgnoreFiles()

	app, err := config.AppIgnorePath()
	require.NoError(t, err)
	assert.Contains(t, files, app)
	assert.Contains(t, files, config.LegacyIgnorePath())
}

func TestScan_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc", "go.mod"), "module svc\n")

	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, store, testConfig(root), metrics.Collaborators{}, noIgnoreFiles)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan_ZeroConcurrencyStillScans(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc", "go.mod"), "module svc\n")

	store := openTestStore(t)
	cfg := testConfig(root)
	cfg.Concurrency = 0

	n, err := Scan(context.Background(), store, cfg, metrics.Collaborators{}, noIgnoreFiles)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
