package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func collect(t *testing.T, w *Walker, root string) map[string]bool {
	t.Helper()
	visited := make(map[string]bool)
	err := w.Walk(root, func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		rel, relErr := filepath.Rel(root, path)
		require.NoError(t, relErr)
		visited[filepath.ToSlash(rel)] = true
		return nil
	})
	require.NoError(t, err)
	return visited
}

func TestWalk_VisitsEverythingByDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "b")

	visited := collect(t, New(nil), root)

	assert.True(t, visited["."])
	assert.True(t, visited["a.txt"])
	assert.True(t, visited["sub"])
	assert.True(t, visited["sub/b.txt"])
}

func TestWalk_HiddenEntriesExcluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".hidden", "secret.txt"), "s")
	writeFile(t, filepath.Join(root, ".env"), "x")
	writeFile(t, filepath.Join(root, "visible.txt"), "v")

	visited := collect(t, New(nil), root)

	assert.True(t, visited["visible.txt"])
	assert.False(t, visited[".hidden"])
	assert.False(t, visited[".hidden/secret.txt"])
	assert.False(t, visited[".env"])
}

func TestWalk_GlobalIgnoresPruneDescent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "dep", "index.js"), "x")
	writeFile(t, filepath.Join(root, "src", "main.js"), "x")

	visited := collect(t, New([]string{"node_modules"}), root)

	assert.True(t, visited["src/main.js"])
	assert.False(t, visited["node_modules"])
	assert.False(t, visited["node_modules/dep"])
	assert.False(t, visited["node_modules/dep/index.js"])
}

func TestWalk_GlobalIgnoresAreDirectoryOnly(t *testing.T) {
	root := t.TempDir()
	// A plain file sharing an ignored directory's name is still visited.
	writeFile(t, filepath.Join(root, "build"), "#!/bin/sh\nmake all\n")
	writeFile(t, filepath.Join(root, "target", "out.bin"), "x")

	visited := collect(t, New([]string{"build", "target"}), root)

	assert.True(t, visited["build"])
	assert.False(t, visited["target"])
	assert.False(t, visited["target/out.bin"])
}

func TestWalk_GlobalIgnoreGlobPattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg.egg-info", "meta.txt"), "x")
	writeFile(t, filepath.Join(root, "pkg", "main.py"), "x")

	visited := collect(t, New([]string{"*.egg-info"}), root)

	assert.True(t, visited["pkg/main.py"])
	assert.False(t, visited["pkg.egg-info"])
}

func TestWalk_GitignoreLayering(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "dist/\n*.log\n")
	writeFile(t, filepath.Join(root, "dist", "bundle.js"), "x")
	writeFile(t, filepath.Join(root, "debug.log"), "x")
	writeFile(t, filepath.Join(root, "src", "app.js"), "x")
	// Nested ignore file scoped to its own directory.
	writeFile(t, filepath.Join(root, "src", ".gitignore"), "generated/\n")
	writeFile(t, filepath.Join(root, "src", "generated", "out.js"), "x")

	visited := collect(t, New(nil), root)

	assert.True(t, visited["src/app.js"])
	assert.False(t, visited["dist"])
	assert.False(t, visited["dist/bundle.js"])
	assert.False(t, visited["debug.log"])
	assert.False(t, visited["src/generated"])
	assert.False(t, visited["src/generated/out.js"])
}

func TestWalk_ExtraIgnoreFile(t *testing.T) {
	root := t.TempDir()
	ignorePath := filepath.Join(t.TempDir(), "ignore")
	writeFile(t, ignorePath, "scratch/\n")
	writeFile(t, filepath.Join(root, "scratch", "tmp.txt"), "x")
	writeFile(t, filepath.Join(root, "keep.txt"), "x")

	visited := collect(t, New(nil, ignorePath), root)

	assert.True(t, visited["keep.txt"])
	assert.False(t, visited["scratch"])
	assert.False(t, visited["scratch/tmp.txt"])
}

func TestWalk_MissingIgnoreFilesAreSafe(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")

	w := New(nil, filepath.Join(root, "no-such-ignore"), "/nonexistent/ignore")
	visited := collect(t, w, root)
	assert.True(t, visited["a.txt"])
}

func TestWalk_SkipDirPrunes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "deep", "c.txt"), "c")

	var visited []string
	err := New(nil).Walk(root, func(path string, d fs.DirEntry, err error) error {
		rel, _ := filepath.Rel(root, path)
		visited = append(visited, filepath.ToSlash(rel))
		if d.IsDir() && filepath.Base(path) == "sub" {
			return fs.SkipDir
		}
		return nil
	})
	require.NoError(t, err)

	assert.Contains(t, visited, "sub")
	assert.NotContains(t, visited, "sub/deep")
	assert.NotContains(t, visited, "sub/deep/c.txt")
}

func TestWalk_MissingRootReturnsError(t *testing.T) {
	err := New(nil).Walk("/nonexistent/root/path", func(string, fs.DirEntry, error) error {
		return nil
	})
	assert.Error(t, err)
}
