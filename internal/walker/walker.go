package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sirupsen/logrus"
)

// Walker enumerates filesystem entries under a root, pruning anything
// excluded by the layered ignore sources: hidden entries, global ignore
// names, supplementary ignore files, and .gitignore files collected along
// the descent. Sources combine by OR; any match excludes.
type Walker struct {
	globalIgnores []string
	extras        []*ignore.GitIgnore
}

// scope binds a compiled .gitignore to the directory that owns it, so its
// patterns match relative to that directory.
type scope struct {
	base    string
	matcher *ignore.GitIgnore
}

// New builds a Walker from the global ignore name list and zero or more
// supplementary ignore files (gitignore grammar). Missing files are
// silently skipped; unreadable ones are logged and skipped.
func New(globalIgnores []string, ignoreFiles ...string) *Walker {
	w := &Walker{globalIgnores: globalIgnores}
	for _, path := range ignoreFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		gi, err := ignore.CompileIgnoreFile(path)
		if err != nil {
			logrus.WithError(err).WithField("path", path).Warn("skipping unreadable ignore file")
			continue
		}
		w.extras = append(w.extras, gi)
	}
	return w
}

// Walk performs a single pruned pass over the non-ignored entries under
// root, invoking fn for each. Directories excluded by an ignore source are
// never descended into. fn may return fs.SkipDir to prune a directory it
// was called for. Entry read errors are logged and traversal continues;
// only a failure to stat the root itself is returned.
func (w *Walker) Walk(root string, fn fs.WalkDirFunc) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", root)
	}
	err = fn(root, fs.FileInfoToDirEntry(info), nil)
	if errors.Is(err, fs.SkipDir) {
		return nil
	}
	if err != nil {
		return err
	}
	return w.walkDir(root, root, nil, fn)
}

func (w *Walker) walkDir(root, dir string, scopes []scope, fn fs.WalkDirFunc) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logrus.WithError(err).WithField("dir", dir).Warn("walk error")
		return nil
	}

	if gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore")); err == nil {
		scopes = append(scopes, scope{base: dir, matcher: gi})
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if w.excluded(root, path, entry.IsDir(), scopes) {
			continue
		}
		err := fn(path, entry, nil)
		if errors.Is(err, fs.SkipDir) {
			if entry.IsDir() {
				continue
			}
			// SkipDir from a file skips the remainder of its directory.
			return nil
		}
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if err := w.walkDir(root, path, scopes, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// excluded applies every ignore layer to one entry.
func (w *Walker) excluded(root, path string, isDir bool, scopes []scope) bool {
	name := filepath.Base(path)

	if strings.HasPrefix(name, ".") {
		return true
	}

	// Global ignore names are directory names; a plain file that happens
	// to be called "build" or "target" still counts.
	if isDir {
		for _, pattern := range w.globalIgnores {
			if ok, err := doublestar.Match(pattern, name); err == nil && ok {
				return true
			}
		}
	}

	if rel, err := filepath.Rel(root, path); err == nil {
		for _, gi := range w.extras {
			if matchesIgnore(gi, rel, isDir) {
				return true
			}
		}
	}

	for _, s := range scopes {
		rel, err := filepath.Rel(s.base, path)
		if err != nil {
			continue
		}
		if matchesIgnore(s.matcher, rel, isDir) {
			return true
		}
	}
	return false
}

func matchesIgnore(gi *ignore.GitIgnore, rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	if gi.MatchesPath(rel) {
		return true
	}
	// Directory-only patterns ("build/") need the trailing slash to match.
	return isDir && gi.MatchesPath(rel+"/")
}
