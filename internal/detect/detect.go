// Package detect classifies directories as project roots by evaluating an
// ordered table of ecosystem marker rules.
package detect

import (
	"os"
	"path/filepath"

	"github.com/dshills/projcat/pkg/types"
)

// rule is one ecosystem marker. A rule matches when any named file exists
// directly in the directory, or a file with the extension exists directly
// in the directory, or the nested subdirectory contains at least one file
// with one of nestedExts.
type rule struct {
	projectType types.ProjectType
	files       []string
	extension   string
	nestedDir   string
	nestedExts  []string
}

// rules is evaluated top to bottom; the first match wins and later rules
// are not consulted. The order is a compatibility contract: a directory
// carrying markers for several ecosystems must classify the same way on
// every run and every release. Do not reorder.
var rules = []rule{
	{projectType: types.TypeRust, files: []string{"Cargo.toml"}},
	{projectType: types.TypeNode, files: []string{"package.json"}},
	{projectType: types.TypePython, files: []string{"pyproject.toml", "requirements.txt"}},
	{projectType: types.TypeGo, files: []string{"go.mod"}},
	{projectType: types.TypeJava, files: []string{"pom.xml", "build.gradle", "gradlew"}},
	{projectType: types.TypeDotNet, files: []string{"global.json"}, extension: ".csproj"},
	{projectType: types.TypeTerraform, extension: ".tf"},
	{projectType: types.TypeAnsible, nestedDir: "ansible", nestedExts: []string{".yml", ".yaml"}},
}

// Detect reports whether dir is a project root and, if so, its ecosystem
// type. Evaluation is first-match-wins over the rule table.
func Detect(dir string) (types.ProjectType, bool) {
	for _, r := range rules {
		if r.matches(dir) {
			return r.projectType, true
		}
	}
	return "", false
}

// IsVersionControlled reports whether a VCS metadata directory exists
// directly under dir. Existence only; no repository validation.
func IsVersionControlled(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

func (r rule) matches(dir string) bool {
	for _, name := range r.files {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	if r.extension != "" && hasFileWithExt(dir, r.extension) {
		return true
	}
	if r.nestedDir != "" {
		nested := filepath.Join(dir, r.nestedDir)
		for _, ext := range r.nestedExts {
			if hasFileWithExt(nested, ext) {
				return true
			}
		}
	}
	return false
}

func hasFileWithExt(dir, ext string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ext {
			return true
		}
	}
	return false
}
