// Package loc implements the line-counting collaborator on top of go-enry
// language classification.
package loc

import (
	"bytes"
	"io/fs"
	"os"
	"sort"

	"github.com/go-enry/go-enry/v2"

	"github.com/dshills/projcat/internal/walker"
	"github.com/dshills/projcat/pkg/types"
)

// classifyHeadSize bounds how much of a file is read for language and
// binary detection.
const classifyHeadSize = 16 * 1024

// Counter counts code lines per language across a project subtree,
// honoring the same ignore layering as the rest of the pipeline.
type Counter struct {
	walker *walker.Walker
}

// NewCounter returns a Counter that walks with w.
func NewCounter(w *walker.Walker) *Counter {
	return &Counter{walker: w}
}

// Count walks dir and returns the total code-line count plus a
// per-language breakdown. Files enry cannot classify, and binary files,
// contribute nothing. Unreadable files are skipped.
func (c *Counter) Count(dir string) (int64, []types.LanguageCount, error) {
	perLang := make(map[string]int64)

	err := c.walker.Walk(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		head := content
		if len(head) > classifyHeadSize {
			head = head[:classifyHeadSize]
		}
		if enry.IsBinary(head) {
			return nil
		}
		lang := enry.GetLanguage(d.Name(), head)
		if lang == "" {
			return nil
		}
		perLang[lang] += countCodeLines(content)
		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	var total int64
	breakdown := make([]types.LanguageCount, 0, len(perLang))
	for lang, code := range perLang {
		total += code
		breakdown = append(breakdown, types.LanguageCount{Language: lang, Code: code})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Language < breakdown[j].Language
	})
	return total, breakdown, nil
}

// countCodeLines counts non-blank lines.
func countCodeLines(content []byte) int64 {
	var n int64
	for _, line := range bytes.Split(content, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
