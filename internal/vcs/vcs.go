// Package vcs implements the repository-metadata collaborator using go-git.
package vcs

import (
	git "github.com/go-git/go-git/v5"

	"github.com/dshills/projcat/pkg/types"
)

// Reader resolves the nearest enclosing git repository for a directory and
// reports last-commit time, current branch, and the origin remote URL.
// Every field degrades to absent independently; a directory outside any
// repository yields the zero VCSInfo.
type Reader struct{}

// NewReader returns a go-git backed Reader.
func NewReader() *Reader { return &Reader{} }

// Read discovers the repository containing dir, walking parent directories
// the way git itself does.
func (r *Reader) Read(dir string) types.VCSInfo {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return types.VCSInfo{}
	}

	var info types.VCSInfo

	head, err := repo.Head()
	if err == nil {
		if head.Name().IsBranch() {
			branch := head.Name().Short()
			info.Branch = &branch
		}
		if commit, err := repo.CommitObject(head.Hash()); err == nil {
			ts := commit.Committer.When.Unix()
			info.LastCommitAt = &ts
		}
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			url := urls[0]
			info.RemoteURL = &url
		}
	}

	return info
}
