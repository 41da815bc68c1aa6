package vcs

import (
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// nativeGit answers read-only git queries in-process via go-git,
// avoiding a subprocess spawn. Every method reports ok=false when the
// query cannot be answered natively, and the caller falls back to the
// binary.
type nativeGit struct {
	path string
	repo *gogit.Repository
}

func newNativeGit(path string) *nativeGit {
	return &nativeGit{path: path}
}

func (n *nativeGit) open() *gogit.Repository {
	if n.repo != nil {
		return n.repo
	}
	repo, err := gogit.PlainOpenWithOptions(n.path, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil
	}
	n.repo = repo
	return repo
}

func (n *nativeGit) branches() ([]string, bool) {
	repo := n.open()
	if repo == nil {
		return nil, false
	}
	refs, err := repo.References()
	if err != nil {
		return nil, false
	}
	var names []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, false
	}
	return names, true
}

func (n *nativeGit) currentBranch() (string, bool) {
	repo := n.open()
	if repo == nil {
		return "", false
	}
	head, err := repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return "", false
	}
	return head.Name().Short(), true
}

func (n *nativeGit) files() ([]string, bool) {
	repo := n.open()
	if repo == nil {
		return nil, false
	}
	head, err := repo.Head()
	if err != nil {
		return nil, false
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, false
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, false
	}
	var files []string
	err = tree.Files().ForEach(func(f *object.File) error {
		files = append(files, f.Name)
		return nil
	})
	if err != nil {
		return nil, false
	}
	return files, true
}
