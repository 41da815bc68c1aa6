package vcs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/scmkit/scmkit/internal/config"
	"github.com/scmkit/scmkit/internal/runner"
)

// controlDirs maps control directory names to backend constructors, in
// detection order. Order only matters when several control directories
// coexist in one path; the first match wins.
var controlDirs = []struct {
	dir  string
	open func(path string) Repository
}{
	{".git", func(path string) Repository { return NewGit(path) }},
	{".hg", func(path string) Repository { return NewHg(path) }},
	{".svn", func(path string) Repository { return NewSvn(path) }},
}

// Detect returns the repository variant matching the control directory
// found under path, or a DetectError naming the path.
func Detect(path string) (Repository, error) {
	for _, entry := range controlDirs {
		info, err := os.Stat(filepath.Join(path, entry.dir))
		if err == nil && info.IsDir() {
			return entry.open(path), nil
		}
	}
	return nil, &DetectError{Target: path}
}

// DetectWithRunner is Detect with an explicit runner for the resulting
// repository, used by tests.
func DetectWithRunner(path string, r runner.Runner) (Repository, error) {
	repo, err := Detect(path)
	if err != nil {
		return nil, err
	}
	switch repo := repo.(type) {
	case *GitRepository:
		return NewGitWithRunner(repo.Path(), r), nil
	case *HgRepository:
		return NewHgWithRunner(repo.Path(), r), nil
	case *SvnRepository:
		return NewSvnWithRunner(repo.Root(), r), nil
	}
	return repo, nil
}

// DetectKind determines the backend for a remote URI from its scheme
// (git://, hg://, svn://) or a VCS extension suffix (.git, .hg, .svn).
func DetectKind(uri string) (Kind, error) {
	for _, kind := range []Kind{KindGit, KindHg, KindSvn} {
		if strings.HasPrefix(uri, string(kind)+"://") {
			return kind, nil
		}
		if strings.HasSuffix(strings.TrimRight(uri, "/"), "."+string(kind)) {
			return kind, nil
		}
	}
	return "", &DetectError{Target: uri}
}

// CloneURI determines the target VCS for uri and delegates to that
// backend's clone routine.
func CloneURI(uri, dest string, opts CloneOptions) (Repository, error) {
	kind, err := DetectKind(uri)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindGit:
		return CloneGit(uri, dest, opts)
	case KindHg:
		return CloneHg(uri, dest, opts)
	default:
		return CheckoutSvn(uri, dest, opts)
	}
}

// defaultRunner builds the shell runner the package-level constructors
// use, honoring the configured command timeout.
func defaultRunner() runner.Runner {
	cfg := config.Default()
	if cfg.CommandTimeout > 0 {
		return runner.NewShellRunnerWithTimeout(cfg.CommandTimeout)
	}
	return runner.NewShellRunner()
}
