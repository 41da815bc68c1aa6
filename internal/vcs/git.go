package vcs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scmkit/scmkit/internal/config"
	"github.com/scmkit/scmkit/internal/models"
	"github.com/scmkit/scmkit/internal/runner"
)

// gitStatusCodes maps the two-character porcelain prefix to a status.
// Codes outside the table surface as StatusUnknown.
var gitStatusCodes = map[string]models.FileStatus{
	" M": models.StatusModified,
	"M ": models.StatusStaged,
	"A ": models.StatusAdded,
	"D ": models.StatusDeleted,
	"R ": models.StatusRenamed,
	"C ": models.StatusCopied,
	"U ": models.StatusUnmerged,
	"??": models.StatusUntracked,
}

// GitRepository operates on a git working copy or bare store through
// the git binary, with a go-git fast path for read-only queries.
type GitRepository struct {
	path   string
	binary string
	runner runner.Runner
	native *nativeGit
}

// NewGit wraps an existing repository path using the default shell
// runner and configuration.
func NewGit(path string) *GitRepository {
	return NewGitWithRunner(path, defaultRunner())
}

// NewGitWithRunner wraps an existing repository path with an explicit
// runner, used by tests and by the hybrid executor wiring.
func NewGitWithRunner(path string, r runner.Runner) *GitRepository {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &GitRepository{
		path:   abs,
		binary: config.Default().Binary("git"),
		runner: r,
		native: newNativeGit(abs),
	}
}

// InitGit initializes a new repository at path, creating the directory
// if absent. A failed init is a hard error; no handle is returned.
func InitGit(path string, opts CreateOptions) (*GitRepository, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, &InitError{Path: path, Err: err}
	}
	r := defaultRunner()
	args := []string{"init"}
	if opts.Bare {
		args = append(args, "--bare")
	}
	args = append(args, path)
	if err := r.Run("", config.Default().Binary("git"), args...); err != nil {
		return nil, &InitError{Path: path, Err: err}
	}
	return NewGitWithRunner(path, r), nil
}

// CloneGit materializes a local copy of uri. Unlike InitGit a failed
// clone is an ordinary recoverable error carrying the subprocess exit.
func CloneGit(uri, dest string, opts CloneOptions) (*GitRepository, error) {
	r := defaultRunner()
	if err := r.Run("", config.Default().Binary("git"), gitCloneArgs(uri, dest, opts)...); err != nil {
		return nil, err
	}
	path := dest
	if path == "" {
		path = defaultCloneDest(uri)
	}
	return NewGitWithRunner(path, r), nil
}

// gitCloneArgs builds the clone argument list for opts.
func gitCloneArgs(uri, dest string, opts CloneOptions) []string {
	args := []string{"clone"}
	flagged := false
	if opts.Bare {
		args = append(args, "--bare")
		flagged = true
	}
	if opts.Mirror {
		args = append(args, "--mirror")
		flagged = true
	}
	if opts.Depth > 0 {
		args = append(args, "--depth", fmt.Sprintf("%d", opts.Depth))
		flagged = true
	}
	if opts.Branch != "" {
		args = append(args, "--branch", opts.Branch)
		flagged = true
	}
	if opts.RecurseSubmodules {
		args = append(args, "--recurse-submodules")
		flagged = true
	}
	// A literal -- keeps a URI starting with a dash from being read as
	// a flag once options are present.
	if flagged {
		args = append(args, "--")
	}
	args = append(args, uri)
	if dest != "" {
		args = append(args, dest)
	}
	return args
}

func (g *GitRepository) Kind() Kind   { return KindGit }
func (g *GitRepository) Path() string { return g.path }

func (g *GitRepository) git(args ...string) error {
	return g.runner.Run(g.path, g.binary, args...)
}

func (g *GitRepository) gitLines(args ...string) (runner.LineStream, error) {
	return g.runner.Lines(g.path, g.binary, args...)
}

// Status parses git status --porcelain into the common status map.
func (g *GitRepository) Status() (models.StatusMap, error) {
	ls, err := g.gitLines("status", "--porcelain")
	if err != nil {
		return nil, err
	}
	statuses := models.StatusMap{}
	err = runner.Each(ls, func(line string) error {
		if len(line) < 3 {
			return nil
		}
		code := line[:2]
		path := line[3:]
		st, ok := gitStatusCodes[code]
		if !ok {
			st = models.StatusUnknown
		}
		statuses[path] = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (g *GitRepository) Add(paths ...string) error {
	return g.git(append([]string{"add"}, paths...)...)
}

func (g *GitRepository) Move(src, dst string) error {
	return g.git("mv", src, dst)
}

func (g *GitRepository) Remove(paths ...string) error {
	return g.git(append([]string{"rm"}, paths...)...)
}

func (g *GitRepository) Commit(message string, paths ...string) error {
	args := []string{"commit", "-m", message}
	args = append(args, paths...)
	return g.git(args...)
}

// Branches lists local branch names, preferring go-git over spawning
// the binary and falling back to parsing git branch output.
func (g *GitRepository) Branches() ([]string, error) {
	if names, ok := g.native.branches(); ok {
		return names, nil
	}
	ls, err := g.gitLines("branch")
	if err != nil {
		return nil, err
	}
	var branches []string
	err = runner.Each(ls, func(line string) error {
		// Lines are "* name" or "  name"; the marker column is fixed.
		if len(line) > 2 {
			branches = append(branches, line[2:])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return branches, nil
}

// CurrentBranch returns the branch the working copy has checked out.
func (g *GitRepository) CurrentBranch() (string, error) {
	if name, ok := g.native.currentBranch(); ok {
		return name, nil
	}
	ls, err := g.gitLines("branch")
	if err != nil {
		return "", err
	}
	current := ""
	err = runner.Each(ls, func(line string) error {
		if strings.HasPrefix(line, "*") && len(line) > 2 {
			current = line[2:]
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return current, nil
}

func (g *GitRepository) SwitchBranch(name string) error {
	return g.git("checkout", name)
}

func (g *GitRepository) DeleteBranch(name string) error {
	return g.git("branch", "-d", name)
}

func (g *GitRepository) Tags() ([]string, error) {
	ls, err := g.gitLines("tag", "-l")
	if err != nil {
		return nil, err
	}
	return runner.Collect(ls)
}

func (g *GitRepository) Tag(name string, opts TagOptions) error {
	args := []string{"tag"}
	if opts.Message != "" {
		args = append(args, "-a", "-m", opts.Message)
	}
	args = append(args, name)
	if opts.Commit != "" {
		args = append(args, opts.Commit)
	}
	return g.git(args...)
}

func (g *GitRepository) DeleteTag(name string) error {
	return g.git("tag", "-d", name)
}

// logArgs builds the git log argument list for opts using the pipe
// delimited pretty format the parser expects.
func (g *GitRepository) logArgs(opts LogOptions) []string {
	args := []string{"log", "--pretty=format:" + gitLogFormat}
	if opts.Limit > 0 {
		args = append(args, fmt.Sprintf("-%d", opts.Limit))
	}
	if opts.Ref != "" {
		args = append(args, opts.Ref)
	}
	if len(opts.Paths) > 0 {
		// -- disambiguates path filters from ref names.
		args = append(args, "--")
		args = append(args, opts.Paths...)
	}
	return args
}

func (g *GitRepository) Log(opts LogOptions) ([]string, error) {
	ls, err := g.gitLines(g.logArgs(opts)...)
	if err != nil {
		return nil, err
	}
	return runner.Collect(ls)
}

func (g *GitRepository) Commits(opts LogOptions) ([]models.Commit, error) {
	var commits []models.Commit
	err := g.EachCommit(opts, func(c models.Commit) error {
		commits = append(commits, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

func (g *GitRepository) EachCommit(opts LogOptions, fn func(models.Commit) error) error {
	ls, err := g.gitLines(g.logArgs(opts)...)
	if err != nil {
		return err
	}
	return parseGitLog(ls, fn)
}

// Files lists tracked paths, via go-git when the repository can be
// opened natively and git ls-files otherwise.
func (g *GitRepository) Files() ([]string, error) {
	if files, ok := g.native.files(); ok {
		return files, nil
	}
	ls, err := g.gitLines("ls-files")
	if err != nil {
		return nil, err
	}
	return runner.Collect(ls)
}

func (g *GitRepository) Push() error {
	return g.git("push")
}

func (g *GitRepository) Pull() error {
	return g.git("pull")
}

// defaultCloneDest mirrors the destination the tools derive from a URI
// when none is given: the basename with any VCS extension stripped.
func defaultCloneDest(uri string) string {
	base := filepath.Base(strings.TrimRight(uri, "/"))
	for _, ext := range []string{".git", ".hg", ".svn"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
