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

// hgStatusCodes maps the single status character to a status. A leading
// space marks a copy-origin annotation line.
var hgStatusCodes = map[byte]models.FileStatus{
	'M': models.StatusModified,
	'A': models.StatusAdded,
	'R': models.StatusRemoved,
	'C': models.StatusClean,
	'!': models.StatusMissing,
	'?': models.StatusUntracked,
	'I': models.StatusIgnored,
	' ': models.StatusOrigin,
}

// HgRepository operates on a Mercurial working copy through the hg
// binary.
type HgRepository struct {
	path   string
	binary string
	runner runner.Runner
}

// HgRemote is the handle InitHg returns for an ssh-scheme path: the
// store was initialized on the remote host and no local working copy
// exists to wrap.
type HgRemote struct {
	URI string
}

// NewHg wraps an existing repository path using the default shell
// runner and configuration.
func NewHg(path string) *HgRepository {
	return NewHgWithRunner(path, defaultRunner())
}

// NewHgWithRunner wraps an existing repository path with an explicit
// runner.
func NewHgWithRunner(path string, r runner.Runner) *HgRepository {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &HgRepository{
		path:   abs,
		binary: config.Default().Binary("hg"),
		runner: r,
	}
}

// InitHg initializes a new repository. Exactly one of the returned
// handles is non-nil on success: a local repository for filesystem
// paths, a remote reference for ssh paths. Mercurial has no bare
// repositories; requesting one fails before any subprocess runs.
func InitHg(path string, opts CreateOptions) (*HgRepository, *HgRemote, error) {
	if opts.Bare {
		return nil, nil, &UsageError{Op: "hg init", Reason: "mercurial does not support bare repositories"}
	}
	r := defaultRunner()
	binary := config.Default().Binary("hg")

	if strings.HasPrefix(path, "ssh://") {
		if err := r.Run("", binary, "init", path); err != nil {
			return nil, nil, &InitError{Path: path, Err: err}
		}
		return nil, &HgRemote{URI: path}, nil
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, nil, &InitError{Path: path, Err: err}
	}
	if err := r.Run("", binary, "init", path); err != nil {
		return nil, nil, &InitError{Path: path, Err: err}
	}
	return NewHgWithRunner(path, r), nil, nil
}

// CloneHg materializes a local copy of uri. Failure is recoverable and
// carries the subprocess exit.
func CloneHg(uri, dest string, opts CloneOptions) (*HgRepository, error) {
	if opts.Bare || opts.Mirror {
		return nil, &UsageError{Op: "hg clone", Reason: "mercurial does not support bare or mirror clones"}
	}
	r := defaultRunner()
	args := []string{"clone"}
	if opts.Branch != "" {
		args = append(args, "--branch", opts.Branch)
	}
	args = append(args, uri)
	if dest != "" {
		args = append(args, dest)
	}
	if err := r.Run("", config.Default().Binary("hg"), args...); err != nil {
		return nil, err
	}
	path := dest
	if path == "" {
		path = defaultCloneDest(uri)
	}
	return NewHgWithRunner(path, r), nil
}

func (h *HgRepository) Kind() Kind   { return KindHg }
func (h *HgRepository) Path() string { return h.path }

func (h *HgRepository) hg(args ...string) error {
	return h.runner.Run(h.path, h.binary, args...)
}

func (h *HgRepository) hgLines(args ...string) (runner.LineStream, error) {
	return h.runner.Lines(h.path, h.binary, args...)
}

// Status parses hg status output into the common status map. Copy
// origin annotation lines (leading space) map to StatusOrigin.
func (h *HgRepository) Status() (models.StatusMap, error) {
	ls, err := h.hgLines("status")
	if err != nil {
		return nil, err
	}
	statuses := models.StatusMap{}
	err = runner.Each(ls, func(line string) error {
		if len(line) < 3 {
			return nil
		}
		st, ok := hgStatusCodes[line[0]]
		if !ok {
			st = models.StatusUnknown
		}
		statuses[line[2:]] = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (h *HgRepository) Add(paths ...string) error {
	return h.hg(append([]string{"add"}, paths...)...)
}

func (h *HgRepository) Move(src, dst string) error {
	return h.hg("mv", src, dst)
}

func (h *HgRepository) Remove(paths ...string) error {
	return h.hg(append([]string{"rm"}, paths...)...)
}

func (h *HgRepository) Commit(message string, paths ...string) error {
	args := []string{"commit", "-m", message}
	args = append(args, paths...)
	return h.hg(args...)
}

// Branches lists named branches. hg branches prints the name padded to
// a fixed column followed by the tip revision; the name is the first
// field.
func (h *HgRepository) Branches() ([]string, error) {
	return h.firstFields("branches")
}

func (h *HgRepository) CurrentBranch() (string, error) {
	out, err := h.runner.Output(h.path, h.binary, "branch")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// SwitchBranch updates the working copy in place, unlike git's cheap
// ref switch.
func (h *HgRepository) SwitchBranch(name string) error {
	return h.hg("update", name)
}

// DeleteBranch closes the named branch with a close-branch commit.
// Mercurial has no branch deletion primitive; the branch remains in
// history and merely stops being listed. The working copy is updated to
// the branch first so the close applies to it.
func (h *HgRepository) DeleteBranch(name string) error {
	if err := h.hg("update", name); err != nil {
		return err
	}
	return h.hg("commit", "--close-branch", "-m", fmt.Sprintf("Closing %s", name))
}

func (h *HgRepository) Tags() ([]string, error) {
	return h.firstFields("tags")
}

func (h *HgRepository) Tag(name string, opts TagOptions) error {
	args := []string{"tag"}
	if opts.Commit != "" {
		args = append(args, "-r", opts.Commit)
	}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}
	args = append(args, name)
	return h.hg(args...)
}

func (h *HgRepository) DeleteTag(name string) error {
	return h.hg("tag", "--remove", name)
}

func (h *HgRepository) logArgs(opts LogOptions) []string {
	args := []string{"log"}
	if opts.WithFiles {
		args = append(args, "-v")
	}
	if opts.Limit > 0 {
		args = append(args, "-l", fmt.Sprintf("%d", opts.Limit))
	}
	if opts.Ref != "" {
		args = append(args, "-r", opts.Ref)
	}
	args = append(args, opts.Paths...)
	return args
}

func (h *HgRepository) Log(opts LogOptions) ([]string, error) {
	ls, err := h.hgLines(h.logArgs(opts)...)
	if err != nil {
		return nil, err
	}
	return runner.Collect(ls)
}

func (h *HgRepository) Commits(opts LogOptions) ([]models.Commit, error) {
	var commits []models.Commit
	err := h.EachCommit(opts, func(c models.Commit) error {
		commits = append(commits, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

func (h *HgRepository) EachCommit(opts LogOptions, fn func(models.Commit) error) error {
	ls, err := h.hgLines(h.logArgs(opts)...)
	if err != nil {
		return err
	}
	return parseHgLog(ls, fn)
}

func (h *HgRepository) Files() ([]string, error) {
	ls, err := h.hgLines("manifest")
	if err != nil {
		return nil, err
	}
	return runner.Collect(ls)
}

func (h *HgRepository) Push() error {
	return h.hg("push")
}

func (h *HgRepository) Pull() error {
	return h.hg("pull")
}

func (h *HgRepository) firstFields(subcommand string) ([]string, error) {
	ls, err := h.hgLines(subcommand)
	if err != nil {
		return nil, err
	}
	var names []string
	err = runner.Each(ls, func(line string) error {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			names = append(names, fields[0])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
