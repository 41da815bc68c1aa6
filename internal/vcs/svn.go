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

// svnStatusCodes maps the first status column to a status. SVN reserves
// fixed-width columns for several status dimensions; only the first is
// inspected here.
var svnStatusCodes = map[byte]models.FileStatus{
	'A': models.StatusAdded,
	'C': models.StatusConflicted,
	'D': models.StatusDeleted,
	'I': models.StatusIgnored,
	'M': models.StatusModified,
	'R': models.StatusReplaced,
	'X': models.StatusUnversioned,
	'?': models.StatusUntracked,
	'!': models.StatusMissing,
	'~': models.StatusObstructed,
}

// svnStatusPathColumn is where the path begins on a status line.
const svnStatusPathColumn = 8

// SvnRepository operates on a Subversion working copy laid out by
// convention: <root>/trunk, <root>/branches/<name>, <root>/tags/<name>.
// Branch emulation is a path-pointer change over that layout, not a
// checkout mutation; SwitchBranch never spawns a subprocess.
type SvnRepository struct {
	root     string
	workPath string
	binary   string
	runner   runner.Runner
}

// NewSvn wraps a repository rooted at root. The working path starts at
// trunk when it exists, otherwise at the root itself.
func NewSvn(root string) *SvnRepository {
	return NewSvnWithRunner(root, defaultRunner())
}

// NewSvnWithRunner wraps a repository rooted at root with an explicit
// runner.
func NewSvnWithRunner(root string, r runner.Runner) *SvnRepository {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	work := abs
	trunk := filepath.Join(abs, "trunk")
	if info, err := os.Stat(trunk); err == nil && info.IsDir() {
		work = trunk
	}
	return &SvnRepository{
		root:     abs,
		workPath: work,
		binary:   config.Default().Binary("svn"),
		runner:   r,
	}
}

// CreateSvn initializes a new store via svnadmin. The admin layout is
// produced directly; there is no working copy to wrap, so the returned
// repository points at the store root.
func CreateSvn(path string) (*SvnRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &InitError{Path: path, Err: err}
	}
	r := defaultRunner()
	if err := r.Run("", config.Default().Binary("svnadmin"), "create", path); err != nil {
		return nil, &InitError{Path: path, Err: err}
	}
	return NewSvnWithRunner(path, r), nil
}

// CheckoutSvn materializes a working copy of uri. Failure is
// recoverable and carries the subprocess exit.
func CheckoutSvn(uri, dest string, opts CloneOptions) (*SvnRepository, error) {
	r := defaultRunner()
	args := []string{"checkout"}
	if opts.Revision != "" {
		args = append(args, "--revision", opts.Revision)
	}
	args = append(args, uri)
	if dest != "" {
		args = append(args, dest)
	}
	if err := r.Run("", config.Default().Binary("svn"), args...); err != nil {
		return nil, err
	}
	path := dest
	if path == "" {
		path = defaultCloneDest(uri)
	}
	return NewSvnWithRunner(path, r), nil
}

func (s *SvnRepository) Kind() Kind   { return KindSvn }
func (s *SvnRepository) Path() string { return s.workPath }

// Root returns the conventional layout root containing trunk, branches
// and tags.
func (s *SvnRepository) Root() string { return s.root }

func (s *SvnRepository) svn(args ...string) error {
	return s.runner.Run(s.workPath, s.binary, args...)
}

func (s *SvnRepository) svnLines(args ...string) (runner.LineStream, error) {
	return s.runner.Lines(s.workPath, s.binary, args...)
}

// Status parses svn status output into the common status map.
func (s *SvnRepository) Status() (models.StatusMap, error) {
	ls, err := s.svnLines("status")
	if err != nil {
		return nil, err
	}
	statuses := models.StatusMap{}
	err = runner.Each(ls, func(line string) error {
		if len(line) <= svnStatusPathColumn {
			return nil
		}
		st, ok := svnStatusCodes[line[0]]
		if !ok {
			st = models.StatusUnknown
		}
		statuses[line[svnStatusPathColumn:]] = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (s *SvnRepository) Add(paths ...string) error {
	return s.svn(append([]string{"add"}, paths...)...)
}

func (s *SvnRepository) Move(src, dst string) error {
	return s.svn("mv", src, dst)
}

func (s *SvnRepository) Remove(paths ...string) error {
	return s.svn(append([]string{"rm"}, paths...)...)
}

func (s *SvnRepository) Commit(message string, paths ...string) error {
	args := []string{"commit", "-m", message}
	args = append(args, paths...)
	return s.svn(args...)
}

// Branches lists the directories under <root>/branches. SVN has no
// first-class branch objects; the layout convention is the branch
// namespace.
func (s *SvnRepository) Branches() ([]string, error) {
	return s.layoutEntries("branches")
}

// CurrentBranch returns "trunk" when the working path is the trunk
// directory, otherwise the basename of the working path.
func (s *SvnRepository) CurrentBranch() (string, error) {
	if s.workPath == filepath.Join(s.root, "trunk") {
		return "trunk", nil
	}
	return filepath.Base(s.workPath), nil
}

// SwitchBranch reassigns the working path to the named branch directory
// (or trunk). This is purely a pointer change; no checkout is touched.
func (s *SvnRepository) SwitchBranch(name string) error {
	var target string
	if name == "trunk" {
		target = filepath.Join(s.root, "trunk")
	} else {
		target = filepath.Join(s.root, "branches", name)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("branch %s does not exist under %s", name, s.root)
	}
	s.workPath = target
	return nil
}

// DeleteBranch is a no-op: the layer does not destroy branch
// directories on the caller's behalf.
func (s *SvnRepository) DeleteBranch(name string) error {
	return nil
}

// Tags lists the directories under <root>/tags.
func (s *SvnRepository) Tags() ([]string, error) {
	return s.layoutEntries("tags")
}

// Tag copies trunk to tags/<name>. SVN tagging is copy-based and cannot
// pin a specific commit; passing one is a programming error.
func (s *SvnRepository) Tag(name string, opts TagOptions) error {
	if opts.Commit != "" {
		return &UsageError{Op: "svn tag", Reason: "svn cannot tag a specific commit; tags are copies of trunk"}
	}
	trunk := filepath.Join(s.root, "trunk")
	if info, err := os.Stat(trunk); err != nil || !info.IsDir() {
		return &UsageError{Op: "svn tag", Reason: "no trunk directory under " + s.root}
	}
	tagsDir := filepath.Join(s.root, "tags")
	if err := os.MkdirAll(tagsDir, 0o755); err != nil {
		return err
	}
	args := []string{"cp", trunk, filepath.Join(tagsDir, name)}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}
	return s.runner.Run(s.root, s.binary, args...)
}

func (s *SvnRepository) DeleteTag(name string) error {
	return s.runner.Run(s.root, s.binary, "rm", filepath.Join(s.root, "tags", name))
}

func (s *SvnRepository) logArgs(opts LogOptions) []string {
	args := []string{"log", "--verbose"}
	if opts.Limit > 0 {
		args = append(args, "--limit", fmt.Sprintf("%d", opts.Limit))
	}
	if opts.Ref != "" {
		args = append(args, "-r", opts.Ref)
	}
	args = append(args, opts.Paths...)
	return args
}

func (s *SvnRepository) Log(opts LogOptions) ([]string, error) {
	ls, err := s.svnLines(s.logArgs(opts)...)
	if err != nil {
		return nil, err
	}
	return runner.Collect(ls)
}

func (s *SvnRepository) Commits(opts LogOptions) ([]models.Commit, error) {
	var commits []models.Commit
	err := s.EachCommit(opts, func(c models.Commit) error {
		commits = append(commits, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

func (s *SvnRepository) EachCommit(opts LogOptions, fn func(models.Commit) error) error {
	ls, err := s.svnLines(s.logArgs(opts)...)
	if err != nil {
		return err
	}
	return parseSvnLog(ls, fn)
}

// Files lists tracked paths recursively; directory entries (trailing
// slash) are dropped.
func (s *SvnRepository) Files() ([]string, error) {
	ls, err := s.svnLines("ls", "--recursive")
	if err != nil {
		return nil, err
	}
	var files []string
	err = runner.Each(ls, func(line string) error {
		if line != "" && !strings.HasSuffix(line, "/") {
			files = append(files, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Push is a no-op: svn commits publish directly to the central store.
func (s *SvnRepository) Push() error {
	return nil
}

func (s *SvnRepository) Pull() error {
	return s.svn("update")
}

func (s *SvnRepository) layoutEntries(kind string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != ".svn" {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
