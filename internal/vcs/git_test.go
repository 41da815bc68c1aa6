package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scmkit/scmkit/internal/models"
	"github.com/scmkit/scmkit/internal/runner"
)

// newTestGit wires a GitRepository against a scripted runner in a fresh
// directory with no .git, so every query goes through the CLI path.
func newTestGit(t *testing.T) (*GitRepository, *runner.FakeRunner) {
	t.Helper()
	f := runner.NewFakeRunner()
	return NewGitWithRunner(t.TempDir(), f), f
}

func TestGitStatus(t *testing.T) {
	t.Run("PorcelainMapping", func(t *testing.T) {
		g, f := newTestGit(t)
		f.Script("git status --porcelain",
			" M foo.txt\n"+
				"?? bar.txt\n"+
				"A  new.txt\n"+
				"D  gone.txt\n"+
				"M  staged.txt\n")

		status, err := g.Status()
		require.NoError(t, err)
		assert.Equal(t, models.StatusModified, status["foo.txt"])
		assert.Equal(t, models.StatusUntracked, status["bar.txt"])
		assert.Equal(t, models.StatusAdded, status["new.txt"])
		assert.Equal(t, models.StatusDeleted, status["gone.txt"])
		assert.Equal(t, models.StatusStaged, status["staged.txt"])
		assert.True(t, status.Dirty())
	})

	t.Run("UnknownCodePassesThrough", func(t *testing.T) {
		g, f := newTestGit(t)
		f.Script("git status --porcelain", "XY odd.txt\n")

		status, err := g.Status()
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnknown, status["odd.txt"])
	})

	t.Run("CleanRepository", func(t *testing.T) {
		g, f := newTestGit(t)
		f.Script("git status --porcelain", "")

		status, err := g.Status()
		require.NoError(t, err)
		assert.Empty(t, status)
		assert.False(t, status.Dirty())
	})
}

func TestGitBranches(t *testing.T) {
	t.Run("StripsMarkerColumn", func(t *testing.T) {
		g, f := newTestGit(t)
		f.Script("git branch", "* main\n  feature/x\n  release\n")

		branches, err := g.Branches()
		require.NoError(t, err)
		assert.Equal(t, []string{"main", "feature/x", "release"}, branches)
	})

	t.Run("CurrentBranchIsStarred", func(t *testing.T) {
		g, f := newTestGit(t)
		f.Script("git branch", "  main\n* feature/x\n")

		current, err := g.CurrentBranch()
		require.NoError(t, err)
		assert.Equal(t, "feature/x", current)
	})

	t.Run("ReadingDoesNotMutate", func(t *testing.T) {
		g, f := newTestGit(t)
		f.Script("git branch", "* main\n")

		first, err := g.Branches()
		require.NoError(t, err)
		second, err := g.Branches()
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, []string{"git branch", "git branch"}, f.Calls)
	})
}

func TestGitTags(t *testing.T) {
	g, f := newTestGit(t)
	f.Script("git tag -l", "v1.0.0\nv1.1.0\n")

	tags, err := g.Tags()
	require.NoError(t, err)
	assert.Equal(t, []string{"v1.0.0", "v1.1.0"}, tags)
}

func TestGitLogArgs(t *testing.T) {
	g, _ := newTestGit(t)

	t.Run("Defaults", func(t *testing.T) {
		args := g.logArgs(LogOptions{})
		assert.Equal(t, []string{"log", "--pretty=format:" + gitLogFormat}, args)
	})

	t.Run("LimitAndRef", func(t *testing.T) {
		args := g.logArgs(LogOptions{Limit: 5, Ref: "main"})
		assert.Equal(t, []string{"log", "--pretty=format:" + gitLogFormat, "-5", "main"}, args)
	})

	t.Run("PathsAfterDoubleDash", func(t *testing.T) {
		args := g.logArgs(LogOptions{Paths: []string{"src", "docs"}})
		assert.Equal(t, []string{"log", "--pretty=format:" + gitLogFormat, "--", "src", "docs"}, args)
	})
}

func TestGitCommits(t *testing.T) {
	g, f := newTestGit(t)
	f.Script("git log --pretty=format:"+gitLogFormat,
		"aaa|p|t|100|alice|alice@x|first\n"+
			"bbb|p|t|200|bob|bob@x|second\n")

	commits, err := g.Commits(LogOptions{})
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "aaa", commits[0].ID())
	assert.Equal(t, "bob", commits[1].Author())
}

func TestGitCloneArgs(t *testing.T) {
	t.Run("PlainCloneHasNoSeparator", func(t *testing.T) {
		args := gitCloneArgs("git://host/repo.git", "", CloneOptions{})
		assert.Equal(t, []string{"clone", "git://host/repo.git"}, args)
	})

	t.Run("FlagsForceSeparatorBeforeURI", func(t *testing.T) {
		args := gitCloneArgs("git://host/repo.git", "dest", CloneOptions{
			Bare:  true,
			Depth: 3,
		})
		assert.Equal(t, []string{"clone", "--bare", "--depth", "3", "--", "git://host/repo.git", "dest"}, args)
	})

	t.Run("AllOptions", func(t *testing.T) {
		args := gitCloneArgs("u", "", CloneOptions{
			Mirror:            true,
			Branch:            "dev",
			RecurseSubmodules: true,
		})
		assert.Equal(t, []string{"clone", "--mirror", "--branch", "dev", "--recurse-submodules", "--", "u"}, args)
	})
}

func TestDefaultCloneDest(t *testing.T) {
	assert.Equal(t, "repo", defaultCloneDest("git://host/path/repo.git"))
	assert.Equal(t, "proj", defaultCloneDest("hg://host/proj.hg"))
	assert.Equal(t, "trunk", defaultCloneDest("svn://host/trunk/"))
}

func TestGitOperationalFailureIsRecoverable(t *testing.T) {
	g, f := newTestGit(t)
	f.ScriptExit("git commit -m nothing staged", 1, "nothing to commit")

	err := g.Commit("nothing staged")
	require.Error(t, err)
	assert.True(t, runner.IsExit(err))
}
