package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scmkit/scmkit/internal/models"
	"github.com/scmkit/scmkit/internal/runner"
)

func newTestHg(t *testing.T) (*HgRepository, *runner.FakeRunner) {
	t.Helper()
	f := runner.NewFakeRunner()
	return NewHgWithRunner(t.TempDir(), f), f
}

func TestHgStatus(t *testing.T) {
	t.Run("CodeMapping", func(t *testing.T) {
		h, f := newTestHg(t)
		f.Script("hg status",
			"M changed.txt\n"+
				"A added.txt\n"+
				"R removed.txt\n"+
				"! missing.txt\n"+
				"? stray.txt\n"+
				"I ignored.txt\n")

		status, err := h.Status()
		require.NoError(t, err)
		assert.Equal(t, models.StatusModified, status["changed.txt"])
		assert.Equal(t, models.StatusAdded, status["added.txt"])
		assert.Equal(t, models.StatusRemoved, status["removed.txt"])
		assert.Equal(t, models.StatusMissing, status["missing.txt"])
		assert.Equal(t, models.StatusUntracked, status["stray.txt"])
		assert.Equal(t, models.StatusIgnored, status["ignored.txt"])
	})

	t.Run("CopyOriginAnnotation", func(t *testing.T) {
		h, f := newTestHg(t)
		f.Script("hg status", "A copied.txt\n  original.txt\n")

		status, err := h.Status()
		require.NoError(t, err)
		assert.Equal(t, models.StatusAdded, status["copied.txt"])
		assert.Equal(t, models.StatusOrigin, status["original.txt"])
	})

	t.Run("UnknownCode", func(t *testing.T) {
		h, f := newTestHg(t)
		f.Script("hg status", "Z odd.txt\n")

		status, err := h.Status()
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnknown, status["odd.txt"])
	})
}

func TestHgBranchesAndTags(t *testing.T) {
	t.Run("BranchesTakeFirstField", func(t *testing.T) {
		h, f := newTestHg(t)
		f.Script("hg branches", "default                       12:abc123def\nfeature                        9:def456abc (inactive)\n")

		branches, err := h.Branches()
		require.NoError(t, err)
		assert.Equal(t, []string{"default", "feature"}, branches)
	})

	t.Run("CurrentBranch", func(t *testing.T) {
		h, f := newTestHg(t)
		f.Script("hg branch", "feature\n")

		current, err := h.CurrentBranch()
		require.NoError(t, err)
		assert.Equal(t, "feature", current)
	})

	t.Run("Tags", func(t *testing.T) {
		h, f := newTestHg(t)
		f.Script("hg tags", "tip                               12:abc123def\nv1.0                               4:aaa111bbb\n")

		tags, err := h.Tags()
		require.NoError(t, err)
		assert.Equal(t, []string{"tip", "v1.0"}, tags)
	})

	t.Run("RepeatedReadsAreStable", func(t *testing.T) {
		h, f := newTestHg(t)
		f.Script("hg tags", "tip    0:abc\n")

		first, err := h.Tags()
		require.NoError(t, err)
		second, err := h.Tags()
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestHgSwitchAndDeleteBranch(t *testing.T) {
	t.Run("SwitchRunsUpdate", func(t *testing.T) {
		h, f := newTestHg(t)
		f.Script("hg update feature", "")

		require.NoError(t, h.SwitchBranch("feature"))
		assert.Equal(t, []string{"hg update feature"}, f.Calls)
	})

	t.Run("DeleteClosesBranch", func(t *testing.T) {
		h, f := newTestHg(t)
		f.Script("hg update old", "")
		f.Script("hg commit --close-branch -m Closing old", "")

		require.NoError(t, h.DeleteBranch("old"))
		assert.Equal(t, []string{
			"hg update old",
			"hg commit --close-branch -m Closing old",
		}, f.Calls)
	})
}

func TestInitHgRejectsBare(t *testing.T) {
	repo, remote, err := InitHg(t.TempDir()+"/store", CreateOptions{Bare: true})
	require.Error(t, err)
	assert.Nil(t, repo)
	assert.Nil(t, remote)

	usageErr, ok := err.(*UsageError)
	require.True(t, ok)
	assert.Contains(t, usageErr.Reason, "bare")
}

func TestHgLogArgs(t *testing.T) {
	h, _ := newTestHg(t)

	t.Run("Defaults", func(t *testing.T) {
		assert.Equal(t, []string{"log"}, h.logArgs(LogOptions{}))
	})

	t.Run("VerboseLimitRef", func(t *testing.T) {
		args := h.logArgs(LogOptions{WithFiles: true, Limit: 10, Ref: "2"})
		assert.Equal(t, []string{"log", "-v", "-l", "10", "-r", "2"}, args)
	})

	t.Run("Paths", func(t *testing.T) {
		args := h.logArgs(LogOptions{Paths: []string{"src"}})
		assert.Equal(t, []string{"log", "src"}, args)
	})
}

func TestHgCommits(t *testing.T) {
	h, f := newTestHg(t)
	f.Script("hg log",
		"changeset:   1:aaa\n"+
			"user:        alice\n"+
			"date:        Mon Jan 06 09:00:00 2020 +0000\n"+
			"summary:     one\n"+
			"\n")

	commits, err := h.Commits(LogOptions{})
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "1", commits[0].ID())
	assert.Equal(t, "alice", commits[0].Author())
}
