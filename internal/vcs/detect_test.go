package vcs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scmkit/scmkit/internal/runner"
)

func mkControlDir(t *testing.T, root, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0o755))
}

func TestDetect(t *testing.T) {
	t.Run("Git", func(t *testing.T) {
		root := t.TempDir()
		mkControlDir(t, root, ".git")

		repo, err := Detect(root)
		require.NoError(t, err)
		assert.Equal(t, KindGit, repo.Kind())
		assert.IsType(t, &GitRepository{}, repo)
	})

	t.Run("Hg", func(t *testing.T) {
		root := t.TempDir()
		mkControlDir(t, root, ".hg")

		repo, err := Detect(root)
		require.NoError(t, err)
		assert.Equal(t, KindHg, repo.Kind())
	})

	t.Run("Svn", func(t *testing.T) {
		root := t.TempDir()
		mkControlDir(t, root, ".svn")

		repo, err := Detect(root)
		require.NoError(t, err)
		assert.Equal(t, KindSvn, repo.Kind())
	})

	t.Run("GitWinsWhenControlDirsCoexist", func(t *testing.T) {
		root := t.TempDir()
		mkControlDir(t, root, ".svn")
		mkControlDir(t, root, ".hg")
		mkControlDir(t, root, ".git")

		repo, err := Detect(root)
		require.NoError(t, err)
		assert.Equal(t, KindGit, repo.Kind())
	})

	t.Run("NoControlDirectory", func(t *testing.T) {
		root := t.TempDir()

		repo, err := Detect(root)
		require.Error(t, err)
		assert.Nil(t, repo)

		detectErr, ok := err.(*DetectError)
		require.True(t, ok)
		assert.Equal(t, root, detectErr.Target)
		assert.Contains(t, err.Error(), root)
	})

	t.Run("ControlFileIsNotEnough", func(t *testing.T) {
		// A plain file named .git (as in a worktree link) does not count
		// for directory-based detection.
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, ".hg"), []byte("x"), 0o644))

		_, err := Detect(root)
		require.Error(t, err)
	})
}

func TestDetectWithRunner(t *testing.T) {
	root := t.TempDir()
	mkControlDir(t, root, ".hg")
	f := runner.NewFakeRunner()
	f.Script("hg branch", "default\n")

	repo, err := DetectWithRunner(root, f)
	require.NoError(t, err)

	current, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "default", current)
	assert.Equal(t, []string{"hg branch"}, f.Calls)
}

func TestDetectKind(t *testing.T) {
	t.Run("Schemes", func(t *testing.T) {
		for uri, want := range map[string]Kind{
			"git://host/project": KindGit,
			"hg://host/project":  KindHg,
			"svn://host/trunk":   KindSvn,
		} {
			kind, err := DetectKind(uri)
			require.NoError(t, err, uri)
			assert.Equal(t, want, kind, uri)
		}
	})

	t.Run("Extensions", func(t *testing.T) {
		for uri, want := range map[string]Kind{
			"https://host/project.git":  KindGit,
			"https://host/project.hg":   KindHg,
			"https://host/project.svn/": KindSvn,
		} {
			kind, err := DetectKind(uri)
			require.NoError(t, err, uri)
			assert.Equal(t, want, kind, uri)
		}
	})

	t.Run("Undecidable", func(t *testing.T) {
		_, err := DetectKind("https://host/project")
		require.Error(t, err)

		_, ok := err.(*DetectError)
		assert.True(t, ok)
	})
}

func TestCloneURIUndecidable(t *testing.T) {
	repo, err := CloneURI("ftp://host/project", "", CloneOptions{})
	require.Error(t, err)
	assert.Nil(t, repo)

	detectErr, ok := err.(*DetectError)
	require.True(t, ok)
	assert.Equal(t, "ftp://host/project", detectErr.Target)
}
