package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRunnerOutput(t *testing.T) {
	r := NewShellRunner()

	t.Run("CapturesStdout", func(t *testing.T) {
		out, err := r.Output("", "echo", "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(out))
	})

	t.Run("FiltersEmptyArguments", func(t *testing.T) {
		out, err := r.Output("", "echo", "", "a", "", "b")
		require.NoError(t, err)
		assert.Equal(t, "a b\n", string(out))
	})

	t.Run("RunsInDirectory", func(t *testing.T) {
		dir := t.TempDir()
		out, err := r.Output(dir, "pwd")
		require.NoError(t, err)
		assert.Contains(t, string(out), dir)
	})

	t.Run("NonZeroExitIsExitError", func(t *testing.T) {
		err := r.Run("", "sh", "-c", "echo oops >&2; exit 3")
		require.Error(t, err)
		assert.True(t, IsExit(err))

		exitErr, ok := err.(*ExitError)
		require.True(t, ok)
		assert.Equal(t, 3, exitErr.Code)
		assert.Equal(t, "oops", exitErr.Stderr)
	})

	t.Run("MissingBinaryIsNotExitError", func(t *testing.T) {
		err := r.Run("", "definitely-not-a-real-binary-xyz")
		require.Error(t, err)
		assert.False(t, IsExit(err))
	})
}

func TestShellRunnerLines(t *testing.T) {
	r := NewShellRunner()

	t.Run("StreamsLines", func(t *testing.T) {
		ls, err := r.Lines("", "printf", "one\ntwo\nthree\n")
		require.NoError(t, err)

		lines, err := Collect(ls)
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two", "three"}, lines)
	})

	t.Run("TrimsTrailingWhitespace", func(t *testing.T) {
		ls, err := r.Lines("", "printf", "padded   \n")
		require.NoError(t, err)

		require.True(t, ls.Next())
		assert.Equal(t, "padded", ls.Text())
		assert.False(t, ls.Next())
		require.NoError(t, ls.Err())
		require.NoError(t, ls.Close())
	})

	t.Run("NonZeroExitSurfacesAfterExhaustion", func(t *testing.T) {
		ls, err := r.Lines("", "sh", "-c", "echo partial; exit 2")
		require.NoError(t, err)

		require.True(t, ls.Next())
		assert.Equal(t, "partial", ls.Text())
		assert.False(t, ls.Next())
		assert.True(t, IsExit(ls.Err()))
	})

	t.Run("CloseTerminatesSubprocess", func(t *testing.T) {
		ls, err := r.Lines("", "sh", "-c", "echo first; sleep 30")
		require.NoError(t, err)

		require.True(t, ls.Next())

		done := make(chan error, 1)
		go func() { done <- ls.Close() }()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Close did not terminate the subprocess")
		}
	})
}

func TestShellRunnerTimeout(t *testing.T) {
	r := NewShellRunnerWithTimeout(100 * time.Millisecond)

	_, err := r.Output("", "sleep", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
