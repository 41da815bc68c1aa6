package runner

import (
	"errors"
	"fmt"
	"time"
)

// Runner abstracts subprocess execution for the VCS backends. The working
// directory is an explicit argument on every call so that concurrent use
// of different repositories never races on process state.
type Runner interface {
	// Run invokes the program and waits for it, reporting failure as an
	// error. A non-zero exit is an *ExitError; callers treat it as a
	// recoverable outcome, not a fault in the runner.
	Run(dir, name string, args ...string) error

	// Output invokes the program and returns its captured stdout.
	Output(dir, name string, args ...string) ([]byte, error)

	// Lines spawns the program and exposes its stdout as a lazy stream of
	// trimmed lines. The stream must be exhausted or closed, otherwise the
	// subprocess leaks.
	Lines(dir, name string, args ...string) (LineStream, error)
}

// LineStream is a pull-based iterator over subprocess output lines. A
// stream is finite and not restartable; re-reading requires a new spawn.
type LineStream interface {
	// Next advances to the next line, returning false at end of output
	// or on error.
	Next() bool
	// Text returns the current line with trailing whitespace trimmed.
	Text() string
	// Err returns the first error hit while reading or waiting on the
	// subprocess, once Next has returned false.
	Err() error
	// Close releases the stream early, terminating the subprocess if it
	// is still running. Safe to call after exhaustion.
	Close() error
}

// Each drains the stream push-style, delivering every line to fn as it is
// produced. The stream is always closed, including when fn fails.
func Each(ls LineStream, fn func(line string) error) error {
	defer func() { _ = ls.Close() }()
	for ls.Next() {
		if err := fn(ls.Text()); err != nil {
			return err
		}
	}
	return ls.Err()
}

// Collect drains the stream into a slice, dropping empty lines.
func Collect(ls LineStream) ([]string, error) {
	var lines []string
	err := Each(ls, func(line string) error {
		if line != "" {
			lines = append(lines, line)
		}
		return nil
	})
	return lines, err
}

// ExitError reports a subprocess that ran to completion with a non-zero
// status. It carries the rendered command line and captured stderr.
type ExitError struct {
	Cmd    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with status %d: %s", e.Cmd, e.Code, e.Stderr)
	}
	return fmt.Sprintf("%s exited with status %d", e.Cmd, e.Code)
}

// IsExit reports whether err represents a non-zero subprocess exit, the
// recoverable class of failure callers are expected to branch on.
func IsExit(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

// filterArgs drops empty arguments, which the VCS binaries would
// otherwise interpret as a bogus positional parameter.
func filterArgs(args []string) []string {
	out := args[:0:0]
	for _, a := range args {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// noTimeout is the default when configuration does not bound commands.
const noTimeout = time.Duration(0)
