package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/scmkit/scmkit/internal/logger"
)

// ShellRunner executes commands against the real VCS binaries.
type ShellRunner struct {
	timeout time.Duration
}

// NewShellRunner creates a runner with no command timeout.
func NewShellRunner() *ShellRunner {
	return &ShellRunner{timeout: noTimeout}
}

// NewShellRunnerWithTimeout creates a runner that bounds every
// subprocess invocation.
func NewShellRunnerWithTimeout(timeout time.Duration) *ShellRunner {
	return &ShellRunner{timeout: timeout}
}

// Run implements Runner.Run.
func (r *ShellRunner) Run(dir, name string, args ...string) error {
	_, err := r.Output(dir, name, args...)
	return err
}

// Output implements Runner.Output.
func (r *ShellRunner) Output(dir, name string, args ...string) ([]byte, error) {
	args = filterArgs(args)
	cmdline := shellquote.Join(append([]string{name}, args...)...)

	ctx := context.Background()
	var cancel context.CancelFunc
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("exec: %s (dir=%s)", cmdline, dir)

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%s timed out after %v", cmdline, r.timeout)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return stdout.Bytes(), &ExitError{
				Cmd:    cmdline,
				Code:   exitErr.ExitCode(),
				Stderr: strings.TrimSpace(stderr.String()),
			}
		}
		return nil, fmt.Errorf("%s failed to start: %w", cmdline, err)
	}

	return stdout.Bytes(), nil
}

// Lines implements Runner.Lines. The subprocess runs concurrently with
// the consumer; a slow consumer applies backpressure through the pipe.
func (r *ShellRunner) Lines(dir, name string, args ...string) (LineStream, error) {
	args = filterArgs(args)
	cmdline := shellquote.Join(append([]string{name}, args...)...)

	ctx := context.Background()
	var cancel context.CancelFunc
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%s: %w", cmdline, err)
	}

	logger.Debugf("exec (stream): %s (dir=%s)", cmdline, dir)

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%s failed to start: %w", cmdline, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &shellStream{
		cmdline: cmdline,
		cmd:     cmd,
		cancel:  cancel,
		scanner: scanner,
		stderr:  &stderr,
	}, nil
}

type shellStream struct {
	cmdline string
	cmd     *exec.Cmd
	cancel  context.CancelFunc
	scanner *bufio.Scanner
	stderr  *bytes.Buffer

	line   string
	err    error
	closed bool
}

func (s *shellStream) Next() bool {
	if s.closed {
		return false
	}
	if !s.scanner.Scan() {
		s.finish()
		return false
	}
	s.line = strings.TrimRight(s.scanner.Text(), " \t\r")
	return true
}

func (s *shellStream) Text() string { return s.line }

func (s *shellStream) Err() error { return s.err }

// finish reaps the subprocess after the output is exhausted.
func (s *shellStream) finish() {
	if s.closed {
		return
	}
	s.closed = true
	defer s.cancel()

	if err := s.scanner.Err(); err != nil {
		s.err = fmt.Errorf("%s: reading output: %w", s.cmdline, err)
		_ = s.cmd.Wait()
		return
	}
	if err := s.cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			s.err = &ExitError{
				Cmd:    s.cmdline,
				Code:   exitErr.ExitCode(),
				Stderr: strings.TrimSpace(s.stderr.String()),
			}
			return
		}
		s.err = fmt.Errorf("%s: %w", s.cmdline, err)
	}
}

// Close terminates the stream. If output was not exhausted the
// subprocess is killed via context cancellation before reaping.
func (s *shellStream) Close() error {
	if s.closed {
		return s.err
	}
	s.closed = true
	s.cancel()
	_ = s.cmd.Wait()
	return nil
}
