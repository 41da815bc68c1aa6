package runner

import (
	"fmt"
	"strings"
)

// FakeRunner is a scripted Runner for tests. Responses are keyed by the
// space-joined command line; unscripted commands fail loudly so a test
// never silently shells out.
type FakeRunner struct {
	responses map[string]fakeResponse
	// Calls records every command line executed, in order.
	Calls []string
	// Dirs records the working directory of each call, aligned with Calls.
	Dirs []string
}

type fakeResponse struct {
	output string
	err    error
}

// NewFakeRunner creates an empty scripted runner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]fakeResponse)}
}

// Script registers output for a command line, e.g.
// Script("git status --porcelain", " M foo.txt\n").
func (f *FakeRunner) Script(cmdline, output string) *FakeRunner {
	f.responses[cmdline] = fakeResponse{output: output}
	return f
}

// ScriptError registers a failure for a command line.
func (f *FakeRunner) ScriptError(cmdline string, err error) *FakeRunner {
	f.responses[cmdline] = fakeResponse{err: err}
	return f
}

// ScriptExit registers a non-zero exit for a command line.
func (f *FakeRunner) ScriptExit(cmdline string, code int, stderr string) *FakeRunner {
	f.responses[cmdline] = fakeResponse{err: &ExitError{Cmd: cmdline, Code: code, Stderr: stderr}}
	return f
}

func (f *FakeRunner) lookup(dir, name string, args []string) (fakeResponse, error) {
	args = filterArgs(args)
	cmdline := strings.Join(append([]string{name}, args...), " ")
	f.Calls = append(f.Calls, cmdline)
	f.Dirs = append(f.Dirs, dir)

	resp, ok := f.responses[cmdline]
	if !ok {
		return fakeResponse{}, fmt.Errorf("fake runner: unscripted command: %s", cmdline)
	}
	return resp, nil
}

// Run implements Runner.Run.
func (f *FakeRunner) Run(dir, name string, args ...string) error {
	resp, err := f.lookup(dir, name, args)
	if err != nil {
		return err
	}
	return resp.err
}

// Output implements Runner.Output.
func (f *FakeRunner) Output(dir, name string, args ...string) ([]byte, error) {
	resp, err := f.lookup(dir, name, args)
	if err != nil {
		return nil, err
	}
	return []byte(resp.output), resp.err
}

// Lines implements Runner.Lines.
func (f *FakeRunner) Lines(dir, name string, args ...string) (LineStream, error) {
	resp, err := f.lookup(dir, name, args)
	if err != nil {
		return nil, err
	}
	var lines []string
	if resp.output != "" {
		lines = strings.Split(strings.TrimRight(resp.output, "\n"), "\n")
		for i, l := range lines {
			lines[i] = strings.TrimRight(l, " \t\r")
		}
	}
	return &sliceStream{lines: lines, finalErr: resp.err}, nil
}

type sliceStream struct {
	lines    []string
	pos      int
	line     string
	finalErr error
	done     bool
}

func (s *sliceStream) Next() bool {
	if s.done || s.pos >= len(s.lines) {
		s.done = true
		return false
	}
	s.line = s.lines[s.pos]
	s.pos++
	return true
}

func (s *sliceStream) Text() string { return s.line }

func (s *sliceStream) Err() error {
	if s.done {
		return s.finalErr
	}
	return nil
}

func (s *sliceStream) Close() error {
	s.done = true
	return nil
}
