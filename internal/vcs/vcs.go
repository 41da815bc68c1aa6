// Package vcs provides a uniform abstraction over the git, hg and svn
// command line tools. Each backend translates the common operation set
// into tool-specific subcommands and parses the tool's output back into
// the shared record types in internal/models.
package vcs

import (
	"fmt"

	"github.com/scmkit/scmkit/internal/models"
)

// Kind identifies a version control backend.
type Kind string

const (
	KindGit Kind = "git"
	KindHg  Kind = "hg"
	KindSvn Kind = "svn"
)

// Repository is the uniform operation surface over one working copy or
// store. Implementations: *GitRepository, *HgRepository, *SvnRepository.
// Per-backend divergences (SVN's path-pointer branches, Hg's emulated
// branch deletion) are documented on the concrete types.
//
// A Repository is not safe for concurrent use from multiple goroutines;
// callers needing parallelism run one instance per goroutine.
type Repository interface {
	// Kind returns the backend this repository uses.
	Kind() Kind
	// Path returns the working path this instance operates against.
	Path() string

	Status() (models.StatusMap, error)
	Add(paths ...string) error
	Move(src, dst string) error
	Remove(paths ...string) error
	Commit(message string, paths ...string) error

	Branches() ([]string, error)
	CurrentBranch() (string, error)
	SwitchBranch(name string) error
	DeleteBranch(name string) error

	Tags() ([]string, error)
	Tag(name string, opts TagOptions) error
	DeleteTag(name string) error

	// Log returns the raw log output lines, untranslated.
	Log(opts LogOptions) ([]string, error)
	// Commits returns the parsed log as typed records.
	Commits(opts LogOptions) ([]models.Commit, error)
	// EachCommit streams records to fn as the underlying log output is
	// parsed, overlapping parsing with subprocess execution.
	EachCommit(opts LogOptions, fn func(models.Commit) error) error

	// Files lists the tracked file paths.
	Files() ([]string, error)

	Push() error
	Pull() error
}

// LogOptions selects and bounds a log request.
type LogOptions struct {
	// Limit caps the number of commits; zero means no cap.
	Limit int
	// Ref selects a branch, revision or commit to log from.
	Ref string
	// Paths restricts the log to commits touching the given paths.
	Paths []string
	// WithFiles asks for changed-file lists where the backend supports
	// them (hg verbose output, svn --verbose).
	WithFiles bool
}

// TagOptions configures tag creation.
type TagOptions struct {
	// Commit pins the tag to a specific commit or revision. SVN's
	// copy-based tagging cannot honor this and rejects it.
	Commit string
	// Message is attached to annotated tags where supported.
	Message string
}

// CreateOptions configures repository initialization.
type CreateOptions struct {
	// Bare creates a store with no working files. Unsupported by hg.
	Bare bool
}

// CloneOptions configures clone/checkout of a remote.
type CloneOptions struct {
	Bare              bool
	Mirror            bool
	Depth             int
	Branch            string
	RecurseSubmodules bool
	// Revision selects the revision for svn checkout.
	Revision string
}

// UsageError reports a request a backend cannot honor, detected before
// any subprocess runs.
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// InitError reports a failed create/clone. No repository handle is ever
// returned alongside one.
type InitError struct {
	Path string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing repository at %s: %v", e.Path, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// ParseError reports VCS output the parser could not make sense of.
type ParseError struct {
	Source string
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable %s output: %s (line %q)", e.Source, e.Reason, e.Line)
}

// DetectError reports a path or URI whose VCS could not be determined.
type DetectError struct {
	Target string
}

func (e *DetectError) Error() string {
	return fmt.Sprintf("cannot determine SCM for %s", e.Target)
}
