package models

import (
	"strconv"
	"time"
)

// Commit is one parsed log entry. Each VCS backend produces its own
// implementation; records are immutable once a parser emits them.
type Commit interface {
	// ID returns the VCS-native identifier: a full SHA1 for Git, the
	// local revision number for Mercurial, the integer revision for
	// Subversion. Never empty for a parsed record.
	ID() string
	// When returns the commit timestamp resolved to an absolute instant.
	When() time.Time
	// Author returns the author (or committer, for SVN) name.
	Author() string
	// Summary returns the one-line subject.
	Summary() string
	// Message returns the full commit message. Backends whose log format
	// carries only the subject return the subject here as well.
	Message() string
	// ChangedFiles returns the paths touched by the commit, when the log
	// was requested with file listing enabled.
	ChangedFiles() []string
}

// GitCommit is a commit parsed from git log output.
type GitCommit struct {
	Hash        string    `json:"hash"`
	Parent      string    `json:"parent"`
	Tree        string    `json:"tree"`
	Timestamp   time.Time `json:"timestamp"`
	AuthorName  string    `json:"author"`
	AuthorEmail string    `json:"author_email"`
	Subject     string    `json:"subject"`
	Files       []string  `json:"files,omitempty"`
}

func (c *GitCommit) ID() string             { return c.Hash }
func (c *GitCommit) When() time.Time        { return c.Timestamp }
func (c *GitCommit) Author() string         { return c.AuthorName }
func (c *GitCommit) Summary() string        { return c.Subject }
func (c *GitCommit) Message() string        { return c.Subject }
func (c *GitCommit) ChangedFiles() []string { return c.Files }

// HgCommit is a commit parsed from hg log output. Revision is the
// repository-local sequence number; Hash is the global changeset ID.
type HgCommit struct {
	Revision   int       `json:"revision"`
	Hash       string    `json:"hash"`
	Branch     string    `json:"branch,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	AuthorName string    `json:"author"`
	Subject    string    `json:"subject"`
	Body       string    `json:"message"`
	Files      []string  `json:"files,omitempty"`
}

func (c *HgCommit) ID() string      { return strconv.Itoa(c.Revision) }
func (c *HgCommit) When() time.Time { return c.Timestamp }
func (c *HgCommit) Author() string  { return c.AuthorName }
func (c *HgCommit) Summary() string { return c.Subject }
func (c *HgCommit) Message() string {
	if c.Body != "" {
		return c.Body
	}
	return c.Subject
}
func (c *HgCommit) ChangedFiles() []string { return c.Files }

// SvnCommit is a commit parsed from svn log output. SVN has a single
// linear revision counter and no parent or tree concept.
type SvnCommit struct {
	Revision   int       `json:"revision"`
	Timestamp  time.Time `json:"timestamp"`
	AuthorName string    `json:"author"`
	Subject    string    `json:"subject"`
	Body       string    `json:"message"`
	Files      []string  `json:"files,omitempty"`
}

func (c *SvnCommit) ID() string      { return strconv.Itoa(c.Revision) }
func (c *SvnCommit) When() time.Time { return c.Timestamp }
func (c *SvnCommit) Author() string  { return c.AuthorName }
func (c *SvnCommit) Summary() string { return c.Subject }
func (c *SvnCommit) Message() string {
	if c.Body != "" {
		return c.Body
	}
	return c.Subject
}
func (c *SvnCommit) ChangedFiles() []string { return c.Files }
