package vcs

import (
	"strconv"
	"strings"
	"time"

	"github.com/scmkit/scmkit/internal/models"
	"github.com/scmkit/scmkit/internal/runner"
)

// hgDateLayout is hg's default log date rendering.
const hgDateLayout = "Mon Jan 02 15:04:05 2006 -0700"

// parseHgLog consumes hg log output: multi-line key/value stanzas. A
// stanza ends at a blank line; a changeset: key starting while a stanza
// is open also closes it, so a stream missing its trailing blank line
// cannot drop the final record.
func parseHgLog(ls runner.LineStream, fn func(models.Commit) error) error {
	p := &hgLogParser{fn: fn}
	if err := runner.Each(ls, p.consume); err != nil {
		return err
	}
	return p.flush()
}

type hgLogParser struct {
	fn func(models.Commit) error

	cur           *models.HgCommit
	hasChangeset  bool
	inDescription bool
	descLines     []string
}

func (p *hgLogParser) consume(line string) error {
	if line == "" {
		// Blank line is the canonical stanza terminator.
		if p.cur != nil {
			return p.flush()
		}
		return nil
	}

	if p.inDescription {
		p.descLines = append(p.descLines, line)
		return nil
	}

	key, value, found := strings.Cut(line, ":")
	if !found {
		return &ParseError{Source: "hg log", Line: line, Reason: "expected key: value"}
	}
	value = strings.TrimSpace(value)

	switch key {
	case "changeset":
		if p.cur != nil && p.hasChangeset {
			if err := p.flush(); err != nil {
				return err
			}
		}
		p.ensure()
		revStr, hash, ok := strings.Cut(value, ":")
		if !ok {
			return &ParseError{Source: "hg log", Line: line, Reason: "changeset is not REV:HASH"}
		}
		rev, err := strconv.Atoi(revStr)
		if err != nil {
			return &ParseError{Source: "hg log", Line: line, Reason: "bad revision number " + revStr}
		}
		p.cur.Revision = rev
		p.cur.Hash = hash
		p.hasChangeset = true
	case "branch":
		p.ensure()
		p.cur.Branch = value
	case "user":
		p.ensure()
		p.cur.AuthorName = value
	case "date":
		p.ensure()
		when, err := time.Parse(hgDateLayout, value)
		if err != nil {
			return &ParseError{Source: "hg log", Line: line, Reason: "bad date " + value}
		}
		p.cur.Timestamp = when
	case "summary":
		p.ensure()
		p.cur.Subject = value
	case "description":
		p.ensure()
		p.inDescription = true
		if value != "" {
			p.descLines = append(p.descLines, value)
		}
	case "files":
		p.ensure()
		p.cur.Files = strings.Fields(value)
	default:
		// tag:, parent: and friends are present in default output but
		// carry nothing the record model needs.
	}
	return nil
}

func (p *hgLogParser) ensure() {
	if p.cur == nil {
		p.cur = &models.HgCommit{}
	}
}

func (p *hgLogParser) flush() error {
	if p.cur == nil {
		return nil
	}
	if !p.hasChangeset {
		return &ParseError{Source: "hg log", Line: "", Reason: "stanza missing changeset key"}
	}
	if len(p.descLines) > 0 {
		p.cur.Body = strings.Join(p.descLines, "\n")
		if p.cur.Subject == "" {
			p.cur.Subject = p.descLines[0]
		}
	}
	commit := p.cur
	p.cur = nil
	p.hasChangeset = false
	p.inDescription = false
	p.descLines = nil
	return p.fn(commit)
}
