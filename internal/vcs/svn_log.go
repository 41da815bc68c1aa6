package vcs

import (
	"strconv"
	"strings"
	"time"

	"github.com/scmkit/scmkit/internal/models"
	"github.com/scmkit/scmkit/internal/runner"
)

// svnLogSeparator is the literal line svn prints between revision blocks.
const svnLogSeparator = "------------------------------------------------------------------------"

// svnDateLayout covers the leading fixed-width portion of svn's date
// field; the parenthesized day name that may follow is ignored.
const svnDateLayout = "2006-01-02 15:04:05 -0700"

// parseSvnLog consumes svn log --verbose output: revision blocks bounded
// by the dashed separator, each with a pipe-delimited header, an optional
// changed-paths section and a free-text message.
func parseSvnLog(ls runner.LineStream, fn func(models.Commit) error) error {
	p := &svnLogParser{fn: fn}
	if err := runner.Each(ls, p.consume); err != nil {
		return err
	}
	return p.flush()
}

type svnLogParser struct {
	fn func(models.Commit) error

	cur      *models.SvnCommit
	state    svnParseState
	msgLines []string
}

type svnParseState int

const (
	svnExpectHeader svnParseState = iota
	svnAfterHeader
	svnInPaths
	svnInMessage
)

func (p *svnLogParser) consume(line string) error {
	if line == svnLogSeparator {
		// The leading separator opens the first block; later ones close
		// the block in progress.
		if err := p.flush(); err != nil {
			return err
		}
		p.state = svnExpectHeader
		return nil
	}

	switch p.state {
	case svnExpectHeader:
		if line == "" {
			return nil
		}
		commit, err := parseSvnLogHeader(line)
		if err != nil {
			return err
		}
		p.cur = commit
		p.state = svnAfterHeader
	case svnAfterHeader:
		if line == "Changed paths:" {
			p.state = svnInPaths
			return nil
		}
		if line == "" {
			p.state = svnInMessage
			return nil
		}
		// No blank line before the message; treat as message text.
		p.state = svnInMessage
		p.msgLines = append(p.msgLines, line)
	case svnInPaths:
		if line == "" {
			p.state = svnInMessage
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return &ParseError{Source: "svn log", Line: line, Reason: "malformed changed-paths entry"}
		}
		p.cur.Files = append(p.cur.Files, fields[1])
	case svnInMessage:
		// Blank lines inside the message belong to it; the block runs
		// to the next separator.
		p.msgLines = append(p.msgLines, line)
	}
	return nil
}

func (p *svnLogParser) flush() error {
	if p.cur == nil {
		p.msgLines = nil
		return nil
	}
	// Drop trailing blank lines the format inserts before the separator.
	msg := p.msgLines
	for len(msg) > 0 && msg[len(msg)-1] == "" {
		msg = msg[:len(msg)-1]
	}
	if len(msg) > 0 {
		p.cur.Subject = msg[0]
		p.cur.Body = strings.Join(msg, "\n")
	}
	commit := p.cur
	p.cur = nil
	p.msgLines = nil
	p.state = svnExpectHeader
	return p.fn(commit)
}

// parseSvnLogHeader parses "rN | author | date | N lines".
func parseSvnLogHeader(line string) (*models.SvnCommit, error) {
	fields := strings.Split(line, " | ")
	if len(fields) != 4 {
		return nil, &ParseError{Source: "svn log", Line: line, Reason: "expected 4 pipe-delimited header fields"}
	}
	revStr := strings.TrimPrefix(fields[0], "r")
	if revStr == fields[0] {
		return nil, &ParseError{Source: "svn log", Line: line, Reason: "revision field missing r prefix"}
	}
	rev, err := strconv.Atoi(revStr)
	if err != nil {
		return nil, &ParseError{Source: "svn log", Line: line, Reason: "bad revision number " + revStr}
	}

	dateStr := fields[2]
	if len(dateStr) > len(svnDateLayout) {
		dateStr = dateStr[:len(svnDateLayout)]
	}
	when, err := time.Parse(svnDateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return nil, &ParseError{Source: "svn log", Line: line, Reason: "bad date " + fields[2]}
	}

	return &models.SvnCommit{
		Revision:   rev,
		AuthorName: fields[1],
		Timestamp:  when,
	}, nil
}
