package vcs

import (
	"strconv"
	"strings"
	"time"

	"github.com/scmkit/scmkit/internal/models"
	"github.com/scmkit/scmkit/internal/runner"
)

// gitLogFormat yields exactly seven pipe-delimited fields per commit:
// hash, parent, tree, unix timestamp, author name, author email, subject.
const gitLogFormat = "%H|%P|%T|%at|%an|%ae|%s"

// parseGitLog consumes pipe-delimited log lines and delivers one
// GitCommit per line. Records are single-line; there is no folding.
func parseGitLog(ls runner.LineStream, fn func(models.Commit) error) error {
	return runner.Each(ls, func(line string) error {
		if line == "" {
			return nil
		}
		commit, err := parseGitLogLine(line)
		if err != nil {
			return err
		}
		return fn(commit)
	})
}

func parseGitLogLine(line string) (*models.GitCommit, error) {
	// The subject may itself contain pipes, so only the first six
	// separators split fields.
	fields := strings.SplitN(line, "|", 7)
	if len(fields) != 7 {
		return nil, &ParseError{Source: "git log", Line: line, Reason: "expected 7 pipe-delimited fields"}
	}
	if fields[0] == "" {
		return nil, &ParseError{Source: "git log", Line: line, Reason: "empty commit hash"}
	}
	unix, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, &ParseError{Source: "git log", Line: line, Reason: "bad unix timestamp " + fields[3]}
	}
	return &models.GitCommit{
		Hash:        fields[0],
		Parent:      fields[1],
		Tree:        fields[2],
		Timestamp:   time.Unix(unix, 0).UTC(),
		AuthorName:  fields[4],
		AuthorEmail: fields[5],
		Subject:     fields[6],
	}, nil
}
