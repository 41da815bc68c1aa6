package models

// FileStatus classifies one path in a working copy, normalized across
// the per-VCS status encodings.
type FileStatus string

const (
	StatusModified  FileStatus = "modified"
	StatusStaged    FileStatus = "staged"
	StatusAdded     FileStatus = "added"
	StatusDeleted   FileStatus = "deleted"
	StatusRenamed   FileStatus = "renamed"
	StatusCopied    FileStatus = "copied"
	StatusUnmerged  FileStatus = "unmerged"
	StatusUntracked FileStatus = "untracked"

	// Mercurial-specific codes
	StatusRemoved FileStatus = "removed"
	StatusClean   FileStatus = "clean"
	StatusMissing FileStatus = "missing"
	StatusIgnored FileStatus = "ignored"
	StatusOrigin  FileStatus = "origin"

	// Subversion-specific codes
	StatusConflicted  FileStatus = "conflicted"
	StatusReplaced    FileStatus = "replaced"
	StatusUnversioned FileStatus = "unversioned"
	StatusObstructed  FileStatus = "obstructed"

	// StatusUnknown marks a code outside the backend's table. Unknown
	// codes pass through rather than failing the whole status read.
	StatusUnknown FileStatus = "unknown"
)

// StatusMap is the parsed output of a status command: path to state.
type StatusMap map[string]FileStatus

// Dirty reports whether any tracked path carries a local change.
// Untracked, ignored and clean entries do not count.
func (m StatusMap) Dirty() bool {
	for _, st := range m {
		switch st {
		case StatusUntracked, StatusIgnored, StatusClean, StatusUnversioned, StatusUnknown:
		default:
			return true
		}
	}
	return false
}
