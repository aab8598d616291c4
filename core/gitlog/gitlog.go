// Package gitlog turns raw git log text into structured commit entries.
//
// The expected input is the output of
//
//	git log --numstat --date=iso-strict --pretty=format:'"%an <%ae>,%ad"'
//
// where each commit starts with a quoted header line and is followed by
// tab-separated numstat lines. Entries are pushed to a callback one at a
// time, in the order they appear in the log.
package gitlog

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by the parser.
var (
	ErrMalformedHeader = errors.New("malformed commit header")
	ErrNegativeLimit   = errors.New("limits must be non-negative")
)

// CommitHeader identifies the author and time of a single commit.
type CommitHeader struct {
	UserName string    `json:"userName"`
	Email    string    `json:"email"`
	Date     time.Time `json:"date"`
}

// FileChange is one numstat line with its path already normalized.
type FileChange struct {
	LinesAdded   int    `json:"linesAdded"`
	LinesRemoved int    `json:"linesRemoved"`
	Path         string `json:"path"`
}

// LogEntry is a commit header plus the file changes that belong to it.
type LogEntry struct {
	Header CommitHeader `json:"header"`
	Body   []FileChange `json:"body"`
}

// Limits bounds how much history is emitted. Zero means unlimited.
type Limits struct {
	LimitCommits int `json:"limitCommits" yaml:"limit-commits"`
	LimitMonths  int `json:"limitMonths" yaml:"limit-months"`
}

// Validate rejects negative limits.
func (l Limits) Validate() error {
	if l.LimitCommits < 0 || l.LimitMonths < 0 {
		return ErrNegativeLimit
	}
	return nil
}

// Cutoff returns the oldest commit time still accepted by LimitMonths,
// or the zero time when no month window applies.
func (l Limits) Cutoff(now time.Time) time.Time {
	if l.LimitMonths <= 0 {
		return time.Time{}
	}
	return now.AddDate(0, -l.LimitMonths, 0)
}

// LogSource supplies the raw log text for a configured repository.
type LogSource interface {
	LoadCachedLog(ctx context.Context) (string, error)
}

// EntryFunc receives parsed entries. It is never called concurrently.
type EntryFunc func(entry LogEntry)
