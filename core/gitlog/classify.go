package gitlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LineKind is the classification of a single raw log line.
type LineKind int

// Line kinds recognized by Classify.
const (
	BlankLine LineKind = iota
	HeaderLine
	BodyLine
	MalformedLine
)

// String returns a readable name for the line kind.
func (k LineKind) String() string {
	switch k {
	case BlankLine:
		return "blank"
	case HeaderLine:
		return "header"
	case BodyLine:
		return "body"
	default:
		return "malformed"
	}
}

// Classify decides what a raw line is. Header lines are recognized by their
// opening quote only; whether the header content is valid is decided by
// ParseHeader so that a broken header can fail the parse instead of being
// silently skipped.
func Classify(line string) LineKind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return BlankLine
	}
	if strings.HasPrefix(trimmed, `"`) {
		return HeaderLine
	}
	if _, ok := ParseBody(line); ok {
		return BodyLine
	}
	return MalformedLine
}

// ParseHeader parses a line of the form "Name <email>,2024-01-15T10:30:00Z".
func ParseHeader(line string) (CommitHeader, error) {
	content := strings.TrimSpace(line)
	content = strings.TrimPrefix(content, `"`)
	content = strings.TrimSuffix(content, `"`)

	comma := strings.LastIndex(content, ",")
	if comma == -1 {
		return CommitHeader{}, fmt.Errorf("%w: missing date in %q", ErrMalformedHeader, line)
	}
	author, dateStr := content[:comma], strings.TrimSpace(content[comma+1:])

	open := strings.LastIndex(author, "<")
	closing := strings.LastIndex(author, ">")
	if open == -1 || closing < open {
		return CommitHeader{}, fmt.Errorf("%w: missing email in %q", ErrMalformedHeader, line)
	}
	email := strings.TrimSpace(author[open+1 : closing])
	if email == "" {
		return CommitHeader{}, fmt.Errorf("%w: empty email in %q", ErrMalformedHeader, line)
	}

	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return CommitHeader{}, fmt.Errorf("%w: invalid date %q: %v", ErrMalformedHeader, dateStr, err)
	}

	return CommitHeader{
		UserName: strings.TrimSpace(author[:open]),
		Email:    email,
		Date:     date,
	}, nil
}

// ParseBody parses a numstat line "added\tremoved\tpath". It reports false for
// binary markers ("-"), negative or non-numeric counts and wrong field counts.
func ParseBody(line string) (FileChange, bool) {
	parts := strings.SplitN(strings.TrimRight(line, "\r\n"), "\t", 3)
	if len(parts) != 3 {
		return FileChange{}, false
	}

	added, ok := parseCount(parts[0])
	if !ok {
		return FileChange{}, false
	}
	removed, ok := parseCount(parts[1])
	if !ok {
		return FileChange{}, false
	}

	path := NormalizePath(parts[2])
	if path == "" {
		return FileChange{}, false
	}

	return FileChange{
		LinesAdded:   added,
		LinesRemoved: removed,
		Path:         path,
	}, true
}

// parseCount accepts only plain non-negative integers.
func parseCount(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || strings.HasPrefix(s, "+") {
		return 0, false
	}
	return v, true
}
