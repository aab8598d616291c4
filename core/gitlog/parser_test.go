package gitlog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)
	pastDate = fixedNow.AddDate(0, -1, 0).Add(-time.Second)
)

func header(name, email string, date time.Time) string {
	return fmt.Sprintf("\"%s <%s>,%s\"", name, email, date.Format(time.RFC3339Nano))
}

func logWithoutRenames() string {
	return strings.Join([]string{
		header("John Doe", "john.doe@acme.com", fixedNow),
		"1\t0\t/booking/feature-manage/my.component.ts",
		"1\t0\t/booking/feature-manage/my-other.component.ts",
		"0\t1\t/checkin/feature-checkin/my.component.ts",
		"0\t1\t/shared/feature-checkin/my.component.ts",
		"",
		header("Jane Doe", "jane.doe@acme.com", fixedNow),
		"10\t0\t/booking/feature-manage/my.component.ts",
		"0\t1\t/checkin/feature-checkin/my.component.ts",
		"",
		header("Jane Doe", "john.doe@acme.com", pastDate),
		header("John Doe", "john.doe@acme.com", pastDate),
		"10\t0\t/booking/feature-manage/my.component.ts",
		"0\t1\t/shared/feature-checkin/my.component.ts",
		"",
		header("Jane Doe", "john.doe@acme.com", fixedNow),
		"10\t0\t/shell/my.component.ts",
		"0\t1\t/shell/my-other.component.ts",
		"",
	}, "\n")
}

func logWithRenames() string {
	return strings.Join([]string{
		header("John Doe", "john.doe@acme.com", fixedNow),
		"1\t0\t/booking/feature-manage/{my.renamed.component.ts => my.renamed.again.component.ts}",
		"1\t0\t/booking/feature-manage/my-other.component.ts",
		"0\t1\t/checkin/{feature-manage/step1 => feature-manage/init}/my.component.ts",
		"0\t1\t/shared/sub-features/feature-checkin/my.component.ts",
		"",
		header("Jane Doe", "jane.doe@acme.com", fixedNow),
		"10\t0\t/booking/feature-manage/{my.component.ts => my.renamed.component.ts}",
		"0\t1\t/checkin/{feature-checkin => feature-manage/step1}/my.component.ts",
		"",
		header("John Doe", "john.doe@acme.com", pastDate),
		"10\t0\t/booking/feature-manage/my.component.ts",
		"0\t1\t/shared/{ => sub-features}/feature-checkin/my.component.ts",
		"",
		header("Jane Doe", "john.doe@acme.com", fixedNow),
		"10\t0\t/shell/my.component.ts",
		"0\t1\t/shell/my-other.component.ts",
		"",
	}, "\n")
}

var (
	johnNow = LogEntry{
		Header: CommitHeader{UserName: "John Doe", Email: "john.doe@acme.com", Date: fixedNow},
		Body: []FileChange{
			{LinesAdded: 1, LinesRemoved: 0, Path: "/booking/feature-manage/my.component.ts"},
			{LinesAdded: 1, LinesRemoved: 0, Path: "/booking/feature-manage/my-other.component.ts"},
			{LinesAdded: 0, LinesRemoved: 1, Path: "/checkin/feature-checkin/my.component.ts"},
			{LinesAdded: 0, LinesRemoved: 1, Path: "/shared/feature-checkin/my.component.ts"},
		},
	}
	janeNow = LogEntry{
		Header: CommitHeader{UserName: "Jane Doe", Email: "jane.doe@acme.com", Date: fixedNow},
		Body: []FileChange{
			{LinesAdded: 10, LinesRemoved: 0, Path: "/booking/feature-manage/my.component.ts"},
			{LinesAdded: 0, LinesRemoved: 1, Path: "/checkin/feature-checkin/my.component.ts"},
		},
	}
	johnPast = LogEntry{
		Header: CommitHeader{UserName: "John Doe", Email: "john.doe@acme.com", Date: pastDate},
		Body: []FileChange{
			{LinesAdded: 10, LinesRemoved: 0, Path: "/booking/feature-manage/my.component.ts"},
			{LinesAdded: 0, LinesRemoved: 1, Path: "/shared/feature-checkin/my.component.ts"},
		},
	}
	janeShell = LogEntry{
		Header: CommitHeader{UserName: "Jane Doe", Email: "john.doe@acme.com", Date: fixedNow},
		Body: []FileChange{
			{LinesAdded: 10, LinesRemoved: 0, Path: "/shell/my.component.ts"},
			{LinesAdded: 0, LinesRemoved: 1, Path: "/shell/my-other.component.ts"},
		},
	}
)

func collect(t *testing.T, text string, limits Limits) []LogEntry {
	t.Helper()
	entries, err := Collect(strings.NewReader(text), limits, fixedNow)
	require.NoError(t, err)
	return entries
}

func TestParse_WithoutRenames(t *testing.T) {
	tests := []struct {
		name     string
		limits   Limits
		expected []LogEntry
	}{
		{
			name:     "returns all log entries",
			limits:   Limits{},
			expected: []LogEntry{johnNow, janeNow, johnPast, janeShell},
		},
		{
			name:     "returns last 2 log entries",
			limits:   Limits{LimitCommits: 2},
			expected: []LogEntry{johnNow, janeNow},
		},
		{
			name:     "returns last month's log entries",
			limits:   Limits{LimitMonths: 1},
			expected: []LogEntry{johnNow, janeNow, janeShell},
		},
		{
			name:     "commit limit counts only emitted entries",
			limits:   Limits{LimitCommits: 3, LimitMonths: 1},
			expected: []LogEntry{johnNow, janeNow, janeShell},
		},
		{
			name:     "commit limit reached before month window",
			limits:   Limits{LimitCommits: 1, LimitMonths: 1},
			expected: []LogEntry{johnNow},
		},
		{
			name:     "commit limit larger than log",
			limits:   Limits{LimitCommits: 100},
			expected: []LogEntry{johnNow, janeNow, johnPast, janeShell},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, collect(t, logWithoutRenames(), tt.limits))
		})
	}
}

func TestParse_WithRenames(t *testing.T) {
	entries := collect(t, logWithRenames(), Limits{})
	require.Len(t, entries, 4)

	assert.Equal(t, []FileChange{
		{LinesAdded: 1, LinesRemoved: 0, Path: "/booking/feature-manage/my.renamed.again.component.ts"},
		{LinesAdded: 1, LinesRemoved: 0, Path: "/booking/feature-manage/my-other.component.ts"},
		{LinesAdded: 0, LinesRemoved: 1, Path: "/checkin/feature-manage/init/my.component.ts"},
		{LinesAdded: 0, LinesRemoved: 1, Path: "/shared/sub-features/feature-checkin/my.component.ts"},
	}, entries[0].Body)

	// Renames are resolved per line, not chained across commits.
	assert.Equal(t, []FileChange{
		{LinesAdded: 10, LinesRemoved: 0, Path: "/booking/feature-manage/my.renamed.component.ts"},
		{LinesAdded: 0, LinesRemoved: 1, Path: "/checkin/feature-manage/step1/my.component.ts"},
	}, entries[1].Body)

	assert.Equal(t, []FileChange{
		{LinesAdded: 10, LinesRemoved: 0, Path: "/booking/feature-manage/my.component.ts"},
		{LinesAdded: 0, LinesRemoved: 1, Path: "/shared/sub-features/feature-checkin/my.component.ts"},
	}, entries[2].Body)

	assert.Equal(t, janeShell, entries[3])

	for _, e := range entries {
		for _, c := range e.Body {
			assert.NotContains(t, c.Path, "{")
			assert.NotContains(t, c.Path, "}")
			assert.NotContains(t, c.Path, "=>")
		}
	}
}

func TestParse_LiteralPathsPreserved(t *testing.T) {
	text := logWithoutRenames()
	var literal []string
	for _, line := range strings.Split(text, "\n") {
		if parts := strings.Split(line, "\t"); len(parts) == 3 {
			literal = append(literal, parts[2])
		}
	}

	var parsed []string
	for _, e := range collect(t, text, Limits{}) {
		for _, c := range e.Body {
			parsed = append(parsed, c.Path)
		}
	}
	assert.Equal(t, literal, parsed)
}

func TestParse_ConsecutiveHeaders(t *testing.T) {
	// Only the header directly above a block of changes owns it. Earlier
	// headers in the run carry no changes and are never emitted.
	text := strings.Join([]string{
		header("First", "first@acme.com", fixedNow),
		header("Second", "second@acme.com", fixedNow),
		header("Third", "third@acme.com", fixedNow),
		"1\t1\ta.go",
		header("Fourth", "fourth@acme.com", fixedNow),
	}, "\n")

	entries := collect(t, text, Limits{})
	require.Len(t, entries, 1)
	assert.Equal(t, "Third", entries[0].Header.UserName)
	assert.Equal(t, []FileChange{{LinesAdded: 1, LinesRemoved: 1, Path: "a.go"}}, entries[0].Body)
}

func TestParse_ConsecutiveHeadersDoNotCountTowardsLimit(t *testing.T) {
	text := strings.Join([]string{
		header("Empty", "empty@acme.com", fixedNow),
		header("Owner", "owner@acme.com", fixedNow),
		"1\t0\ta.go",
		header("Next", "next@acme.com", fixedNow),
		"2\t0\tb.go",
	}, "\n")

	entries := collect(t, text, Limits{LimitCommits: 1})
	require.Len(t, entries, 1)
	assert.Equal(t, "Owner", entries[0].Header.UserName)
}

func TestParse_MonthBoundary(t *testing.T) {
	cutoff := fixedNow.AddDate(0, -1, 0)
	tests := []struct {
		name     string
		date     time.Time
		included bool
	}{
		{"one second after cutoff", cutoff.Add(time.Second), true},
		{"exactly at cutoff", cutoff, false},
		{"one second before cutoff", cutoff.Add(-time.Second), false},
		{"now", fixedNow, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := header("John Doe", "john.doe@acme.com", tt.date) + "\n1\t0\ta.go\n"
			entries := collect(t, text, Limits{LimitMonths: 1})
			if tt.included {
				assert.Len(t, entries, 1)
			} else {
				assert.Empty(t, entries)
			}
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	calls := 0
	for _, text := range []string{"", "\n\n", "   \n"} {
		err := ParseString(text, Limits{}, fixedNow, func(LogEntry) { calls++ })
		require.NoError(t, err)
	}
	assert.Zero(t, calls)
}

func TestParse_MalformedBodyLinesSkipped(t *testing.T) {
	text := strings.Join([]string{
		header("John Doe", "john.doe@acme.com", fixedNow),
		"-\t-\tassets/logo.png",
		"3\tpath-with-two-fields.go",
		"x\t1\tnot-numeric.go",
		"-1\t2\tnegative.go",
		"garbage line",
		"4\t2\tkept.go",
	}, "\n")

	entries := collect(t, text, Limits{})
	require.Len(t, entries, 1)
	assert.Equal(t, []FileChange{{LinesAdded: 4, LinesRemoved: 2, Path: "kept.go"}}, entries[0].Body)
}

func TestParse_OnlyMalformedBodyIsNotEmitted(t *testing.T) {
	text := header("John Doe", "john.doe@acme.com", fixedNow) + "\n-\t-\tassets/logo.png\n"
	assert.Empty(t, collect(t, text, Limits{}))
}

func TestParse_BodyBeforeHeaderDiscarded(t *testing.T) {
	text := strings.Join([]string{
		"5\t5\torphan.go",
		header("John Doe", "john.doe@acme.com", fixedNow),
		"1\t0\ta.go",
	}, "\n")

	entries := collect(t, text, Limits{})
	require.Len(t, entries, 1)
	assert.Equal(t, "a.go", entries[0].Body[0].Path)
}

func TestParse_MalformedHeaderFails(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing email", `"John Doe,2025-11-03T10:00:00Z"`},
		{"empty email", `"John Doe <>,2025-11-03T10:00:00Z"`},
		{"missing date", `"John Doe <john.doe@acme.com>"`},
		{"invalid date", `"John Doe <john.doe@acme.com>,yesterday"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Join([]string{
				header("Jane Doe", "jane.doe@acme.com", fixedNow),
				"1\t0\tfirst.go",
				tt.line,
				"1\t0\tsecond.go",
			}, "\n")

			var entries []LogEntry
			err := ParseString(text, Limits{}, fixedNow, func(e LogEntry) { entries = append(entries, e) })
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedHeader))
			assert.Contains(t, err.Error(), "line 3")
			require.Len(t, entries, 1)
			assert.Equal(t, "first.go", entries[0].Body[0].Path)
		})
	}
}

func TestParse_NegativeLimitsRejected(t *testing.T) {
	for _, limits := range []Limits{{LimitCommits: -1}, {LimitMonths: -1}} {
		calls := 0
		err := ParseString(logWithoutRenames(), limits, fixedNow, func(LogEntry) { calls++ })
		assert.ErrorIs(t, err, ErrNegativeLimit)
		assert.Zero(t, calls)
	}
}

func TestParse_LongLines(t *testing.T) {
	longPath := strings.Repeat("a", 200*1024) + ".go"
	text := header("John Doe", "john.doe@acme.com", fixedNow) + "\n1\t0\t" + longPath + "\n"

	entries := collect(t, text, Limits{})
	require.Len(t, entries, 1)
	assert.Equal(t, longPath, entries[0].Body[0].Path)
}

func TestParse_CRLF(t *testing.T) {
	text := header("John Doe", "john.doe@acme.com", fixedNow) + "\r\n1\t0\ta.go\r\n"
	entries := collect(t, text, Limits{})
	require.Len(t, entries, 1)
	assert.Equal(t, "a.go", entries[0].Body[0].Path)
}

type staticSource struct {
	text string
	err  error
}

func (s staticSource) LoadCachedLog(context.Context) (string, error) {
	return s.text, s.err
}

func TestParseGitLog(t *testing.T) {
	text := header("John Doe", "john.doe@acme.com", time.Now()) + "\n1\t0\ta.go\n"

	var entries []LogEntry
	err := ParseGitLog(context.Background(), staticSource{text: text}, Limits{LimitMonths: 1}, func(e LogEntry) {
		entries = append(entries, e)
	})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestParseGitLog_SourceError(t *testing.T) {
	err := ParseGitLog(context.Background(), staticSource{err: assert.AnError}, Limits{}, func(LogEntry) {
		t.Fatal("callback must not be called")
	})
	assert.ErrorIs(t, err, assert.AnError)
}
