package gitlog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// maxScanTokenSize keeps bufio.Scanner from failing on unusually long lines.
const maxScanTokenSize = 10 * 1024 * 1024 // 10MB

// parser holds the state of a single parse pass.
type parser struct {
	fn      EntryFunc
	limits  Limits
	cutoff  time.Time
	current *LogEntry
	emitted int
}

// ParseGitLog loads the log from src and streams its entries to fn.
func ParseGitLog(ctx context.Context, src LogSource, limits Limits, fn EntryFunc) error {
	if err := limits.Validate(); err != nil {
		return err
	}
	text, err := src.LoadCachedLog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load git log: %w", err)
	}
	return ParseString(text, limits, time.Now(), fn)
}

// ParseString is Parse over an in-memory log.
func ParseString(text string, limits Limits, now time.Time, fn EntryFunc) error {
	return Parse(strings.NewReader(text), limits, now, fn)
}

// Collect parses the log and returns every emitted entry.
func Collect(r io.Reader, limits Limits, now time.Time) ([]LogEntry, error) {
	var entries []LogEntry
	err := Parse(r, limits, now, func(e LogEntry) {
		entries = append(entries, e)
	})
	return entries, err
}

// Parse reads the log line by line and calls fn once per commit that has at
// least one file change and satisfies limits. now anchors the month window.
//
// A header followed directly by another header owns no changes and is not
// emitted. Changes that appear before any header are dropped. Parsing stops
// early, without error, once LimitCommits entries have been emitted. A header
// that cannot be parsed aborts the parse after the preceding entry is flushed.
func Parse(r io.Reader, limits Limits, now time.Time, fn EntryFunc) error {
	if err := limits.Validate(); err != nil {
		return err
	}

	p := &parser{
		fn:     fn,
		limits: limits,
		cutoff: limits.Cutoff(now),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanTokenSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		switch Classify(line) {
		case BlankLine:
			continue

		case HeaderLine:
			p.flush()
			if p.done() {
				return nil
			}
			header, err := ParseHeader(line)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNum, err)
			}
			p.current = &LogEntry{Header: header}

		case BodyLine:
			if p.current == nil {
				log.Debug().Int("line", lineNum).Msg("Dropping file change without commit header")
				continue
			}
			change, _ := ParseBody(line)
			p.current.Body = append(p.current.Body, change)

		default:
			log.Debug().Int("line", lineNum).Str("text", line).Msg("Skipping malformed log line")
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read git log: %w", err)
	}

	p.flush()
	return nil
}

// flush hands the pending entry to the callback when it qualifies.
func (p *parser) flush() {
	entry := p.current
	p.current = nil
	if entry == nil || len(entry.Body) == 0 || p.done() {
		return
	}
	if !p.cutoff.IsZero() && !entry.Header.Date.After(p.cutoff) {
		return
	}
	p.fn(*entry)
	p.emitted++
}

// done reports whether the commit limit has been reached.
func (p *parser) done() bool {
	return p.limits.LimitCommits > 0 && p.emitted >= p.limits.LimitCommits
}
