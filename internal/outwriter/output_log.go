package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/teamspot/core/gitlog"
	"github.com/huangsam/teamspot/internal/contract"
)

// WriteLogResults writes parsed log entries as a JSON array. The configured
// output format is ignored since entries are nested.
func WriteLogResults(entries []gitlog.LogEntry, cfg *contract.Config) error {
	if entries == nil {
		entries = []gitlog.LogEntry{}
	}
	if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, entries)
	}, "Wrote JSON"); err != nil {
		return fmt.Errorf("error writing JSON output: %w", err)
	}
	return nil
}
