package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/teamspot/internal/contract"
	"github.com/huangsam/teamspot/internal/parquet"
	"github.com/huangsam/teamspot/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAlignmentResults outputs a team alignment matrix, dispatching based on the output format configured.
func WriteAlignmentResults(result schema.TeamAlignmentResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAlignmentCSV(w, result, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := requireOutputFile(cfg); err != nil {
			return err
		}
		if err := parquet.WriteAlignmentParquet(parquet.ConvertAlignment(result), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		contract.Logger().Info().Str("file", cfg.OutputFile).Msg("Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAlignmentTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeAlignmentCSV writes one row per scope and key.
func writeAlignmentCSV(w io.Writer, result schema.TeamAlignmentResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"scope", "key", "changes", "share"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, scope := range result.Scopes {
			details := result.Modules[scope]
			for _, key := range result.Teams {
				rec := []string{
					scope,
					key,
					fmt.Sprintf(intFmt, details.Changes[key]),
					fmtFloat(details.Share(key)),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// alignmentHeaders returns the table header. Author names are abbreviated to
// keep the table narrow.
func alignmentHeaders(result schema.TeamAlignmentResult, cfg *contract.Config) []string {
	keys := result.Teams
	if cfg.ByUser {
		keys = schema.AbbreviateNames(keys)
	}
	headers := make([]string, 0, len(keys)+2)
	headers = append(headers, "Scope")
	headers = append(headers, keys...)
	headers = append(headers, "Total")
	return headers
}

// formatAlignmentCell renders "lines (share%)", or "-" for an empty cell.
func formatAlignmentCell(details schema.ModuleDetails, key string, fmtFloat func(float64) string) string {
	lines := details.Changes[key]
	if lines == 0 {
		return "-"
	}
	return fmt.Sprintf("%d (%s%%)", lines, fmtFloat(details.Share(key)))
}

// writeAlignmentTable generates and writes the human-readable matrix.
func writeAlignmentTable(w io.Writer, result schema.TeamAlignmentResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header(alignmentHeaders(result, cfg))
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// Scope column plus roughly 14 characters per key column and the total
	scopeWidth := getMaxTablePathWidth(cfg, 14*(len(result.Teams)+1))

	data := make([][]string, 0, len(result.Scopes))
	grandTotal := 0
	for _, scope := range result.Scopes {
		details := result.Modules[scope]
		row := []string{contract.TruncatePath(scope, scopeWidth)}
		for _, key := range result.Teams {
			cell := formatAlignmentCell(details, key, fmtFloat)
			if cfg.UseColors && !cfg.ByUser && key == schema.UnknownTeam && cell != "-" {
				cell = contract.UnknownColor.Sprint(cell)
			}
			row = append(row, cell)
		}
		total := details.Total()
		grandTotal += total
		row = append(row, strconv.Itoa(total))
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	column := "teams"
	if cfg.ByUser {
		column = "users"
	}
	if _, err := fmt.Fprintf(w, "Showing %d scopes across %d %s (total changed lines: %d)\n", len(result.Scopes), len(result.Teams), column, grandTotal); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
