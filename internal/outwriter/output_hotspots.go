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

// WriteHotspotResults outputs ranked hotspots, dispatching based on the output format configured.
func WriteHotspotResults(hotspots []schema.FileHotspot, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	enriched := schema.EnrichHotspots(hotspots)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, enriched)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHotspotsCSV(w, enriched, cfg.Metric, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := requireOutputFile(cfg); err != nil {
			return err
		}
		rows := parquet.ConvertHotspots(enriched, cfg.Metric, time.Now())
		if err := parquet.WriteHotspotsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		contract.Logger().Info().Str("file", cfg.OutputFile).Msg("Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHotspotsTable(w, enriched, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writeHotspotsCSV writes the ranked hotspots in CSV format.
func writeHotspotsCSV(w io.Writer, hotspots []schema.EnrichedHotspot, metric schema.ComplexityMetric, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"rank", "file", "score", "label", "commits", "churn", "complexity", "metric"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, h := range hotspots {
			rec := []string{
				strconv.Itoa(h.Rank),              // Rank
				h.Path,                            // File Path
				fmtFloat(h.Score),                 // Score
				h.Label,                           // Label
				fmt.Sprintf(intFmt, h.Commits),    // Commits
				fmt.Sprintf(intFmt, h.Churn),      // Churn
				fmt.Sprintf(intFmt, h.Complexity), // Complexity
				string(metric),                    // Metric
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeHotspotsTable generates and writes the human-readable table.
func writeHotspotsTable(w io.Writer, hotspots []schema.EnrichedHotspot, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Path", "Score", "Label", "Commits", "Churn", "Complexity"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// Rank + Score + Label + Commits + Churn + Complexity with borders/padding
	pathWidth := getMaxTablePathWidth(cfg, 60)

	data := make([][]string, 0, len(hotspots))
	totalCommits := 0
	for _, h := range hotspots {
		label := h.Label
		if cfg.UseColors {
			label = contract.GetColorLabel(h.Score)
		}
		data = append(data, []string{
			strconv.Itoa(h.Rank),
			contract.TruncatePath(h.Path, pathWidth),
			fmtFloat(h.Score),
			label,
			fmt.Sprintf(intFmt, h.Commits),
			fmt.Sprintf(intFmt, h.Churn),
			fmt.Sprintf(intFmt, h.Complexity),
		})
		totalCommits += h.Commits
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d files (metric: %s, total commits: %d)\n", len(hotspots), cfg.Metric, totalCommits); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// WriteAggregatedResults outputs per-scope hotspot counts, dispatching based on the output format configured.
func WriteAggregatedResults(aggregated []schema.AggregatedHotspot, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, aggregated)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"scope", "count", "max_score"}, func(cw *csv.Writer) error {
				for _, a := range aggregated {
					if err := cw.Write([]string{a.Scope, fmt.Sprintf(intFmt, a.Count), fmtFloat(a.MaxScore)}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := requireOutputFile(cfg); err != nil {
			return err
		}
		if err := parquet.WriteScopeHotspotsParquet(parquet.ConvertScopeHotspots(aggregated), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		contract.Logger().Info().Str("file", cfg.OutputFile).Msg("Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAggregatedTable(w, aggregated, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writeAggregatedTable generates and writes the per-scope table.
func writeAggregatedTable(w io.Writer, aggregated []schema.AggregatedHotspot, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Scope", "Hotspots", "Max Score", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	scopeWidth := getMaxTablePathWidth(cfg, 40)
	data := make([][]string, 0, len(aggregated))
	for _, a := range aggregated {
		label := "-"
		if a.Count > 0 {
			label = schema.GetPlainLabel(a.MaxScore)
			if cfg.UseColors {
				label = contract.GetColorLabel(a.MaxScore)
			}
		}
		data = append(data, []string{
			contract.TruncatePath(a.Scope, scopeWidth),
			fmt.Sprintf(intFmt, a.Count),
			fmtFloat(a.MaxScore),
			label,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d scopes (min score: %s)\n", len(aggregated), fmtFloat(cfg.MinScore)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
