// Package parquet exports teamspot results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/teamspot/schema"
	"github.com/parquet-go/parquet-go"
)

// AlignmentCell is one scope x team (or user) cell of a team alignment matrix.
type AlignmentCell struct {
	// Scope is the path prefix the changes fall under
	Scope string `parquet:"scope,snappy"`

	// Key is the team name, or the author name when grouping by user
	Key string `parquet:"key,snappy"`

	// ChangedLines is the sum of added and removed lines
	ChangedLines int64 `parquet:"changed_lines,snappy"`

	// Share is the percentage of the scope's changed lines owned by Key
	Share float64 `parquet:"share,snappy"`
}

// FileHotspot is one ranked file of a hotspot analysis.
type FileHotspot struct {
	Rank         int32     `parquet:"rank,snappy"`
	FilePath     string    `parquet:"file_path,snappy"`
	Commits      int32     `parquet:"commits,snappy"`
	Churn        int32     `parquet:"churn,snappy"`
	Complexity   int32     `parquet:"complexity,snappy"`
	Metric       string    `parquet:"metric,snappy"`
	Score        float64   `parquet:"score,snappy"`
	Label        string    `parquet:"label,snappy"`
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`
}

// ScopeHotspots is the hotspot count of one scope.
type ScopeHotspots struct {
	Scope    string  `parquet:"scope,snappy"`
	Count    int32   `parquet:"count,snappy"`
	MaxScore float64 `parquet:"max_score,snappy"`
}

// writeRows writes data to a new Parquet file at outputPath. The schema is
// inferred from the struct tags of T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteAlignmentParquet writes alignment cells to a Parquet file.
func WriteAlignmentParquet(data []AlignmentCell, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteHotspotsParquet writes ranked hotspots to a Parquet file.
func WriteHotspotsParquet(data []FileHotspot, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteScopeHotspotsParquet writes per-scope hotspot counts to a Parquet file.
func WriteScopeHotspotsParquet(data []ScopeHotspots, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertAlignment flattens the matrix into cells, scope by scope in
// configured order and key by key in column order. Empty cells are kept so
// that every scope appears at least once per key.
func ConvertAlignment(res schema.TeamAlignmentResult) []AlignmentCell {
	cells := make([]AlignmentCell, 0, len(res.Scopes)*len(res.Teams))
	for _, scope := range res.Scopes {
		details := res.Modules[scope]
		for _, key := range res.Teams {
			cells = append(cells, AlignmentCell{
				Scope:        scope,
				Key:          key,
				ChangedLines: int64(details.Changes[key]),
				Share:        details.Share(key),
			})
		}
	}
	return cells
}

// ConvertHotspots converts ranked hotspots into Parquet rows stamped with analysisTime.
func ConvertHotspots(hotspots []schema.EnrichedHotspot, metric schema.ComplexityMetric, analysisTime time.Time) []FileHotspot {
	rows := make([]FileHotspot, len(hotspots))
	for i, h := range hotspots {
		rows[i] = FileHotspot{
			Rank:         int32(h.Rank),
			FilePath:     h.Path,
			Commits:      int32(h.Commits),
			Churn:        int32(h.Churn),
			Complexity:   int32(h.Complexity),
			Metric:       string(metric),
			Score:        h.Score,
			Label:        h.Label,
			AnalysisTime: analysisTime,
		}
	}
	return rows
}

// ConvertScopeHotspots converts per-scope counts into Parquet rows.
func ConvertScopeHotspots(aggregated []schema.AggregatedHotspot) []ScopeHotspots {
	rows := make([]ScopeHotspots, len(aggregated))
	for i, a := range aggregated {
		rows[i] = ScopeHotspots{
			Scope:    a.Scope,
			Count:    int32(a.Count),
			MaxScore: a.MaxScore,
		}
	}
	return rows
}
