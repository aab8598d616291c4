package agg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/huangsam/teamspot/core/gitlog"
	"github.com/huangsam/teamspot/internal/contract"
	"github.com/huangsam/teamspot/schema"
	"golang.org/x/sync/errgroup"
)

// fileActivity is the per-path state collected while parsing.
type fileActivity struct {
	commits int
	churn   int
}

// HotspotCounter counts commits and churn per file.
type HotspotCounter struct {
	scopes   []string
	excludes []string
	files    map[string]*fileActivity
}

// NewHotspotCounter creates a counter. When scopes is non-empty only paths
// under one of them are counted. Paths matching excludes are ignored.
func NewHotspotCounter(scopes, excludes []string) *HotspotCounter {
	return &HotspotCounter{
		scopes:   append([]string(nil), scopes...),
		excludes: append([]string(nil), excludes...),
		files:    make(map[string]*fileActivity),
	}
}

// inScope reports whether path falls under a configured scope.
func (c *HotspotCounter) inScope(path string) bool {
	if len(c.scopes) == 0 {
		return true
	}
	for _, scope := range c.scopes {
		if strings.HasPrefix(path, scope) {
			return true
		}
	}
	return false
}

// Add folds one entry. A path listed twice in the same entry counts as one commit.
func (c *HotspotCounter) Add(entry gitlog.LogEntry) {
	seen := make(map[string]struct{}, len(entry.Body))
	for _, change := range entry.Body {
		if !c.inScope(change.Path) || contract.ShouldIgnore(change.Path, c.excludes) {
			continue
		}
		fa, ok := c.files[change.Path]
		if !ok {
			fa = &fileActivity{}
			c.files[change.Path] = fa
		}
		fa.churn += change.LinesAdded + change.LinesRemoved
		if _, dup := seen[change.Path]; !dup {
			fa.commits++
			seen[change.Path] = struct{}{}
		}
	}
}

// Len returns the number of distinct paths seen so far.
func (c *HotspotCounter) Len() int {
	return len(c.files)
}

// BuildHotspots measures the complexity of every counted file that still
// exists at HEAD and returns the files ranked by score, highest first.
//
// Files are read from repoPath by a pool of workers goroutines. Files that
// cannot be read are skipped. The score is commits times complexity, scaled so
// that the top file scores 100.
func (c *HotspotCounter) BuildHotspots(ctx context.Context, client contract.GitClient, repoPath string, metric schema.ComplexityMetric, workers int) ([]schema.FileHotspot, error) {
	current, err := client.ListFilesAtRef(ctx, repoPath, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to list files at HEAD: %w", err)
	}

	paths := make([]string, 0, len(c.files))
	for _, f := range current {
		if _, ok := c.files[f]; ok {
			paths = append(paths, f)
		}
	}
	if len(paths) == 0 {
		return []schema.FileHotspot{}, nil
	}

	results := make([]schema.FileHotspot, len(paths))
	readable := make([]bool, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(filepath.Join(repoPath, path))
			if err != nil {
				contract.LogDebug("Skipping unreadable file", map[string]any{"path": path, "error": err.Error()})
				return nil
			}
			complexity, err := MeasureComplexity(metric, content)
			if err != nil {
				return err
			}
			fa := c.files[path]
			// Each goroutine writes to its own index.
			results[i] = schema.FileHotspot{
				Path:       path,
				Commits:    fa.commits,
				Churn:      fa.churn,
				Complexity: complexity,
			}
			readable[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hotspots := make([]schema.FileHotspot, 0, len(results))
	for i, h := range results {
		if readable[i] {
			hotspots = append(hotspots, h)
		}
	}
	scoreHotspots(hotspots)
	return hotspots, nil
}

// scoreHotspots normalizes scores to 0..100 and sorts by score descending,
// breaking ties by path.
func scoreHotspots(hotspots []schema.FileHotspot) {
	var top float64
	for _, h := range hotspots {
		top = max(top, float64(h.Commits*h.Complexity))
	}
	for i := range hotspots {
		if top > 0 {
			hotspots[i].Score = float64(hotspots[i].Commits*hotspots[i].Complexity) / top * 100
		}
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].Score != hotspots[j].Score {
			return hotspots[i].Score > hotspots[j].Score
		}
		return hotspots[i].Path < hotspots[j].Path
	})
}

// FilterHotspots keeps the hotspots that meet the criteria, preserving order.
func FilterHotspots(hotspots []schema.FileHotspot, criteria schema.HotspotCriteria) []schema.FileHotspot {
	filtered := make([]schema.FileHotspot, 0, len(hotspots))
	for _, h := range hotspots {
		if h.Score < criteria.MinScore {
			continue
		}
		if criteria.Module != "" && !strings.HasPrefix(h.Path, criteria.Module) {
			continue
		}
		filtered = append(filtered, h)
	}
	return filtered
}

// AggregateHotspots counts, per scope, the files scoring at least minScore.
// Every scope is reported, sorted by count descending and then by name.
func AggregateHotspots(hotspots []schema.FileHotspot, scopes []string, minScore float64) []schema.AggregatedHotspot {
	aggregated := make([]schema.AggregatedHotspot, 0, len(scopes))
	for _, scope := range scopes {
		agg := schema.AggregatedHotspot{Scope: scope}
		for _, h := range hotspots {
			if h.Score < minScore || !strings.HasPrefix(h.Path, scope) {
				continue
			}
			agg.Count++
			agg.MaxScore = max(agg.MaxScore, h.Score)
		}
		aggregated = append(aggregated, agg)
	}
	sort.SliceStable(aggregated, func(i, j int) bool {
		if aggregated[i].Count != aggregated[j].Count {
			return aggregated[i].Count > aggregated[j].Count
		}
		return aggregated[i].Scope < aggregated[j].Scope
	})
	return aggregated
}
