package core

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/teamspot/core/gitlog"
	"github.com/huangsam/teamspot/internal/contract"
	"github.com/huangsam/teamspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// sampleLog returns three commits made in the last few hours, newest first.
func sampleLog(now time.Time) string {
	header := func(name, email string, ago time.Duration) string {
		return fmt.Sprintf("\"%s <%s>,%s\"", name, email, now.Add(-ago).Format(time.RFC3339))
	}
	return strings.Join([]string{
		header("John Doe", "john.doe@acme.com", time.Hour),
		"3\t1\tbooking/a.ts",
		"2\t0\tcheckin/b.ts",
		"",
		header("Jane Doe", "jane.doe@acme.com", 2*time.Hour),
		"1\t1\tcheckin/b.ts",
		"",
		header("Hugo Boss", "hugo.boss@acme.com", 3*time.Hour),
		"4\t0\tshell/c.ts",
		"",
	}, "\n")
}

// sampleRepo writes the files of the sample log with line counts 10, 4 and 2.
func sampleRepo(t *testing.T) (string, *contract.MockGitClient) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]int{"booking/a.ts": 10, "checkin/b.ts": 4, "shell/c.ts": 2}
	for path, lines := range files {
		full := filepath.Join(dir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(strings.Repeat("x\n", lines)), 0o644))
	}

	client := &contract.MockGitClient{}
	client.On("GetActivityLog", mock.Anything, dir, mock.Anything, mock.Anything).Return([]byte(sampleLog(time.Now())), nil)
	client.On("ListFilesAtRef", mock.Anything, dir, "HEAD").Return([]string{"booking/a.ts", "checkin/b.ts", "shell/c.ts"}, nil)
	return dir, client
}

func sampleConfig(repo string) *contract.Config {
	return &contract.Config{
		RepoPath: repo,
		Scopes:   []string{"booking", "checkin", "shell"},
		Teams: map[string][]string{
			"booking": {"John Doe"},
			"checkin": {"Jane Doe"},
		},
		Metric:       schema.LengthMetric,
		Workers:      2,
		CacheBackend: schema.NoneBackend,
	}
}

// quietCtx keeps analysis headers out of the test output.
var quietCtx = WithSuppressHeader(context.Background())

func TestRunTeamAlignment(t *testing.T) {
	dir, client := sampleRepo(t)

	res, _, err := runTeamAlignment(quietCtx, sampleConfig(dir), client, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"booking", "checkin", schema.UnknownTeam}, res.Teams)
	assert.Equal(t, map[string]int{"booking": 4}, res.Modules["booking"].Changes)
	assert.Equal(t, map[string]int{"booking": 2, "checkin": 2}, res.Modules["checkin"].Changes)
	assert.Equal(t, map[string]int{schema.UnknownTeam: 4}, res.Modules["shell"].Changes)
}

func TestRunTeamAlignment_ByUser(t *testing.T) {
	dir, client := sampleRepo(t)
	cfg := sampleConfig(dir)
	cfg.ByUser = true

	res, _, err := runTeamAlignment(quietCtx, cfg, client, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hugo Boss", "Jane Doe", "John Doe"}, res.Teams)
	assert.Equal(t, map[string]int{"Jane Doe": 2, "John Doe": 2}, res.Modules["checkin"].Changes)
}

func TestRunTeamAlignment_LimitCommits(t *testing.T) {
	dir, client := sampleRepo(t)
	cfg := sampleConfig(dir)
	cfg.Limits = gitlog.Limits{LimitCommits: 1}

	res, _, err := runTeamAlignment(quietCtx, cfg, client, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"booking": 2}, res.Modules["checkin"].Changes)
	assert.Empty(t, res.Modules["shell"].Changes)
}

func TestRunTeamAlignment_LogError(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("GetActivityLog", mock.Anything, "/repo", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, _, err := runTeamAlignment(quietCtx, sampleConfig("/repo"), client, nil)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRunTeamAlignment_MalformedHeader(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("GetActivityLog", mock.Anything, "/repo", mock.Anything, mock.Anything).
		Return([]byte("\"John Doe <john.doe@acme.com>,not-a-date\"\n1\t0\ta.ts\n"), nil)

	_, _, err := runTeamAlignment(quietCtx, sampleConfig("/repo"), client, nil)
	assert.ErrorIs(t, err, gitlog.ErrMalformedHeader)
}

func TestRunHotspots(t *testing.T) {
	dir, client := sampleRepo(t)

	hotspots, _, err := runHotspots(quietCtx, sampleConfig(dir), client, nil)
	require.NoError(t, err)
	require.Len(t, hotspots, 3)

	assert.Equal(t, schema.FileHotspot{Path: "booking/a.ts", Commits: 1, Churn: 4, Complexity: 10, Score: 100}, hotspots[0])
	assert.Equal(t, "checkin/b.ts", hotspots[1].Path)
	assert.InDelta(t, 80.0, hotspots[1].Score, 0.001)
	assert.Equal(t, "shell/c.ts", hotspots[2].Path)
	assert.InDelta(t, 20.0, hotspots[2].Score, 0.001)
}

func TestRunHotspots_Criteria(t *testing.T) {
	tests := []struct {
		name     string
		minScore float64
		module   string
		want     []string
	}{
		{"min score", 50, "", []string{"booking/a.ts", "checkin/b.ts"}},
		{"module", 0, "checkin", []string{"checkin/b.ts"}},
		{"nothing qualifies", 100, "shell", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, client := sampleRepo(t)
			cfg := sampleConfig(dir)
			cfg.MinScore = tt.minScore
			cfg.Module = tt.module

			hotspots, _, err := runHotspots(quietCtx, cfg, client, nil)
			require.NoError(t, err)

			var paths []string
			for _, h := range hotspots {
				paths = append(paths, h.Path)
			}
			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestRunAggregatedHotspots(t *testing.T) {
	dir, client := sampleRepo(t)
	cfg := sampleConfig(dir)
	cfg.MinScore = 50

	aggregated, _, err := runAggregatedHotspots(quietCtx, cfg, client, nil)
	require.NoError(t, err)

	assert.Equal(t, []schema.AggregatedHotspot{
		{Scope: "booking", Count: 1, MaxScore: 100},
		{Scope: "checkin", Count: 1, MaxScore: 80},
		{Scope: "shell", Count: 0, MaxScore: 0},
	}, aggregated)
}

func TestCollectLogEntries(t *testing.T) {
	dir, client := sampleRepo(t)

	entries, err := collectLogEntries(quietCtx, sampleConfig(dir), client, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "John Doe", entries[0].Header.UserName)
	assert.Equal(t, "Hugo Boss", entries[2].Header.UserName)
	assert.Equal(t, gitlog.FileChange{LinesAdded: 1, LinesRemoved: 1, Path: "checkin/b.ts"}, entries[1].Body[0])
}

func TestCollectLogEntries_NegativeLimit(t *testing.T) {
	cfg := sampleConfig("/repo")
	cfg.Limits = gitlog.Limits{LimitMonths: -1}

	_, err := collectLogEntries(quietCtx, cfg, &contract.MockGitClient{}, nil)
	assert.ErrorIs(t, err, gitlog.ErrNegativeLimit)
}

func TestLogAnalysisHeader(t *testing.T) {
	var buf bytes.Buffer
	orig := headerWriter
	headerWriter = &buf
	t.Cleanup(func() { headerWriter = orig })

	cfg := sampleConfig("/tmp/acme")
	cfg.Limits = gitlog.Limits{LimitCommits: 25}
	cfg.StartTime = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	logAnalysisHeader(context.Background(), cfg, "alignment")
	out := buf.String()
	assert.Contains(t, out, "Repo: acme (Mode: alignment)")
	assert.Contains(t, out, "2025-01-01T00:00:00Z → now")
	assert.Contains(t, out, "commits: 25, months: all")

	buf.Reset()
	logAnalysisHeader(quietCtx, cfg, "alignment")
	assert.Empty(t, buf.String())
}

func TestRunAggregatedHotspots_NoScopes(t *testing.T) {
	cfg := sampleConfig("/repo")
	cfg.Scopes = nil

	_, _, err := runAggregatedHotspots(quietCtx, cfg, &contract.MockGitClient{}, nil)
	assert.ErrorIs(t, err, ErrNoScopes)
}
