package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/teamspot/internal/contract"
)

// headerWriter receives analysis headers. stdout is kept for results.
var headerWriter io.Writer = os.Stderr

// logAnalysisHeader prints the repository, mode and window being analyzed.
func logAnalysisHeader(ctx context.Context, cfg *contract.Config, mode string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}

	// Line 1: The analysis summary (Repo and Mode)
	_, _ = fmt.Fprintf(headerWriter, "🔎 Repo: %s (Mode: %s)\n", repoName, mode)

	// Line 2: The window and limits applied to the log
	_, _ = fmt.Fprintf(headerWriter, "📅 Range: %s → %s (commits: %s, months: %s)\n",
		formatBound(cfg.StartTime, "beginning"),
		formatBound(cfg.EndTime, "now"),
		formatLimit(cfg.Limits.LimitCommits),
		formatLimit(cfg.Limits.LimitMonths),
	)
}

func formatBound(t time.Time, open string) string {
	if t.IsZero() {
		return open
	}
	return t.Format(contract.DateTimeFormat)
}

func formatLimit(n int) string {
	if n == 0 {
		return "all"
	}
	return fmt.Sprint(n)
}
