// Package main provides a performance benchmarking tool for the teamspot CLI.
// It measures execution times across repositories and commands, running each
// command without a cache and then against a fresh SQLite cache. The first
// cached run is reported as cold and the remaining runs are averaged as warm.
//
// Prerequisites:
// - teamspot binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Repository  string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkCommand is one teamspot invocation to time.
type BenchmarkCommand struct {
	Name string
	Args []string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	RepoScopes  map[string]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:    os.Args[1],
		Timeout:     5 * time.Minute,
		Workers:     14,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos:   []string{"csv-parser", "fd", "git", "kubernetes"},
		RepoScopes: map[string]string{
			"csv-parser": "include,python,tests",
			"fd":         "src,tests,doc",
			"git":        "builtin,compat,t",
			"kubernetes": "cmd,pkg,staging,test",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that teamspot binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("teamspot"); err != nil {
		return fmt.Errorf("teamspot binary not found in PATH")
	}

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// commandsFor lists the commands benchmarked against a repository.
func commandsFor(config BenchmarkConfig, repo string) []BenchmarkCommand {
	scopes := []string{"--scopes", config.RepoScopes[repo]}
	workers := []string{"--workers", fmt.Sprint(config.Workers)}
	return []BenchmarkCommand{
		{Name: "log", Args: []string{"log", "--limit-months", "12"}},
		{Name: "alignment", Args: append([]string{"alignment", "--output", "json"}, scopes...)},
		{Name: "hotspots", Args: append([]string{"hotspots", "--output", "json", "--metric", "mccabe"}, workers...)},
		{Name: "aggregated", Args: append(append([]string{"hotspots", "aggregated", "--output", "json"}, scopes...), workers...)},
	}
}

// runBenchmarks executes all benchmark tests across configured repositories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.TestRepos), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)
		for _, command := range commandsFor(config, repo) {
			results = append(results, runBenchmarkSuite(config, repo, repoPath, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath string, command BenchmarkCommand) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command.Name, repo)

	// Phase 1: No-cache runs
	_, noCacheTimes := runBenchmark(config, repoPath, command, "none", config.NoCacheRuns)
	noCacheAvg := formatAverage(noCacheTimes)

	// Phase 2: Cache runs, starting from an empty cache
	clearCache(repoPath)
	cold, warmTimes := runBenchmark(config, repoPath, command, "sqlite", config.CacheRuns)
	warmAvg := formatAverage(warmTimes[min(1, len(warmTimes)):])

	coldTime := "TIMEOUT"
	if cold > 0 {
		coldTime = fmt.Sprintf("%.3fs", cold)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTime, warmAvg)

	return BenchmarkResult{
		Repository:  repo,
		Command:     command.Name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTime,
		WarmTime:    warmAvg,
	}
}

// clearCache empties the SQLite log cache so the next run is cold.
func clearCache(repoPath string) {
	cmd := exec.Command("teamspot", "cache", "clear")
	cmd.Dir = repoPath
	if output, err := cmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}
}

// runBenchmark executes a teamspot command numRuns times and returns the
// first successful time and all successful times.
func runBenchmark(config BenchmarkConfig, repoPath string, command BenchmarkCommand, cacheBackend string, numRuns int) (first float64, times []float64) {
	args := append(append([]string{}, command.Args...), "--cache-backend", cacheBackend)

	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		cmd := exec.CommandContext(ctx, "teamspot", args...)
		cmd.Dir = repoPath

		start := time.Now()
		output, err := cmd.Output()
		elapsed := time.Since(start).Seconds()
		cancel()

		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			fmt.Printf("  %s timed out after %v\n", command.Name, config.Timeout)
		case err != nil:
			fmt.Printf("  %s failed: %v\n", command.Name, err)
		case len(strings.TrimSpace(string(output))) == 0:
			fmt.Printf("  %s produced no output\n", command.Name)
		default:
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		first = times[0]
	}
	return first, times
}

// formatAverage renders the mean of times, or TIMEOUT when nothing succeeded.
func formatAverage(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("teamspot_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"repo", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"log", "alignment", "hotspots", "aggregated"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", result.Repository, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
