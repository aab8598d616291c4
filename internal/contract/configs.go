package contract

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/teamspot/core/gitlog"
	"github.com/huangsam/teamspot/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	DefaultMinScore  = 0.0
)

// CacheGranularity defines the time granularity for cache keys.
// This ensures consistent cache key generation and time window alignment across
// the application and tests.
const CacheGranularity = time.Hour

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DefaultExcludes are ignored by hotspot analysis unless overridden.
var DefaultExcludes = []string{
	"Cargo.lock", "go.sum", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "composer.lock", "uv.lock",
	".min.js", ".min.css",
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".ico", ".mp4", ".mov", ".webm", ".mp3", ".ogg", ".pdf", ".webp",
	".json", ".csv",
	".md", "LICENSE",
	".DS_Store", ".gitignore",
	"dist/", "build/", "out/", "target/", "bin/",
}

// Config holds the runtime configuration for a teamspot run.
// This struct is the "final, validated" config.
type Config struct {
	RepoPath  string
	StartTime time.Time // zero = open window
	EndTime   time.Time // zero = open window
	Limits    gitlog.Limits

	Scopes []string
	Teams  map[string][]string
	ByUser bool

	Metric   schema.ComplexityMetric
	MinScore float64
	Module   string
	Excludes []string
	Workers  int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	LimitCommits   int      `mapstructure:"limit-commits"`
	LimitMonths    int      `mapstructure:"limit-months"`
	Start          string   `mapstructure:"start"`
	End            string   `mapstructure:"end"`
	Scopes         []string `mapstructure:"scopes"`
	Exclude        string   `mapstructure:"exclude"`
	Workers        int      `mapstructure:"workers"`
	Precision      int      `mapstructure:"precision"`
	Output         string   `mapstructure:"output"`
	OutputFile     string   `mapstructure:"output-file"`
	Width          int      `mapstructure:"width"`
	Color          string   `mapstructure:"color"`
	CacheBackend   string   `mapstructure:"cache-backend"`
	CacheDBConnect string   `mapstructure:"cache-db-connect"`

	// --- Fields from alignmentCmd.Flags() ---
	ByUser bool `mapstructure:"by-user"`

	// --- Fields from hotspotsCmd.PersistentFlags() ---
	Metric   string  `mapstructure:"metric"`
	MinScore float64 `mapstructure:"min-score"`
	Module   string  `mapstructure:"module"`

	// --- Config file only ---
	Teams map[string][]string `mapstructure:"teams"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Scopes = slices.Clone(c.Scopes)
	clone.Excludes = slices.Clone(c.Excludes)
	if c.Teams != nil {
		clone.Teams = make(map[string][]string, len(c.Teams))
		for team, users := range c.Teams {
			clone.Teams[team] = slices.Clone(users)
		}
	}
	return &clone
}

// GetAnalysisStartTime returns the configured start time, truncated to the caching granularity.
func (c *Config) GetAnalysisStartTime() time.Time {
	return c.StartTime.Truncate(CacheGranularity)
}

// GetAnalysisEndTime returns the configured end time, truncated to the caching granularity.
func (c *Config) GetAnalysisEndTime() time.Time {
	return c.EndTime.Truncate(CacheGranularity)
}

// TeamNames returns the configured team names in sorted order.
func (c *Config) TeamNames() []string {
	return slices.Sorted(maps.Keys(c.Teams))
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processLimits(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := processScopesAndTeams(cfg, input); err != nil {
		return err
	}
	if err := resolveGitPathAndModule(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ByUser = input.ByUser
	cfg.Module = strings.TrimPrefix(strings.TrimSpace(input.Module), "./")

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Metric and Score Validation ---
	cfg.Metric = schema.ComplexityMetric(strings.ToLower(input.Metric))
	if _, ok := schema.ValidComplexityMetrics[cfg.Metric]; !ok {
		return fmt.Errorf("invalid metric '%s'. must be length, mccabe", input.Metric)
	}
	if input.MinScore < 0 || input.MinScore > 100 {
		return fmt.Errorf("min-score must be between 0 and 100 (received %.2f)", input.MinScore)
	}
	cfg.MinScore = input.MinScore

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 4. Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- 5. Excludes Processing ---
	cfg.Excludes = slices.Clone(DefaultExcludes)
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			trimmedP := strings.TrimSpace(p)
			if trimmedP != "" {
				cfg.Excludes = append(cfg.Excludes, trimmedP)
			}
		}
	}

	return nil
}

// processLimits validates the commit and month limits.
func processLimits(cfg *Config, input *ConfigRawInput) error {
	limits := gitlog.Limits{
		LimitCommits: input.LimitCommits,
		LimitMonths:  input.LimitMonths,
	}
	if err := limits.Validate(); err != nil {
		return fmt.Errorf("invalid limits (limit-commits=%d, limit-months=%d): %w", input.LimitCommits, input.LimitMonths, err)
	}
	cfg.Limits = limits
	return nil
}

// processTimeRange parses the optional git-side time window.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	now := time.Now()
	cfg.StartTime = time.Time{}
	cfg.EndTime = time.Time{}

	if input.Start != "" {
		t, err := ParseTimeInput(input.Start, now)
		if err != nil {
			return fmt.Errorf("invalid start date '%s': %w", input.Start, err)
		}
		cfg.StartTime = t
	}

	if input.End != "" {
		t, err := ParseTimeInput(input.End, now)
		if err != nil {
			return fmt.Errorf("invalid end date '%s': %w", input.End, err)
		}
		cfg.EndTime = t
	}

	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}

	return nil
}

// NormalizeScope turns a user-provided scope into a repo-relative path prefix.
func NormalizeScope(scope string) string {
	scope = strings.TrimSpace(scope)
	scope = strings.TrimPrefix(scope, "./")
	return strings.TrimPrefix(scope, "/")
}

// processScopesAndTeams cleans the scope list and checks team membership.
// A user may belong to at most one team so that attribution is deterministic.
func processScopesAndTeams(cfg *Config, input *ConfigRawInput) error {
	cfg.Scopes = nil
	seen := make(map[string]struct{}, len(input.Scopes))
	for _, raw := range input.Scopes {
		// Viper hands comma separated env values over as a single element.
		for part := range strings.SplitSeq(raw, ",") {
			scope := NormalizeScope(part)
			if scope == "" {
				continue
			}
			if _, dup := seen[scope]; dup {
				continue
			}
			seen[scope] = struct{}{}
			cfg.Scopes = append(cfg.Scopes, scope)
		}
	}

	cfg.Teams = make(map[string][]string, len(input.Teams))
	owner := make(map[string]string)
	for _, team := range slices.Sorted(maps.Keys(input.Teams)) {
		if team == schema.UnknownTeam {
			return fmt.Errorf("team name %q is reserved for unmapped authors", schema.UnknownTeam)
		}
		var users []string
		for _, user := range input.Teams[team] {
			user = strings.TrimSpace(user)
			if user == "" {
				continue
			}
			if other, ok := owner[user]; ok {
				return fmt.Errorf("user %q is listed in both team %q and team %q", user, other, team)
			}
			owner[user] = team
			users = append(users, user)
		}
		cfg.Teams[team] = users
	}

	return nil
}

// resolveGitPathAndModule resolves the Git repository path and sets the implicit module filter.
func resolveGitPathAndModule(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}

	cfg.RepoPath = gitRoot

	if cfg.Module != "" { // User-provided --module flag takes precedence
		return nil
	}

	if absSearchPath != gitRoot {
		relativePath, err := filepath.Rel(gitRoot, absSearchPath)
		if err != nil {
			return err
		}

		if relativePath != "." {
			module := relativePath
			if statErr == nil && info.IsDir() {
				module += "/"
			}
			cfg.Module = strings.ReplaceAll(module, string(os.PathSeparator), "/")
		}
	}

	return nil
}
