package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/teamspot/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configView is the effective configuration as printed by the config command.
type configView struct {
	ConfigFile   string              `yaml:"config-file,omitempty"`
	Repo         string              `yaml:"repo"`
	Scopes       []string            `yaml:"scopes"`
	Teams        map[string][]string `yaml:"teams"`
	LimitCommits int                 `yaml:"limit-commits"`
	LimitMonths  int                 `yaml:"limit-months"`
	Start        string              `yaml:"start,omitempty"`
	End          string              `yaml:"end,omitempty"`
	Metric       string              `yaml:"metric"`
	MinScore     float64             `yaml:"min-score"`
	Module       string              `yaml:"module,omitempty"`
	Workers      int                 `yaml:"workers"`
	Output       string              `yaml:"output"`
	CacheBackend string              `yaml:"cache-backend"`
}

// newConfigView flattens a validated config for display.
func newConfigView(c *contract.Config, configFile string) configView {
	view := configView{
		ConfigFile:   configFile,
		Repo:         c.RepoPath,
		Scopes:       c.Scopes,
		Teams:        c.Teams,
		LimitCommits: c.Limits.LimitCommits,
		LimitMonths:  c.Limits.LimitMonths,
		Metric:       string(c.Metric),
		MinScore:     c.MinScore,
		Module:       c.Module,
		Workers:      c.Workers,
		Output:       string(c.Output),
		CacheBackend: string(c.CacheBackend),
	}
	if view.Scopes == nil {
		view.Scopes = []string{}
	}
	if view.Teams == nil {
		view.Teams = map[string][]string{}
	}
	if !c.StartTime.IsZero() {
		view.Start = c.StartTime.Format(contract.DateTimeFormat)
	}
	if !c.EndTime.IsZero() {
		view.End = c.EndTime.Format(contract.DateTimeFormat)
	}
	return view
}

// writeConfigYAML encodes the view with two-space indentation.
func writeConfigYAML(w io.Writer, view configView) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// configCmd prints the effective configuration.
var configCmd = &cobra.Command{
	Use:   "config [repo-path]",
	Short: "Print the effective configuration as YAML.",
	Long: `Resolve flags, environment, .env and .teamspot.yaml, validate the result
and print it. Useful to check scopes and team membership before an analysis.

Examples:
  # Show what an analysis of the current repository would use
  teamspot config

  # Check an alternate config file
  teamspot config --config ./ci/teamspot.yaml`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		if err := resolveInput(args); err != nil {
			return err
		}
		return contract.ProcessAndValidate(rootCtx, cfg, contract.NewLocalGitClient(), input)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := writeConfigYAML(os.Stdout, newConfigView(cfg, viper.ConfigFileUsed())); err != nil {
			contract.LogFatal("Cannot print configuration", err)
		}
	},
}
