package cmd

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/ltable/internal/config"
	"github.com/oakwood-commons/ltable/internal/formatter"
	"github.com/oakwood-commons/ltable/pkg/layout"
	"github.com/oakwood-commons/ltable/pkg/settings"
)

var (
	configOutput  string
	configDefault bool
	versionOutput string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the merged configuration",
	Long: `Config prints the built-in defaults merged with the user config file
($XDG_CONFIG_HOME/ltable/config.yaml or --config-file). --default prints the
built-in defaults as shipped, comments included.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the column presets",
	Args:  cobra.NoArgs,
	RunE:  runConfigPresets,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ltable version",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

//nolint:gochecknoinits // cobra command registration
func init() {
	configCmd.Flags().StringVarP(&configOutput, "output", "o", "yaml", "output format: yaml|json|toml")
	configCmd.Flags().BoolVar(&configDefault, "default", false, "print the built-in defaults")
	configCmd.AddCommand(configPresetsCmd)

	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "table", "output format: table|yaml|json|toml")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	format, err := formatter.ParseFormat(configOutput)
	if err != nil {
		return err
	}
	if format == formatter.FormatTable {
		format = formatter.FormatYAML
	}

	if configDefault && format == formatter.FormatYAML {
		_, err = cmd.OutOrStdout().Write(config.DefaultConfigYAML())
		return err
	}
	cfg := appConfig
	if configDefault {
		if cfg, err = config.Default(); err != nil {
			return err
		}
	}
	if format == formatter.FormatYAML {
		return formatter.Encode(cmd.OutOrStdout(), cfg, format)
	}

	// The config types only carry YAML tags; go through a generic tree so the
	// other encodings use the same keys.
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return formatter.Encode(cmd.OutOrStdout(), tree, format)
}

func runConfigPresets(cmd *cobra.Command, _ []string) error {
	headers := []string{"Preset", "Columns", "Description"}
	var rows [][]string
	for _, name := range appConfig.PresetNames() {
		p := appConfig.Presets[name]
		rows = append(rows, []string{name, strconv.Itoa(len(p.Columns)), p.Description})
	}
	cols := []layout.Column{layout.Auto(), layout.Auto().WithAlign(layout.AlignRight), layout.Auto()}
	ts := appConfig.Table.Settings()
	_, err := fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(headers, rows, cols, formatter.TableOptions{
		ColumnLines: ts.ColumnLines,
		NoColor:     noColor,
	}))
	return err
}

type versionReport struct {
	Name      string `json:"name" yaml:"name" toml:"name"`
	Version   string `json:"version" yaml:"version" toml:"version"`
	Commit    string `json:"commit" yaml:"commit" toml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time" toml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version" toml:"go_version"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := formatter.ParseFormat(versionOutput)
	if err != nil {
		return err
	}
	name := appConfig.App.About.Name
	if name == "" {
		name = settings.CliBinaryName
	}
	v := versionReport{
		Name:      name,
		Version:   settings.VersionInformation.BuildVersion,
		Commit:    settings.VersionInformation.Commit,
		BuildTime: settings.VersionInformation.BuildTime,
		GoVersion: runtime.Version(),
	}
	if format != formatter.FormatTable {
		return formatter.Encode(cmd.OutOrStdout(), v, format)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s, %s)\n", v.Name, v.Version, v.Commit, v.BuildTime, v.GoVersion)
	return err
}
