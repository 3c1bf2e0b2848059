// Package cmd implements the ltable command line.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/ltable/internal/config"
	"github.com/oakwood-commons/ltable/internal/formatter"
	"github.com/oakwood-commons/ltable/pkg/logger"
	"github.com/oakwood-commons/ltable/pkg/settings"
)

var (
	debug      bool
	noColor    bool
	configFile string

	rootCtx   = context.Background()
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "Column width resolver and table renderer for terminal UIs",
	Long: `ltable resolves table column widths the way a terminal table widget does:
exact, initial and auto columns keep their own width and fill columns share
whatever space is left in proportion to their weights, within their bounds.

Use it to inspect column files, render CSV data, or browse the telemetry
field status catalog in an interactive table.`,
	Example: "\n  ltable resolve -f columns.yaml --width 500 --fill\n  ltable render data.csv --preset split\n  ltable fields --filter 'f.acc == \"missing\"'\n  ltable show\n",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		path := config.ResolvePath(configFile)
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		appConfig = cfg

		params := settings.NewCliParams()
		params.ConfigFile = path
		params.NoColor = noColor
		if debug {
			params.MinLogLevel = -1
		}

		lgr := logger.Init(logger.Options{
			Level:  params.MinLogLevel,
			Format: logger.Format(cfg.App.Debug.LogFormat),
		})
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = settings.IntoContext(logger.WithLogger(context.Background(), lgr), params)

		formatter.SetTableTheme(formatter.ColorsFromTheme(cfg.Table.Theme))
		lgr.V(1).Info("config loaded", "path", path, "presets", len(cfg.Presets))
		return nil
	},
}

//nolint:gochecknoinits // cobra command registration
func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/ltable/config.yaml)")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// runParams returns the settings of the current run.
func runParams() *settings.Run {
	if p, ok := settings.FromContext(rootCtx); ok {
		return p
	}
	return settings.NewCliParams()
}
