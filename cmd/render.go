package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/ltable/internal/formatter"
	"github.com/oakwood-commons/ltable/pkg/loader"
	"github.com/oakwood-commons/ltable/pkg/logger"
)

var (
	renderInteractive bool
	renderFormat      string
	renderFlags       = newTableFlags("")
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render tabular data as a table",
	Long: `Render reads data from a file or stdin and prints it as a table.

CSV and TSV use the first record as the header. JSON, NDJSON, YAML and TOML
records become rows, with one column per key in the order keys first appear.
The format follows the file extension or the content unless --format names it.

Columns are auto-sized unless --preset names a column preset from the config;
named preset columns select headers by name.`,
	Example: "  ltable render data.csv --width 80 --fill\n" +
		"  kubectl get pods -o json | jq .items | ltable render --format json --limit 20\n" +
		"  cat data.csv | ltable render --preset split -i",
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

//nolint:gochecknoinits // cobra command registration
func init() {
	renderCmd.Flags().AddFlagSet(renderFlags.set)
	renderCmd.Flags().BoolVarP(&renderInteractive, "interactive", "i", false, "browse the table in a full screen view")
	renderCmd.Flags().StringVar(&renderFormat, "format", "auto", fmt.Sprintf("input format: %v", loader.Formats))
}

func runRender(cmd *cobra.Command, args []string) error {
	format, err := loader.ParseFormat(renderFormat)
	if err != nil {
		return err
	}
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	data, err := readTable(cmd, path, format)
	if err != nil {
		return err
	}

	cols, index, err := presetColumns(appConfig, renderFlags.preset, data.Headers)
	if err != nil {
		return err
	}
	rows, note, err := limitRows(renderFlags, data.Rows)
	if err != nil {
		return err
	}
	headers, rows := projectAll(data.Headers, rows, index)

	ts := renderFlags.settings(appConfig.Table.Settings())
	if renderInteractive {
		title := "stdin"
		if path != "" && path != "-" {
			title = filepath.Base(path)
		}
		if note != "" {
			title += " · " + note
		}
		return runTableView(tableView{
			title:    title,
			headers:  headers,
			rows:     rows,
			columns:  cols,
			settings: ts,
		})
	}

	opts := renderFlags.options(appConfig.Table.Settings())
	runParams().Width = opts.Width
	logger.FromContext(rootCtx).V(1).Info("rendering table", logger.ColumnsKey, len(cols), logger.WidthKey, opts.Width, "rows", len(rows))
	_, err = fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(headers, rows, cols, opts))
	return err
}
