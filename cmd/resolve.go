package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/ltable/internal/config"
	"github.com/oakwood-commons/ltable/internal/formatter"
	"github.com/oakwood-commons/ltable/pkg/layout"
	"github.com/oakwood-commons/ltable/pkg/logger"
)

var (
	columnFile    string
	resolvePreset string
	resolveWidth  float64
	resolveFill   bool
	resolveOutput string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve column widths for a column file or preset",
	Long: `Resolve reads a column file (YAML) and prints the width of every column.

A column file lists columns and, optionally, the sizing context:

  available_width: 500
  fill_horizontal: true
  measured: [0, 0, 12]
  previous: [40]
  columns:
    - {name: Name, mode: exact, width: 100}
    - {name: Notes, mode: fill, weight: 2, min: 10}

--width and --fill override the file.`,
	Example: "  ltable resolve -f columns.yaml --width 500 --fill\n  ltable resolve --preset split --width 500 --fill -o json",
	Args:    cobra.NoArgs,
	RunE:    runResolve,
}

//nolint:gochecknoinits // cobra command registration
func init() {
	resolveCmd.Flags().StringVarP(&columnFile, "file", "f", "", "column file to resolve ('-' for stdin)")
	resolveCmd.Flags().StringVar(&resolvePreset, "preset", "", "resolve a preset from the config instead of a file")
	resolveCmd.Flags().Float64Var(&resolveWidth, "width", 0, "available width")
	resolveCmd.Flags().BoolVar(&resolveFill, "fill", false, "let fill columns take up the available width")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "table", "output format: table|yaml|json|toml")
	resolveCmd.MarkFlagsMutuallyExclusive("file", "preset")
}

type resolvedColumn struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Mode   string  `json:"mode" yaml:"mode" toml:"mode"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Cells  int     `json:"cells" yaml:"cells" toml:"cells"`
	Pinned bool    `json:"pinned" yaml:"pinned" toml:"pinned"`
}

type resolveReport struct {
	AvailableWidth float64          `json:"available_width" yaml:"available_width" toml:"available_width"`
	FillHorizontal bool             `json:"fill_horizontal" yaml:"fill_horizontal" toml:"fill_horizontal"`
	TableWidth     float64          `json:"table_width" yaml:"table_width" toml:"table_width"`
	Iterations     int              `json:"iterations" yaml:"iterations" toml:"iterations"`
	Columns        []resolvedColumn `json:"columns" yaml:"columns" toml:"columns"`
}

func runResolve(cmd *cobra.Command, _ []string) error {
	format, err := formatter.ParseFormat(resolveOutput)
	if err != nil {
		return err
	}

	file, err := loadColumnFile(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("width") {
		file.AvailableWidth = resolveWidth
	}
	if cmd.Flags().Changed("fill") {
		file.FillHorizontal = resolveFill
	}

	cols, names, err := config.Columns(file.Columns)
	if err != nil {
		return err
	}
	lgr := logger.FromContext(rootCtx)
	if err := layout.Validate(cols); err != nil {
		lgr.Info("column definitions will be clamped", "reason", err.Error())
	}

	ctx := file.Context()
	res := layout.Resolve(cols, ctx)
	lgr.V(1).Info("resolved columns", logger.ColumnsKey, len(cols), logger.WidthKey, res.TableWidth, "iterations", res.Iterations)

	report := newResolveReport(cols, names, ctx, res)
	if format != formatter.FormatTable {
		return formatter.Encode(cmd.OutOrStdout(), report, format)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), renderResolveReport(report))
	return err
}

func loadColumnFile(cmd *cobra.Command) (config.ColumnFile, error) {
	if resolvePreset != "" {
		preset, err := appConfig.Preset(resolvePreset)
		if err != nil {
			return config.ColumnFile{}, err
		}
		return config.ColumnFile{Columns: preset.Columns}, nil
	}
	in, err := openInput(cmd, columnFile)
	if err != nil {
		return config.ColumnFile{}, err
	}
	defer in.Close()
	return config.DecodeColumnFile(in)
}

func newResolveReport(cols []layout.Column, names []string, ctx layout.Context, res layout.Result) resolveReport {
	cells := layout.Round(res.Widths, cols)
	r := resolveReport{
		AvailableWidth: ctx.AvailableWidth,
		FillHorizontal: ctx.FillHorizontal,
		TableWidth:     res.TableWidth,
		Iterations:     res.Iterations,
		Columns:        make([]resolvedColumn, len(cols)),
	}
	for i, c := range cols {
		r.Columns[i] = resolvedColumn{
			Name:   names[i],
			Mode:   c.Mode.String(),
			Width:  res.Widths[i],
			Cells:  cells[i],
			Pinned: res.Pinned[i],
		}
	}
	return r
}

func formatWidth(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func renderResolveReport(r resolveReport) string {
	headers := []string{"#", "Column", "Mode", "Width", "Cells", "Pinned"}
	rows := make([][]string, len(r.Columns))
	for i, c := range r.Columns {
		pinned := ""
		if c.Pinned {
			pinned = "yes"
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			c.Name,
			c.Mode,
			strconv.FormatFloat(c.Width, 'f', 2, 64),
			strconv.Itoa(c.Cells),
			pinned,
		}
	}
	right := layout.Auto().WithAlign(layout.AlignRight)
	cols := []layout.Column{right, layout.Auto(), layout.Auto(), right, right, layout.Auto()}
	ts := appConfig.Table.Settings()
	out := formatter.RenderTable(headers, rows, cols, formatter.TableOptions{
		ColumnLines: ts.ColumnLines,
		NoColor:     noColor,
	})
	return out + fmt.Sprintf("\ntable width %s of %s (fill %t, %d iterations)\n",
		formatWidth(r.TableWidth), formatWidth(r.AvailableWidth), r.FillHorizontal, r.Iterations)
}
