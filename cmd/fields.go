package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/ltable/internal/fieldstatus"
	"github.com/oakwood-commons/ltable/internal/formatter"
	"github.com/oakwood-commons/ltable/pkg/layout"
	"github.com/oakwood-commons/ltable/pkg/logger"
)

var (
	fieldsFile        string
	fieldsFilter      string
	fieldsSort        string
	fieldsSummary     bool
	fieldsInteractive bool
	fieldsOutput      string
	fieldsFlags       = newTableFlags("fields")

	showFile   string
	showFilter string
	showFlags  = newTableFlags("fields")
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Show the telemetry field status catalog",
	Long: `Fields prints the status of every telemetry field per data source.

--filter takes a CEL expression over the variable f with the string keys
name, group, description and one lowercase key per source, for example:

  f.acc == "missing"
  f.group == "lap" && f.iracing != "done"
  f.name.startsWith("fuel")`,
	Example: "  ltable fields --summary\n  ltable fields --filter 'f.acc != \"done\"' --sort acc\n  ltable fields -o yaml",
	Args:    cobra.NoArgs,
	RunE:    runFields,
}

var showCmd = &cobra.Command{
	Use:     "show",
	Short:   "Browse the field status catalog in a full screen table",
	Example: "  ltable show\n  ltable show --preset compact --filter 'f.group == \"lap\"'",
	Args:    cobra.NoArgs,
	RunE:    runShow,
}

//nolint:gochecknoinits // cobra command registration
func init() {
	fieldsCmd.Flags().AddFlagSet(fieldsFlags.set)
	fieldsCmd.Flags().StringVar(&fieldsFile, "catalog", "", "markdown status document (default: built-in catalog)")
	fieldsCmd.Flags().StringVar(&fieldsFilter, "filter", "", "CEL expression selecting fields")
	fieldsCmd.Flags().StringVar(&fieldsSort, "sort", "", "sort by name, group or a source name")
	fieldsCmd.Flags().BoolVar(&fieldsSummary, "summary", false, "print status counts per source")
	fieldsCmd.Flags().BoolVarP(&fieldsInteractive, "interactive", "i", false, "browse the table in a full screen view")
	fieldsCmd.Flags().StringVarP(&fieldsOutput, "output", "o", "table", "output format: table|yaml|json|toml")

	showCmd.Flags().AddFlagSet(showFlags.set)
	showCmd.Flags().StringVar(&showFile, "catalog", "", "markdown status document (default: built-in catalog)")
	showCmd.Flags().StringVar(&showFilter, "filter", "", "CEL expression selecting fields")
}

type fieldRecord struct {
	Name        string            `json:"name" yaml:"name" toml:"name"`
	Group       string            `json:"group" yaml:"group" toml:"group"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Status      map[string]string `json:"status" yaml:"status" toml:"status"`
}

type summaryRecord struct {
	Source   string         `json:"source" yaml:"source" toml:"source"`
	Counts   map[string]int `json:"counts" yaml:"counts" toml:"counts"`
	Total    int            `json:"total" yaml:"total" toml:"total"`
	Coverage float64        `json:"coverage" yaml:"coverage" toml:"coverage"`
}

// loadCatalog reads path, or the built-in catalog when path is empty, and
// applies the filter and sort order.
func loadCatalog(path, filter, sortKey string) (*fieldstatus.Catalog, error) {
	var (
		cat *fieldstatus.Catalog
		err error
	)
	if path == "" {
		cat, err = fieldstatus.Default()
	} else {
		var md []byte
		md, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		cat, err = fieldstatus.Parse(md)
	}
	if err != nil {
		return nil, err
	}
	total := len(cat.Fields)
	if cat, err = cat.Filter(filter); err != nil {
		return nil, err
	}
	if sortKey != "" {
		cat = cat.SortedBy(sortKey)
	}
	logger.FromContext(rootCtx).V(1).Info("loaded catalog", "fields", total, "selected", len(cat.Fields), "filter", filter)
	return cat, nil
}

func runFields(cmd *cobra.Command, _ []string) error {
	format, err := formatter.ParseFormat(fieldsOutput)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(fieldsFile, fieldsFilter, fieldsSort)
	if err != nil {
		return err
	}

	if fieldsSummary {
		return writeSummary(cmd, cat, format)
	}
	if format != formatter.FormatTable {
		records, _, err := limitRows(fieldsFlags, fieldRecords(cat))
		if err != nil {
			return err
		}
		return formatter.Encode(cmd.OutOrStdout(), struct {
			Fields []fieldRecord `json:"fields" yaml:"fields" toml:"fields"`
		}{Fields: records}, format)
	}

	cols, index, err := presetColumns(appConfig, fieldsFlags.preset, cat.Headers())
	if err != nil {
		return err
	}
	rows, note, err := limitRows(fieldsFlags, cat.Rows())
	if err != nil {
		return err
	}
	headers, rows := projectAll(cat.Headers(), rows, index)
	if fieldsInteractive {
		return runTableView(fieldsView(cat, headers, rows, cols, fieldsFlags, note))
	}

	opts := fieldsFlags.options(appConfig.Table.Settings())
	runParams().Width = opts.Width
	_, err = fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(headers, rows, cols, opts))
	return err
}

func runShow(_ *cobra.Command, _ []string) error {
	cat, err := loadCatalog(showFile, showFilter, "")
	if err != nil {
		return err
	}
	cols, index, err := presetColumns(appConfig, showFlags.preset, cat.Headers())
	if err != nil {
		return err
	}
	rows, note, err := limitRows(showFlags, cat.Rows())
	if err != nil {
		return err
	}
	headers, rows := projectAll(cat.Headers(), rows, index)
	return runTableView(fieldsView(cat, headers, rows, cols, showFlags, note))
}

func fieldsView(cat *fieldstatus.Catalog, headers []string, rows [][]string, cols []layout.Column, flags *tableFlags, note string) tableView {
	title := fmt.Sprintf("Field status · %d fields", len(rows))
	if note != "" {
		title = fmt.Sprintf("Field status · %s", note)
	}
	sources := make(map[int]bool)
	for i, h := range headers {
		for _, s := range cat.Sources {
			if h == s {
				sources[i] = true
			}
		}
	}
	return tableView{
		title:    title,
		headers:  headers,
		rows:     rows,
		columns:  cols,
		settings: flags.settings(appConfig.Table.Settings()),
		cellStyle: func(col int, value string) (lipgloss.Style, bool) {
			if !sources[col] {
				return lipgloss.Style{}, false
			}
			return statusStyle(fieldstatus.Status(value))
		},
	}
}

// statusStyle colors a status cell.
func statusStyle(s fieldstatus.Status) (lipgloss.Style, bool) {
	var c string
	switch s {
	case fieldstatus.StatusDone:
		c = "42"
	case fieldstatus.StatusPartial:
		c = "214"
	case fieldstatus.StatusMissing:
		c = "196"
	case fieldstatus.StatusNA:
		c = "244"
	default:
		return lipgloss.Style{}, false
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)), true
}

func fieldRecords(cat *fieldstatus.Catalog) []fieldRecord {
	out := make([]fieldRecord, len(cat.Fields))
	for i, f := range cat.Fields {
		status := make(map[string]string, len(f.Status))
		for src, st := range f.Status {
			status[strings.ToLower(src)] = string(st)
		}
		out[i] = fieldRecord{Name: f.Name, Group: f.Group, Description: f.Description, Status: status}
	}
	return out
}

func writeSummary(cmd *cobra.Command, cat *fieldstatus.Catalog, format formatter.Format) error {
	sums := cat.Summary()
	if format != formatter.FormatTable {
		records := make([]summaryRecord, len(sums))
		for i, s := range sums {
			counts := make(map[string]int, len(s.Counts))
			for st, n := range s.Counts {
				counts[string(st)] = n
			}
			records[i] = summaryRecord{Source: s.Source, Counts: counts, Total: s.Total, Coverage: s.Coverage()}
		}
		return formatter.Encode(cmd.OutOrStdout(), struct {
			Summary []summaryRecord `json:"summary" yaml:"summary" toml:"summary"`
		}{Summary: records}, format)
	}

	headers := []string{"Source"}
	for _, st := range fieldstatus.Statuses {
		headers = append(headers, string(st))
	}
	headers = append(headers, "total", "coverage")

	rows := make([][]string, len(sums))
	cols := []layout.Column{layout.Auto()}
	for range len(headers) - 1 {
		cols = append(cols, layout.Auto().WithAlign(layout.AlignRight))
	}
	for i, s := range sums {
		row := []string{s.Source}
		for _, st := range fieldstatus.Statuses {
			row = append(row, strconv.Itoa(s.Counts[st]))
		}
		row = append(row, strconv.Itoa(s.Total), fmt.Sprintf("%.0f%%", s.Coverage()))
		rows[i] = row
	}

	ts := appConfig.Table.Settings()
	_, err := fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(headers, rows, cols, formatter.TableOptions{
		ColumnLines: ts.ColumnLines,
		NoColor:     noColor,
	}))
	return err
}
