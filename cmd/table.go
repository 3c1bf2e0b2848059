package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/oakwood-commons/ltable/internal/config"
	"github.com/oakwood-commons/ltable/internal/formatter"
	"github.com/oakwood-commons/ltable/internal/limiter"
	"github.com/oakwood-commons/ltable/pkg/layout"
	"github.com/oakwood-commons/ltable/pkg/logger"
)

var (
	stdinIsPiped  = func() bool { stat, _ := os.Stdin.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	stdoutIsPiped = func() bool { stat, _ := os.Stdout.Stat(); return (stat.Mode() & os.ModeCharDevice) == 0 }
	termGetSize   = term.GetSize
)

// tableFlags are the table options shared by the commands that draw tables.
// Options left unset on the command line come from the config file.
type tableFlags struct {
	preset      string
	width       int
	fill        bool
	striped     bool
	columnLines bool
	limits      limiter.Config

	set *pflag.FlagSet
}

func newTableFlags(defaultPreset string) *tableFlags {
	f := &tableFlags{}
	fs := pflag.NewFlagSet("table", pflag.ContinueOnError)
	fs.StringVar(&f.preset, "preset", defaultPreset, "column preset from the config (see 'ltable config presets')")
	fs.IntVar(&f.width, "width", 0, "table width in cells (default: terminal width)")
	fs.BoolVar(&f.fill, "fill", false, "let fill columns take up the remaining width (default from config)")
	fs.BoolVar(&f.striped, "striped", false, "shade every second row (default from config)")
	fs.BoolVar(&f.columnLines, "column-lines", false, "draw lines between columns (default from config)")
	fs.IntVar(&f.limits.Limit, "limit", 0, "show only the first N rows")
	fs.IntVar(&f.limits.Offset, "offset", 0, "skip the first N rows")
	fs.IntVar(&f.limits.Tail, "tail", 0, "show only the last N rows")
	f.set = fs
	return f
}

// settings overlays the flags the user set on ts.
func (f *tableFlags) settings(ts config.TableSettings) config.TableSettings {
	if f.set.Changed("fill") {
		ts.FillHorizontal = f.fill
	}
	if f.set.Changed("striped") {
		ts.Striped = f.striped
	}
	if f.set.Changed("column-lines") {
		ts.ColumnLines = f.columnLines
	}
	return ts
}

// tableWidth is the --width flag, then the terminal width, then the configured
// default.
func (f *tableFlags) tableWidth(ts config.TableSettings) int {
	if f.width > 0 {
		return f.width
	}
	if !stdoutIsPiped() {
		if w, _ := detectTerminalSize(); w > 0 {
			return w
		}
	}
	return ts.DefaultWidth
}

func (f *tableFlags) options(ts config.TableSettings) formatter.TableOptions {
	ts = f.settings(ts)
	return formatter.TableOptions{
		Width:          f.tableWidth(ts),
		FillHorizontal: ts.FillHorizontal,
		Striped:        ts.Striped,
		ColumnLines:    ts.ColumnLines,
		NoColor:        noColor,
	}
}

// limitRows applies --limit, --offset and --tail. The note describes what was
// kept and is empty when every row is shown.
func limitRows[T any](f *tableFlags, rows []T) ([]T, string, error) {
	if err := f.limits.Validate(); err != nil {
		return nil, "", err
	}
	note := f.limits.Describe(len(rows))
	if note != "" {
		logger.FromContext(rootCtx).V(1).Info("limited rows", "kept", note)
	}
	return limiter.Apply(f.limits, rows), note, nil
}

// detectTerminalSize checks stdout, stderr and stdin, then $COLUMNS and
// $LINES. Unknown dimensions are 0.
func detectTerminalSize() (int, int) {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()} {
		if w, h, err := termGetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	w, _ := strconv.Atoi(os.Getenv("COLUMNS"))
	h, _ := strconv.Atoi(os.Getenv("LINES"))
	return max(w, 0), max(h, 0)
}

// presetColumns returns the columns of the named preset and, for each, the
// index of the header it shows. Named preset columns are matched to headers
// case-insensitively; a preset without names applies by position. An empty
// name gives one auto column per header.
func presetColumns(cfg config.Config, name string, headers []string) ([]layout.Column, []int, error) {
	if name == "" {
		cols := make([]layout.Column, len(headers))
		index := make([]int, len(headers))
		for i := range headers {
			cols[i] = layout.Auto()
			index[i] = i
		}
		return cols, index, nil
	}

	preset, err := cfg.Preset(name)
	if err != nil {
		return nil, nil, err
	}
	cols, names, err := config.Columns(preset.Columns)
	if err != nil {
		return nil, nil, fmt.Errorf("preset %s: %w", name, err)
	}

	named := false
	for _, n := range names {
		if n != "" {
			named = true
			break
		}
	}
	index := make([]int, len(cols))
	for i := range cols {
		if !named {
			index[i] = i
			continue
		}
		index[i] = -1
		for j, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), names[i]) {
				index[i] = j
				break
			}
		}
		if index[i] < 0 {
			return nil, nil, fmt.Errorf("preset %s: column %q not found in headers %v", name, names[i], headers)
		}
	}
	return cols, index, nil
}

// project picks the cells at index from every row. Missing cells are empty.
func project(row []string, index []int) []string {
	out := make([]string, len(index))
	for i, j := range index {
		if j >= 0 && j < len(row) {
			out[i] = row[j]
		}
	}
	return out
}

func projectAll(headers []string, rows [][]string, index []int) ([]string, [][]string) {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = project(r, index)
	}
	return project(headers, index), out
}
