package formatter

import (
	"strings"

	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/ltable/pkg/layout"
)

const (
	plainSeparator = "  "
	lineSeparator  = " │ "
	lineJunction   = "─┼─"
)

// TableOptions configures RenderTable.
type TableOptions struct {
	// Width is the space offered to the table. Zero uses the terminal width.
	Width int
	// FillHorizontal lets fill columns take up the remaining width.
	FillHorizontal bool
	// Striped shades every second data row.
	Striped bool
	// ColumnLines draws a vertical line between columns.
	ColumnLines bool
	NoColor     bool
	HideHeader  bool
	// Previous are widths remembered from an earlier render.
	Previous []float64
}

func (o TableOptions) separator() string {
	if o.ColumnLines {
		return lineSeparator
	}
	return plainSeparator
}

// Measure returns the widest header or cell of each of the n columns.
func Measure(headers []string, rows [][]string, n int) []float64 {
	widths := make([]float64, n)
	grow := func(i int, s string) {
		if i >= n {
			return
		}
		if w := float64(runewidth.StringWidth(CellText(s))); w > widths[i] {
			widths[i] = w
		}
	}
	for i, h := range headers {
		grow(i, h)
	}
	for _, row := range rows {
		for i, v := range row {
			grow(i, v)
		}
	}
	return widths
}

// ColumnWidths resolves the integer cell widths RenderTable uses. Missing column
// definitions are treated as auto columns.
func ColumnWidths(headers []string, rows [][]string, cols []layout.Column, opts TableOptions) ([]int, layout.Result) {
	n := columnCount(headers, rows, cols)
	cols = padColumns(cols, n)

	width := opts.Width
	if width <= 0 {
		width = getTerminalWidth()
	}
	if n > 1 {
		width -= runewidth.StringWidth(opts.separator()) * (n - 1)
	}

	res := layout.Resolve(cols, layout.Context{
		AvailableWidth: float64(width),
		FillHorizontal: opts.FillHorizontal,
		Measured:       Measure(headers, rows, n),
		Previous:       opts.Previous,
	})
	return layout.Round(res.Widths, cols), res
}

// RenderTable renders headers and rows as aligned text, one line per row, each
// terminated by a newline.
func RenderTable(headers []string, rows [][]string, cols []layout.Column, opts TableOptions) string {
	n := columnCount(headers, rows, cols)
	if n == 0 {
		return ""
	}
	cols = padColumns(cols, n)
	widths, _ := ColumnWidths(headers, rows, cols, opts)

	aligns := make([]layout.Align, n)
	for i, c := range cols {
		aligns[i] = c.Align
	}

	var b strings.Builder
	if !opts.HideHeader && len(headers) > 0 {
		b.WriteString(renderLine(headers, widths, aligns, headerStyle, opts))
		b.WriteByte('\n')
		b.WriteString(renderRule(widths, opts))
		b.WriteByte('\n')
	}
	for i, row := range rows {
		style := cellStyle
		if opts.Striped && i%2 == 1 {
			style = stripeStyle
		}
		b.WriteString(renderLine(row, widths, aligns, style, opts))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderLine(values []string, widths []int, aligns []layout.Align, style lipgloss.Style, opts TableOptions) string {
	sep := opts.separator()
	if !opts.NoColor && opts.ColumnLines {
		sep = separatorStyle.Render(sep)
	}
	parts := make([]string, len(widths))
	for i, w := range widths {
		v := ""
		if i < len(values) {
			v = CellText(values[i])
		}
		cell := Fit(v, w, aligns[i])
		if !opts.NoColor {
			cell = style.Render(cell)
		}
		parts[i] = cell
	}
	return strings.Join(parts, sep)
}

func renderRule(widths []int, opts TableOptions) string {
	var rule string
	if opts.ColumnLines {
		segs := make([]string, len(widths))
		for i, w := range widths {
			segs[i] = strings.Repeat("─", w)
		}
		rule = strings.Join(segs, lineJunction)
	} else {
		total := layout.Sum(widths) + runewidth.StringWidth(plainSeparator)*(len(widths)-1)
		rule = strings.Repeat("─", total)
	}
	if opts.NoColor {
		return rule
	}
	return separatorStyle.Render(rule)
}

func columnCount(headers []string, rows [][]string, cols []layout.Column) int {
	n := max(len(headers), len(cols))
	for _, r := range rows {
		n = max(n, len(r))
	}
	return n
}

func padColumns(cols []layout.Column, n int) []layout.Column {
	if len(cols) >= n {
		return cols
	}
	out := make([]layout.Column, n)
	copy(out, cols)
	return out
}
