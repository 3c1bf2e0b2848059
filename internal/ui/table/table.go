// Package table is an immediate-mode table for terminal UIs. Content is
// described anew on every frame through a callback; the table measures it,
// resolves column widths with the layout package and draws the visible part.
package table

import (
	"math"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/ltable/internal/formatter"
	"github.com/oakwood-commons/ltable/pkg/layout"
)

const columnLine = "│"

// Options configure a Table.
type Options struct {
	Columns []layout.Column
	// Striped shades every second body row.
	Striped bool
	// ColumnLines draws a line in the last cell of every column but the last.
	ColumnLines bool
	// ResizeHeadersOnly restricts keyboard resizing to when the header is focused.
	ResizeHeadersOnly bool
	// ReorderColumns is accepted for compatibility and has no effect.
	ReorderColumns bool
	// FillHorizontal lets fill columns take up the width of the viewport.
	FillHorizontal bool
	// FillVertical pads the frame to the viewport height.
	FillVertical bool
	HScroll      bool
	VScroll      bool
	NoColor      bool
	Styles       Styles
}

// Styles used when drawing.
type Styles struct {
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Stripe    lipgloss.Style
	Highlight lipgloss.Style
	Focus     lipgloss.Style
	Separator lipgloss.Style
}

// DefaultStyles returns the built-in styles.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Background(lipgloss.Color("236")),
		Cell:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Stripe:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("235")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("220")),
		Focus:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("81")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Size is the viewport in terminal cells.
type Size struct {
	Width  int
	Height int
}

// Scroll is the offset of the table inside the viewport.
type Scroll struct {
	X int
	Y int
}

// Focus marks a column, and optionally its header, as focused.
type Focus struct {
	Column int
	Header bool
}

// Table draws frames. It keeps no per-frame data; widths the user adjusted
// live in the layout.State passed to Show.
type Table struct {
	opts  Options
	focus *Focus
}

// New creates a table.
func New(opts Options) *Table {
	return &Table{opts: opts}
}

// Options returns the table options.
func (t *Table) Options() Options {
	return t.opts
}

// SetFocus highlights a column. nil clears the focus.
func (t *Table) SetFocus(f *Focus) {
	t.focus = f
}

// Frame is one drawn table.
type Frame struct {
	Lines []string
	// Widths are the integer column widths.
	Widths  []int
	Result  layout.Result
	Columns layout.ColumnLayout
	Rows    []layout.RowPlacement
	// ContentWidth and ContentHeight are the size of the whole table, used to
	// bound scrolling.
	ContentWidth  int
	ContentHeight int
	// Headers holds the text of the first header row.
	Headers []string
}

// View joins the lines of the frame.
func (f Frame) View() string {
	return strings.Join(f.Lines, "\n")
}

// MaxScroll returns the largest useful scroll offsets for a viewport of size.
func (f Frame) MaxScroll(size Size) Scroll {
	return Scroll{
		X: max(0, f.ContentWidth-size.Width),
		Y: max(0, f.ContentHeight-size.Height),
	}
}

// Show runs content to collect this frame's rows, resolves the column widths
// and draws the part of the table visible at scroll. state carries remembered
// widths between frames and may be nil. Negative sizes draw nothing.
func (t *Table) Show(size Size, scroll Scroll, state *layout.State, content func(*Body)) Frame {
	size.Width = max(size.Width, 0)
	size.Height = max(size.Height, 0)
	body := &Body{columns: len(t.opts.Columns)}
	if content != nil {
		content(body)
	}
	body.done = true

	if !t.opts.HScroll {
		scroll.X = 0
	}
	if !t.opts.VScroll {
		scroll.Y = 0
	}

	cols := t.opts.Columns
	var previous []float64
	if state != nil {
		cols = state.Columns(cols)
		previous = state.Previous()
	}
	res := layout.Resolve(cols, layout.Context{
		AvailableWidth: float64(size.Width),
		FillHorizontal: t.opts.FillHorizontal,
		Measured:       body.measure(t.opts.ColumnLines),
		Previous:       previous,
	})
	if state != nil {
		state.Remember(res)
	}

	widths := layout.Round(res.Widths, cols)
	fw := make([]float64, len(widths))
	for i, w := range widths {
		fw[i] = float64(w)
	}
	viewport := layout.Span{Start: 0, End: float64(size.Width)}
	cl := layout.Place(fw, cols, -float64(scroll.X), viewport)

	f := Frame{
		Widths:       widths,
		Result:       res,
		Columns:      cl,
		ContentWidth: layout.Sum(widths),
	}

	flow := layout.NewRowFlow(-float64(scroll.Y), layout.Span{Start: 0, End: float64(size.Height)})
	lines := make([][]segment, size.Height)
	stripe := 0
	for _, r := range body.rows {
		p := flow.Next(float64(r.spec.Height), r.spec.Fixed)
		f.Rows = append(f.Rows, p)
		if r.spec.Header && f.Headers == nil {
			f.Headers = r.texts()
		}

		style := t.rowStyle(r.spec, stripe)
		if !r.spec.Header && !r.spec.Fixed {
			stripe++
		}
		if !p.Visible() {
			continue
		}
		for y := int(math.Ceil(p.Clip.Start)); y < int(math.Ceil(p.Clip.End)); y++ {
			if y < 0 || y >= size.Height {
				continue
			}
			lines[y] = t.drawLine(r, y-int(p.Y), widths, cols, cl, style)
		}
	}
	f.ContentHeight = int(flow.Bottom() + float64(scroll.Y))

	last := size.Height
	if !t.opts.FillVertical {
		last = 0
		for y := range lines {
			if lines[y] != nil {
				last = y + 1
			}
		}
	}
	f.Lines = make([]string, last)
	for y := 0; y < last; y++ {
		f.Lines[y] = join(lines[y])
	}
	return f
}

func (t *Table) rowStyle(spec Row, stripe int) *lipgloss.Style {
	if t.opts.NoColor {
		return nil
	}
	s := t.opts.Styles.Cell
	switch {
	case spec.Highlight:
		s = t.opts.Styles.Highlight
	case spec.Header:
		s = t.opts.Styles.Header
	case t.opts.Striped && stripe%2 == 1:
		s = t.opts.Styles.Stripe
	}
	return &s
}

type segment struct {
	start int
	text  string
}

// drawLine renders line k of row r into segments positioned in viewport cells.
func (t *Table) drawLine(r *rowRecord, k int, widths []int, cols []layout.Column, cl layout.ColumnLayout, style *lipgloss.Style) []segment {
	segs := make([]segment, 0, len(widths))
	for i, w := range widths {
		place := cl.Columns[i]
		vis := place.Visible(cl)
		if vis.Empty() || w == 0 {
			continue
		}
		from := int(vis.Start - place.X)
		to := int(vis.End - place.X)

		var cell *Cell
		if i < len(r.cells) {
			cell = r.cells[i]
		}
		text := ""
		if cell != nil {
			text = cell.line(k)
		}

		contentW := w
		lined := t.opts.ColumnLines && i < len(widths)-1
		if lined {
			contentW = w - 1
		}
		full := formatter.Fit(text, contentW, cols[i].Align)

		cellStyle := style
		if cell != nil && cell.style != nil && style != nil {
			cellStyle = cell.style
		}
		if t.focus != nil && t.focus.Column == i && r.spec.Header && style != nil {
			fs := t.opts.Styles.Focus
			cellStyle = &fs
		}

		var b strings.Builder
		b.WriteString(paint(cut(full, from, min(to, contentW)), cellStyle))
		if lined && to == w {
			sepStyle := style
			if sepStyle != nil {
				s := t.opts.Styles.Separator.Background(style.GetBackground())
				sepStyle = &s
			}
			b.WriteString(paint(columnLine, sepStyle))
		}
		segs = append(segs, segment{start: int(vis.Start), text: b.String()})
	}
	sort.Slice(segs, func(a, b int) bool { return segs[a].start < segs[b].start })
	return segs
}

func paint(s string, style *lipgloss.Style) string {
	if style == nil || s == "" {
		return s
	}
	return style.Render(s)
}

// join lays segments out on one line, filling gaps with spaces.
func join(segs []segment) string {
	var b strings.Builder
	pos := 0
	for _, s := range segs {
		if s.start > pos {
			b.WriteString(strings.Repeat(" ", s.start-pos))
			pos = s.start
		}
		b.WriteString(s.text)
		pos += lipgloss.Width(s.text)
	}
	return b.String()
}

// cut returns display cells [from, to) of s. Wide runes split by a boundary
// become spaces.
func cut(s string, from, to int) string {
	if to <= from {
		return ""
	}
	var b strings.Builder
	pos := 0
	for _, r := range s {
		if pos >= to {
			break
		}
		w := runewidth.RuneWidth(r)
		switch {
		case pos >= from && pos+w <= to:
			b.WriteRune(r)
		case pos+w > from:
			for i := max(pos, from); i < min(pos+w, to); i++ {
				b.WriteByte(' ')
			}
		}
		pos += w
	}
	if pos < to {
		b.WriteString(strings.Repeat(" ", to-max(pos, from)))
	}
	return b.String()
}
