package table

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Row describes a row before its cells are added.
type Row struct {
	// Height in lines. Values below 1 become 1.
	Height int
	// Fixed rows stay inside the viewport while scrolling vertically.
	Fixed bool
	// Header rows use the header style and are not counted for striping.
	Header    bool
	Highlight bool
}

// NewRow returns a one line body row.
func NewRow() Row {
	return Row{Height: 1}
}

// NewHeader returns a fixed one line header row.
func NewHeader() Row {
	return Row{Height: 1, Fixed: true, Header: true}
}

// WithHeight sets the row height.
func (r Row) WithHeight(h int) Row {
	r.Height = h
	return r
}

// WithFixed keeps the row visible while scrolling.
func (r Row) WithFixed(f bool) Row {
	r.Fixed = f
	return r
}

// WithHighlight draws the row with the highlight style.
func (r Row) WithHighlight(h bool) Row {
	r.Highlight = h
	return r
}

// Body collects the rows of one frame.
type Body struct {
	columns int
	rows    []*rowRecord
	done    bool
}

type rowRecord struct {
	spec  Row
	cells []*Cell
}

func (r *rowRecord) texts() []string {
	out := make([]string, len(r.cells))
	for i, c := range r.cells {
		out[i] = c.text.String()
	}
	return out
}

// Row adds a row. fn adds the cells, left to right.
func (b *Body) Row(spec Row, fn func(*RowUI)) {
	if b.done {
		return
	}
	if spec.Height < 1 {
		spec.Height = 1
	}
	rec := &rowRecord{spec: spec}
	b.rows = append(b.rows, rec)
	if fn != nil {
		ui := &RowUI{body: b, rec: rec}
		fn(ui)
		ui.closed = true
	}
}

// Len returns the number of rows added so far.
func (b *Body) Len() int {
	return len(b.rows)
}

// RowUI adds cells to one row. It is only valid inside the Row callback.
type RowUI struct {
	body   *Body
	rec    *rowRecord
	closed bool
}

// Cell adds the next cell. Cells beyond the number of columns are dropped.
func (r *RowUI) Cell(fn func(*Cell)) {
	if r.closed || len(r.rec.cells) >= r.body.columns {
		return
	}
	c := &Cell{}
	r.rec.cells = append(r.rec.cells, c)
	if fn != nil {
		fn(c)
	}
	c.closed = true
}

// Label adds a cell holding s.
func (r *RowUI) Label(s string) {
	r.Cell(func(c *Cell) { c.Write(s) })
}

// Cell is the content of one table cell. It is only valid inside the Cell
// callback; writes after it returns are ignored.
type Cell struct {
	text   strings.Builder
	style  *lipgloss.Style
	closed bool
}

// Write appends s to the cell.
func (c *Cell) Write(s string) {
	if c.closed {
		return
	}
	c.text.WriteString(s)
}

// SetStyle overrides the row style for this cell.
func (c *Cell) SetStyle(s lipgloss.Style) {
	if c.closed {
		return
	}
	c.style = &s
}

// Width returns the widest line of the cell in terminal cells.
func (c *Cell) Width() int {
	w := 0
	for _, l := range strings.Split(c.text.String(), "\n") {
		w = max(w, lipgloss.Width(l))
	}
	return w
}

func (c *Cell) line(k int) string {
	lines := strings.Split(c.text.String(), "\n")
	if k < 0 || k >= len(lines) {
		return ""
	}
	return lines[k]
}

// measure returns the content width of every column. A column line takes one
// extra cell.
func (b *Body) measure(columnLines bool) []float64 {
	out := make([]float64, b.columns)
	for _, r := range b.rows {
		for i, c := range r.cells {
			out[i] = max(out[i], float64(c.Width()))
		}
	}
	if columnLines {
		for i := 0; i < b.columns-1; i++ {
			out[i]++
		}
	}
	return out
}
