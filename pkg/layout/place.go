package layout

import "math"

// Span is a one dimensional interval [Start, End).
type Span struct {
	Start float64
	End   float64
}

// Unbounded is a span covering the whole axis.
var Unbounded = Span{Start: math.Inf(-1), End: math.Inf(1)}

// Len returns the length of the span, or 0 if it is empty.
func (s Span) Len() float64 {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

// Empty reports whether the span contains nothing.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Contains reports whether x lies inside the span.
func (s Span) Contains(x float64) bool {
	return x >= s.Start && x < s.End
}

// Intersect returns the overlap of two spans. The result may be empty.
func (s Span) Intersect(o Span) Span {
	return Span{Start: math.Max(s.Start, o.Start), End: math.Min(s.End, o.End)}
}

// Pin tells where a fixed column or row ended up.
type Pin int

const (
	PinNone Pin = iota
	PinStart
	PinEnd
)

func (p Pin) String() string {
	switch p {
	case PinStart:
		return "start"
	case PinEnd:
		return "end"
	default:
		return "none"
	}
}

// ColumnPlacement is the horizontal position of one column.
type ColumnPlacement struct {
	X     float64
	Width float64
	Pin   Pin
}

// Visible returns the part of the column that can be drawn inside the viewport.
// Pinned columns are only clipped by the table viewport; the others are also clipped
// by the free viewport so that they slide underneath pinned columns.
func (p ColumnPlacement) Visible(l ColumnLayout) Span {
	s := Span{Start: p.X, End: p.X + p.Width}
	if p.Pin != PinNone {
		return s.Intersect(l.Clip)
	}
	return s.Intersect(l.FreeViewport)
}

// ColumnLayout is the horizontal layout of a table inside its viewport.
type ColumnLayout struct {
	Columns []ColumnPlacement
	// Table spans the full width of the table at its scrolled origin.
	Table Span
	// Clip is the part of the viewport covered by the table.
	Clip Span
	// FreeViewport is the part of Clip not taken by pinned columns.
	FreeViewport Span
}

// Place positions columns left to right starting at origin. The viewport is the
// visible part of the axis; origin moves left of it when the table is scrolled.
//
// Fixed columns that would scroll past the start of the free viewport stick to it,
// and fixed columns that would extend past its end stick to the end. Each stuck
// column shrinks the free viewport by its width.
func Place(widths []float64, cols []Column, origin float64, viewport Span) ColumnLayout {
	total := 0.0
	for _, w := range widths {
		total += nonNegative(w)
	}

	l := ColumnLayout{
		Columns: make([]ColumnPlacement, len(widths)),
		Table:   Span{Start: origin, End: origin + total},
	}
	l.Clip = viewport.Intersect(l.Table)
	if l.Clip.End < l.Clip.Start {
		l.Clip.End = l.Clip.Start
	}
	l.FreeViewport = l.Clip

	fixed := func(i int) bool {
		return i < len(cols) && cols[i].Fixed
	}

	pos := origin
	for i, w := range widths {
		w = nonNegative(w)
		p := ColumnPlacement{X: pos, Width: w}
		pos += w
		if fixed(i) && p.X <= l.FreeViewport.Start {
			p.X = l.FreeViewport.Start
			p.Pin = PinStart
			l.FreeViewport.Start += w
		}
		l.Columns[i] = p
	}

	for i := len(l.Columns) - 1; i >= 0; i-- {
		p := &l.Columns[i]
		if !fixed(i) || p.Pin != PinNone {
			continue
		}
		if p.X+p.Width >= l.FreeViewport.End {
			p.X = l.FreeViewport.End - p.Width
			p.Pin = PinEnd
			l.FreeViewport.End -= p.Width
		}
	}
	return l
}
