package layout

// RowPlacement is the vertical position of one row.
type RowPlacement struct {
	// Index is the position of the row in the order it was added.
	Index int
	// Y is where the row is drawn. Fixed rows may be moved away from the table flow.
	Y      float64
	Height float64
	// Clip is the visible part of the row. It is empty when the row is scrolled away.
	Clip Span
	Pin  Pin
}

// Visible reports whether any part of the row can be seen.
func (r RowPlacement) Visible() bool {
	return !r.Clip.Empty()
}

// FullyVisible reports whether the whole row can be seen.
func (r RowPlacement) FullyVisible() bool {
	return r.Clip.Len() >= r.Height
}

// RowFlow lays out rows top to bottom. Fixed rows stay inside the viewport when the
// table is scrolled: a fixed row that would scroll past the top sticks to the top of
// the free viewport, one below the bottom sticks to the bottom. Every stuck row shrinks
// the free viewport, which is the region where ordinary rows remain visible.
type RowFlow struct {
	cursor   float64
	viewport Span
	free     Span
	count    int
}

// NewRowFlow starts a row flow at origin inside viewport. The origin is above the
// viewport start when the table is scrolled down.
func NewRowFlow(origin float64, viewport Span) *RowFlow {
	return &RowFlow{
		cursor:   origin,
		viewport: viewport,
		free:     viewport,
	}
}

// Next places the next row.
func (f *RowFlow) Next(height float64, fixed bool) RowPlacement {
	height = nonNegative(height)
	p := RowPlacement{Index: f.count, Y: f.cursor, Height: height}

	if fixed {
		if p.Y <= f.free.Start {
			p.Y = f.free.Start
			p.Pin = PinStart
		} else if p.Y+height > f.free.End {
			p.Y = f.free.End - height
			p.Pin = PinEnd
		}
	}

	rect := Span{Start: p.Y, End: p.Y + height}
	if fixed {
		p.Clip = rect.Intersect(f.viewport)
	} else {
		p.Clip = rect.Intersect(f.free)
	}
	if p.Clip.End < p.Clip.Start {
		p.Clip.End = p.Clip.Start
	}

	if fixed {
		if f.cursor <= f.free.Start {
			f.free.Start += height
		}
		if f.cursor+height > f.free.End {
			f.free.End -= height
		}
	}
	f.cursor += height
	f.count++
	return p
}

// FreeViewport returns the region not covered by stuck rows.
func (f *RowFlow) FreeViewport() Span {
	return f.free
}

// Bottom returns the y position after the last row in table coordinates.
func (f *RowFlow) Bottom() float64 {
	return f.cursor
}

// Count returns the number of rows placed so far.
func (f *RowFlow) Count() int {
	return f.count
}
