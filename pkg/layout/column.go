// Package layout computes table geometry: column widths, column placement inside a
// scrolled viewport, and the vertical flow of fixed and scrolling rows.
//
// Everything in this package is a pure function of its inputs. The host UI toolkit
// measures content and draws; layout only does the arithmetic in between.
package layout

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how a column obtains its width.
type Mode int

const (
	// ModeAuto sizes the column to its measured content.
	ModeAuto Mode = iota
	// ModeExact uses a fixed width.
	ModeExact
	// ModeInitial uses a width the first time the table is shown; afterwards the
	// caller's remembered width wins.
	ModeInitial
	// ModeFill shares the leftover horizontal space with other fill columns,
	// proportionally to Weight.
	ModeFill
)

// String returns the lowercase name used in config files.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeExact:
		return "exact"
	case ModeInitial:
		return "initial"
	case ModeFill:
		return "fill"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a config name into a Mode. The empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "exact":
		return ModeExact, nil
	case "initial":
		return ModeInitial, nil
	case "fill", "fill_space", "fill-space":
		return ModeFill, nil
	default:
		return ModeAuto, fmt.Errorf("unknown column mode %q (expected auto, exact, initial or fill)", s)
	}
}

// Align is the horizontal placement of cell content.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ParseAlign converts a config name into an Align. The empty string is AlignLeft.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignLeft, fmt.Errorf("unknown alignment %q (expected left, center or right)", s)
	}
}

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Column describes one table column. A zero Column is an auto-sized column with no
// bounds. Columns are values; the With* methods return modified copies so they can be
// chained:
//
//	layout.Initial(30).WithMin(10).WithMax(50).WithResizable(true)
type Column struct {
	// Mode selects the sizing rule.
	Mode Mode
	// Width is the exact or initial width. For fill columns it is the width used
	// when the table does not fill the available space.
	Width float64
	// Min is the lower bound. Zero means unset.
	Min float64
	// Max is the upper bound. Zero, NaN or +Inf mean unbounded.
	Max float64
	// Weight is the fill share of a ModeFill column.
	Weight float64
	// Resizable allows the user to change the width unless the mode is exact. It has
	// no effect on Resolve.
	Resizable bool
	// Fixed keeps the column visible at the viewport edge while scrolling sideways.
	Fixed bool
	// Align places cell content inside the column.
	Align Align
}

// Auto returns a column sized to its content.
func Auto() Column {
	return Column{Mode: ModeAuto}
}

// Exact returns a column with exactly the given width. It is equivalent to an
// initial column bounded to [width, width] that cannot be resized.
func Exact(width float64) Column {
	return Column{Mode: ModeExact, Width: width, Min: width, Max: width}
}

// Initial returns a column that starts at width and may be changed afterwards.
func Initial(width float64) Column {
	return Column{Mode: ModeInitial, Width: width}
}

// Fill returns a column that takes weight shares of the leftover space.
func Fill(weight float64) Column {
	return Column{Mode: ModeFill, Weight: weight}
}

// WithMin sets the minimum width.
func (c Column) WithMin(w float64) Column {
	c.Min = w
	return c
}

// WithMax sets the maximum width.
func (c Column) WithMax(w float64) Column {
	c.Max = w
	return c
}

// WithInitialWidth sets the width used before any width has been remembered.
func (c Column) WithInitialWidth(w float64) Column {
	c.Width = w
	if c.Mode == ModeAuto {
		c.Mode = ModeInitial
	}
	return c
}

// WithFill turns the column into a fill column with the given weight.
func (c Column) WithFill(weight float64) Column {
	c.Mode = ModeFill
	c.Weight = weight
	return c
}

// WithResizable marks the column as user resizable.
func (c Column) WithResizable(r bool) Column {
	c.Resizable = r
	return c
}

// CanResize reports whether the user may change the width. Exact columns keep
// their width even when marked resizable.
func (c Column) CanResize() bool {
	return c.Resizable && c.Mode != ModeExact
}

// WithFixed keeps the column visible when the table scrolls horizontally.
func (c Column) WithFixed(f bool) Column {
	c.Fixed = f
	return c
}

// WithAlign sets the cell alignment.
func (c Column) WithAlign(a Align) Column {
	c.Align = a
	return c
}

// IsFill reports whether the column takes part in fill-space distribution.
func (c Column) IsFill() bool {
	return c.Mode == ModeFill
}

// IsAutoSized reports whether the column width comes from measured content.
func (c Column) IsAutoSized() bool {
	return c.Mode == ModeAuto
}

// Bounds returns the sanitised [lo, hi] interval of the column. Negative and NaN
// bounds become 0, an unset maximum becomes +Inf, and an inverted interval collapses
// onto the smaller bound.
func (c Column) Bounds() (lo, hi float64) {
	lo = nonNegative(c.Min)
	hi = c.Max
	if math.IsNaN(hi) || hi <= 0 {
		hi = math.Inf(1)
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// Clamp limits w to the column bounds.
func (c Column) Clamp(w float64) float64 {
	lo, hi := c.Bounds()
	return clamp(nonNegative(w), lo, hi)
}

// Normalize returns a copy with every numeric field sanitised the way Resolve
// interprets it.
func Normalize(c Column) Column {
	lo, hi := c.Bounds()
	c.Min = lo
	if math.IsInf(hi, 1) {
		c.Max = 0
	} else {
		c.Max = hi
	}
	c.Width = nonNegative(c.Width)
	c.Weight = nonNegative(c.Weight)
	return c
}

// Validate reports configuration mistakes that Resolve would silently clamp.
// It is meant for tools that load column definitions from files.
func Validate(cols []Column) error {
	var problems []string
	for i, c := range cols {
		if c.Min < 0 || math.IsNaN(c.Min) {
			problems = append(problems, fmt.Sprintf("column %d: min width %v is negative", i, c.Min))
		}
		if c.Max < 0 || math.IsNaN(c.Max) {
			problems = append(problems, fmt.Sprintf("column %d: max width %v is negative", i, c.Max))
		}
		if c.Max > 0 && c.Min > c.Max {
			problems = append(problems, fmt.Sprintf("column %d: min width %v exceeds max width %v", i, c.Min, c.Max))
		}
		if c.Width < 0 || math.IsNaN(c.Width) {
			problems = append(problems, fmt.Sprintf("column %d: width %v is negative", i, c.Width))
		}
		if c.Mode == ModeFill && !(c.Weight > 0) {
			problems = append(problems, fmt.Sprintf("column %d: fill weight %v must be positive", i, c.Weight))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid columns: %s", strings.Join(problems, "; "))
	}
	return nil
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
