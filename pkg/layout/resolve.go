package layout

import "math"

// Context is the space offered to a table by its surrounding layout, plus the
// per-column information the host collected before this pass.
type Context struct {
	// AvailableWidth is the width offered by the parent layout.
	AvailableWidth float64
	// FillHorizontal makes the table expand to AvailableWidth through its fill columns.
	FillHorizontal bool
	// Measured holds the content width of each column from the host's measurement
	// pass, index aligned with the columns. Missing, negative or NaN entries mean the
	// measurement is not available yet.
	Measured []float64
	// Previous holds the widths the caller remembered from the last pass. They are
	// the fallback for initial and non-filling fill columns.
	Previous []float64
}

// Result is the outcome of Resolve.
type Result struct {
	// Widths has one entry per column.
	Widths []float64
	// TableWidth is the sum of Widths.
	TableWidth float64
	// Pinned marks fill columns that were clamped to one of their bounds.
	Pinned []bool
	// Iterations is the number of redistribution rounds used for fill columns.
	Iterations int
}

// Resolve computes the width of every column.
//
// Exact, initial and auto columns get their own width clamped to their bounds. When
// ctx.FillHorizontal is set, the space left over by those columns is split between
// the fill columns proportionally to their weights; a column whose share falls outside
// its bounds is pinned to the bound and the remainder is split again among the others.
// Resolve never fails: inconsistent column definitions are clamped.
func Resolve(cols []Column, ctx Context) Result {
	res := Result{
		Widths: make([]float64, len(cols)),
		Pinned: make([]bool, len(cols)),
	}

	var fill []int
	static := 0.0
	for i, c := range cols {
		if c.IsFill() {
			fill = append(fill, i)
			continue
		}
		w := baseWidth(c, i, ctx)
		res.Widths[i] = w
		static += w
	}

	if len(fill) > 0 {
		avail := nonNegative(ctx.AvailableWidth)
		if ctx.FillHorizontal && !math.IsInf(avail, 1) {
			res.Iterations = distribute(cols, fill, avail-static, res.Widths, res.Pinned)
		} else {
			for _, i := range fill {
				res.Widths[i] = fallbackWidth(cols[i], i, ctx)
			}
		}
	}

	for _, w := range res.Widths {
		res.TableWidth += w
	}
	return res
}

func baseWidth(c Column, i int, ctx Context) float64 {
	switch c.Mode {
	case ModeExact:
		return c.Clamp(c.Width)
	case ModeInitial:
		if w, ok := lookup(ctx.Previous, i); ok {
			return c.Clamp(w)
		}
		return c.Clamp(c.Width)
	default:
		if w, ok := lookup(ctx.Measured, i); ok {
			return c.Clamp(w)
		}
		if w, ok := lookup(ctx.Previous, i); ok {
			return c.Clamp(w)
		}
		lo, _ := c.Bounds()
		return lo
	}
}

func fallbackWidth(c Column, i int, ctx Context) float64 {
	if w, ok := lookup(ctx.Previous, i); ok {
		return c.Clamp(w)
	}
	if c.Width > 0 {
		return c.Clamp(c.Width)
	}
	lo, _ := c.Bounds()
	return lo
}

// distribute splits budget among the fill columns. Each round computes the
// proportional shares of the still active columns. If clamping the shares would need
// more space than the budget has, the columns below their minimum are pinned; if it
// would free space, the columns above their maximum are pinned. Pinned columns leave
// the pool and the rest of the budget is split again. Once pins use up the budget,
// the columns still active are pinned to their minimum. Every round pins at least one
// column, so the loop ends after at most len(fill) rounds.
func distribute(cols []Column, fill []int, budget float64, widths []float64, pinned []bool) int {
	if !(budget > 0) {
		for _, i := range fill {
			widths[i], _ = cols[i].Bounds()
			pinned[i] = true
		}
		return 0
	}

	active := append([]int(nil), fill...)
	remaining := budget
	rounds := 0
	for len(active) > 0 {
		rounds++
		if remaining <= 0 {
			for _, i := range active {
				widths[i], _ = cols[i].Bounds()
				pinned[i] = true
			}
			break
		}

		totalWeight := 0.0
		for _, i := range active {
			totalWeight += nonNegative(cols[i].Weight)
		}

		correction := 0.0
		violations := 0
		for _, i := range active {
			share := 0.0
			if totalWeight > 0 {
				share = remaining * nonNegative(cols[i].Weight) / totalWeight
			}
			widths[i] = share
			if clamped := cols[i].Clamp(share); clamped != share {
				correction += clamped - share
				violations++
			}
		}
		if violations == 0 {
			break
		}

		next := active[:0]
		for _, i := range active {
			share := widths[i]
			lo, hi := cols[i].Bounds()
			pinLow := share < lo && correction >= 0
			pinHigh := share > hi && correction <= 0
			if pinLow || pinHigh {
				widths[i] = clamp(share, lo, hi)
				pinned[i] = true
				remaining -= widths[i]
				continue
			}
			next = append(next, i)
		}
		active = next
	}
	return rounds
}

func lookup(values []float64, i int) (float64, bool) {
	if i < 0 || i >= len(values) {
		return 0, false
	}
	v := values[i]
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
