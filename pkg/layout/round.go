package layout

import (
	"math"
	"sort"
)

// Round converts resolved widths into whole cells for character-grid hosts.
//
// Every width is first floored; the cells lost that way are handed back one at a
// time to the columns with the largest fractional parts, so the result sums to the
// rounded table width. A column never receives a cell that would take it above its
// maximum; when no column has room left the total stays short.
func Round(widths []float64, cols []Column) []int {
	out := make([]int, len(widths))
	if len(widths) == 0 {
		return out
	}

	type frac struct {
		idx  int
		part float64
	}
	parts := make([]frac, 0, len(widths))
	total := 0.0
	used := 0
	for i, w := range widths {
		w = nonNegative(w)
		if math.IsInf(w, 1) {
			w = 0
		}
		total += w
		f := math.Floor(w)
		out[i] = int(f)
		used += out[i]
		parts = append(parts, frac{idx: i, part: w - f})
	}

	deficit := int(math.Round(total)) - used
	if deficit <= 0 {
		return out
	}

	sort.SliceStable(parts, func(a, b int) bool {
		return parts[a].part > parts[b].part
	})
	for deficit > 0 {
		gave := false
		for _, p := range parts {
			if deficit == 0 {
				break
			}
			if p.idx < len(cols) {
				if _, hi := cols[p.idx].Bounds(); float64(out[p.idx]+1) > hi {
					continue
				}
			}
			out[p.idx]++
			deficit--
			gave = true
		}
		if !gave {
			break
		}
	}
	return out
}

// Sum adds integer widths.
func Sum(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w
	}
	return total
}
