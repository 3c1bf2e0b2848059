package layout

// State is the per-table memory a caller keeps between layout passes. It holds the
// widths resolved last time and the adjustments made by the user. Resolve itself is
// stateless; feed State.Previous into Context.Previous and the columns returned by
// State.Columns into Resolve to carry a user's resizing over to the next pass.
type State struct {
	// Widths are the widths remembered from the last pass.
	Widths []float64
	// Weights overrides the fill weight of resized fill columns. Zero means no override.
	Weights []float64
	// Resized marks columns the user changed.
	Resized []bool
}

// Previous returns the remembered widths, suitable for Context.Previous.
func (s *State) Previous() []float64 {
	if s == nil {
		return nil
	}
	return s.Widths
}

// Remember stores the widths of a resolved pass.
func (s *State) Remember(r Result) {
	s.Widths = append(s.Widths[:0], r.Widths...)
	s.grow(len(r.Widths))
}

// Columns applies user adjustments to cols. Resized auto columns keep the width the
// user gave them instead of being measured again, and resized fill columns get a
// weight that reproduces their new width.
func (s *State) Columns(cols []Column) []Column {
	out := append([]Column(nil), cols...)
	if s == nil {
		return out
	}
	for i := range out {
		if i < len(s.Resized) && s.Resized[i] && out[i].Mode == ModeAuto {
			out[i].Mode = ModeInitial
		}
		if i < len(s.Weights) && s.Weights[i] > 0 && out[i].IsFill() {
			out[i].Weight = s.Weights[i]
		}
	}
	return out
}

// Resize changes the remembered width of column i by delta. It returns false when the
// column does not exist or cannot be resized, or when the width did not change.
// Exact columns keep their width.
func (s *State) Resize(i int, delta float64, cols []Column) bool {
	if i < 0 || i >= len(cols) || !cols[i].CanResize() {
		return false
	}
	s.grow(len(cols))
	cur := s.Widths[i]
	next := cols[i].Clamp(cur + delta)
	if next == cur {
		return false
	}
	s.Widths[i] = next
	s.Resized[i] = true

	if cols[i].IsFill() && cur > 0 {
		weight := cols[i].Weight
		if s.Weights[i] > 0 {
			weight = s.Weights[i]
		}
		s.Weights[i] = weight * next / cur
	}
	return true
}

// Reset forgets every remembered width and adjustment.
func (s *State) Reset() {
	s.Widths = nil
	s.Weights = nil
	s.Resized = nil
}

func (s *State) grow(n int) {
	for len(s.Widths) < n {
		s.Widths = append(s.Widths, 0)
	}
	for len(s.Weights) < n {
		s.Weights = append(s.Weights, 0)
	}
	for len(s.Resized) < n {
		s.Resized = append(s.Resized, false)
	}
}
