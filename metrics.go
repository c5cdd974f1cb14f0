package textlayout

// FontMetrics holds the vertical extent of a font or a measured range,
// in pixels relative to the baseline. Ascent is negative (above the
// baseline), Descent positive (below), matching raster conventions, so
// that merging extents is a plain min/max.
type FontMetrics struct {
	Ascent  int
	Descent int
}

// Reset zeroes the metrics so a following Extend starts fresh.
func (m *FontMetrics) Reset() {
	m.Ascent = 0
	m.Descent = 0
}

// Extend merges other into m, keeping the most negative ascent and the
// largest descent. Extending zero metrics with themselves is a no-op.
func (m *FontMetrics) Extend(other FontMetrics) {
	if other.Ascent < m.Ascent {
		m.Ascent = other.Ascent
	}
	if other.Descent > m.Descent {
		m.Descent = other.Descent
	}
}

// Height returns the total extent, descent minus ascent.
func (m FontMetrics) Height() int {
	return m.Descent - m.Ascent
}
